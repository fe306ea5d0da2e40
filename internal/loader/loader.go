package loader

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"blastview/internal/blastxml"
	"blastview/internal/domain"
	"blastview/internal/eventbus"
)

// ErrBusy is returned when a load is already running
var ErrBusy = errors.New("load already in progress")

// LoaderService reads BLAST reports off the UI goroutine
type LoaderService interface {
	Load(path string) error
	Wait()
}

// ReadFunc parses the report at path
type ReadFunc func(path string) (*domain.Result, error)

type loaderService struct {
	bus     eventbus.EventBus
	read    ReadFunc
	log     *slog.Logger
	mu      sync.Mutex
	loading bool
	seq     uint64
	wg      sync.WaitGroup
}

// Option configures the loader
type Option func(*loaderService)

// WithLogger sets the loader logger
func WithLogger(l *slog.Logger) Option {
	return func(s *loaderService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithReader replaces the BLAST XML reader
func WithReader(read ReadFunc) Option {
	return func(s *loaderService) {
		if read != nil {
			s.read = read
		}
	}
}

// NewLoaderService creates a loader that answers LoadRequested events
func NewLoaderService(bus eventbus.EventBus, opts ...Option) LoaderService {
	s := &loaderService{
		bus:  bus,
		read: blastxml.ReadFile,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	bus.Subscribe(eventbus.EventLoadRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.LoadRequestedEvent); ok {
			if err := s.Load(event.Path); err != nil {
				s.bus.Publish(eventbus.ErrorEvent{Message: "Load of " + event.Path + " ignored", Err: err})
			}
		}
	})

	return s
}

// Load parses path in the background. The result arrives as a
// ResultLoaded event, failures as an Error event.
func (s *loaderService) Load(path string) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.bus.Publish(eventbus.LoadStartedEvent{Path: path, Seq: seq})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}()

		start := time.Now()
		result, err := s.read(path)
		if err != nil {
			s.log.Error("loader: read failed", "path", path, "err", err)
			s.bus.Publish(eventbus.ErrorEvent{Message: "Failed to load " + path, Err: err, Seq: seq})
			return
		}
		s.log.Info("loader: report loaded",
			"path", path,
			"iterations", len(result.Iterations),
			"elapsed", time.Since(start))
		s.bus.Publish(eventbus.ResultLoadedEvent{Result: result, Seq: seq})
	}()

	return nil
}

// Wait blocks until the running load has finished
func (s *loaderService) Wait() {
	s.wg.Wait()
}
