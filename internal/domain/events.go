package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventLoadRequested EventType = "LoadRequested"
	EventLoadStarted   EventType = "LoadStarted"
	EventResultLoaded  EventType = "ResultLoaded"
	EventError         EventType = "Error"
	EventConfigSaved   EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// LoadRequestedEvent asks the loader to read a BLAST report
type LoadRequestedEvent struct {
	Path string
}

func (e LoadRequestedEvent) Type() EventType { return EventLoadRequested }

// LoadStartedEvent is emitted when the loader begins reading a report.
// Seq numbers loads so that events of one load can be told apart from a
// later one; handlers may see them out of order.
type LoadStartedEvent struct {
	Path string
	Seq  uint64
}

func (e LoadStartedEvent) Type() EventType { return EventLoadStarted }

// ResultLoadedEvent is emitted when a report has been parsed.
// It is produced on a worker goroutine; the UI must take it over on its own
// goroutine before rebuilding any view index.
type ResultLoadedEvent struct {
	Result *Result
	Seq    uint64
}

func (e ResultLoadedEvent) Type() EventType { return EventResultLoaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
	Seq     uint64 // load that failed, zero for other errors
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
