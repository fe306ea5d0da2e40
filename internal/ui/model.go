package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blastview/internal/config"
	"blastview/internal/domain"
	"blastview/internal/eventbus"
	"blastview/internal/filter"
	"blastview/internal/msa"
	"blastview/internal/selection"
	"blastview/internal/tree"
	"blastview/internal/ui/adapters"
	"blastview/internal/ui/views"
	"blastview/internal/ui/widgets"
)

type pane int

const (
	paneHits pane = iota
	paneMSA
	paneTree
	paneDetail
	paneCount
)

func (p pane) title() string {
	switch p {
	case paneHits:
		return "Hits"
	case paneMSA:
		return "Alignment"
	case paneTree:
		return "Tree"
	case paneDetail:
		return "HSP"
	}
	return ""
}

// windowSelection remembers the last selection published in the window so
// it can be replayed onto the views after their data is swapped.
type windowSelection struct {
	id   selection.ViewID
	keys []selection.HitKey
}

func (w *windowSelection) ViewID() selection.ViewID { return w.id }

func (w *windowSelection) OnSelectionChanged(ev selection.Event) error {
	w.keys = append([]selection.HitKey(nil), ev.Keys...)
	return nil
}

// Model is one result window. All of its views share one selection bus and
// run on the Bubble Tea goroutine.
type Model struct {
	bus      eventbus.EventBus
	config   *config.Config
	log      *slog.Logger
	selBus   *selection.Bus
	memory   *windowSelection
	styles   *views.Styles
	renderer *views.Renderer
	keys     keyMap
	help     help.Model

	filterInput textinput.Model
	filtering   bool
	matcher     filter.Matcher

	path           string
	result         *domain.Result
	iteration      int
	startIteration int
	loading        bool
	finishedLoad   uint64 // highest load sequence that has completed

	hits   *widgets.HitTable
	grid   *widgets.RowHeader
	tree   *widgets.TreeView
	detail *widgets.DetailView

	hitsSync   *adapters.HitTable
	gridSync   *adapters.RowHeader // nil when the MSA is not synced
	treeSync   *adapters.Tree      // nil when the tree is not synced
	detailSync *adapters.Detail

	focus         pane
	width         int
	height        int
	status        string
	statusIsError bool
	inPagerMode   bool

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// Option configures a Model
type Option func(*Model)

// WithLogger sets the window logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithIteration selects the iteration shown when a result arrives
func WithIteration(i int) Option {
	return func(m *Model) {
		m.startIteration = i
	}
}

// NewModel creates a new result window
func NewModel(bus eventbus.EventBus, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &Model{
		bus:    bus,
		config: cfg,
		log:    slog.Default(),
		styles: views.NewStyles(),
		keys:   newKeyMap(),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.renderer = views.NewRenderer(m.styles)

	m.filterInput = textinput.New()
	m.filterInput.Prompt = "/"
	m.filterInput.Placeholder = "accession or description"
	m.filterInput.CharLimit = 64
	m.matcher = filter.New("", cfg.Filter.MaxDistance)

	m.selBus = selection.NewBus(selection.WithLogger(m.log))
	m.memory = &windowSelection{id: selection.NewViewID("window")}
	m.selBus.Subscribe(m.memory)

	m.hits = widgets.NewHitTable(m.styles)
	m.grid = widgets.NewRowHeader(m.styles)
	m.tree = widgets.NewTreeView(m.styles)
	m.detail = widgets.NewDetailView(m.styles)

	m.hitsSync = adapters.NewHitTable(m.selBus, m.hits, m.adapterOptions()...)
	if cfg.Selection.SyncMSA {
		m.gridSync = adapters.NewRowHeader(m.selBus, m.grid, m.adapterOptions()...)
	}
	if cfg.Selection.SyncTree {
		m.treeSync = adapters.NewTree(m.selBus, m.tree, m.adapterOptions()...)
	}
	detailOpts := m.adapterOptions()
	if cfg.Selection.DetailSingleValued {
		detailOpts = append(detailOpts, selection.SingleValued())
	}
	m.detailSync = adapters.NewDetail(m.selBus, m.detail, detailOpts...)

	m.setFocus(paneHits)
	return m
}

func (m *Model) adapterOptions() []selection.AdapterOption {
	opts := []selection.AdapterOption{selection.WithAdapterLogger(m.log)}
	if !m.config.UI.ScrollToSelection {
		opts = append(opts, selection.WithoutScroll())
	}
	return opts
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// SelectionBus returns the window's selection bus
func (m *Model) SelectionBus() *selection.Bus {
	return m.selBus
}

// Load shows result in the window. It must run on the UI goroutine.
func (m *Model) Load(result *domain.Result) {
	m.result = result
	if result != nil && result.Source != "" {
		m.path = result.Source
	}
	m.iteration = 0
	if result != nil && m.startIteration >= 0 && m.startIteration < len(result.Iterations) {
		m.iteration = m.startIteration
	}
	m.loadIteration()
}

// loadIteration swaps the data of every view to the current iteration,
// rebuilds their indexes and replays the window selection onto them.
func (m *Model) loadIteration() {
	it := m.result.Iteration(m.iteration)
	if it == nil {
		it = &domain.Iteration{}
	}
	refs := it.HSPRefs()
	layout := msa.Build(it)
	root := tree.Build(it)

	m.hitsSync.Load(m.matcher.Apply(it))
	if m.gridSync != nil {
		m.gridSync.Load(layout)
	} else {
		m.grid.SetLayout(layout)
	}
	if m.treeSync != nil {
		m.treeSync.Load(root)
	} else {
		m.tree.SetRoot(root)
	}
	m.detailSync.Load(refs)

	m.log.Debug("ui: iteration loaded", "iteration", m.iteration, "hsps", len(refs))
	m.resync()
}

// resync republishes the remembered selection so views whose data changed
// pick it up again. Keys the new data lacks are dropped by each view.
func (m *Model) resync() {
	if len(m.memory.keys) == 0 {
		return
	}
	m.selBus.Publish(selection.Event{Source: m.memory.id, Keys: m.memory.keys})
}

func (m *Model) switchIteration(delta int) {
	if m.result == nil {
		return
	}
	next := m.iteration + delta
	if next < 0 || next >= len(m.result.Iterations) {
		return
	}
	m.iteration = next
	m.loadIteration()
}

func (m *Model) setFilter(query string) {
	m.matcher = filter.New(query, m.config.Filter.MaxDistance)
	if m.result == nil {
		return
	}
	it := m.result.Iteration(m.iteration)
	if it == nil {
		return
	}
	m.hitsSync.Load(m.matcher.Apply(it))
	m.resync()
}

func (m *Model) setFocus(p pane) {
	m.focus = p
	if p == paneHits {
		m.hits.Focus()
	} else {
		m.hits.Blur()
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		return m.handleEvent(msg.Event)

	case tickMsg:
		if m.loading && !m.inPagerMode {
			return m, tick()
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.log.Warn("ui: pager failed", "what", msg.what, "err", msg.err)
			return m, m.setStatus(fmt.Sprintf("Could not open %s: %v", msg.what, msg.err), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.status = ""
		m.statusIsError = false
		return m, nil
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEnter:
			m.filtering = false
			m.filterInput.Blur()
			m.setFilter(m.filterInput.Value())
			m.layout()
			return m, nil
		case tea.KeyEsc:
			m.filtering = false
			m.filterInput.Blur()
			m.layout()
			return m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.PagerHelp):
		return m, m.showInPager("help", m.renderer.RenderHelpContent())
	case key.Matches(msg, m.keys.NextPane):
		m.setFocus((m.focus + 1) % paneCount)
	case key.Matches(msg, m.keys.PrevPane):
		m.setFocus((m.focus + paneCount - 1) % paneCount)
	case key.Matches(msg, m.keys.NextIteration):
		m.switchIteration(1)
	case key.Matches(msg, m.keys.PrevIteration):
		m.switchIteration(-1)
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(m.matcher.Query)
		m.filterInput.CursorEnd()
		m.layout()
		return m, m.filterInput.Focus()
	case key.Matches(msg, m.keys.ClearFilter):
		m.setFilter("")
	case key.Matches(msg, m.keys.Reload):
		if m.bus != nil && m.path != "" {
			m.bus.Publish(eventbus.LoadRequestedEvent{Path: m.path})
		}
	case key.Matches(msg, m.keys.Open) && m.focus == paneDetail:
		if ref, ok := m.detail.Current(); ok {
			return m, m.showInPager("alignment", widgets.AlignmentText(ref, 0))
		}
	default:
		m.updateFocused(msg)
	}
	return m, nil
}

// updateFocused routes a key to the focused view. Any selection change it
// causes reaches the other views through the selection bus before this
// returns.
func (m *Model) updateFocused(msg tea.KeyMsg) {
	switch m.focus {
	case paneHits:
		m.hits.Update(msg)
	case paneMSA:
		m.grid.Update(msg)
	case paneTree:
		m.tree.Update(msg)
	case paneDetail:
		m.detail.Update(msg)
	}
}

func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case eventbus.LoadStartedEvent:
		if e.Seq != 0 && e.Seq <= m.finishedLoad {
			return m, nil
		}
		m.loading = true
		m.path = e.Path
		return m, tick()

	case eventbus.ResultLoadedEvent:
		m.finishLoad(e.Seq)
		m.Load(e.Result)
		return m, nil

	case eventbus.ErrorEvent:
		if e.Seq != 0 {
			m.finishLoad(e.Seq)
		}
		m.log.Error("ui: domain error", "message", e.Message, "err", e.Err)
		msg := e.Message
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return m, m.setStatus(msg, true)

	case eventbus.ConfigSavedEvent:
		return m, m.setStatus("Configuration saved", false)
	}
	return m, nil
}

func (m *Model) finishLoad(seq uint64) {
	m.loading = false
	if seq > m.finishedLoad {
		m.finishedLoad = seq
	}
}

func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	m.status = msg
	m.statusIsError = isError
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// showInPager returns a command that pages content with ov
func (m *Model) showInPager(what, content string) tea.Cmd {
	if !m.config.UI.Pager || m.program == nil {
		return m.setStatus("Pager disabled", false)
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.Show(content)
		m.program.Send(resumeRenderingMsg{})
		return pagerMsg{what: what, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// layout sizes every view to the current window
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	extra := lipgloss.Height(m.help.View(m.keys))
	if m.filtering {
		extra++
	}
	w, h := views.PaneSize(m.width, m.height, extra)
	m.hits.SetSize(w, h)
	m.grid.SetSize(w, h)
	m.tree.SetSize(w, h)
	m.detail.SetSize(w, h)
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Source:        m.path,
		Iteration:     m.iteration,
		Loading:       m.loading,
		FilterQuery:   m.matcher.Query,
		StatusMessage: m.status,
		StatusIsError: m.statusIsError,
		Selected:      len(m.memory.keys),
		HelpView:      m.help.View(m.keys),
	}
	if m.result != nil {
		state.Iterations = len(m.result.Iterations)
		if it := m.result.Iteration(m.iteration); it != nil {
			state.QueryDef = it.QueryDef
		}
	}
	if m.filtering {
		state.FilterInput = m.styles.Filter.Render(m.filterInput.View())
	}
	stats := m.selBus.Stats()
	state.Published = stats.Published
	state.Failed = stats.Failed

	bodies := []string{m.hits.View(), m.grid.View(), m.tree.View(), m.detail.View()}
	for p := paneHits; p < paneCount; p++ {
		state.Panes = append(state.Panes, views.Pane{
			Title:   p.title(),
			Body:    bodies[p],
			Focused: p == m.focus,
		})
	}
	return m.renderer.Render(state)
}
