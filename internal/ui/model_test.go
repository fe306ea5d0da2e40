package ui

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blastview/internal/config"
	"blastview/internal/domain"
	"blastview/internal/eventbus"
	"blastview/internal/selection"
)

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+l":
			msg = tea.KeyMsg{Type: tea.KeyCtrlL}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func testResult() *domain.Result {
	return &domain.Result{
		Source: "report.xml",
		Iterations: []domain.Iteration{
			{Num: 1, QueryDef: "hemoglobin alpha", QueryLen: 12, Hits: []domain.Hit{
				{Num: 1, Accession: "P69905", Def: "Hemoglobin subunit alpha", HSPs: []domain.HSP{
					{Num: 1, EValue: 1e-60, QueryFrom: 1, QueryTo: 4, HitFrom: 1, HitTo: 4, QSeq: "MVLS", HSeq: "MVLS", Midline: "MVLS", AlignLen: 4, Identity: 4},
					{Num: 2, EValue: 1e-5, QueryFrom: 7, QueryTo: 9, HitFrom: 20, HitTo: 22, QSeq: "KTN", HSeq: "KSN", Midline: "K N", AlignLen: 3, Identity: 2},
				}},
				{Num: 2, Accession: "P01942", Def: "Hemoglobin subunit alpha, mouse", HSPs: []domain.HSP{
					{Num: 1, EValue: 1e-40, QueryFrom: 2, QueryTo: 6, HitFrom: 2, HitTo: 6, QSeq: "VLSPA", HSeq: "VLSGA", Midline: "VLS A", AlignLen: 5, Identity: 4},
				}},
			}},
			{Num: 2, QueryDef: "hemoglobin alpha", QueryLen: 12, Hits: []domain.Hit{
				{Num: 1, Accession: "P69905", Def: "Hemoglobin subunit alpha", HSPs: []domain.HSP{
					{Num: 1, EValue: 1e-62, QueryFrom: 1, QueryTo: 4, HitFrom: 1, HitTo: 4, QSeq: "MVLS", HSeq: "MVLS", Midline: "MVLS", AlignLen: 4, Identity: 4},
				}},
				{Num: 2, Accession: "Q9XXX1", Def: "Globin", HSPs: []domain.HSP{
					{Num: 1, EValue: 1e-3, QueryFrom: 3, QueryTo: 6, HitFrom: 3, HitTo: 6, QSeq: "LSPA", HSeq: "LTPA", Midline: "L PA", AlignLen: 4, Identity: 3},
				}},
			}},
		},
	}
}

func newTestModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	m := NewModel(nil, config.DefaultConfig(), opts...)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 44})
	m.Update(EventMsg{Event: eventbus.ResultLoadedEvent{Result: testResult()}})
	return m
}

func TestResultLoadedFillsViews(t *testing.T) {
	m := newTestModel(t)

	assert.Len(t, m.hits.Rows(), 3)
	assert.Len(t, m.grid.Layout().Rows, 5, "query, consensus and three HSP rows")
	require.NotNil(t, m.tree.Root())
	assert.Len(t, m.tree.Root().Children, 2)

	view := m.View()
	assert.Contains(t, view, "blastview")
	assert.Contains(t, view, "report.xml")
	assert.Contains(t, view, "iteration 1/2")
}

func TestSelectionFollowsAcrossViews(t *testing.T) {
	m := newTestModel(t)

	press(m, "down")

	assert.Equal(t, []int{1}, m.hits.Selected())
	assert.Equal(t, []int{3}, m.grid.Selected())
	require.Len(t, m.tree.Selected(), 1)
	assert.Equal(t, 2, m.tree.Selected()[0].HSPNum)
	cur, ok := m.detail.Current()
	require.True(t, ok)
	assert.Equal(t, "P69905", cur.Hit.Accession)
	assert.Equal(t, 2, cur.HSP.Num)
	assert.Equal(t, []selection.HitKey{"P69905_2"}, m.memory.keys)
	assert.Equal(t, uint64(1), m.selBus.Stats().Published)
}

func TestFocusedViewDrivesSelection(t *testing.T) {
	m := newTestModel(t)
	press(m, "down")

	press(m, "tab")
	assert.Equal(t, paneMSA, m.focus)
	assert.Equal(t, 3, m.grid.Cursor(), "the grid cursor followed the selection")

	press(m, "down")
	assert.Equal(t, []int{4}, m.grid.Selected())
	assert.Equal(t, []int{2}, m.hits.Selected())

	press(m, "shift+tab")
	assert.Equal(t, paneHits, m.focus)
}

func TestDetailStepsThroughHit(t *testing.T) {
	m := newTestModel(t)
	press(m, "tab", "tab", "tab")
	require.Equal(t, paneDetail, m.focus)

	m.hits.SetSelection([]int{0})
	press(m, "n")

	assert.Equal(t, []int{1}, m.hits.Selected())
	assert.Equal(t, []selection.HitKey{"P69905_2"}, m.memory.keys)
}

func TestMultiSelectionClearsDetail(t *testing.T) {
	m := newTestModel(t)

	press(m, "down", "J")

	assert.Equal(t, []int{1, 2}, m.hits.Selected())
	assert.Equal(t, []int{3, 4}, m.grid.Selected())
	_, ok := m.detail.Current()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "2 selected")
}

func TestIterationSwitchReplaysSelection(t *testing.T) {
	m := newTestModel(t)
	press(m, "down", "up")
	require.Equal(t, []selection.HitKey{"P69905_1"}, m.memory.keys)

	press(m, "]")
	assert.Equal(t, 1, m.iteration)
	assert.Len(t, m.hits.Rows(), 2)
	assert.Equal(t, []int{0}, m.hits.Selected(), "P69905_1 exists in both iterations")
	assert.Equal(t, []int{2}, m.grid.Selected())
	cur, ok := m.detail.Current()
	require.True(t, ok)
	assert.Equal(t, 1e-62, cur.HSP.EValue, "the detail view shows the new iteration's HSP")
}

func TestIterationSwitchDropsMissingKeys(t *testing.T) {
	m := newTestModel(t)
	press(m, "down")
	require.Equal(t, []selection.HitKey{"P69905_2"}, m.memory.keys)

	press(m, "]")
	assert.Empty(t, m.hits.Selected())
	assert.Empty(t, m.grid.Selected())
	assert.Empty(t, m.tree.Selected())
	_, ok := m.detail.Current()
	assert.False(t, ok)

	press(m, "[")
	assert.Equal(t, 0, m.iteration)
	assert.Equal(t, []int{1}, m.hits.Selected(), "the selection comes back with its rows")

	press(m, "[")
	assert.Equal(t, 0, m.iteration, "no iteration before the first")
}

func TestFilterNarrowsHitTable(t *testing.T) {
	m := newTestModel(t)
	press(m, "down", "down")
	require.Equal(t, []selection.HitKey{"P01942_1"}, m.memory.keys)

	press(m, "/")
	require.True(t, m.filtering)
	press(m, "P01942", "enter")
	assert.False(t, m.filtering)

	require.Len(t, m.hits.Rows(), 1)
	assert.Equal(t, []int{0}, m.hits.Selected(), "the selected HSP is row 0 of the filtered table")
	assert.Equal(t, []int{4}, m.grid.Selected(), "other views keep their data")
	assert.Contains(t, m.View(), "[Filter: P01942]")

	press(m, "ctrl+l")
	assert.Len(t, m.hits.Rows(), 3)
	assert.Equal(t, []int{2}, m.hits.Selected())
}

func TestFilteredOutSelectionIsSilent(t *testing.T) {
	m := newTestModel(t)
	press(m, "down", "up")

	press(m, "/", "P01942", "enter")
	assert.Empty(t, m.hits.Selected())
	assert.Equal(t, []int{2}, m.grid.Selected(), "the hidden row stays selected elsewhere")
	assert.Equal(t, []selection.HitKey{"P69905_1"}, m.memory.keys)
}

func TestFilterEscCancels(t *testing.T) {
	m := newTestModel(t)
	press(m, "/", "zzz", "esc")
	assert.False(t, m.filtering)
	assert.Len(t, m.hits.Rows(), 3)
}

func TestListenerFailureDoesNotBreakWindow(t *testing.T) {
	var buf bytes.Buffer
	m := NewModel(nil, config.DefaultConfig(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 44})
	m.Load(testResult())

	m.SelectionBus().Subscribe(&panicky{id: selection.NewViewID("broken")})
	press(m, "down")

	assert.Equal(t, []int{3}, m.grid.Selected())
	assert.Equal(t, uint64(1), m.selBus.Stats().Failed)
	assert.Contains(t, buf.String(), "listener failed")
	assert.Contains(t, m.View(), "1 listener failures")
}

type panicky struct{ id selection.ViewID }

func (p *panicky) ViewID() selection.ViewID { return p.id }

func (p *panicky) OnSelectionChanged(selection.Event) error { panic("broken view") }

func TestWithIteration(t *testing.T) {
	m := newTestModel(t, WithIteration(1))
	assert.Equal(t, 1, m.iteration)
	assert.Len(t, m.hits.Rows(), 2)

	m = newTestModel(t, WithIteration(7))
	assert.Equal(t, 0, m.iteration, "out of range falls back to the first iteration")
}

func TestDomainEvents(t *testing.T) {
	m := NewModel(nil, config.DefaultConfig(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	_, cmd := m.Update(EventMsg{Event: eventbus.LoadStartedEvent{Path: "big.xml", Seq: 1}})
	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Reading report")

	_, cmd = m.Update(EventMsg{Event: eventbus.ErrorEvent{Message: "Failed to load big.xml", Err: errors.New("unexpected EOF"), Seq: 1}})
	assert.NotNil(t, cmd)
	assert.False(t, m.loading)
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.View(), "unexpected EOF")

	m.Update(clearStatusMsg{})
	assert.Empty(t, m.status)
}

func TestLateLoadStartedIsIgnored(t *testing.T) {
	m := NewModel(nil, config.DefaultConfig(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	m.Update(EventMsg{Event: eventbus.ResultLoadedEvent{Result: testResult(), Seq: 1}})
	m.Update(EventMsg{Event: eventbus.LoadStartedEvent{Path: "report.xml", Seq: 1}})
	assert.False(t, m.loading)

	m.Update(EventMsg{Event: eventbus.LoadStartedEvent{Path: "report.xml", Seq: 2}})
	assert.True(t, m.loading, "a reload is a new load")
}

func TestOpenAlignmentWithoutPager(t *testing.T) {
	m := newTestModel(t)
	press(m, "down", "tab", "tab", "tab", "enter")
	assert.Equal(t, "Pager disabled", m.status)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
