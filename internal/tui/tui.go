// Package tui is the terminal front end and the synchronization loop.
// The server is authoritative for everything; this model only mirrors
// snapshots, gates what the player can reach for, and submits intents.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/worldshell/internal/api"
	"github.com/tatianab/worldshell/internal/session"
)

// The server is polled on a fixed cadence; transient failures rely on
// the next tick rather than any retry logic.
const pollPeriod = 2 * time.Second

type screen int

const (
	screenRoleSelect screen = iota
	screenGame
	screenGameOver
)

type roleChoice struct {
	code  string
	label string
	goal  string
}

var roleChoices = []roleChoice{
	{code: "H", label: "Keeper", goal: "Guard the diary until dawn, or catch the intruder."},
	{code: "Z", label: "Intruder", goal: "Find the diary and slip out of the apartment."},
}

type model struct {
	client  *api.Client
	session *session.Session
	logger  *slog.Logger

	screen screen
	width  int
	height int

	// role selection
	roleCursor   int
	useAI        bool
	joinInFlight bool

	// polling. pollGen is the poll handle: ticks and responses carry
	// the generation they were issued under, and anything from an old
	// generation is discarded on arrival. Bumping the counter is the
	// cancellation.
	pollGen      int
	pollInFlight bool

	// game state, fully replaced by each snapshot
	snapshot       *api.Snapshot
	catalog        *api.Catalog
	actionCursor   int
	viewport       viewport.Model
	ready          bool
	notice         string
	submitInFlight bool

	// game over
	winner          string
	confirmRestart  bool
	restartInFlight bool
}

// NewModel builds the initial model in the pre-join role-select state.
func NewModel(client *api.Client, sess *session.Session, logger *slog.Logger) model {
	return model{
		client:   client,
		session:  sess,
		logger:   logger,
		screen:   screenRoleSelect,
		viewport: viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

type tickMsg struct {
	gen int
}

type joinedMsg struct {
	role       string
	aiOpponent bool
}

type joinFailedMsg struct {
	err error
}

type snapshotMsg struct {
	gen  int
	snap *api.Snapshot
	err  error
}

type catalogMsg struct {
	gen int
	cat *api.Catalog
	err error
}

type actionDoneMsg struct {
	err error
}

type endTurnDoneMsg struct {
	err error
}

type restartDoneMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = logWidth(msg.Width)
		m.viewport.Height = max(msg.Height-14, 5)
		m.ready = true
		if m.snapshot != nil {
			m.viewport.SetContent(renderHistory(m.snapshot.History, m.viewport.Width))
			m.viewport.GotoBottom()
		}
		return m, nil

	case joinedMsg:
		return m.updateJoined(msg)

	case joinFailedMsg:
		m.joinInFlight = false
		m.notice = msg.err.Error()
		return m, nil

	case tickMsg:
		return m.updateTick(msg)

	case snapshotMsg:
		return m.updateSnapshot(msg)

	case catalogMsg:
		return m.updateCatalog(msg)

	case actionDoneMsg:
		return m.updateSubmitDone(msg.err)

	case endTurnDoneMsg:
		return m.updateSubmitDone(msg.err)

	case restartDoneMsg:
		return m.updateRestartDone(msg)
	}

	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenRoleSelect:
		return m.updateRoleSelectKey(msg)
	case screenGame:
		return m.updateGameKey(msg)
	case screenGameOver:
		return m.updateGameOverKey(msg)
	}
	return m, nil
}

func (m model) updateRoleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.roleCursor > 0 {
			m.roleCursor--
		}
	case "down", "j":
		if m.roleCursor < len(roleChoices)-1 {
			m.roleCursor++
		}
	case "tab", "a":
		m.useAI = !m.useAI
	case "enter":
		if m.joinInFlight {
			return m, nil
		}
		m.joinInFlight = true
		m.notice = ""
		return m, m.join(roleChoices[m.roleCursor].code, m.useAI)
	}
	return m, nil
}

func (m model) updateGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.actionCursor > 0 {
			m.actionCursor--
		}
	case "down", "j":
		if m.actionCursor < len(m.actionItems())-1 {
			m.actionCursor++
		}
	case "enter":
		return m.submitSelected()
	case "e":
		return m.submitEndTurn()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateGameOverKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmRestart {
		switch msg.String() {
		case "y":
			m.confirmRestart = false
			if m.restartInFlight {
				return m, nil
			}
			m.restartInFlight = true
			m.notice = ""
			// Re-cancel of the poll handle is idempotent; terminal
			// detection already bumped the generation once.
			m.pollGen++
			return m, m.restart()
		case "n", "esc":
			m.confirmRestart = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.confirmRestart = true
	}
	return m, nil
}

// updateJoined enters the polling phase: one immediate snapshot fetch,
// then the recurring tick.
func (m model) updateJoined(msg joinedMsg) (tea.Model, tea.Cmd) {
	m.joinInFlight = false
	if !m.session.BeginPolling(msg.role, msg.aiOpponent) {
		m.logger.Warn("join confirmed but session already active", "role", msg.role)
		return m, nil
	}
	m.logger.Info("joined game", "role", msg.role, "ai_opponent", msg.aiOpponent, "game_id", m.session.GameID)

	m.screen = screenGame
	m.notice = ""
	m.pollGen++
	m.pollInFlight = true
	return m, tea.Batch(m.fetchSnapshot(m.pollGen), pollTick(m.pollGen))
}

// updateTick re-arms the timer and starts the next poll cycle. A tick
// from a cancelled generation dies here, and a tick that fires while a
// snapshot request is still outstanding skips the fetch so slow
// networks never stack concurrent polls.
func (m model) updateTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.pollGen || m.screen != screenGame {
		return m, nil
	}
	cmds := []tea.Cmd{pollTick(m.pollGen)}
	if !m.pollInFlight {
		m.pollInFlight = true
		cmds = append(cmds, m.fetchSnapshot(m.pollGen))
	}
	return m, tea.Batch(cmds...)
}

func (m model) updateSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.pollGen {
		m.logger.Debug("discarding stale snapshot", "gen", msg.gen, "current", m.pollGen)
		return m, nil
	}
	m.pollInFlight = false

	// Errors never kill the loop; the next tick retries.
	if msg.err != nil {
		m.logger.Error("snapshot fetch failed", "error", msg.err)
		return m, nil
	}

	snap := msg.snap
	m.snapshot = snap
	m.viewport.SetContent(renderHistory(snap.History, m.viewport.Width))
	m.viewport.GotoBottom()

	if snap.GameOver {
		m.pollGen++ // cancel the poll handle
		m.session.Terminate()
		m.winner = snap.Winner
		m.screen = screenGameOver
		m.catalog = nil
		m.logger.Info("game over", "winner", snap.Winner)
		return m, nil
	}

	if snap.IsYourTurn {
		// Refresh the catalog every cycle; legality shifts as AP is
		// spent within the turn.
		return m, m.fetchCatalog(m.pollGen)
	}
	m.catalog = nil
	m.actionCursor = 0
	return m, nil
}

func (m model) updateCatalog(msg catalogMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.pollGen {
		return m, nil
	}
	if m.snapshot == nil || !m.snapshot.IsYourTurn {
		return m, nil
	}
	if msg.err != nil {
		m.logger.Error("catalog fetch failed", "error", msg.err)
		return m, nil
	}
	m.catalog = msg.cat
	if n := len(m.actionItems()); m.actionCursor >= n {
		m.actionCursor = max(n-1, 0)
	}
	return m, nil
}

// updateSubmitDone finishes a user-initiated action or end-turn. On
// failure the server's reason is shown and nothing else changes; on
// success an out-of-cycle poll shortens the wait for the consequence.
func (m model) updateSubmitDone(err error) (tea.Model, tea.Cmd) {
	m.submitInFlight = false
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	// No out-of-cycle poll once the loop is gone (terminal snapshot
	// raced the submission) or while a scheduled one is outstanding.
	if m.screen != screenGame || m.pollInFlight {
		return m, nil
	}
	m.pollInFlight = true
	return m, m.fetchSnapshot(m.pollGen)
}

func (m model) updateRestartDone(msg restartDoneMsg) (tea.Model, tea.Cmd) {
	m.restartInFlight = false
	if msg.err != nil {
		m.notice = msg.err.Error()
		return m, nil
	}
	if !m.session.Reset() {
		m.logger.Warn("restart confirmed outside terminal phase", "phase", m.session.Phase())
	}
	m.logger.Info("session restarted", "game_id", m.session.GameID)

	m.screen = screenRoleSelect
	m.snapshot = nil
	m.catalog = nil
	m.actionCursor = 0
	m.winner = ""
	m.notice = ""
	m.useAI = false
	return m, nil
}

// actionItems flattens the catalog into the selectable menu, no-target
// group first. Index order must match renderActions.
func (m model) actionItems() []api.Action {
	if m.catalog == nil {
		return nil
	}
	items := make([]api.Action, 0, len(m.catalog.NoTarget)+len(m.catalog.WithTarget))
	items = append(items, m.catalog.NoTarget...)
	items = append(items, m.catalog.WithTarget...)
	return items
}

// submitSelected dispatches the selected descriptor through the single
// submission path, with whatever target and extra the server declared.
// The gate here is advisory; the server stays the arbiter of legality.
func (m model) submitSelected() (tea.Model, tea.Cmd) {
	if m.submitInFlight || m.snapshot == nil || !m.snapshot.IsYourTurn {
		return m, nil
	}
	items := m.actionItems()
	if m.actionCursor >= len(items) {
		return m, nil
	}
	action := items[m.actionCursor]
	m.submitInFlight = true
	return m, m.executeAction(action)
}

func (m model) submitEndTurn() (tea.Model, tea.Cmd) {
	if m.submitInFlight || m.snapshot == nil || !m.snapshot.IsYourTurn {
		return m, nil
	}
	m.submitInFlight = true
	return m, m.endTurn()
}

func pollTick(gen int) tea.Cmd {
	return tea.Tick(pollPeriod, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m model) join(role string, useAI bool) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Join(context.Background(), role, useAI)
		if err != nil {
			return joinFailedMsg{err}
		}
		granted := res.Role
		if granted == "" {
			granted = role
		}
		return joinedMsg{role: granted, aiOpponent: res.AIOpponent}
	}
}

func (m model) fetchSnapshot(gen int) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.client.State(context.Background())
		return snapshotMsg{gen: gen, snap: snap, err: err}
	}
}

func (m model) fetchCatalog(gen int) tea.Cmd {
	return func() tea.Msg {
		cat, err := m.client.Actions(context.Background())
		return catalogMsg{gen: gen, cat: cat, err: err}
	}
}

func (m model) executeAction(action api.Action) tea.Cmd {
	return func() tea.Msg {
		err := m.client.Execute(context.Background(), action.Name, action.Target, action.Extra)
		return actionDoneMsg{err}
	}
}

func (m model) endTurn() tea.Cmd {
	return func() tea.Msg {
		return endTurnDoneMsg{m.client.EndTurn(context.Background())}
	}
}

func (m model) restart() tea.Cmd {
	return func() tea.Msg {
		return restartDoneMsg{m.client.Restart(context.Background())}
	}
}

func logWidth(total int) int {
	w := int(float64(total) * 0.65)
	if w < 20 {
		w = 20
	}
	return w
}

// Run starts the TUI and blocks until the player quits.
func Run(client *api.Client, sess *session.Session, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(client, sess, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
