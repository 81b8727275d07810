package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/worldshell/internal/api"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	yourTurnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#5FAF5F")).
			Bold(true).
			Padding(0, 1)

	waitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Italic(true).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	narrationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	actorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

func (m model) View() string {
	var s string

	switch m.screen {
	case screenRoleSelect:
		s = m.viewRoleSelect()
	case screenGame:
		s = m.viewGame()
	case screenGameOver:
		s = m.viewGameOver()
	}

	return "\n" + s + "\n"
}

func (m model) viewRoleSelect() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("WORLDSHELL: The Keeper & The Thief"))
	b.WriteString("\n\nChoose your role:\n\n")

	for i, choice := range roleChoices {
		cursor := "  "
		line := fmt.Sprintf("%s (%s) — %s", choice.label, choice.code, choice.goal)
		if i == m.roleCursor {
			cursor = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	opponent := "another player"
	if m.useAI {
		opponent = "AI opponent"
	}
	b.WriteString(fmt.Sprintf("\nOpponent: %s (press tab to switch)\n", opponent))

	if m.joinInFlight {
		b.WriteString("\nJoining...\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("up/down select · tab opponent mode · enter join · q quit"))
	return b.String()
}

func (m model) viewGame() string {
	if m.snapshot == nil || !m.ready {
		return "\n  Waiting for the first update from the server...\n"
	}

	logView := m.viewport.View()
	sideView := m.renderStatus()
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, logView, sideView)

	room := roomStyle.Width(logWidth(m.width)).Render(m.snapshot.RoomView)

	sections := []string{
		m.renderTurnIndicator(),
		mainView,
		"",
		room,
		"",
		m.renderActions(),
	}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	sections = append(sections, helpStyle.Render(m.gameHelp()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) gameHelp() string {
	if m.snapshot.IsYourTurn {
		return "up/down select · enter do it · e end turn · pgup/pgdn log · ctrl+c quit"
	}
	return "pgup/pgdn log · ctrl+c quit"
}

func (m model) renderTurnIndicator() string {
	if m.snapshot.IsYourTurn {
		return yourTurnStyle.Render("Your turn")
	}
	return waitingStyle.Render(fmt.Sprintf("Waiting for %s to act...", m.snapshot.CurrentTurn))
}

func (m model) renderStatus() string {
	snap := m.snapshot
	status := snap.PlayerStatus

	header := titleStyle.Render("STATUS") + "\n"
	lines := fmt.Sprintf(
		"Role: %s\nTurn: %d\nActing: %s\nLocation: %s\nAP: %d/%d\nState: %s\n\n",
		roleLabel(snap.Role), snap.TurnCount, snap.CurrentTurn,
		status.Location, status.AP, status.MaxAP, status.State,
	)

	invTitle := titleStyle.Render("INVENTORY") + "\n"
	inventory := ""
	if len(status.Inventory) == 0 {
		inventory = "(empty)"
	} else {
		for _, item := range status.Inventory {
			inventory += "- " + item + "\n"
		}
	}

	sideWidth := max(m.width-logWidth(m.width)-4, 16)
	return sidebarStyle.Width(sideWidth).Height(m.viewport.Height).Render(header + lines + invTitle + inventory)
}

// renderHistory rebuilds the whole log from the snapshot's sequence.
// There is deliberately no diffing or appending: the rendered log is a
// pure function of the server-reported history, in server order.
func renderHistory(entries []api.HistoryEntry, width int) string {
	if width <= 0 {
		width = 60
	}
	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if entry.IsSystem() {
			b.WriteString(narrationStyle.Width(width).Render(entry.Result))
			continue
		}
		b.WriteString(actorStyle.Width(width).Render(entry.Player + ": " + entry.Action))
		b.WriteString("\n")
		b.WriteString(resultStyle.Width(width).Render(entry.Result))
	}
	return b.String()
}

func (m model) renderActions() string {
	if !m.snapshot.IsYourTurn {
		return waitingStyle.Render(fmt.Sprintf("Waiting for %s's turn to finish...", m.snapshot.CurrentTurn))
	}
	if m.catalog == nil {
		return waitingStyle.Render("Fetching available actions...")
	}

	var b strings.Builder
	index := 0
	writeGroup := func(title string, actions []api.Action) {
		if len(actions) == 0 {
			return
		}
		b.WriteString(titleStyle.Render(title) + "\n")
		for _, action := range actions {
			label := action.Label
			if action.APCost > 0 {
				label = fmt.Sprintf("%s (AP: %d)", label, action.APCost)
			}
			if index == m.actionCursor {
				b.WriteString(cursorStyle.Render("> "+label) + "\n")
			} else {
				b.WriteString("  " + label + "\n")
			}
			index++
		}
	}

	writeGroup("BASIC ACTIONS", m.catalog.NoTarget)
	writeGroup("ITEMS & SURROUNDINGS", m.catalog.WithTarget)
	if index == 0 {
		return waitingStyle.Render("Nothing to do here.")
	}
	return b.String()
}

func (m model) viewGameOver() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME OVER") + "\n\n")
	b.WriteString(gameOverMessage(m.winner, m.session.Role) + "\n")

	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	if m.restartInFlight {
		b.WriteString("\nRestarting...\n")
	}
	if m.confirmRestart {
		b.WriteString("\n" + noticeStyle.Render("Restart the game? Current progress will be lost. (y/n)"))
	} else {
		b.WriteString("\n" + helpStyle.Render("r restart · q quit"))
	}
	return b.String()
}

func gameOverMessage(winner, role string) string {
	if winner == "" {
		return "The game has ended."
	}
	if winner == role {
		return "You win!"
	}
	return fmt.Sprintf("%s wins.", roleLabel(winner))
}

func roleLabel(code string) string {
	switch code {
	case "H":
		return "Keeper (H)"
	case "Z":
		return "Intruder (Z)"
	default:
		return code
	}
}
