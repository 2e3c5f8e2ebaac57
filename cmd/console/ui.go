package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/jwebster45206/word-battle/pkg/inventory"
	"github.com/jwebster45206/word-battle/pkg/question"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	Title       = "WORD BATTLE"
	hintPrefix  = "💡 Hint: "
	scoreFormat = "Word Battle score: %d"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	engine *battle.Engine
	logger *slog.Logger
	keys   keyMap
	help   help.Model

	feedback     string
	feedbackKind battle.EventType
	items        []inventory.Item
	showInv      bool
	selectedItem int
	lastScore    int

	width  int
	height int

	// copyScore writes to the system clipboard; swapped out in tests.
	copyScore func(string) error
}

// timerMsg carries an engine timer back into Update once its delay elapses.
type timerMsg struct {
	timer battle.Timer
}

type copiedMsg struct {
	score int
	err   error
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true).
			Padding(1, 0)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	playerBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	enemyBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	wrongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true).
				Padding(0, 1)
)

func NewConsoleUI(engine *battle.Engine, logger *slog.Logger) ConsoleUI {
	return ConsoleUI{
		engine:    engine,
		logger:    logger,
		keys:      defaultKeyMap(),
		help:      help.New(),
		feedback:  battle.MsgNotRunning,
		items:     inventory.Default(),
		copyScore: clipboard.WriteAll,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case timerMsg:
		return m.apply(m.engine.Fire(msg.timer))

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("Clipboard copy failed", "error", msg.err)
			m.setNotice("Could not copy score to the clipboard.")
		} else {
			m.setNotice(fmt.Sprintf("Copied score %d to the clipboard.", msg.score))
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Countable):
			return m.apply(m.engine.Submit(question.Countable))

		case key.Matches(msg, m.keys.Uncountable):
			return m.apply(m.engine.Submit(question.Uncountable))

		case key.Matches(msg, m.keys.Start):
			return m.apply(m.engine.Start())

		case key.Matches(msg, m.keys.Hint):
			if hint, ok := m.engine.Hint(); ok {
				m.setNotice(hintPrefix + hint)
			}

		case key.Matches(msg, m.keys.Inventory):
			m.showInv = !m.showInv
			m.keys.Prev.SetEnabled(m.showInv)
			m.keys.Next.SetEnabled(m.showInv)

		case key.Matches(msg, m.keys.Prev):
			if m.selectedItem > 0 {
				m.selectedItem--
			}

		case key.Matches(msg, m.keys.Next):
			if m.selectedItem < len(m.items)-1 {
				m.selectedItem++
			}

		case key.Matches(msg, m.keys.Copy):
			return m, m.copyLastScore()
		}
	}

	return m, nil
}

// apply folds an engine result into the view and schedules its timer.
func (m ConsoleUI) apply(res battle.Result) (tea.Model, tea.Cmd) {
	if res.Ignored {
		if res.Notice != "" {
			m.setNotice(res.Notice)
		}
		return m, nil
	}

	for _, ev := range res.Events {
		if ev.Type == battle.EventMatchEnded {
			m.lastScore = ev.Match.Score
		}
		if ev.Message == "" {
			continue
		}
		m.feedback = ev.Message
		m.feedbackKind = ev.Type
	}

	m.logger.Debug("Engine transition",
		"events", len(res.Events),
		"phase", m.engine.Snapshot().Phase)

	if res.Timer == nil {
		return m, nil
	}
	return m, scheduleTimer(*res.Timer)
}

func (m *ConsoleUI) setNotice(text string) {
	m.feedback = text
	m.feedbackKind = ""
}

func scheduleTimer(t battle.Timer) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return timerMsg{timer: t}
	})
}

func (m ConsoleUI) copyLastScore() tea.Cmd {
	score := m.lastScore
	if snap := m.engine.Snapshot(); snap.Running {
		score = snap.Score
	}
	write := m.copyScore
	return func() tea.Msg {
		return copiedMsg{score: score, err: write(fmt.Sprintf(scoreFormat, score))}
	}
}

func (m ConsoleUI) View() string {
	snap := m.engine.Snapshot()

	width := m.width - 8
	if width < 30 {
		width = 40
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(Title) + "\n\n")
	content.WriteString(labelStyle.Render("You   ") + healthBar(snap.PlayerHealth, playerBarStyle) + "\n")
	content.WriteString(labelStyle.Render("Enemy ") + healthBar(snap.EnemyHealth, enemyBarStyle) + "\n\n")
	content.WriteString(labelStyle.Render(fmt.Sprintf("Score: %d   Defeated: %d", snap.Score, snap.EnemiesDefeated)) + "\n")

	word := "..."
	if snap.Question != nil {
		word = cases.Title(language.English).String(snap.Question.Word)
	}
	content.WriteString(wordStyle.Render(word) + "\n")

	content.WriteString(feedbackStyle(m.feedbackKind).Render(wordwrap.String(m.feedback, width)) + "\n")

	if m.showInv {
		content.WriteString("\n" + m.renderInventory(width) + "\n")
	}

	content.WriteString("\n" + m.help.View(m.keys))

	return panelStyle.Render(content.String())
}

func (m ConsoleUI) renderInventory(width int) string {
	var row []string
	for i, item := range m.items {
		style := itemStyle
		if i == m.selectedItem {
			style = selectedItemStyle
		}
		row = append(row, style.Render(item.Label()))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Inventory") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
	if len(m.items) > 0 {
		b.WriteString(labelStyle.Render(wordwrap.String(m.items[m.selectedItem].Detail(), width)))
	}
	return b.String()
}

func feedbackStyle(kind battle.EventType) lipgloss.Style {
	switch kind {
	case battle.EventAnsweredCorrect, battle.EventEnemyDefeated, battle.EventEnemyRespawned:
		return correctStyle
	case battle.EventAnsweredWrong, battle.EventMatchEnded:
		return wrongStyle
	default:
		return noticeStyle
	}
}

// healthBar renders one block per point of health out of battle.MaxHealth.
func healthBar(hp int, style lipgloss.Style) string {
	if hp < 0 {
		hp = 0
	}
	if hp > battle.MaxHealth {
		hp = battle.MaxHealth
	}
	full := strings.Repeat("█", hp*4)
	empty := strings.Repeat("░", (battle.MaxHealth-hp)*4)
	return style.Render(full) + labelStyle.Render(empty) + fmt.Sprintf(" %d/%d", hp, battle.MaxHealth)
}
