package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/bronze/internal/chronicle"
	"github.com/tatianab/bronze/internal/command"
	"github.com/tatianab/bronze/internal/engine"
	"github.com/tatianab/bronze/internal/models"
)

// AutosaveSlot is written after every closed turn and read back at startup.
const AutosaveSlot = "current"

const narrateTimeout = 30 * time.Second

type sessionState int

const (
	statePlaying sessionState = iota
	stateGameOver
)

type model struct {
	state      sessionState
	engine     *engine.Engine
	ledger     *models.Ledger
	parser     *command.Parser
	store      *models.Store
	chronicler chronicle.Chronicler
	logger     *slog.Logger
	difficulty engine.Difficulty

	textInput textinput.Model
	viewport  viewport.Model
	width     int
	height    int

	status    string
	showHelp  bool
	chronicle []string
	outcome   *models.Outcome
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	chronicleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D7AF87")).
			Italic(true)

	severityStyles = map[models.Severity]lipgloss.Style{
		models.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		models.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")),
		models.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
		models.SeverityDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
	}

	victoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")).Bold(true)
	defeatStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
)

// NewModel resumes the autosave when it holds a game in progress and
// otherwise starts a new game at difficulty d.
func NewModel(eng *engine.Engine, store *models.Store, chron chronicle.Chronicler, d engine.Difficulty, logger *slog.Logger) (model, error) {
	if chron == nil {
		chron = chronicle.Plain{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Placeholder = "harvest, build granary, end, help..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 60

	m := model{
		engine:     eng,
		parser:     command.New(),
		store:      store,
		chronicler: chron,
		logger:     logger.With("component", "tui"),
		difficulty: d,
		textInput:  ti,
		viewport:   viewport.New(80, 20),
	}

	l, err := store.Load(AutosaveSlot)
	switch {
	case err == nil && engine.CheckEndCondition(l) == nil:
		m.ledger = l
		m.status = fmt.Sprintf("Resumed game on turn %d.", l.Turn)
	case err != nil && !errors.Is(err, models.ErrNoSave):
		m.logger.Warn("could not read autosave, starting fresh", "error", err)
		fallthrough
	default:
		l, err := eng.NewGame(engine.GameConfig{Difficulty: d})
		if err != nil {
			return model{}, err
		}
		m.ledger = l
	}
	m.refresh()
	return m, nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type chronicleMsg struct {
	game string
	turn int
	text string
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.autosave()
			return m, tea.Quit

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.Reset()
			return m.handle(m.parser.Parse(input))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.65)
		m.viewport.Height = msg.Height - 7
		m.refresh()

	case chronicleMsg:
		if msg.game != m.ledger.ID {
			m.logger.Debug("dropping narration of another game", "game", msg.game, "turn", msg.turn)
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("chronicle failed", "turn", msg.turn, "error", msg.err)
			return m, nil
		}
		m.chronicle = append(m.chronicle, fmt.Sprintf("Turn %d: %s", msg.turn, msg.text))
		m.refresh()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) handle(c command.Command) (tea.Model, tea.Cmd) {
	m.status = ""
	m.showHelp = false
	var next tea.Cmd

	if m.state == stateGameOver {
		switch c.Kind {
		case command.NewGame, command.Load, command.ListSaves, command.Help, command.Quit:
		default:
			m.status = "The game is over. Type 'new' to play again or 'load <name>'."
			return m, nil
		}
	}

	switch c.Kind {
	case command.Action:
		res := m.engine.PerformAction(m.ledger, c.Action, c.Args...)
		if res.Success && c.Fuzzy {
			m.status = fmt.Sprintf("(read %q as %s)", c.Raw, c.Action)
		}

	case command.Choose:
		m.engine.ResolvePendingChoice(m.ledger, c.Arg(0))

	case command.EndTurn:
		if res := m.engine.EndTurn(m.ledger); res.Success {
			m.autosave()
			if s, ok := m.ledger.LastSummary(); ok {
				next = m.narrate(s.Clone())
			}
		}

	case command.NewGame:
		d := m.difficulty
		if arg := c.Arg(0); arg != "" {
			parsed, err := engine.ParseDifficulty(arg)
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			d = parsed
		}
		l, err := m.engine.NewGame(engine.GameConfig{Difficulty: d})
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.switchGame(l)
		m.difficulty = d
		m.autosave()

	case command.Save:
		name := slotName(c)
		if err := m.store.Save(name, m.ledger); err != nil {
			m.status = "Save failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Saved to %q.", name)
		}

	case command.Load:
		name := slotName(c)
		l, err := m.store.Load(name)
		if err != nil {
			m.status = "Load failed: " + err.Error()
			return m, nil
		}
		m.switchGame(l)
		if d, err := engine.ParseDifficulty(l.Difficulty); err == nil {
			m.difficulty = d
		}
		m.status = fmt.Sprintf("Loaded %q, turn %d.", name, l.Turn)

	case command.ListSaves:
		saves, err := m.store.List()
		switch {
		case err != nil:
			m.status = "Could not list saves: " + err.Error()
		case len(saves) == 0:
			m.status = "No saved games."
		default:
			m.status = "Saves: " + strings.Join(saves, ", ")
		}

	case command.Help:
		m.showHelp = true

	case command.Quit:
		m.autosave()
		return m, tea.Quit

	default:
		m.status = fmt.Sprintf("Unknown command %q. Type 'help' for the list.", c.Raw)
		if c.Suggestion != "" {
			m.status = fmt.Sprintf("Unknown command %q. Did you mean %q?", c.Raw, c.Suggestion)
		}
	}

	if out := engine.CheckEndCondition(m.ledger); out != nil && m.state == statePlaying {
		m.state = stateGameOver
		m.outcome = out
		m.logger.Info("game over", "id", m.ledger.ID, "turn", m.ledger.Turn, "outcome", out.Type, "reason", out.Reason)
	}
	m.refresh()
	return m, next
}

// switchGame makes l the current game and forgets the previous one's chronicle.
func (m *model) switchGame(l *models.Ledger) {
	m.ledger = l
	m.chronicle = nil
	m.chronicler.Reset()
	m.outcome = nil
	m.state = statePlaying
}

func slotName(c command.Command) string {
	if name := c.Arg(0); name != "" {
		return name
	}
	return AutosaveSlot
}

func (m *model) autosave() {
	if m.ledger == nil {
		return
	}
	if err := m.store.Save(AutosaveSlot, m.ledger); err != nil {
		m.logger.Error("autosave failed", "error", err)
	}
}

func (m model) narrate(s models.TurnSummary) tea.Cmd {
	chron := m.chronicler
	game := m.ledger.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), narrateTimeout)
		defer cancel()
		text, err := chron.Narrate(ctx, s)
		return chronicleMsg{game: game, turn: s.Turn, text: text, err: err}
	}
}

func (m *model) refresh() {
	if m.showHelp {
		m.viewport.SetContent(command.HelpText())
		m.viewport.GotoTop()
		return
	}
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)

	status := m.status
	if m.state == stateGameOver && m.outcome != nil {
		style := defeatStyle
		if m.outcome.Victory() {
			style = victoryStyle
		}
		status = style.Render(engine.Describe(*m.outcome)) + "  " + status
	}

	help := helpStyle.Render("One free action (harvest) and one paid action per turn, then 'end'. Type 'help' for commands, Esc to quit.")

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		status,
		"\n"+m.textInput.View(),
		help,
	) + "\n"
}

func (m model) renderLog() string {
	width := m.viewport.Width
	var b strings.Builder
	for _, e := range m.ledger.Log {
		style, ok := severityStyles[e.Severity]
		if !ok {
			style = severityStyles[models.SeverityInfo]
		}
		b.WriteString(style.Width(width).Render(e.Message))
		b.WriteString("\n")
	}
	if len(m.chronicle) > 0 {
		b.WriteString("\n" + userStyle.Render("CHRONICLE") + "\n")
		for _, c := range m.chronicle {
			b.WriteString(chronicleStyle.Width(width).Render(c) + "\n\n")
		}
	}
	return b.String()
}

func (m model) renderState() string {
	l := m.ledger
	var b strings.Builder

	b.WriteString(titleStyle.Render("REIGN") + "\n")
	fmt.Fprintf(&b, "Turn %d of %d (%s)\n", min(l.Turn, l.MaxTurns), l.MaxTurns, l.Difficulty)
	fmt.Fprintf(&b, "Free action: %s\nPaid action: %s\n\n", used(l.FreeActionUsed), used(l.PaidActionUsed))

	b.WriteString(titleStyle.Render("RESOURCES") + "\n")
	fmt.Fprintf(&b, "Grain:  %d\nTimber: %d\nBronze: %d\n\n", l.Resources.Grain, l.Resources.Timber, l.Resources.Bronze)

	b.WriteString(titleStyle.Render("REALM") + "\n")
	fmt.Fprintf(&b, "Military:  %d\nStability: %d\nPrestige:  %d\nCollapse:  %d\n\n",
		l.Metrics.Military, l.Metrics.Stability, l.Metrics.Prestige, l.Metrics.Collapse)

	b.WriteString(titleStyle.Render("WORKS") + "\n")
	var owned []string
	for _, a := range engine.Catalog() {
		if a.Owned(l) {
			owned = append(owned, "- "+a.Unlock)
		}
	}
	if len(owned) == 0 {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(strings.Join(owned, "\n") + "\n")
	}

	if pc := l.PendingChoice; pc != nil {
		b.WriteString("\n" + titleStyle.Render("DECISION") + "\n")
		fmt.Fprintf(&b, "%s\na) %s: %s\nb) %s: %s\n", pc.Description, pc.A.Label, pc.A.Effect, pc.B.Label, pc.B.Effect)
	}

	stateWidth := int(float64(m.width) * 0.33)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func used(b bool) string {
	if b {
		return "used"
	}
	return "available"
}

func Run(eng *engine.Engine, store *models.Store, chron chronicle.Chronicler, d engine.Difficulty, logger *slog.Logger) error {
	m, err := NewModel(eng, store, chron, d, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
