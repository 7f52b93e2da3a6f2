// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type keeps a status bar (who is logged in, the active view,
// filters and the latest notification) and an input prompt at the bottom
// of the terminal. Pages and messages are printed above the rendered
// area via Program.Println, so concurrent writes never garble the display.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/engine"
	"github.com/hammamikhairi/pocketchef/internal/view"
)

// Compile-time interface checks.
var (
	_ engine.Renderer = (*UI)(nil)
	_ domain.Notifier = (*UI)(nil)
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	guestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	navStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	navActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	toastUrgentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// toastTTL is how long a notification stays in the status bar.
const toastTTL = 5 * time.Second

// StatusFunc reports what the status bar should show.
type StatusFunc func() engine.Status

// toast is the latest notification shown in the status bar.
type toast struct {
	text    string
	urgent  bool
	expires time.Time
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call [UI.Render], [UI.Notify], [UI.Println] and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	status  StatusFunc
	done    atomic.Bool
	width   atomic.Int64

	mu    sync.Mutex
	toast toast
}

// NewUI creates the display. Call Run() to start.
func NewUI(status StatusFunc) *UI {
	return &UI{
		status:  status,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe. If the program
// hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// Render prints a page into the scrollback.
func (u *UI) Render(p view.Page) {
	u.Println(strings.TrimRight(view.Text(p, u.columns()), "\n"))
}

// Notify shows a message in the status bar and the scrollback.
func (u *UI) Notify(ctx context.Context, message string) error {
	u.setToast(message, false)
	u.Println(noticeStyle.Render("  ✔ " + message))
	return nil
}

// NotifyUrgent shows an error in the status bar and the scrollback.
func (u *UI) NotifyUrgent(ctx context.Context, message string) error {
	u.setToast(message, true)
	u.Println(urgentOutputStyle.Render("  ✖ " + message))
	return nil
}

// PrintHint prints a secondary, dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("chef") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(maskSecrets(text)))
}

func (u *UI) setToast(text string, urgent bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toast = toast{text: text, urgent: urgent, expires: time.Now().Add(toastTTL)}
}

func (u *UI) currentToast(now time.Time) (toast, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.toast.text == "" || now.After(u.toast.expires) {
		return toast{}, false
	}
	return u.toast, true
}

func (u *UI) columns() int {
	if w := int(u.width.Load()); w > 0 {
		return w
	}
	return termWidth()
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Plain-text prompt so the textinput width math stays correct;
	// styled prompts add ANSI bytes that break its offset calculations.
	ti.Prompt = "chef> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Placeholder = "type help for commands"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		ui:      u,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn:  u.PrintUserInput,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	ui      *UI
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	bar     barState
	width   int
}

// barState is the status bar content captured on the last tick.
type barState struct {
	status   engine.Status
	toast    toast
	hasToast bool
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
		tea.SetWindowTitle("Pocket Chef"),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Println is not called inside Update.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ui.width.Store(int64(msg.Width))
		const promptLen = 6 // "chef> "
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case tickMsg:
		m.refreshBar(time.Time(msg))
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refreshBar(now time.Time) {
	if m.ui.status != nil {
		m.bar.status = m.ui.status()
	}
	m.bar.toast, m.bar.hasToast = m.ui.currentToast(now)
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(renderBar(m.bar, m.width))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	return b.String()
}

// renderBar draws: user │ nav with the active view highlighted │
// filters │ latest toast.
func renderBar(s barState, width int) string {
	var parts []string

	if s.status.User != "" {
		parts = append(parts, userStyle.Render("● "+s.status.User))
	} else {
		parts = append(parts, guestStyle.Render("guest"))
	}

	var nav []string
	for _, v := range domain.Views {
		if v == s.status.View {
			nav = append(nav, navActiveStyle.Render(v.String()))
		} else {
			nav = append(nav, navStyle.Render(v.String()))
		}
	}
	parts = append(parts, strings.Join(nav, " "))

	if s.status.Filter != "" {
		parts = append(parts, s.status.Filter)
	}
	if s.hasToast {
		style := toastStyle
		if s.toast.urgent {
			style = toastUrgentStyle
		}
		parts = append(parts, style.Render(s.toast.text))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "
	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).MaxWidth(width).Render(content)
}

// maskSecrets hides passwords in echoed login and register commands.
func maskSecrets(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return line
	}
	switch strings.ToLower(fields[0]) {
	case "login", "register", "signup":
		for i := 2; i < len(fields); i++ {
			fields[i] = strings.Repeat("*", len(fields[i]))
		}
		return strings.Join(fields, " ")
	}
	return line
}
