package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redactyl/imgstrip/internal/clip"
	"github.com/redactyl/imgstrip/internal/imgenc"
	"github.com/redactyl/imgstrip/internal/pipeline"
	"github.com/redactyl/imgstrip/internal/report"
	"go.uber.org/zap"
)

var (
	paneBorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	focusedBorderStyle = paneBorderStyle.
				BorderForeground(lipgloss.Color("208"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	copiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

const defaultHint = "ctrl+e: extract | tab: focus | c: copy item | y: copy cleaned | h: history | o: encode image | ?: help"

type focusArea int

const (
	focusInput focusArea = iota
	focusItems
	focusOutput
)

// Options wires the model to its collaborators. Nil fields get defaults.
type Options struct {
	Extractor *pipeline.Extractor
	Clipboard clip.Writer
	Logger    *zap.Logger
	Encoder   imgenc.Encoder
	Input     string // initial textarea content
	Prefs     Prefs
	SavePrefs func(Prefs) error
}

// Model represents the main state of the TUI application.
type Model struct {
	input     textarea.Model
	table     table.Model
	viewport  viewport.Model
	spinner   spinner.Model
	pathInput textinput.Model

	extractor *pipeline.Extractor
	clipboard clip.Writer
	log       *zap.Logger
	encoder   imgenc.Encoder
	prefs     Prefs
	savePrefs func(Prefs) error
	paths     map[string][]string // payload -> pointers of the latest run

	encoded       string // data URL of the last encoded image
	encodedCopied bool
	showEncoded   bool

	focus            focusArea
	ready            bool // Indicates if terminal dimensions are known
	quitting         bool
	encoding         bool // True while an image file is being read
	showHistory      bool
	showHelp         bool
	pathMode         bool // True when the image path prompt is active
	historySelection int
	height           int
	width            int

	statusMessage string
	statusTimeout *time.Time // When to clear status message

	runSeq int // bumped on every extraction
}

// NewModel initializes a new TUI model.
func NewModel(opts Options) Model {
	ex := opts.Extractor
	if ex == nil {
		ex = pipeline.New(pipeline.Options{Logger: opts.Logger})
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = clip.System{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	in := textarea.New()
	in.Placeholder = `Paste JSON here, e.g. {"src": "/9j/..."}`
	in.ShowLineNumbers = false
	in.CharLimit = 0
	in.MaxHeight = 0
	in.MaxWidth = 0
	in.SetValue(opts.Input)
	in.Focus()

	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Fingerprint", Width: 18},
		{Title: "Hits", Width: 5},
		{Title: "Preview", Width: 40},
		{Title: "Status", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(5),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)

	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)

	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)

	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "path/to/image.jpg"
	ti.CharLimit = 4096
	ti.Width = 50
	ti.Prompt = "image: "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	return Model{
		input:         in,
		table:         t,
		spinner:       sp,
		pathInput:     ti,
		extractor:     ex,
		clipboard:     cb,
		log:           log,
		encoder:       opts.Encoder,
		prefs:         opts.Prefs,
		savePrefs:     opts.SavePrefs,
		focus:         focusInput,
		statusMessage: defaultHint,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// runExtraction feeds the textarea through the extractor and refreshes every
// view of its results.
func (m *Model) runExtraction() {
	m.runSeq++
	out := m.extractor.Run(m.input.Value())
	m.paths = report.GroupPaths(out.Matches)
	m.showEncoded = false
	m.rebuildTableRows()
	m.table.SetCursor(0)
	if out.Status.State == pipeline.Success && len(out.Items) > 0 && m.focus == focusInput {
		m.setFocus(focusItems)
	}
	m.updateViewportContent()
}

func (m *Model) rebuildTableRows() {
	items := m.extractor.Items()
	rows := make([]table.Row, len(items))
	for i, it := range items {
		status := ""
		if it.Copied {
			status = "copied"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", it.ID),
			report.Fingerprint(it.Value),
			fmt.Sprintf("%d", len(m.paths[it.Value])),
			report.MaskValue(it.Value),
			status,
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	if f == focusItems {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	m.updateViewportContent()
}

func (m *Model) selectedItem() (pipeline.Item, bool) {
	if len(m.table.Rows()) == 0 {
		return pipeline.Item{}, false
	}
	return m.extractor.Item(m.table.Cursor())
}

func (m *Model) updateViewportContent() {
	if m.viewport.Width == 0 {
		return
	}
	switch {
	case m.showEncoded && m.encoded != "":
		m.viewport.SetContent(m.encodedDetail())
	case m.focus == focusItems:
		m.viewport.SetContent(m.itemDetail())
	default:
		m.viewport.SetContent(m.cleanedDetail())
	}
}

func (m *Model) cleanedDetail() string {
	cleaned := m.extractor.Cleaned()
	if cleaned == "" {
		return emptyTextStyle.Render("No cleaned JSON yet. Paste a document and press ctrl+e.")
	}
	header := titleStyle.Render("Cleaned JSON")
	if m.extractor.CleanedCopied() {
		header += " " + copiedStyle.Render("copied")
	}
	return header + "\n\n" + report.Highlight(cleaned)
}

func (m *Model) itemDetail() string {
	it, ok := m.selectedItem()
	if !ok {
		return emptyTextStyle.Render("No payloads.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Payload %d", it.ID)))
	if it.Copied {
		b.WriteString(" " + copiedStyle.Render("copied"))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Fingerprint:"), report.Fingerprint(it.Value))
	fmt.Fprintf(&b, "%s %d bytes\n", keyStyle.Render("Size:"), len(it.Value))
	for _, p := range m.paths[it.Value] {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Found at:"), p)
	}
	b.WriteString("\n")
	b.WriteString(wrap(truncatePayload(it.Value, m.prefs.TruncatePayloads), m.viewport.Width))
	return b.String()
}

func (m *Model) encodedDetail() string {
	header := titleStyle.Render("Encoded image")
	if m.encodedCopied {
		header += " " + copiedStyle.Render("copied")
	}
	return header + "\n\n" + wrap(truncatePayload(m.encoded, m.prefs.TruncatePayloads), m.viewport.Width)
}

// wrap hard-wraps s at width cells; base64 has no spaces to break on.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (m *Model) setStatus(s string, d time.Duration) {
	timeout := time.Now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = s
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.showHistory {
			entries := m.extractor.History().Entries()
			switch msg.String() {
			case "q", "esc", "h":
				m.showHistory = false
				m.historySelection = 0
			case "up", "k":
				if m.historySelection > 0 {
					m.historySelection--
				}
			case "down", "j":
				if m.historySelection < len(entries)-1 {
					m.historySelection++
				}
			case "enter", "c":
				if m.historySelection >= 0 && m.historySelection < len(entries) {
					e := entries[m.historySelection]
					return m, m.copyCmd(targetHistory, e.ID, e.Cleaned)
				}
			}
			return m, nil
		}

		if m.pathMode {
			switch msg.Type {
			case tea.KeyEsc:
				m.pathMode = false
				m.pathInput.Blur()
				return m, nil
			case tea.KeyEnter:
				path := strings.TrimSpace(m.pathInput.Value())
				m.pathMode = false
				m.pathInput.Blur()
				if path == "" {
					return m, nil
				}
				m.encoding = true
				return m, m.encodeCmd(path)
			}
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+e":
			m.runExtraction()
			return m, nil
		case "tab":
			m.setFocus((m.focus + 1) % 3)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + 2) % 3)
			return m, nil
		}

		if m.focus == focusInput {
			if msg.Type == tea.KeyEsc {
				m.setFocus(focusItems)
				return m, nil
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "i":
			m.setFocus(focusInput)
			return m, nil
		case "c", "enter":
			if it, ok := m.selectedItem(); ok {
				return m, m.copyCmd(targetItem, int64(it.ID), it.Value)
			}
			return m, nil
		case "y":
			if cleaned := m.extractor.Cleaned(); cleaned != "" {
				return m, m.copyCmd(targetCleaned, 0, cleaned)
			}
			m.setStatus("Nothing to copy yet", 3*time.Second)
			return m, nil
		case "h":
			m.showHistory = true
			m.historySelection = 0
			return m, nil
		case "o":
			m.pathMode = true
			m.pathInput.SetValue("")
			cmd = m.pathInput.Focus()
			return m, cmd
		case "p":
			if m.encoded != "" {
				return m, m.copyCmd(targetEncoded, 0, m.encoded)
			}
			return m, nil
		case "e":
			m.showEncoded = !m.showEncoded && m.encoded != ""
			m.updateViewportContent()
			return m, nil
		case "t":
			cmd = m.toggleTruncation()
			return m, cmd
		}

		if m.focus == focusOutput {
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.table, cmd = m.table.Update(msg)
		m.updateViewportContent()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		usableWidth := m.width - 10
		previewWidth := usableWidth - 4 - 18 - 5 - 8
		if previewWidth < 20 {
			previewWidth = 20
		}
		cols := m.table.Columns()
		cols[3].Width = previewWidth
		m.table.SetColumns(cols)

		headerHeight := 1
		frame := paneBorderStyle.GetVerticalFrameSize()
		availableHeight := m.height - lipgloss.Height(statusStyle.Render("")) - headerHeight - 3*frame
		inputHeight := int(float64(availableHeight) * 0.3)
		tableHeight := int(float64(availableHeight) * 0.25)
		viewportHeight := availableHeight - inputHeight - tableHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		innerWidth := m.width - paneBorderStyle.GetHorizontalFrameSize()
		m.input.SetWidth(innerWidth)
		m.input.SetHeight(max(inputHeight, 3))
		m.table.SetWidth(innerWidth)
		m.table.SetHeight(max(tableHeight, 3))

		if m.viewport.Height == 0 {
			m.viewport = viewport.New(innerWidth, viewportHeight)
		} else {
			m.viewport.Width = innerWidth
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()
		statusStyle = statusStyle.Width(m.width)

	case copyResultMsg:
		cmd = m.handleCopyResult(msg)
		return m, cmd

	case copiedResetMsg:
		m.handleCopiedReset(msg)

	case imageEncodedMsg:
		m.encoding = false
		if msg.err != nil {
			m.log.Warn("image encode failed", zap.String("path", msg.path), zap.Error(msg.err))
			return m, nil
		}
		m.encoded = msg.dataURL
		m.encodedCopied = false
		m.showEncoded = true
		m.input.InsertString(msg.dataURL)
		m.updateViewportContent()
		m.setStatus(fmt.Sprintf("Encoded %s (%d bytes)", msg.path, len(msg.dataURL)), 3*time.Second)

	case statusMsg:
		m.setStatus(string(msg), 3*time.Second)

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			m.statusMessage = defaultHint
		}
		return m, spinCmd
	}

	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	status := m.extractor.Status()
	var stateText string
	switch status.State {
	case pipeline.Success:
		stateText = successStyle.Render("[OK] " + status.Message)
	case pipeline.Error:
		stateText = errorStyle.Render("[ERROR] " + status.Message)
	case pipeline.Running:
		stateText = m.spinner.View() + " Extracting..."
	default:
		stateText = idleStyle.Render("Idle")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("imgstrip"),
		"  ",
		stateText,
		idleStyle.Render(fmt.Sprintf("  |  history: %d/%d", m.extractor.History().Len(), m.extractor.History().Limit())),
	)

	pane := func(f focusArea, content string) string {
		style := paneBorderStyle
		if m.focus == f {
			style = focusedBorderStyle
		}
		return style.Render(content)
	}

	var tableContent string
	if len(m.table.Rows()) == 0 {
		tableContent = emptyTextStyle.
			Width(m.table.Width()).
			Height(m.table.Height()).
			Render("No payloads")
	} else {
		tableContent = m.table.View()
	}

	var bottomBar string
	switch {
	case m.pathMode:
		bottomBar = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("15")).
			Width(m.width).
			Padding(0, 1).
			Render(m.pathInput.View())
	case m.encoding:
		bottomBar = statusStyle.Width(m.width).Padding(0, 2).Render(m.spinner.View() + " Reading image...")
	default:
		bottomBar = statusStyle.Width(m.width).Padding(0, 2).Render(m.statusMessage)
	}

	mainView := lipgloss.JoinVertical(lipgloss.Left,
		header,
		pane(focusInput, m.input.View()),
		pane(focusItems, tableContent),
		pane(focusOutput, m.viewport.View()),
		bottomBar,
	)

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpView())
	}
	if m.showHistory {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.historyView())
	}
	return mainView
}

func (m Model) helpView() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyColor := lipgloss.Color("10")
	descColor := lipgloss.Color("250")

	formatRow := func(key, desc string) string {
		keyStyled := lipgloss.NewStyle().Foreground(keyColor).Render(key)
		descStyled := lipgloss.NewStyle().Foreground(descColor).Render(desc)
		padding := 12 - len(key)
		if padding < 1 {
			padding = 1
		}
		return "  " + keyStyled + strings.Repeat(" ", padding) + descStyled
	}

	lines := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		sectionStyle.Render("Input"),
		formatRow("Ctrl+e", "Extract payloads"),
		formatRow("Tab", "Cycle focus"),
		formatRow("Esc / i", "Leave / enter input"),
		"",
		sectionStyle.Render("Results"),
		formatRow("j / k", "Move down / up"),
		formatRow("c / Enter", "Copy payload"),
		formatRow("y", "Copy cleaned JSON"),
		formatRow("h", "History"),
		formatRow("t", "Toggle truncation"),
		"",
		sectionStyle.Render("Images"),
		formatRow("o", "Encode image file"),
		formatRow("e", "Show / hide encoded"),
		formatRow("p", "Copy data URL"),
		"",
		sectionStyle.Render("Other"),
		formatRow("?", "Toggle help"),
		formatRow("q", "Quit"),
		"",
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true).
			Render("Press any key to close"),
	}
	return popupStyle.Width(44).Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) historyView() string {
	entries := m.extractor.History().Entries()

	var content string
	if len(entries) == 0 {
		content = emptyTextStyle.Render("No history yet.\n\nSuccessful extractions appear here.")
	} else {
		lines := []string{
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Recent cleaned documents"),
			"",
		}
		for i, e := range entries {
			summary := fmt.Sprintf("%s - %d bytes", e.Timestamp, len(e.Cleaned))
			if e.Copied {
				summary += " " + copiedStyle.Render("copied")
			}
			if i == m.historySelection {
				lines = append(lines, lipgloss.NewStyle().
					Foreground(lipgloss.Color("232")).
					Background(lipgloss.Color("208")).
					Bold(true).
					Render("  > "+summary))
			} else {
				lines = append(lines, "    "+summary)
			}
			lines = append(lines, idleStyle.Render("      "+firstLine(e.Cleaned, 48)))
		}
		lines = append(lines, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true).
			Render("Enter: copy | h: close"))
		content = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	return popupStyle.Width(70).Padding(2, 4).Render(content)
}

// firstLine returns a one-line preview of a document, squeezing whitespace.
func firstLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
