package editor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"overhex/internal/config"
	"overhex/internal/logger"
	"overhex/internal/search"
	"overhex/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type View int

const (
	ViewMain View = iota
	ViewHelp
	ViewFind
	ViewGoto
	ViewSaveAs
	ViewConfirmQuit
)

// fileLoadedMsg carries the result of an asynchronous file read. gen
// identifies which load request produced it; stale generations are
// dropped so a slow read can never clobber a newer one.
type fileLoadedMsg struct {
	gen  int
	path string
	data []byte
	err  error
}

type Model struct {
	sess     *session.Session
	filename string
	loadGen  int

	view    View
	width   int
	height  int
	scrollY int

	config *config.Config
	styles *config.Styles

	findInput   string
	findMode    search.Mode
	findMatches int
	lastNeedle  search.Needle

	gotoInput   string
	saveAsInput string

	statusMsg string
}

func NewModel(filename string) *Model {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config load failed, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}

	return &Model{
		sess:     session.New(),
		filename: filename,
		config:   cfg,
		styles:   config.NewStyles(&cfg.Theme),
	}
}

func (m *Model) Init() tea.Cmd {
	if m.filename != "" {
		return m.loadFileCmd(m.filename)
	}
	return nil
}

func (m *Model) loadFileCmd(path string) tea.Cmd {
	m.loadGen++
	gen := m.loadGen
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return fileLoadedMsg{gen: gen, path: path, data: data, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fileLoadedMsg:
		if msg.gen != m.loadGen {
			logger.Debug("stale load dropped", "path", msg.path, "gen", msg.gen)
			return m, nil
		}
		if msg.err != nil {
			logger.Error("load failed", "path", msg.path, "err", msg.err)
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.sess.Load(msg.data)
		m.filename = msg.path
		m.scrollY = 0
		m.statusMsg = fmt.Sprintf("Loaded %s (%d bytes)", msg.path, len(msg.data))
		logger.Info("file loaded", "path", msg.path, "size", len(msg.data))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch m.view {
	case ViewHelp:
		return m.handleHelpKey(msg)
	case ViewFind:
		return m.handleFindKey(msg)
	case ViewGoto:
		return m.handleGotoKey(msg)
	case ViewSaveAs:
		return m.handleSaveAsKey(msg)
	case ViewConfirmQuit:
		return m.handleConfirmQuitKey(msg)
	default:
		return m.handleMainKey(msg)
	}
}

func (m *Model) bytesPerRow() int64 {
	return int64(m.config.Layout.BytesPerRow)
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		m.sess.MoveCursor(-m.bytesPerRow())
		m.ensureCursorVisible()
		return m, nil
	case "down":
		m.sess.MoveCursor(m.bytesPerRow())
		m.ensureCursorVisible()
		return m, nil
	case "left":
		m.sess.MoveCursor(-1)
		m.ensureCursorVisible()
		return m, nil
	case "right":
		m.sess.MoveCursor(1)
		m.ensureCursorVisible()
		return m, nil
	case "shift+up":
		m.selectMove(-m.bytesPerRow())
		return m, nil
	case "shift+down":
		m.selectMove(m.bytesPerRow())
		return m, nil
	case "shift+left":
		m.selectMove(-1)
		return m, nil
	case "shift+right":
		m.selectMove(1)
		return m, nil
	case "pgup":
		m.sess.MoveCursor(-int64(m.visibleRows()) * m.bytesPerRow())
		m.ensureCursorVisible()
		return m, nil
	case "pgdown":
		m.sess.MoveCursor(int64(m.visibleRows()) * m.bytesPerRow())
		m.ensureCursorVisible()
		return m, nil
	case "home":
		row := m.sess.Pos() / m.bytesPerRow()
		m.sess.SetCursor(row * m.bytesPerRow())
		return m, nil
	case "end":
		row := m.sess.Pos() / m.bytesPerRow()
		m.sess.SetCursor(row*m.bytesPerRow() + m.bytesPerRow() - 1)
		return m, nil
	case "ctrl+home":
		m.sess.SetCursor(0)
		m.ensureCursorVisible()
		return m, nil
	case "ctrl+end":
		m.sess.SetCursor(m.sess.Buffer().Len() - 1)
		m.ensureCursorVisible()
		return m, nil

	case "tab":
		if m.sess.Mode() == session.ModeHex {
			m.sess.SetMode(session.ModeAscii)
		} else {
			m.sess.SetMode(session.ModeHex)
		}
		return m, nil

	case "esc":
		m.sess.ClearSelection()
		return m, nil

	case "ctrl+z":
		if !m.sess.Undo() {
			m.statusMsg = "Nothing to undo"
		}
		m.ensureCursorVisible()
		return m, nil
	case "ctrl+y":
		if !m.sess.Redo() {
			m.statusMsg = "Nothing to redo"
		}
		m.ensureCursorVisible()
		return m, nil

	case "ctrl+s":
		return m.trySave()
	case "ctrl+a":
		m.view = ViewSaveAs
		m.saveAsInput = m.filename
		return m, nil
	case "ctrl+f":
		m.view = ViewFind
		m.findInput = ""
		m.updateFindMatches()
		return m, nil
	case "ctrl+g":
		m.view = ViewGoto
		m.gotoInput = ""
		return m, nil
	case "ctrl+n":
		m.findNext(true)
		return m, nil
	case "ctrl+p":
		m.findNext(false)
		return m, nil
	case "ctrl+r":
		if m.filename != "" {
			return m, m.loadFileCmd(m.filename)
		}
		return m, nil
	case "ctrl+h":
		m.view = ViewHelp
		return m, nil
	case "ctrl+q":
		return m.tryQuit()
	}

	return m.handleEditKey(msg)
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	if len(s) != 1 {
		return m, nil
	}
	c := s[0]

	if m.sess.Mode() == session.ModeHex {
		nibble, ok := hexNibble(c)
		if !ok {
			return m, nil
		}
		if err := m.sess.EditDigit(nibble); err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", err)
		}
		m.ensureCursorVisible()
		return m, nil
	}

	if c < 32 || c > 126 {
		return m, nil
	}
	if err := m.sess.EditChar(c); err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
	}
	m.ensureCursorVisible()
	return m, nil
}

func (m *Model) selectMove(delta int64) {
	start, _, ok := m.sess.Selection()
	if !ok {
		start = m.sess.Pos()
	}
	m.sess.MoveCursor(delta)
	m.sess.Select(start, m.sess.Pos())
	m.ensureCursorVisible()
}

func (m *Model) trySave() (tea.Model, tea.Cmd) {
	if m.filename == "" {
		m.view = ViewSaveAs
		m.saveAsInput = ""
		return m, nil
	}

	path := m.filename
	err := m.sess.Save(func(data []byte) error {
		return os.WriteFile(path, data, 0644)
	})
	if err != nil {
		logger.Error("save failed", "path", path, "err", err)
		m.statusMsg = fmt.Sprintf("Error saving: %v", err)
	} else {
		logger.Info("file saved", "path", path)
		m.statusMsg = "File saved"
	}
	return m, nil
}

func (m *Model) tryQuit() (tea.Model, tea.Cmd) {
	if m.sess.Buffer().ModifiedCount() > 0 || m.sess.CanUndo() {
		m.view = ViewConfirmQuit
		return m, nil
	}
	return m, tea.Quit
}

func (m *Model) findNext(forward bool) {
	if m.lastNeedle == nil {
		m.statusMsg = "No search pattern"
		return
	}
	buf := m.sess.Buffer()
	var pos int64
	var found bool
	if forward {
		pos, found = search.FindForward(buf, m.lastNeedle, m.sess.Pos()+1)
	} else {
		from := m.sess.Pos() - 1
		if from < 0 {
			m.statusMsg = "Not found"
			return
		}
		pos, found = search.FindBackward(buf, m.lastNeedle, from)
	}
	if !found {
		m.statusMsg = "Not found"
		return
	}
	m.sess.SetCursor(pos)
	m.sess.Select(pos, pos+int64(len(m.lastNeedle))-1)
	m.ensureCursorVisible()
}

func (m *Model) handleFindKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.view = ViewMain
	case tea.KeyUp, tea.KeyDown:
		if m.findMode == search.ModeText {
			m.findMode = search.ModeHex
		} else {
			m.findMode = search.ModeText
		}
		m.updateFindMatches()
	case tea.KeyEnter:
		needle, err := search.NewNeedle(m.findMode, m.findInput)
		if err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", err)
			return m, nil
		}
		m.lastNeedle = needle
		m.view = ViewMain
		m.findNext(true)
		logger.Debug("search", "pattern", m.findInput, "matches", m.findMatches)
	case tea.KeyBackspace:
		if len(m.findInput) > 0 {
			m.findInput = m.findInput[:len(m.findInput)-1]
			m.updateFindMatches()
		}
	default:
		char := msg.String()
		if m.isValidFindChar(char) {
			m.findInput += char
			m.updateFindMatches()
		}
	}
	return m, nil
}

func (m *Model) isValidFindChar(char string) bool {
	if len(char) != 1 {
		return false
	}
	if m.findMode == search.ModeHex {
		_, ok := hexNibble(char[0])
		return ok || char == " "
	}
	return char[0] >= 32 && char[0] <= 126
}

func (m *Model) updateFindMatches() {
	needle, err := search.NewNeedle(m.findMode, m.findInput)
	if err != nil {
		m.findMatches = 0
		return
	}
	m.findMatches = search.Count(m.sess.Buffer(), needle)
}

func (m *Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.view = ViewMain
	case tea.KeyEnter:
		m.doGoto()
		m.view = ViewMain
	case tea.KeyBackspace:
		if len(m.gotoInput) > 0 {
			m.gotoInput = m.gotoInput[:len(m.gotoInput)-1]
		}
	default:
		char := msg.String()
		if len(char) == 1 {
			if _, ok := hexNibble(char[0]); ok || char == "x" || char == "X" {
				m.gotoInput += char
			}
		}
	}
	return m, nil
}

func (m *Model) doGoto() {
	if m.gotoInput == "" {
		return
	}

	var offset int64
	input := strings.ToLower(m.gotoInput)
	if strings.HasPrefix(input, "0x") {
		offset, _ = strconv.ParseInt(input[2:], 16, 64)
	} else {
		offset, _ = strconv.ParseInt(input, 10, 64)
	}

	m.sess.SetCursor(offset)
	m.ensureCursorVisible()
}

func (m *Model) handleSaveAsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.view = ViewMain
	case tea.KeyEnter:
		if m.saveAsInput != "" {
			m.filename = m.saveAsInput
			m.view = ViewMain
			return m.trySave()
		}
	case tea.KeyBackspace:
		if len(m.saveAsInput) > 0 {
			m.saveAsInput = m.saveAsInput[:len(m.saveAsInput)-1]
		}
	default:
		if len(msg.String()) == 1 || msg.String() == " " {
			m.saveAsInput += msg.String()
		}
	}
	return m, nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEscape || msg.String() == "ctrl+h" {
		m.view = ViewMain
	}
	return m, nil
}

func (m *Model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, tea.Quit
	case "n", "N", "esc":
		m.view = ViewMain
	}
	return m, nil
}

func (m *Model) visibleRows() int {
	rows := m.height - 5
	if rows < 1 {
		rows = 1
	}
	if rows > m.config.Layout.RowsPerPage {
		rows = m.config.Layout.RowsPerPage
	}
	return rows
}

func (m *Model) ensureCursorVisible() {
	visRows := m.visibleRows()
	cursorRow := int(m.sess.Pos() / m.bytesPerRow())

	if cursorRow < m.scrollY {
		m.scrollY = cursorRow
	} else if cursorRow >= m.scrollY+visRows {
		m.scrollY = cursorRow - visRows + 1
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderLegend())
	b.WriteString("\n")

	switch m.view {
	case ViewHelp:
		b.WriteString(m.renderHelp())
	case ViewFind:
		b.WriteString(m.renderFind())
	case ViewGoto:
		b.WriteString(m.renderGoto())
	case ViewSaveAs:
		b.WriteString(m.renderSaveAs())
	case ViewConfirmQuit:
		b.WriteString(m.renderEditor())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog("Unsaved changes. Quit anyway? (Y/N)"))
	default:
		b.WriteString(m.renderEditor())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m *Model) renderLegend() string {
	items := []string{
		m.styles.LegendHighlight.Render("^Q") + m.styles.Legend.Render(" Quit"),
		m.styles.LegendHighlight.Render("^S") + m.styles.Legend.Render(" Save"),
		m.styles.LegendHighlight.Render("^F") + m.styles.Legend.Render(" Find"),
		m.styles.LegendHighlight.Render("^N/^P") + m.styles.Legend.Render(" Next/Prev"),
		m.styles.LegendHighlight.Render("^G") + m.styles.Legend.Render(" Goto"),
		m.styles.LegendHighlight.Render("TAB") + m.styles.Legend.Render(" Hex/Ascii"),
		m.styles.LegendHighlight.Render("^H") + m.styles.Legend.Render(" Help"),
	}

	if m.sess.CanUndo() {
		items = append(items, m.styles.LegendHighlight.Render("^Z")+m.styles.Legend.Render(" Undo"))
	} else {
		items = append(items, m.styles.Disabled.Render("^Z Undo"))
	}
	if m.sess.CanRedo() {
		items = append(items, m.styles.LegendHighlight.Render("^Y")+m.styles.Legend.Render(" Redo"))
	} else {
		items = append(items, m.styles.Disabled.Render("^Y Redo"))
	}

	legend := strings.Join(items, m.styles.Legend.Render(" | "))
	return m.styles.Legend.Width(m.width).Render(legend)
}

func (m *Model) renderEditor() string {
	buf := m.sess.Buffer()
	if buf.Len() == 0 {
		return "\nEmpty buffer. Pass a file on the command line.\n"
	}

	bpr := m.bytesPerRow()
	visRows := m.visibleRows()
	startOffset := int64(m.scrollY) * bpr
	selStart, selEnd, selOK := m.sess.Selection()

	var lines []string
	for row := 0; row < visRows; row++ {
		rowOffset := startOffset + int64(row)*bpr
		if rowOffset >= buf.Len() {
			break
		}

		offsetStr := fmt.Sprintf("%08X  ", rowOffset)
		if rowOffset/bpr == m.sess.Pos()/bpr {
			offsetStr = m.styles.Offset.Bold(true).Render(offsetStr)
		} else {
			offsetStr = m.styles.Offset.Render(offsetStr)
		}

		var hexLine strings.Builder
		var asciiLine strings.Builder

		for col := int64(0); col < bpr; col++ {
			offset := rowOffset + col

			hexStr := "  "
			asciiStr := " "
			if v, err := buf.ByteAt(offset); err == nil {
				hexStr = fmt.Sprintf("%02X", v)
				if v >= 32 && v < 127 {
					asciiStr = string(v)
				} else {
					asciiStr = "."
				}
			}

			style := m.styles.Normal
			switch {
			case offset == m.sess.Pos():
				if m.sess.Parity() == session.LowPending {
					style = m.styles.CursorHex
				} else {
					style = m.styles.CursorNormal
				}
			case selOK && offset >= selStart && offset <= selEnd:
				style = m.styles.Selection
			case buf.IsModified(offset):
				style = m.styles.Modified
			}

			hexLine.WriteString(style.Render(hexStr))
			asciiLine.WriteString(style.Render(asciiStr))

			if col < bpr-1 {
				if (col+1)%8 == 0 {
					hexLine.WriteString(" ")
				}
				hexLine.WriteString(" ")
			}
		}

		lines = append(lines, offsetStr+hexLine.String()+"  "+asciiLine.String())
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	name := m.filename
	if name == "" {
		name = "[no file]"
	}

	mode := "HEX"
	if m.sess.Mode() == session.ModeAscii {
		mode = "ASCII"
	}

	status := fmt.Sprintf("%s  |  0x%08X  |  %s  |  %d modified",
		name, m.sess.Pos(), mode, m.sess.Buffer().ModifiedCount())
	if m.statusMsg != "" {
		status += "  |  " + m.statusMsg
	}
	return m.styles.Status.Render(status)
}

func (m *Model) renderFind() string {
	var b strings.Builder
	b.WriteString("\nFIND\n")
	b.WriteString("====\n\n")

	modes := []struct {
		mode  search.Mode
		label string
	}{
		{search.ModeText, "Text"},
		{search.ModeHex, "Hex"},
	}

	for _, md := range modes {
		prefix := "  "
		if md.mode == m.findMode {
			prefix = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s: ", prefix, md.label))
		if md.mode == m.findMode {
			b.WriteString(m.findInput)
			b.WriteString("_")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nMatches: %d\n", m.findMatches))
	b.WriteString("\nUp/Down to switch mode, Enter to find, ESC to close\n")

	return b.String()
}

func (m *Model) renderGoto() string {
	var b strings.Builder
	b.WriteString("\nGOTO OFFSET\n")
	b.WriteString("===========\n\n")
	b.WriteString("Offset: ")
	b.WriteString(m.gotoInput)
	b.WriteString("_\n\n")
	b.WriteString("(Prefix with 0x for hex offset)\n")
	b.WriteString("\nPress Enter to go, ESC to close\n")

	return b.String()
}

func (m *Model) renderSaveAs() string {
	var b strings.Builder
	b.WriteString("\nSAVE AS\n")
	b.WriteString("=======\n\n")
	b.WriteString("Filename: ")
	b.WriteString(m.saveAsInput)
	b.WriteString("_\n\n")
	b.WriteString("Press Enter to save, ESC to cancel\n")

	return b.String()
}

func (m *Model) renderHelp() string {
	return `
HELP - overhex

NAVIGATION
  Arrow keys      Move cursor
  Shift+Arrows    Select bytes
  PgUp/PgDown     Page up/down
  Home/End        Start/end of row
  Ctrl+Home/End   Start/end of file
  Ctrl+G          Goto offset

EDITING
  TAB             Toggle hex/ascii entry
  0-9 a-f         Edit nibble (hex mode)
  printable       Overwrite byte (ascii mode)
  Ctrl+Z          Undo
  Ctrl+Y          Redo
  ESC             Clear selection

FILE
  Ctrl+S          Save
  Ctrl+A          Save As
  Ctrl+Q          Quit

SEARCH
  Ctrl+F          Find (text or hex)
  Ctrl+N          Find next
  Ctrl+P          Find previous

Press ESC or Ctrl+H to close this help screen.
`
}

func (m *Model) renderConfirmDialog(message string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.config.Theme.BorderColor)).
		Padding(1, 2).
		Render(message)
	return box
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
