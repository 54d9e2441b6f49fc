package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/jask/valuesort/internal/catalog"
	"github.com/jask/valuesort/internal/config"
	"github.com/jask/valuesort/internal/input"
	"github.com/jask/valuesort/internal/service"
	"github.com/jask/valuesort/internal/tabular"
)

// App is the ranking view: the ordered list on top, the pool of unranked
// values below.
type App struct {
	ctx    context.Context
	cfg    config.Config
	svc    *service.RankingService
	log    zerolog.Logger
	keys   KeyMap
	help   help.Model
	state  appState
	modal  modalState
	prompt textinput.Model

	cursor     input.Machine
	drag       input.Drag
	poolCursor int

	// first visible row of each pane
	rankOffset int
	poolOffset int

	status string
	width  int
	height int
	now    func() time.Time
}

type appState string

const (
	viewRanking appState = "ranking"
	viewPool    appState = "pool"
)

type modalState string

const (
	modalNone         modalState = ""
	modalImport       modalState = "import"
	modalExport       modalState = "export"
	modalConfirmReset modalState = "confirmReset"
)

// Screen rows above the first ranked value: header, status, blank line and
// the pane title.
const rankingTop = 4

// chromeRows are the fixed lines around the two lists: header, status, three
// blank separators and both pane titles. Help and the modal come on top.
const chromeRows = 7

func New(ctx context.Context, cfg config.Config, svc *service.RankingService, log zerolog.Logger) *App {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 1024

	state := viewRanking
	if svc.Len() == 0 {
		state = viewPool
	}
	a := &App{
		ctx:    ctx,
		cfg:    cfg,
		svc:    svc,
		log:    log,
		keys:   DefaultKeyMap,
		help:   help.New(),
		state:  state,
		prompt: ti,
		now:    time.Now,
	}
	a.checkSaved()
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("valuesort")
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.help.Width = m.Width
		a.revealFocus()
	case tea.KeyMsg:
		if a.modal != modalNone {
			_, cmd = a.handleModalKey(m)
		} else {
			_, cmd = a.handleKey(m)
		}
		a.revealFocus()
	case tea.MouseMsg:
		if a.modal == modalNone {
			a.handleMouse(m)
		}
		a.clampScroll(a.layout())
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.log.Warn().Err(m.error).Msg("tui action failed")
		a.status = "error: " + m.Error()
	case importParsedMsg:
		a.applyImport(m)
		a.revealFocus()
	case exportDoneMsg:
		a.status = "Exported to " + m.path
	}
	return a, cmd
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	// a pending pointer drag holds a ranking index that keys may invalidate
	a.drag.Cancel()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case key.Matches(m, a.keys.SwitchTab):
		a.switchPane()
		return a, nil
	case key.Matches(m, a.keys.Import):
		return a, a.openPrompt(modalImport, "")
	case key.Matches(m, a.keys.Export):
		return a, a.openPrompt(modalExport, filepath.Join(a.cfg.Export.Dir, tabular.FileName(a.now())))
	case key.Matches(m, a.keys.Reset):
		a.modal = modalConfirmReset
		return a, nil
	}
	if a.state == viewPool {
		a.handlePoolKey(m)
	} else {
		a.handleRankingKey(m)
	}
	return a, nil
}

// switchPane moves keyboard focus. Tab into an unfocused ranking focuses its
// first row; Tab again moves on to the pool.
func (a *App) switchPane() {
	if a.state == viewRanking && a.cursor.Idle() && a.svc.Len() > 0 {
		a.cursor.Focus(0, a.svc.Len())
		return
	}
	if a.state == viewRanking {
		a.cursor.Blur()
		a.state = viewPool
		a.clampPool()
		return
	}
	a.state = viewRanking
	a.cursor.Focus(0, a.svc.Len())
}

func (a *App) rankingEvent(m tea.KeyMsg) (input.Event, bool) {
	switch {
	case key.Matches(m, a.keys.Up):
		return input.CursorUp, true
	case key.Matches(m, a.keys.Down):
		return input.CursorDown, true
	case key.Matches(m, a.keys.MoveUp):
		return input.MoveUp, true
	case key.Matches(m, a.keys.MoveDown):
		return input.MoveDown, true
	case key.Matches(m, a.keys.RaiseOne):
		return input.ShiftLeft, true
	case key.Matches(m, a.keys.LowerOne):
		return input.ShiftRight, true
	case key.Matches(m, a.keys.Remove):
		return input.Delete, true
	case key.Matches(m, a.keys.Blur):
		return input.Escape, true
	case key.Matches(m, a.keys.Select):
		return input.Select, true
	}
	return 0, false
}

func (a *App) handleRankingKey(m tea.KeyMsg) {
	ev, ok := a.rankingEvent(m)
	if !ok {
		return
	}
	res := a.cursor.Handle(ev, a.svc.Engine(a.ctx))
	if res.Entity == nil {
		return
	}
	name := res.Entity.Name
	switch {
	case ev == input.Select:
		a.status = "Selected: " + name
		if res.Entity.Description != "" {
			a.status += " - " + res.Entity.Description
		}
	case !res.Changed:
		return
	case ev == input.Delete:
		a.status = fmt.Sprintf("Removed %s from the list", name)
	case res.To < res.From:
		a.status = fmt.Sprintf("Moved %s up to #%d", name, res.To+1)
	default:
		a.status = fmt.Sprintf("Moved %s down to #%d", name, res.To+1)
	}
	a.checkSaved()
}

func (a *App) handlePoolKey(m tea.KeyMsg) {
	pool := a.svc.Unranked()
	switch {
	case key.Matches(m, a.keys.Up):
		if a.poolCursor > 0 {
			a.poolCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.poolCursor < len(pool)-1 {
			a.poolCursor++
		}
	case key.Matches(m, a.keys.Select):
		if a.poolCursor < len(pool) {
			a.promote(pool[a.poolCursor])
		}
	}
}

func (a *App) promote(e catalog.Entity) {
	if !a.svc.Promote(a.ctx, e.ID) {
		return
	}
	a.status = fmt.Sprintf("Added %s at #%d", e.Name, a.svc.Len())
	a.clampPool()
	a.checkSaved()
}

func (a *App) clampPool() {
	n := len(a.svc.Unranked())
	if a.poolCursor >= n {
		a.poolCursor = n - 1
	}
	if a.poolCursor < 0 {
		a.poolCursor = 0
	}
}

// checkSaved replaces the status with a single short notice when the last
// write did not reach storage.
func (a *App) checkSaved() {
	if a.svc.PersistErr() != nil {
		a.status = "Changes not saved: storage unavailable"
	}
}

// handleMouse maps pointer events onto screen rows. Pressing a ranked row
// focuses it and picks it up, releasing over another ranked row drops it
// there. Clicking a pool row adds that value to the ranking.
func (a *App) handleMouse(m tea.MouseMsg) {
	if m.Button == tea.MouseButtonWheelUp || m.Button == tea.MouseButtonWheelDown {
		a.scrollPane(m.Y, m.Button == tea.MouseButtonWheelDown)
		return
	}
	pane, idx, onRow := a.rowAt(m.Y)

	if _, _, dragging := a.drag.Active(); dragging {
		switch m.Action {
		case tea.MouseActionMotion:
			if onRow && pane == viewRanking {
				a.drag.Over(idx)
			}
		case tea.MouseActionRelease:
			if !onRow || pane != viewRanking {
				a.drag.Cancel()
				return
			}
			res := a.drag.Drop(idx, a.svc.Engine(a.ctx))
			if res.Changed {
				a.cursor.Focus(res.To, a.svc.Len())
				a.status = fmt.Sprintf("Moved %s to #%d", res.Entity.Name, res.To+1)
				a.checkSaved()
			}
		}
		return
	}

	if m.Action != tea.MouseActionPress || m.Button != tea.MouseButtonLeft || !onRow {
		return
	}
	switch pane {
	case viewRanking:
		a.state = viewRanking
		a.cursor.Focus(idx, a.svc.Len())
		a.drag.Start(idx)
	case viewPool:
		a.state = viewPool
		pool := a.svc.Unranked()
		a.poolCursor = idx
		a.promote(pool[idx])
	}
}

// scrollPane moves the pane under screen row y by one line. The wheel only
// scrolls; focus stays where it was.
func (a *App) scrollPane(y int, down bool) {
	step := -1
	if down {
		step = 1
	}
	if y < a.poolTop()-1 {
		a.rankOffset += step
	} else {
		a.poolOffset += step
	}
}

// rowAt resolves a screen row to a pane and an index within it. The layout
// matches View: only the rows inside each pane's window are hit targets.
func (a *App) rowAt(y int) (appState, int, bool) {
	lay := a.layout()
	if y >= rankingTop && y < rankingTop+lay.rankRows {
		if i := a.rankOffset + y - rankingTop; i < a.svc.Len() {
			return viewRanking, i, true
		}
		return "", 0, false
	}
	poolTop := a.poolTop()
	if y >= poolTop && y < poolTop+lay.poolRows {
		if i := a.poolOffset + y - poolTop; i < len(a.svc.Unranked()) {
			return viewPool, i, true
		}
	}
	return "", 0, false
}

// poolTop is the screen row of the first visible pool entry: the ranking
// window (or the empty placeholder), a blank line and the pool title sit
// above it.
func (a *App) poolTop() int {
	return rankingTop + a.layout().rankRows + 2
}

// paneLayout is how many list rows each pane shows.
type paneLayout struct {
	rankRows int
	poolRows int
}

// layout splits the rows left over from the fixed chrome between the two
// panes. Each pane shows at least one row; a pane that needs less than half
// hands the rest to the other. Without a known height both show everything.
func (a *App) layout() paneLayout {
	rankNeed := max(a.svc.Len(), 1)
	poolNeed := max(len(a.svc.Unranked()), 1)
	if a.height <= 0 {
		return paneLayout{rankRows: rankNeed, poolRows: poolNeed}
	}
	avail := a.height - chromeRows - lipgloss.Height(a.help.View(a.keys))
	if a.modal != modalNone {
		avail -= lipgloss.Height(a.renderModal()) + 1
	}
	if rankNeed+poolNeed <= avail {
		return paneLayout{rankRows: rankNeed, poolRows: poolNeed}
	}
	avail = max(avail, 2)
	rank := min(rankNeed, max(avail/2, avail-poolNeed))
	pool := min(poolNeed, avail-rank)
	rank = min(rankNeed, avail-pool)
	return paneLayout{rankRows: rank, poolRows: pool}
}

// revealFocus scrolls each pane so its keyboard cursor is inside the window.
func (a *App) revealFocus() {
	lay := a.layout()
	if i, ok := a.cursor.Focused(); ok {
		a.rankOffset = scrollTo(a.rankOffset, i, lay.rankRows)
	}
	if a.state == viewPool {
		a.poolOffset = scrollTo(a.poolOffset, a.poolCursor, lay.poolRows)
	}
	a.clampScroll(lay)
}

// clampScroll keeps both windows inside their lists, so a shrinking list
// never leaves blank rows at the bottom.
func (a *App) clampScroll(lay paneLayout) {
	a.rankOffset = clampOffset(a.rankOffset, a.svc.Len(), lay.rankRows)
	a.poolOffset = clampOffset(a.poolOffset, len(a.svc.Unranked()), lay.poolRows)
}

func scrollTo(offset, i, rows int) int {
	switch {
	case i < offset:
		return i
	case i >= offset+rows:
		return i - rows + 1
	}
	return offset
}

func clampOffset(offset, n, rows int) int {
	return max(0, min(offset, n-rows))
}

func (a *App) openPrompt(modal modalState, value string) tea.Cmd {
	a.modal = modal
	a.prompt.SetValue(value)
	a.prompt.CursorEnd()
	a.prompt.Focus()
	return textinput.Blink
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			a.reset()
		case "n", "N", "esc":
			a.modal = modalNone
		}
		return a, nil
	case modalImport, modalExport:
		switch m.String() {
		case "esc":
			a.modal = modalNone
			a.prompt.Blur()
			return a, nil
		case "enter":
			path := expandPath(a.prompt.Value())
			modal := a.modal
			a.modal = modalNone
			a.prompt.Blur()
			if path == "" {
				a.status = "no path given"
				return a, nil
			}
			if modal == modalImport {
				a.status = "importing..."
				return a, importCmd(path)
			}
			a.status = "exporting..."
			return a, exportCmd(path, a.svc.ExportRows(), a.now())
		}
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) reset() {
	a.svc.Reset(a.ctx)
	a.cursor.Blur()
	a.drag.Cancel()
	a.state = viewPool
	a.poolCursor = 0
	a.status = "Ranking cleared"
	a.checkSaved()
}

// applyImport runs on the update loop so the service is only touched from
// one goroutine; the file was read and parsed by importCmd.
func (a *App) applyImport(m importParsedMsg) {
	res := a.svc.ApplyImport(a.ctx, m.rows)
	a.cursor.Clamp(a.svc.Len())
	a.drag.Cancel()
	a.clampPool()

	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d values from %s", res.Applied, filepath.Base(m.path))
	if n := len(res.Unmatched); n > 0 {
		fmt.Fprintf(&b, ", %d not recognised", n)
		if s := res.Unmatched[0].Suggestion; s != "" {
			fmt.Fprintf(&b, " (%q: did you mean %q?)", res.Unmatched[0].Row.Name, s)
		}
	}
	if n := len(res.Invalid); n > 0 {
		fmt.Fprintf(&b, ", %d with bad positions", n)
	}
	if res.Renumbered {
		b.WriteString(", renumbered")
	}
	a.status = b.String()
	a.checkSaved()
}

func importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return errMsg{fmt.Errorf("open %s: %w", path, err)}
		}
		defer f.Close()
		rows, err := tabular.Deserialize(f)
		if err != nil {
			return errMsg{fmt.Errorf("%s: %w", filepath.Base(path), err)}
		}
		return importParsedMsg{path: path, rows: rows}
	}
}

// exportCmd writes rows captured on the update loop, so the service itself
// is never read from the command goroutine.
func exportCmd(path string, rows []tabular.Row, now time.Time) tea.Cmd {
	return func() tea.Msg {
		written, err := service.WriteExport(path, rows, now)
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{path: written}
	}
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

type statusMsg string

type errMsg struct{ error }

type importParsedMsg struct {
	path string
	rows []tabular.Row
}

type exportDoneMsg struct {
	path string
}

// styles
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	paneTitleStyle = lipgloss.NewStyle().Bold(true)
	activePane     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
	focusStyle     = lipgloss.NewStyle().Reverse(true)
	topStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dropStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func (a *App) View() string {
	lay := a.layout()
	lines := []string{a.renderHeader(), statusStyle.Render(a.status), ""}
	lines = append(lines, a.renderRanking(lay.rankRows)...)
	lines = append(lines, "")
	lines = append(lines, a.renderPool(lay.poolRows)...)
	lines = append(lines, "", a.help.View(a.keys))
	if a.width > 0 {
		clip := lipgloss.NewStyle().MaxWidth(a.width)
		for i := range lines {
			lines[i] = clip.Render(lines[i])
		}
	}
	body := strings.Join(lines, "\n")
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderHeader() string {
	saved := "not saved yet"
	if t := a.svc.LastSaved(); !t.IsZero() {
		saved = "saved " + humanize.Time(t)
	}
	progress := fmt.Sprintf("%d/%d ranked", a.svc.Len(), a.svc.Catalog().Len())
	return titleStyle.Render("Life values") + "  " + dimStyle.Render(progress+"  ·  "+saved)
}

func (a *App) paneTitle(label string, pane appState) string {
	if a.state == pane {
		return activePane.Render(label)
	}
	return paneTitleStyle.Render(label)
}

// windowRange is the slice of a list of n items a pane shows, plus a dim
// "first-last of n" hint when part of the list is scrolled out of view.
func windowRange(offset, rows, n int) (lo, hi int, hint string) {
	lo = min(offset, n)
	hi = min(lo+rows, n)
	if hi-lo < n {
		hint = dimStyle.Render(fmt.Sprintf("  %d-%d of %d", lo+1, hi, n))
	}
	return lo, hi, hint
}

func (a *App) renderRanking(rows int) []string {
	ranked := a.svc.Ranking()
	lo, hi, hint := windowRange(a.rankOffset, rows, len(ranked))
	title := a.paneTitle("Ranking", viewRanking) + hint
	if a.state == viewRanking && a.cursor.Idle() && len(ranked) > 0 {
		title += dimStyle.Render("  (Tab or click to focus)")
	}
	out := []string{title}

	if len(ranked) == 0 {
		return append(out, dimStyle.Render("  Nothing ranked yet. Pick values from the pool below."))
	}
	focused, hasFocus := a.cursor.Focused()
	source, over, dragging := a.drag.Active()
	top := a.cfg.UI.HighlightTop
	for i := lo; i < hi; i++ {
		e := ranked[i]
		marker := "  "
		switch {
		case dragging && i == over && over != source:
			marker = dropStyle.Render("» ")
		case hasFocus && i == focused:
			marker = "▶ "
		}
		label := fmt.Sprintf("%2d. %s", i+1, e.Name)
		switch {
		case hasFocus && i == focused:
			label = focusStyle.Render(label)
		case dragging && i == source:
			label = dimStyle.Render(label)
		case i < top:
			label = topStyle.Render(label)
		}
		if i < top && e.Description != "" {
			label += dimStyle.Render("  " + e.Description)
		}
		out = append(out, marker+label)
	}
	return out
}

func (a *App) renderPool(rows int) []string {
	pool := a.svc.Unranked()
	lo, hi, hint := windowRange(a.poolOffset, rows, len(pool))
	out := []string{a.paneTitle("Not yet ranked", viewPool) + hint}
	if len(pool) == 0 {
		return append(out, dimStyle.Render("  Every value is ranked."))
	}
	for i := lo; i < hi; i++ {
		e := pool[i]
		if a.state == viewPool && i == a.poolCursor {
			out = append(out, "▶ "+focusStyle.Render(e.Name))
			continue
		}
		out = append(out, "  "+e.Name)
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalImport:
		return titleStyle.Render("Import CSV") + "\n" + a.prompt.View() + "\n[enter] Import  [esc] Cancel"
	case modalExport:
		return titleStyle.Render("Export CSV") + "\n" + a.prompt.View() + "\n[enter] Export  [esc] Cancel"
	case modalConfirmReset:
		return titleStyle.Render("Reset ranking?") + "\nEvery value goes back to the pool.\n[y] Yes  [n] No"
	default:
		return ""
	}
}
