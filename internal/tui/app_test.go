package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/valuesort/internal/catalog"
	"github.com/jask/valuesort/internal/config"
	"github.com/jask/valuesort/internal/persistence"
	"github.com/jask/valuesort/internal/service"
)

var fixedNow = time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC)

func setupApp(t *testing.T, promote ...string) (*App, *service.RankingService, string) {
	t.Helper()
	cat, err := catalog.New([]catalog.Entity{
		{ID: "a", Name: "A", Description: "first"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
		{ID: "d", Name: "D"},
	})
	require.NoError(t, err)
	return setupCatalogApp(t, cat, promote...)
}

func setupCatalogApp(t *testing.T, cat *catalog.Catalog, promote ...string) (*App, *service.RankingService, string) {
	t.Helper()
	dir := t.TempDir()
	store := persistence.NewFileStore(dir, "test")
	ctx := context.Background()
	svc := service.NewRankingService(ctx, cat, store, zerolog.Nop())
	svc.Now = func() time.Time { return fixedNow }
	for _, id := range promote {
		require.True(t, svc.Promote(ctx, id))
	}
	cfg := config.Config{
		UI:     config.UIConfig{HighlightTop: 2, Mouse: true},
		Export: config.ExportConfig{Dir: dir},
	}
	app := New(ctx, cfg, svc, zerolog.Nop())
	app.now = func() time.Time { return fixedNow }
	return app, svc, dir
}

func names(svc *service.RankingService) string {
	var b strings.Builder
	for _, e := range svc.Ranking() {
		b.WriteString(e.Name)
	}
	return b.String()
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, app *App, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = app.Update(m)
	}
	return cmd
}

func TestKeyboardReorderAndRemove(t *testing.T) {
	t.Parallel()
	app, svc, _ := setupApp(t, "a", "b", "c")
	require.Equal(t, viewRanking, app.state)
	require.True(t, app.cursor.Idle())

	// idle ignores reordering
	send(t, app, runes("J"))
	require.Equal(t, "ABC", names(svc))

	send(t, app, tea.KeyMsg{Type: tea.KeyTab})
	i, ok := app.cursor.Focused()
	require.True(t, ok)
	require.Equal(t, 0, i)

	send(t, app, runes("j"), tea.KeyMsg{Type: tea.KeyShiftUp})
	require.Equal(t, "BAC", names(svc))
	require.Contains(t, app.status, "Moved B up to #1")

	send(t, app, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, "ABC", names(svc))
	i, _ = app.cursor.Focused()
	require.Equal(t, 1, i)

	send(t, app, tea.KeyMsg{Type: tea.KeyDelete})
	require.Equal(t, "AC", names(svc))
	require.Equal(t, "Removed B from the list", app.status)
	i, _ = app.cursor.Focused()
	require.Equal(t, 0, i)

	send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "Selected: A - first", app.status)

	send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, app.cursor.Idle())
}

func TestPoolPromotes(t *testing.T) {
	t.Parallel()
	app, svc, _ := setupApp(t)
	require.Equal(t, viewPool, app.state)

	send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "A", names(svc))
	require.Equal(t, "Added A at #1", app.status)

	send(t, app, runes("j"), runes(" "))
	require.Equal(t, "AC", names(svc))

	// cursor stays inside the shrinking pool
	send(t, app, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "ACDB", names(svc))
	require.Equal(t, 0, app.poolCursor)
	require.Contains(t, app.View(), "Every value is ranked.")
}

func TestTabCyclesPanes(t *testing.T) {
	t.Parallel()
	app, _, _ := setupApp(t, "a")
	tab := tea.KeyMsg{Type: tea.KeyTab}

	send(t, app, tab)
	require.False(t, app.cursor.Idle())
	send(t, app, tab)
	require.Equal(t, viewPool, app.state)
	require.True(t, app.cursor.Idle())
	send(t, app, tab)
	require.Equal(t, viewRanking, app.state)
	require.False(t, app.cursor.Idle())
}

func TestMouseDragReorders(t *testing.T) {
	t.Parallel()
	app, svc, _ := setupApp(t, "a", "b", "c")

	send(t, app,
		tea.MouseMsg{X: 4, Y: rankingTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 4, Y: rankingTop + 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
	)
	src, over, ok := app.drag.Active()
	require.True(t, ok)
	require.Equal(t, 0, src)
	require.Equal(t, 2, over)
	require.Contains(t, app.View(), "»")

	send(t, app, tea.MouseMsg{X: 4, Y: rankingTop + 2, Action: tea.MouseActionRelease})
	require.Equal(t, "BCA", names(svc))
	i, _ := app.cursor.Focused()
	require.Equal(t, 2, i)
	require.Equal(t, "Moved A to #3", app.status)

	// release outside the list cancels
	send(t, app,
		tea.MouseMsg{Y: rankingTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{Y: 0, Action: tea.MouseActionRelease},
	)
	require.Equal(t, "BCA", names(svc))
	_, _, ok = app.drag.Active()
	require.False(t, ok)
}

func TestMouseClickPoolPromotes(t *testing.T) {
	t.Parallel()
	app, svc, _ := setupApp(t, "a")
	// pool is B, C, D below one ranked row
	send(t, app, tea.MouseMsg{Y: app.poolTop() + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, "AC", names(svc))
	require.Equal(t, viewPool, app.state)
}

func TestResetAsksFirst(t *testing.T) {
	t.Parallel()
	app, svc, _ := setupApp(t, "a", "b")

	send(t, app, runes("R"))
	require.Equal(t, modalConfirmReset, app.modal)
	send(t, app, runes("n"))
	require.Equal(t, "AB", names(svc))

	send(t, app, runes("R"), runes("y"))
	require.Equal(t, modalNone, app.modal)
	require.Equal(t, 0, svc.Len())
	require.True(t, app.cursor.Idle())
	require.Equal(t, "Ranking cleared", app.status)
}

func TestExportThenImport(t *testing.T) {
	t.Parallel()
	app, svc, dir := setupApp(t, "b", "c", "a")

	send(t, app, runes("e"))
	require.Equal(t, modalExport, app.modal)
	want := filepath.Join(dir, "values_2026-02-04.csv")
	require.Equal(t, want, app.prompt.Value())

	cmd := send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	send(t, app, cmd())
	require.Equal(t, "Exported to "+want, app.status)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	require.Equal(t, "name,position\nB,1\nC,2\nA,3\n", string(data))

	send(t, app, runes("R"), runes("y"))
	require.Equal(t, 0, svc.Len())

	send(t, app, runes("i"))
	require.Equal(t, modalImport, app.modal)
	app.prompt.SetValue(want)
	cmd = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	send(t, app, cmd())
	require.Equal(t, "BCA", names(svc))
	require.Equal(t, "Imported 3 values from values_2026-02-04.csv", app.status)
}

func TestImportReportsUnmatched(t *testing.T) {
	t.Parallel()
	app, svc, dir := setupApp(t)
	path := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,position\nD,4\nBB,1\n"), 0o644))

	send(t, app, runes("i"))
	app.prompt.SetValue(path)
	cmd := send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	send(t, app, cmd())
	require.Equal(t, "D", names(svc))
	require.Contains(t, app.status, "1 not recognised")
	require.Contains(t, app.status, "renumbered")
}

func TestImportFailureKeepsRanking(t *testing.T) {
	t.Parallel()
	app, svc, dir := setupApp(t, "a")
	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("title,rank\nB,1\n"), 0o644))

	send(t, app, runes("i"))
	app.prompt.SetValue(path)
	cmd := send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	send(t, app, cmd())
	require.True(t, strings.HasPrefix(app.status, "error: "))
	require.Equal(t, "A", names(svc))

	send(t, app, runes("i"), tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, modalNone, app.modal)
}

func TestViewLayout(t *testing.T) {
	t.Parallel()
	app, _, _ := setupApp(t, "a", "b", "c")
	lines := strings.Split(app.View(), "\n")
	require.Contains(t, lines[0], "3/4 ranked")
	require.Contains(t, lines[rankingTop], "1. A")
	require.Contains(t, lines[rankingTop], "first")
	require.Contains(t, lines[rankingTop+2], "3. C")
	require.Contains(t, lines[app.poolTop()], "D")
}

func TestKeyDuringDragCancelsIt(t *testing.T) {
	t.Parallel()
	app, svc, _ := setupApp(t, "a", "b", "c")

	send(t, app,
		tea.MouseMsg{Y: rankingTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		runes("x"),
	)
	require.Equal(t, "AB", names(svc))
	_, _, ok := app.drag.Active()
	require.False(t, ok)

	// the release no longer refers to a pickup
	send(t, app, tea.MouseMsg{Y: rankingTop, Action: tea.MouseActionRelease})
	require.Equal(t, "AB", names(svc))
}

func visibleName(line string) string {
	return strings.TrimLeft(line, "▶ ")
}

func TestSmallTerminalClicksHitShownRows(t *testing.T) {
	t.Parallel()
	cat := catalog.Default()
	var ids []string
	for _, e := range cat.Entities()[:10] {
		ids = append(ids, e.ID)
	}
	app, svc, _ := setupCatalogApp(t, cat, ids...)
	send(t, app, tea.WindowSizeMsg{Width: 100, Height: 24})

	view := func() []string {
		lines := strings.Split(app.View(), "\n")
		require.LessOrEqual(t, len(lines), 24)
		return lines
	}
	lines := view()
	require.Contains(t, lines[0], "10/40 ranked")
	require.Contains(t, lines[rankingTop], " 1. "+cat.Entities()[0].Name)

	click := func(y int) {
		send(t, app, tea.MouseMsg{Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	}
	lastRanked := func() string {
		r := svc.Ranking()
		return r[len(r)-1].Name
	}

	y := app.poolTop() + 2
	shown := visibleName(lines[y])
	click(y)
	require.Equal(t, shown, lastRanked())

	// the pool window follows the keyboard cursor
	for range 20 {
		send(t, app, runes("j"))
	}
	require.Positive(t, app.poolOffset)
	lines = view()
	y = app.poolTop()
	shown = visibleName(lines[y])
	require.NotEqual(t, svc.Unranked()[0].Name, shown)
	click(y)
	require.Equal(t, shown, lastRanked())

	// and so does the ranking window
	send(t, app, tea.KeyMsg{Type: tea.KeyTab})
	for range 10 {
		send(t, app, runes("j"))
	}
	i, _ := app.cursor.Focused()
	require.Equal(t, 10, i)
	require.Positive(t, app.rankOffset)

	lines = view()
	y = rankingTop + app.layout().rankRows - 1
	picked := svc.Ranking()[app.rankOffset+app.layout().rankRows-1].Name
	require.Contains(t, lines[y], picked)
	require.Contains(t, lines[y], fmt.Sprintf("%2d. %s", app.rankOffset+app.layout().rankRows, picked))

	target := app.rankOffset
	send(t, app,
		tea.MouseMsg{Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{Y: rankingTop, Action: tea.MouseActionRelease},
	)
	require.Equal(t, picked, svc.Ranking()[target].Name)
}

func TestWheelScrollsPaneUnderPointer(t *testing.T) {
	t.Parallel()
	app, svc, _ := setupCatalogApp(t, catalog.Default())
	send(t, app, tea.WindowSizeMsg{Width: 100, Height: 24})
	top := app.poolTop()

	send(t, app, tea.MouseMsg{Y: top, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	require.Equal(t, 1, app.poolOffset)
	lines := strings.Split(app.View(), "\n")
	require.Equal(t, svc.Unranked()[1].Name, visibleName(lines[top]))

	send(t, app, tea.MouseMsg{Y: top, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, catalog.Default().Entities()[1].Name, names(svc))

	// scrolling never runs past either end
	for range 5 {
		send(t, app, tea.MouseMsg{Y: top, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	}
	require.Equal(t, 0, app.poolOffset)
}
