package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban-local/engine"
	"goban-local/sgf"
	"goban-local/store"
	"goban-local/types"
)

const storeTimeout = 5 * time.Second

// HistoryActions are the callbacks the history screen hands its choices to.
type HistoryActions struct {
	Load    func(store.Game)
	LoadSGF func(path string)
	Done    func()
}

// HistoryBrowserUI provides a screen for browsing saved games and SGF records.
type HistoryBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	store    store.Store
	sgfDir   string
	newGame  engine.Factory
	logger   *slog.Logger
	actions  HistoryActions
	records  bool // listing SGF records instead of saved games
	games    []store.Game
	sgfGames []sgf.GameInfo
	boards   map[string][][]types.Stone // cached positions by game id or record path
	selected int
}

// NewHistoryBrowser creates a new saved games screen. Previews of saved games
// are rebuilt by loading each game code into a fresh game from newGame; SGF
// records from sgfDir are replayed from the file.
func NewHistoryBrowser(st store.Store, sgfDir string, newGame engine.Factory, logger *slog.Logger, actions HistoryActions) *HistoryBrowserUI {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hb := &HistoryBrowserUI{
		store:   st,
		sgfDir:  sgfDir,
		newGame: newGame,
		logger:  logger,
		actions: actions,
		boards:  make(map[string][][]types.Stone),
	}

	// Game list (left panel)
	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetTitle(" Saved Games ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	// Preview box (right panel)
	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Preview ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	// Hint bar
	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetBorder(false)
	hb.hint.SetText("  [dimgray]⏎[-] load  [dimgray]d[-] delete  [dimgray]tab[-] saved/records  [dimgray]q[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.gameList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.loadSelected()
	})

	hb.gameList.SetInputCapture(hb.handleInput)

	// Layout: list left, preview right, hint bottom
	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 38, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	return hb
}

// Flex returns the flex container for this UI.
func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the list currently shown.
func (hb *HistoryBrowserUI) Refresh() {
	hb.boards = make(map[string][][]types.Stone)
	hb.gameList.Clear()
	hb.games = nil
	hb.sgfGames = nil
	hb.selected = 0
	if hb.records {
		hb.gameList.SetTitle(" SGF Records ")
		hb.loadRecords()
	} else {
		hb.gameList.SetTitle(" Saved Games ")
		hb.loadGames()
	}
}

// ToggleRecords switches between saved games and SGF records.
func (hb *HistoryBrowserUI) ToggleRecords() {
	hb.records = !hb.records
	hb.Refresh()
}

// Games returns the listed games, newest first.
func (hb *HistoryBrowserUI) Games() []store.Game {
	return hb.games
}

// Records returns the listed SGF records, newest first.
func (hb *HistoryBrowserUI) Records() []sgf.GameInfo {
	return hb.sgfGames
}

func (hb *HistoryBrowserUI) loadGames() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	games, err := hb.store.List(ctx)
	if err != nil {
		hb.logger.Error("could not list saved games", "error", err)
		hb.gameList.AddItem("[red]Could not read saved games[-]", "", 0, nil)
		return
	}
	if len(games) == 0 {
		hb.gameList.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("%dx%d", g.Size, g.Size)
		}
		label := fmt.Sprintf("%s  %s", g.SavedAt.Local().Format("2006-01-02 15:04"), name)
		hb.gameList.AddItem(label, "", 0, nil)
	}
}

func (hb *HistoryBrowserUI) loadRecords() {
	records, err := sgf.ListGames(hb.sgfDir)
	if err != nil {
		hb.logger.Error("could not list sgf records", "dir", hb.sgfDir, "error", err)
		hb.gameList.AddItem("[red]Could not read SGF records[-]", "", 0, nil)
		return
	}
	if len(records) == 0 {
		hb.gameList.AddItem("[dimgray]No records found[-]", "", 0, nil)
		return
	}

	hb.sgfGames = records
	for _, r := range records {
		label := fmt.Sprintf("%s  %dx%d  %d moves", r.Date, r.BoardSize, r.BoardSize, r.MoveCount)
		hb.gameList.AddItem(label, "", 0, nil)
	}
}

func (hb *HistoryBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hb.actions.Done != nil {
			hb.actions.Done()
		}
		return nil
	case tcell.KeyTab:
		hb.ToggleRecords()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hb.actions.Done != nil {
				hb.actions.Done()
			}
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		}
	}
	return event
}

func (hb *HistoryBrowserUI) current() (store.Game, bool) {
	if hb.records || hb.selected < 0 || hb.selected >= len(hb.games) {
		return store.Game{}, false
	}
	return hb.games[hb.selected], true
}

func (hb *HistoryBrowserUI) currentRecord() (sgf.GameInfo, bool) {
	if !hb.records || hb.selected < 0 || hb.selected >= len(hb.sgfGames) {
		return sgf.GameInfo{}, false
	}
	return hb.sgfGames[hb.selected], true
}

func (hb *HistoryBrowserUI) loadSelected() {
	if rec, ok := hb.currentRecord(); ok {
		if hb.actions.LoadSGF != nil {
			hb.actions.LoadSGF(rec.FilePath)
		}
		return
	}
	game, ok := hb.current()
	if !ok || hb.actions.Load == nil {
		return
	}
	hb.actions.Load(game)
}

// deleteSelected removes the selected saved game from the store, or the
// selected record from disk.
func (hb *HistoryBrowserUI) deleteSelected() {
	if rec, ok := hb.currentRecord(); ok {
		if err := os.Remove(rec.FilePath); err != nil {
			hb.logger.Error("could not delete record", "path", rec.FilePath, "error", err)
		} else {
			hb.logger.Info("record deleted", "path", rec.FilePath)
		}
		hb.Refresh()
		return
	}

	game, ok := hb.current()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := hb.store.Delete(ctx, game.ID); err != nil {
		hb.logger.Error("could not delete game", "id", game.ID, "error", err)
	} else {
		hb.logger.Info("game deleted", "id", game.ID)
	}
	hb.Refresh()
}

// position returns the final position of a saved game, nil when its code no
// longer loads.
func (hb *HistoryBrowserUI) position(g store.Game) [][]types.Stone {
	if board, ok := hb.boards[g.ID]; ok {
		return board
	}
	var board [][]types.Stone
	game, err := hb.newGame(g.Size)
	if err == nil {
		err = game.Deserialize(g.Code)
	}
	if err != nil {
		hb.logger.Warn("saved game does not load", "id", g.ID, "error", err)
	} else {
		board = game.Snapshot().Board
	}
	hb.boards[g.ID] = board
	return board
}

// recordPosition returns the final position of an SGF record, nil when the
// file no longer parses.
func (hb *HistoryBrowserUI) recordPosition(r sgf.GameInfo) [][]types.Stone {
	if board, ok := hb.boards[r.FilePath]; ok {
		return board
	}
	board, _, err := sgf.ReplayToEnd(r.FilePath)
	if err != nil {
		hb.logger.Warn("sgf record does not load", "path", r.FilePath, "error", err)
		board = nil
	}
	hb.boards[r.FilePath] = board
	return board
}

// drawPreview renders a mini board preview and game metadata.
func (hb *HistoryBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	startX := x + 2
	startY := y + 1
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	errStyle := tcell.StyleDefault.Foreground(MenuColors.Error)

	if rec, ok := hb.currentRecord(); ok {
		board := hb.recordPosition(rec)
		if board == nil {
			drawText(screen, startX, startY, "Record does not load", errStyle)
			return x, y, width, height
		}
		if !drawMiniBoard(screen, board, startX, startY, width, height) {
			return x, y, width, height
		}
		infoY := startY + len(board) + 1
		drawText(screen, startX, infoY, fmt.Sprintf("%dx%d", rec.BoardSize, rec.BoardSize), infoStyle)
		drawText(screen, startX+6, infoY, fmt.Sprintf("| %d moves  komi %.1f", rec.MoveCount, rec.Komi), dimStyle)
		if rec.Result != "" {
			infoY++
			drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", rec.Result), dimStyle)
		}
		infoY++
		drawText(screen, startX, infoY, rec.FileName, dimStyle)
		return x, y, width, height
	}

	game, ok := hb.current()
	if !ok {
		return x, y, width, height
	}

	board := hb.position(game)
	if board == nil {
		drawText(screen, startX, startY, "Game code does not load", errStyle)
		return x, y, width, height
	}
	if !drawMiniBoard(screen, board, startX, startY, width, height) {
		return x, y, width, height
	}

	// Metadata below the board
	infoY := startY + len(board) + 1

	drawText(screen, startX, infoY, fmt.Sprintf("%dx%d", game.Size, game.Size), infoStyle)
	drawText(screen, startX+6, infoY, fmt.Sprintf("| %d moves", game.Moves), dimStyle)

	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("Saved: %s", game.SavedAt.Local().Format("2006-01-02 15:04")), dimStyle)
	if game.SGFPath != "" {
		infoY++
		drawText(screen, startX, infoY, fmt.Sprintf("SGF: %s", game.SGFPath), dimStyle)
	}

	return x, y, width, height
}

// drawMiniBoard draws one character per point. It reports false when the box
// is too small to hold the board and its metadata.
func drawMiniBoard(screen tcell.Screen, board [][]types.Stone, startX, startY, width, height int) bool {

	size := len(board)
	if width < size+4 || height < size+6 {
		return false
	}

	emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	blackStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
	whiteStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))

	for by := 0; by < size; by++ {
		for bx := 0; bx < size; bx++ {
			ch := '·'
			style := emptyStyle
			switch board[by][bx] {
			case types.Black:
				ch = '●'
				style = blackStyle
			case types.White:
				ch = '○'
				style = whiteStyle
			}
			screen.SetContent(startX+bx, startY+by, ch, nil, style)
		}
	}
	return true
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
