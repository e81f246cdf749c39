// Package ui specifies custom controls for tview to assist in playing Go in the terminal.
package ui

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban-local/config"
	"goban-local/engine"
	"goban-local/engine/gtp"
	"goban-local/session"
	"goban-local/sgf"
	"goban-local/types"
)

type GoBoardUI struct {
	Box         *tview.Box
	BoardState  *types.BoardState
	hint        *tview.TextView
	cfg         *config.Config
	selX        int
	selY        int
	game        engine.Game
	komi        float64
	record      *sgf.GameRecord
	styles      []tcell.Color
	infoPanel   *GameInfoPanel
	focusMode   bool
	editMode    bool
	showNumbers bool
	status      string
	logger      *slog.Logger
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *GoBoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *GoBoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *GoBoardUI) IsFocusMode() bool {
	return g.focusMode
}

// ToggleEditMode switches Enter between playing moves and editing cells.
func (g *GoBoardUI) ToggleEditMode() bool {
	g.editMode = !g.editMode
	g.status = ""
	g.refreshHint()
	return g.editMode
}

// ToggleMoveNumbers shows or hides move numbers on the stones.
func (g *GoBoardUI) ToggleMoveNumbers() bool {
	g.showNumbers = !g.showNumbers
	return g.showNumbers
}

func (g *GoBoardUI) SelectedTile() *types.Point {
	if g.selX == -1 && g.selY == -1 {
		return nil
	}
	return &types.Point{X: g.selX, Y: g.selY}
}

func (g *GoBoardUI) MoveSelection(h, v int) {
	if g.game == nil {
		return
	}
	prevTile := g.SelectedTile()
	if prevTile == nil {
		g.selX = g.BoardState.LastMove.X
		g.selY = g.BoardState.LastMove.Y
		if g.SelectedTile() == nil {
			// No previous move made, use board center
			g.selX = int(g.BoardState.Width() / 2)
			g.selY = int(g.BoardState.Height() / 2)
		}
		return
	}
	if g.selX+h < 0 || g.selX+h >= g.BoardState.Width() {
		return
	}
	if g.selY+v < 0 || g.selY+v >= g.BoardState.Height() {
		return
	}
	g.selX += h
	g.selY += v
}

func (g *GoBoardUI) ResetSelection() {
	g.selX = -1
	g.selY = -1
}

func NewGoBoard(c *config.Config, hint *tview.TextView, logger *slog.Logger) *GoBoardUI {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	goBoard := &GoBoardUI{
		Box:         tview.NewBox(),
		BoardState:  &types.BoardState{LastMove: types.NoPoint},
		hint:        hint,
		selX:        -1,
		selY:        -1,
		showNumbers: c.Game.ShowMoveNumbers,
		logger:      logger,
	}
	goBoard.SetConfig(c)
	goBoard.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		if goBoard.BoardState == nil || goBoard.BoardState.Width() == 0 {
			return x, y, 1, 1
		}
		// 2 characters per cell for square appearance
		boardW, boardH := goBoard.BoardState.Width()*2, goBoard.BoardState.Height()

		for boardY := 0; boardY < goBoard.BoardState.Height(); boardY++ {
			for boardX := 0; boardX < goBoard.BoardState.Width(); boardX++ {
				stone := goBoard.BoardState.Board[boardY][boardX]
				i := int(stone)
				if !goBoard.cfg.Theme.DrawStoneBackground {
					i = 0
				}
				var fgColor tcell.Color
				// Get color and inverted color
				iInv := 0
				if stone == types.Black {
					iInv = 2
				} else if stone == types.White {
					iInv = 1
				}
				if (boardX%2 + boardY%2) == 1 {
					i += 3
					iInv += 3
				}
				var drawRune rune
				if goBoard.cfg.Theme.UseGridLines && stone == types.Empty {
					hoshi := isHoshiPoint(boardX, boardY, goBoard.BoardState.Width())
					drawRune = getGridRune(boardX, boardY, goBoard.BoardState.Width(), goBoard.BoardState.Height(), hoshi)
				} else {
					drawRune = goBoard.cfg.Theme.Symbols.BoardSquare
				}

				if stone != types.Empty {
					switch stone {
					case types.Black:
						drawRune = goBoard.cfg.Theme.Symbols.BlackStone
					case types.White:
						drawRune = goBoard.cfg.Theme.Symbols.WhiteStone
					}
					if goBoard.cfg.Theme.DrawStoneBackground {
						// Cursor color is inverted stone color, or cursor color when not on a stone.
						fgColor = goBoard.styles[iInv]
					} else {
						// There's a stone but no background drawing, adjust the fg color instead to selected stone
						fgColor = goBoard.styles[stone]
					}
				} else {
					// No stone, use line color for grid
					fgColor = goBoard.styles[9]
				}
				lastMove := goBoard.BoardState.LastMove
				if boardX == goBoard.selX && boardY == goBoard.selY {
					if goBoard.cfg.Theme.DrawCursorBackground {
						i = 8
					} else if !goBoard.cfg.Theme.UseGridLines {
						drawRune = goBoard.cfg.Theme.Symbols.Cursor
					}
				} else if boardX == lastMove.X && boardY == lastMove.Y {
					if goBoard.cfg.Theme.DrawLastPlayedBackground {
						i = 7
					} else if !goBoard.cfg.Theme.UseGridLines {
						drawRune = goBoard.cfg.Theme.Symbols.LastPlayed
					}
				}

				style := tcell.StyleDefault.Background(goBoard.styles[i]).Foreground(fgColor)
				number := goBoard.BoardState.MoveNumbers[boardY][boardX]
				switch {
				case goBoard.showNumbers && stone != types.Empty && number > 0:
					drawNumberCell(screen, style.Foreground(goBoard.styles[10]), number, boardX, boardY, x+4, y)
				case goBoard.cfg.Theme.UseGridLines && stone == types.Empty:
					// Check if there's a stone to the right (no line should connect to it)
					hasStoneRight := false
					if boardX < goBoard.BoardState.Width()-1 {
						hasStoneRight = goBoard.BoardState.Board[boardY][boardX+1] != types.Empty
					}
					drawGridCell(screen, style, drawRune, boardX, boardY, x+4, y, goBoard.BoardState.Width(), hasStoneRight)
				default:
					drawStoneCell(screen, style, drawRune, boardX, boardY, x+4, y)
				}
			}
		}
		drawCoordinates(screen, x, y, goBoard)
		// Add offset for coordinate display
		return x, y, boardW + 4, boardH + 2
	})
	return goBoard
}

// SetGame attaches a game to the board and starts recording it as SGF when
// the config asks for it.
func (g *GoBoardUI) SetGame(game engine.Game, komi float64) {
	g.Close()
	g.game = game
	g.komi = komi
	g.editMode = false
	g.status = ""
	g.ResetSelection()
	if g.infoPanel != nil {
		g.infoPanel.SetKomi(komi)
	}

	if g.cfg.Game.RecordSGF {
		rec, err := sgf.NewGameRecord(g.cfg.SGFDir(), game.Size(), komi)
		if err != nil {
			g.logger.Warn("sgf recording disabled", "error", err)
		} else {
			g.record = rec
			g.logger.Info("recording game", "path", rec.FilePath)
		}
	}
	g.refresh()
}

// Game returns the attached game, nil before SetGame.
func (g *GoBoardUI) Game() engine.Game {
	return g.game
}

// Komi returns the komi of the attached game.
func (g *GoBoardUI) Komi() float64 {
	return g.komi
}

// RecordPath returns the file the game is recorded to, empty when not recording.
func (g *GoBoardUI) RecordPath() string {
	if g.record == nil {
		return ""
	}
	return g.record.FilePath
}

// PlayMove plays a move at the given coordinates. In edit mode it cycles the
// cell through empty, black and white instead.
func (g *GoBoardUI) PlayMove(x, y int) {
	if g.game == nil {
		return
	}
	if g.editMode {
		next := (g.game.Cell(x, y) + 1) % 3
		g.game.SetCellDirect(x, y, next)
		g.status = fmt.Sprintf("%s set to %s", gtp.FormatVertex(x, y, g.game.Size()), next)
		g.refresh()
		return
	}
	player := g.game.CurrentPlayer()
	if err := g.game.PlaceStone(x, y); err != nil {
		g.status = fmt.Sprintf("Illegal move: %s", session.Status(err))
		g.refreshHint()
		return
	}
	g.status = fmt.Sprintf("%s played %s", colorName(player), gtp.FormatVertex(x, y, g.game.Size()))
	g.refresh()
}

// Pass passes the current turn.
func (g *GoBoardUI) Pass() {
	if g.game == nil || g.editMode {
		return
	}
	player := g.game.CurrentPlayer()
	g.game.Pass()
	g.status = fmt.Sprintf("%s passed", colorName(player))
	g.refresh()
}

// Undo steps back one move.
func (g *GoBoardUI) Undo() {
	if g.game == nil {
		return
	}
	if !g.game.Undo() {
		g.status = "Nothing to undo"
		g.refreshHint()
		return
	}
	g.status = "Undone"
	g.refresh()
}

// Redo steps forward one move.
func (g *GoBoardUI) Redo() {
	if g.game == nil {
		return
	}
	if !g.game.Redo() {
		g.status = "Nothing to redo"
		g.refreshHint()
		return
	}
	g.status = "Redone"
	g.refresh()
}

// SetStatus shows a one-line message above the controls.
func (g *GoBoardUI) SetStatus(status string) {
	g.status = status
	g.refreshHint()
}

// Close stops recording the current game.
func (g *GoBoardUI) Close() {
	if g.record == nil {
		return
	}
	g.record.Close()
	g.record = nil
}

func (g *GoBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),        // 0
		tcell.PaletteColor(c.Theme.Colors.BlackColor),        // 1
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),        // 2
		tcell.PaletteColor(c.Theme.Colors.BoardColorAlt),     // 3
		tcell.PaletteColor(c.Theme.Colors.BlackColorAlt),     // 4
		tcell.PaletteColor(c.Theme.Colors.WhiteColorAlt),     // 5
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG),     // 6
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG), // 7
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // 8
		tcell.PaletteColor(c.Theme.Colors.LineColor),         // 9
		tcell.PaletteColor(c.Theme.Colors.MoveNumberColor),   // 10
	}
	g.cfg = c
}

// refresh takes a new snapshot of the game and mirrors its moves to the SGF record.
func (g *GoBoardUI) refresh() {
	g.BoardState = g.game.Snapshot()
	if g.record != nil {
		if err := g.record.Sync(g.game.Moves()); err != nil {
			g.logger.Warn("sgf sync failed", "path", g.record.FilePath, "error", err)
		}
	}
	if g.infoPanel != nil {
		g.infoPanel.SetMoves(g.game.Moves())
	}
	g.refreshHint()
}

func (g *GoBoardUI) refreshHint() {
	if g.infoPanel != nil {
		g.infoPanel.SetBoardState(g.BoardState)
	}

	// Focus mode shows minimal hint
	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	if g.game == nil {
		g.hint.SetText("")
		return
	}

	var statusLine, turnLine, controlsLine string
	if g.status != "" {
		statusLine = fmt.Sprintf("  %s\n", g.status)
	}

	if g.editMode {
		turnLine = "  ✎ Edit mode: ⏎ cycles empty/black/white\n"
	} else {
		stone := "●"
		if g.game.CurrentPlayer() == types.White {
			stone = "○"
		}
		turnLine = fmt.Sprintf("  %s %s to play\n", stone, colorName(g.game.CurrentPlayer()))
	}

	controlsLine = `  hjkl/↑↓←→ move   ⏎ play   p pass   u/r undo/redo
  e edit   n numbers   s save   c code   f focus   q quit`

	g.hint.SetText(fmt.Sprintf("%s%s%s", statusLine, turnLine, controlsLine))
}

func colorName(s types.Stone) string {
	if s == types.White {
		return "White"
	}
	return "Black"
}

// drawStoneCell draws a stone cell (2 characters wide)
func drawStoneCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t int) {
	s.SetContent(l+x*2, t+y, r, nil, c)
	// Position 1: space (stone covers the area, no line)
	s.SetContent(l+x*2+1, t+y, ' ', nil, c)
}

// drawNumberCell draws the last two digits of a move number over a stone.
func drawNumberCell(s tcell.Screen, c tcell.Style, number, x, y, l, t int) {
	label := fmt.Sprintf("%2d", number%100)
	s.SetContent(l+x*2, t+y, rune(label[0]), nil, c.Bold(true))
	s.SetContent(l+x*2+1, t+y, rune(label[1]), nil, c.Bold(true))
}

// drawGridCell draws a cell using box-drawing characters for grid lines
func drawGridCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t, boardWidth int, hasStoneRight bool) {
	// 2-char cell: [intersection][right-line]
	s.SetContent(l+x*2, t+y, r, nil, c)

	// Right connector: space if at right edge or if there's a stone to the right
	rightConn := '─'
	if x == boardWidth-1 || hasStoneRight {
		rightConn = ' '
	}
	s.SetContent(l+x*2+1, t+y, rightConn, nil, c)
}

// getGridRune returns the appropriate box-drawing character for a grid position
func getGridRune(x, y, width, height int, isHoshi bool) rune {
	if isHoshi {
		return '◦'
	}

	isTop := y == 0
	isBottom := y == height-1
	isLeft := x == 0
	isRight := x == width-1

	switch {
	case isTop && isLeft:
		return '┌'
	case isTop && isRight:
		return '┐'
	case isBottom && isLeft:
		return '└'
	case isBottom && isRight:
		return '┘'
	case isTop:
		return '┬'
	case isBottom:
		return '┴'
	case isLeft:
		return '├'
	case isRight:
		return '┤'
	default:
		return '┼'
	}
}

// isHoshiPoint checks if a position is a hoshi (star point) on the board
func isHoshiPoint(x, y, boardSize int) bool {
	var hoshiPositions [][2]int

	switch boardSize {
	case 9:
		hoshiPositions = [][2]int{
			{2, 2}, {2, 6},
			{4, 4},
			{6, 2}, {6, 6},
		}
	case 13:
		hoshiPositions = [][2]int{
			{3, 3}, {3, 9},
			{6, 6},
			{9, 3}, {9, 9},
		}
	case 19:
		hoshiPositions = [][2]int{
			{3, 3}, {3, 9}, {3, 15},
			{9, 3}, {9, 9}, {9, 15},
			{15, 3}, {15, 9}, {15, 15},
		}
	default:
		return false
	}

	for _, pos := range hoshiPositions {
		if x == pos[0] && y == pos[1] {
			return true
		}
	}
	return false
}

// columnLetter returns the GTP column letter of x, which skips I.
func columnLetter(x, size int, fullWidth bool) rune {
	letter := rune(gtp.FormatVertex(x, 0, size)[0])
	if fullWidth {
		return 'Ａ' + (letter - 'A')
	}
	return letter
}

func drawCoordinates(s tcell.Screen, x, y int, ui *GoBoardUI) {
	w, h := ui.BoardState.Width(), ui.BoardState.Height()

	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(ui.styles[8])
	lpHighlight := tcell.StyleDefault.Background(ui.styles[7])

	for ix := 0; ix < w; ix++ {
		_style := style
		if ix == ui.selX {
			_style = highlight
		} else if ix == ui.BoardState.LastMove.X {
			_style = lpHighlight
		}
		// 2-char cells
		s.SetContent(x+4+(ix*2), y+h+1, columnLetter(ix, w, ui.cfg.Theme.FullWidthLetters), nil, _style)
		s.SetContent(x+4+(ix*2)+1, y+h+1, ' ', nil, _style)
	}

	for iy := 0; iy < h; iy++ {
		iyInv := h - iy - 1 // Board coordinates starts top left, Go board starts bottom left
		_style := style
		if iyInv == ui.selY {
			_style = highlight
		} else if iyInv == ui.BoardState.LastMove.Y {
			_style = lpHighlight
		}
		displayNum := iy + 1
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + displayNum/10)
		}
		s.SetContent(x+1, y+h-iy-1, tensRune, nil, _style)
		s.SetContent(x+2, y+h-iy-1, rune('0'+(displayNum%10)), nil, _style)
	}
}
