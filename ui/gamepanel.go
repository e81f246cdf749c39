package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"goban-local/engine/gtp"
	"goban-local/types"
)

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	boardState *types.BoardState
	komi       float64
	moves      []types.Move
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box:  tview.NewTextView(),
		komi: 6.5,
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.refresh()
}

// SetKomi sets the komi value for display.
func (p *GameInfoPanel) SetKomi(komi float64) {
	p.komi = komi
	p.refresh()
}

// SetMoves sets the moves leading to the current position.
func (p *GameInfoPanel) SetMoves(moves []types.Move) {
	p.moves = moves
}

// Text returns what the panel currently shows, without color tags.
func (p *GameInfoPanel) Text() string {
	return p.box.GetText(true)
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	if p.boardState == nil || p.boardState.Width() == 0 {
		p.box.SetText("")
		return
	}

	var text string

	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"

	text += fmt.Sprintf("[white]To play:[-:-:-] %s\n", colorName(p.boardState.PlayerToMove))
	text += fmt.Sprintf("[white]Komi:[-:-:-] %.1f\n", p.komi)
	text += fmt.Sprintf("[white]Move:[-:-:-] %d/%d\n", p.boardState.MoveNumber, p.boardState.TotalMoves)
	text += fmt.Sprintf("[white]Captures:[-:-:-] B %d  W %d\n", p.boardState.BlackCaptures, p.boardState.WhiteCaptures)

	if len(p.moves) > 0 {
		text += "\n[white::b]Moves[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"

		// Show last N moves that fit, with scroll
		maxVisible := 12
		start := 0
		if len(p.moves) > maxVisible {
			start = len(p.moves) - maxVisible
		}

		for i := start; i < len(p.moves); i++ {
			m := p.moves[i]

			colorStr := "[white]B[-]"
			if m.Player == types.White {
				colorStr = "[dimgray]W[-]"
			}

			marker := " "
			if i == len(p.moves)-1 {
				marker = "[white]>[-]"
			}

			text += fmt.Sprintf("%s[dimgray]%3d.[-] %s %s\n", marker, i+1, colorStr, gtp.FormatMove(m, p.boardState.Size))
		}

		if start > 0 {
			text += fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	if undone := p.boardState.TotalMoves - p.boardState.MoveNumber; undone > 0 {
		text += fmt.Sprintf("\n[dimgray]%d undone, r to redo[-]\n", undone)
	}

	p.box.SetText(text)
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *GoBoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint)
	return mainFlex
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *GoBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()

	// Store panel reference in board for updates
	board.infoPanel = infoPanel
	infoPanel.SetKomi(board.Komi())
	if game := board.Game(); game != nil {
		infoPanel.SetMoves(game.Moves())
	}
	infoPanel.SetBoardState(board.BoardState)

	// Create horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)         // Board (flexible, takes remaining space)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false) // Info panel (fixed width)

	// Main vertical flex: board area on top, status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 5, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *GoBoardUI) {
	gameFrame.Clear()

	// Calculate board dimensions
	boardWidth := 22 // default for 9x9
	boardHeight := 11
	if board.BoardState != nil && board.BoardState.Width() > 0 {
		boardWidth = board.BoardState.Width()*2 + 4 // 2 chars per cell + coordinates
		boardHeight = board.BoardState.Height() + 2 // + coordinates
	}

	// Center board with flex spacers
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)               // left spacer
	centerRow.AddItem(board.Box, boardWidth, 0, true) // board (fixed width)
	centerRow.AddItem(nil, 0, 1, false)               // right spacer

	gameFrame.AddItem(centerRow, boardHeight, 0, true) // center row (fixed height)
	gameFrame.AddItem(nil, 0, 1, false)                // bottom spacer
}
