package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban-local/config"
	"goban-local/types"
)

type colorTarget int

const (
	targetBoard colorTarget = iota
	targetLine
	targetNumbers
)

type paletteEntry struct {
	code int
	name string
}

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()

	// Current selection
	selectedBoardColor  int
	selectedLineColor   int
	selectedNumberColor int
	target              colorTarget
}

// Common board colors to choose from (warm wood-like tones)
var boardColors = []paletteEntry{
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{228, "Light Gold"},
	{222, "Gold"},
	{220, "Bright Yellow"},
	{214, "Orange Gold"},
	{208, "Dark Orange"},
	{180, "Tan"},
	{179, "Light Brown"},
	{172, "Brown"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{252, "Light Gray"},
	{250, "Gray"},
	{248, "Medium Gray"},
	{244, "Dark Gray"},
	{188, "Light Beige"},
	{181, "Dusty Rose"},
	{223, "Peach"},
	{216, "Salmon"},
}

// Line colors (darker tones that contrast with board)
var lineColors = []paletteEntry{
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{136, "Dark Brown"},
	{88, "Dark Red"},
	{52, "Dark Maroon"},
	{22, "Dark Green"},
	{23, "Teal"},
	{24, "Dark Cyan"},
	{17, "Navy Blue"},
	{54, "Purple"},
	{232, "Black"},
	{236, "Dark Gray"},
	{240, "Gray"},
	{244, "Medium Gray"},
	{16, "True Black"},
}

// Move number colors (bright tones readable on both stone colors)
var numberColors = []paletteEntry{
	{160, "Red"},
	{196, "Bright Red"},
	{202, "Orange"},
	{33, "Blue"},
	{39, "Sky Blue"},
	{28, "Green"},
	{46, "Bright Green"},
	{129, "Violet"},
	{201, "Magenta"},
	{226, "Yellow"},
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:                 cfg,
		onDone:              onDone,
		selectedBoardColor:  cfg.Theme.Colors.BoardColor,
		selectedLineColor:   cfg.Theme.Colors.LineColor,
		selectedNumberColor: cfg.Theme.Colors.MoveNumberColor,
		target:              targetBoard,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)

	cc.populateColorList()

	// Moving through the list previews the color
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		palette := cc.palette()
		if index < 0 || index >= len(palette) {
			return
		}
		switch cc.target {
		case targetBoard:
			cc.selectedBoardColor = palette[index].code
		case targetLine:
			cc.selectedLineColor = palette[index].code
		case targetNumbers:
			cc.selectedNumberColor = palette[index].code
		}
	})

	// Enter applies it
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(cc.palette()) {
			return
		}
		cc.Apply()
		if cc.target == targetBoard {
			onDone()
			return
		}
		// Back to board color selection
		cc.target = targetBoard
		cc.populateColorList()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	// Layout: list on left, preview on right
	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

// Apply writes the color being edited to the config and saves it.
func (cc *ColorConfigUI) Apply() {
	colors := &cc.cfg.Theme.Colors
	switch cc.target {
	case targetBoard:
		colors.BoardColor = cc.selectedBoardColor
		colors.BoardColorAlt = cc.selectedBoardColor
	case targetLine:
		colors.LineColor = cc.selectedLineColor
	case targetNumbers:
		colors.MoveNumberColor = cc.selectedNumberColor
	}
	if err := cc.cfg.Save(); err != nil {
		cc.colorList.SetTitle(" Could not save config ")
	}
}

func (cc *ColorConfigUI) palette() []paletteEntry {
	switch cc.target {
	case targetLine:
		return lineColors
	case targetNumbers:
		return numberColors
	}
	return boardColors
}

func (cc *ColorConfigUI) selectedCode() int {
	switch cc.target {
	case targetLine:
		return cc.selectedLineColor
	case targetNumbers:
		return cc.selectedNumberColor
	}
	return cc.selectedBoardColor
}

// populateColorList fills the list with the palette being edited.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	switch cc.target {
	case targetBoard:
		cc.colorList.SetTitle(" Board Color (Tab: line) ")
	case targetLine:
		cc.colorList.SetTitle(" Line Color (Tab: numbers) ")
	case targetNumbers:
		cc.colorList.SetTitle(" Move Number Color (Tab: board) ")
	}

	// Keep the current choice across the change callbacks fired by AddItem
	current := cc.selectedCode()
	palette := cc.palette()
	for i, c := range palette {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range palette {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

// previewStones is a sample position with move numbers for the preview board.
var previewStones = map[types.Point]struct {
	stone  types.Stone
	number int
}{
	{X: 2, Y: 2}: {types.Black, 1},
	{X: 3, Y: 2}: {types.White, 2},
	{X: 2, Y: 3}: {types.Black, 3},
	{X: 3, Y: 3}: {types.White, 4},
	{X: 4, Y: 4}: {types.Black, 5},
	{X: 3, Y: 4}: {types.White, 6},
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	boardColor := tcell.PaletteColor(cc.selectedBoardColor)
	blackColor := tcell.PaletteColor(cc.cfg.Theme.Colors.BlackColor)
	whiteColor := tcell.PaletteColor(cc.cfg.Theme.Colors.WhiteColor)
	lineColor := tcell.PaletteColor(cc.selectedLineColor)
	numberColor := tcell.PaletteColor(cc.selectedNumberColor)

	boardStyle := tcell.StyleDefault.Background(boardColor).Foreground(lineColor)
	blackStyle := tcell.StyleDefault.Background(boardColor).Foreground(blackColor)
	whiteStyle := tcell.StyleDefault.Background(boardColor).Foreground(whiteColor)
	numberStyle := tcell.StyleDefault.Background(boardColor).Foreground(numberColor)

	// Draw a 7x7 preview board
	startX := x + 2
	startY := y + 1
	size := 7

	if width < 20 || height < 10 {
		return x, y, width, height
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			p := types.Point{X: col, Y: row}
			cell, hasStone := previewStones[p]
			_, hasStoneRight := previewStones[types.Point{X: col + 1, Y: row}]

			switch {
			case hasStone && cc.target == targetNumbers:
				drawNumberCell(screen, numberStyle, cell.number, col, row, startX, startY)
			case hasStone:
				style := blackStyle
				if cell.stone == types.White {
					style = whiteStyle
				}
				drawStoneCell(screen, style, '●', col, row, startX, startY)
			default:
				drawGridCell(screen, boardStyle, getGridRune(col, row, size, size, false), col, row, startX, startY, size, hasStoneRight)
			}
		}
	}

	info := fmt.Sprintf("Board: %d  Line: %d  Numbers: %d", cc.selectedBoardColor, cc.selectedLineColor, cc.selectedNumberColor)
	drawText(screen, startX, startY+size+1, info, tcell.StyleDefault)

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode cycles between the board, line and move number colors.
func (cc *ColorConfigUI) ToggleMode() {
	cc.target = (cc.target + 1) % 3
	cc.populateColorList()
}
