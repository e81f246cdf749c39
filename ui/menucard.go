package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuCard is a styled header card with rounded borders, a title and an
// optional subtitle.
type MenuCard struct {
	*tview.Box
	title    string
	subtitle string
}

// NewMenuCard creates a new menu card with the given title.
func NewMenuCard(title, subtitle string) *MenuCard {
	return &MenuCard{
		Box:      tview.NewBox(),
		title:    title,
		subtitle: subtitle,
	}
}

// Draw renders the menu card with rounded borders.
func (c *MenuCard) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width < 10 || height < 4 {
		return
	}

	borderStyle := tcell.StyleDefault.Foreground(MenuColors.Border).Background(MenuColors.CardBG)
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)

	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bgStyle)
		}
	}

	// ╭───╮ top, ╰───╯ bottom
	bottom := y + height - 1
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y, '─', nil, borderStyle)
		screen.SetContent(col, bottom, '─', nil, borderStyle)
	}
	for row := y + 1; row < bottom; row++ {
		screen.SetContent(x, row, '│', nil, borderStyle)
		screen.SetContent(x+width-1, row, '│', nil, borderStyle)
	}
	screen.SetContent(x, y, '╭', nil, borderStyle)
	screen.SetContent(x+width-1, y, '╮', nil, borderStyle)
	screen.SetContent(x, bottom, '╰', nil, borderStyle)
	screen.SetContent(x+width-1, bottom, '╯', nil, borderStyle)

	// ⬡  G O B A N
	titleStyle := tcell.StyleDefault.Foreground(MenuColors.Title).Background(MenuColors.CardBG).Bold(true)
	accentStyle := tcell.StyleDefault.Foreground(MenuColors.TitleAccent).Background(MenuColors.CardBG)
	titleLen := len([]rune(c.title)) + 3
	titleX := x + (width-titleLen)/2
	screen.SetContent(titleX, y+1, '⬡', nil, accentStyle)
	drawText(screen, titleX+3, y+1, c.title, titleStyle)

	if c.subtitle != "" && height >= 5 {
		hintStyle := tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)
		subX := x + (width-len([]rune(c.subtitle)))/2
		drawText(screen, subX, y+2, c.subtitle, hintStyle)
	}
}
