package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban-local/config"
	"goban-local/engine"
)

var boardSizes = []int{9, 13, 19}

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	cfg      *config.Config
	onStart  func(engine.GameConfig)
	onCancel func()
	onColors func()
	onSaved  func()

	boardSize    int
	komi         float64
	code         string
	sgfPath      string
	rememberSize bool
}

// NewGameSetup creates a new game setup form.
func NewGameSetup(cfg *config.Config, onStart func(engine.GameConfig), onCancel func(), onColors func(), onSaved func()) *GameSetupUI {
	setup := &GameSetupUI{
		cfg:       cfg,
		onStart:   onStart,
		onCancel:  onCancel,
		onColors:  onColors,
		onSaved:   onSaved,
		boardSize: cfg.Game.DefaultBoardSize,
		komi:      cfg.Game.DefaultKomi,
	}

	sizeLabels := make([]string, len(boardSizes))
	initial := len(boardSizes) - 1
	for i, size := range boardSizes {
		sizeLabels[i] = strconv.Itoa(size) + "x" + strconv.Itoa(size)
		if size == setup.boardSize {
			initial = i
		}
	}

	form := tview.NewForm()

	form.AddDropDown("Board Size", sizeLabels, initial, func(option string, index int) {
		setup.boardSize = boardSizes[index]
	})

	form.AddInputField("Komi", strconv.FormatFloat(setup.komi, 'f', 1, 64), 8, func(text string, lastChar rune) bool {
		// Allow digits, decimal point, and minus sign
		return (lastChar >= '0' && lastChar <= '9') || lastChar == '.' || lastChar == '-'
	}, func(text string) {
		if val, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			setup.komi = val
		}
	})

	form.AddInputField("Game Code", "", 40, nil, func(text string) {
		setup.code = strings.TrimSpace(text)
	})

	form.AddInputField("SGF File", "", 40, nil, func(text string) {
		setup.sgfPath = strings.TrimSpace(text)
	})

	form.AddCheckbox("Remember Size", false, func(checked bool) {
		setup.rememberSize = checked
	})

	form.AddButton("Start Game", func() {
		setup.remember()
		onStart(setup.GameConfig())
	})

	form.AddButton("Saved Games", func() {
		if onSaved != nil {
			onSaved()
		}
	})

	form.AddButton("Board Color", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(tcell.ColorGray)

	header := NewMenuCard("G O B A N", "two players, one board")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 5, 0, false).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// GameConfig returns the game the form currently describes. A code or SGF
// file takes the board size from the record instead.
func (s *GameSetupUI) GameConfig() engine.GameConfig {
	return engine.GameConfig{
		BoardSize: s.boardSize,
		Komi:      s.komi,
		Code:      s.code,
		SGFPath:   s.sgfPath,
	}
}

// remember stores the chosen board size as the default when asked to.
func (s *GameSetupUI) remember() {
	if !s.rememberSize || s.cfg.Game.DefaultBoardSize == s.boardSize {
		return
	}
	s.cfg.Game.DefaultBoardSize = s.boardSize
	if err := s.cfg.Save(); err != nil {
		s.form.SetTitle(" New Game (could not save config) ")
	}
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
