// goban-local is a terminal Go board for two players sharing a keyboard.
// With --gtp it serves the same game over the Go Text Protocol on stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban-local/config"
	"goban-local/engine"
	"goban-local/engine/gtp"
	"goban-local/session"
	"goban-local/sgf"
	"goban-local/store"
	"goban-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagBoardSize = flag.Int("boardsize", 0, "Board size (9, 13, or 19)")
	flagCode      = flag.String("code", "", "Start from a game code")
	flagSGF       = flag.String("sgf", "", "Start from an SGF file")
	flagGTP       = flag.Bool("gtp", false, "Serve GTP on stdin/stdout instead of the terminal UI")
	flagFocus     = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagVersion   = flag.Bool("version", false, "Print version and exit")
)

var _ engine.Game = (*session.Session)(nil)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.GoBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var history *ui.HistoryBrowserUI
var cfg *config.Config
var logger *slog.Logger
var games store.Store

// savedID is the store id of the game on the board, empty until it is saved.
var savedID string

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("goban-local %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "goban-local: %s\n", err)
		os.Exit(1)
	}

	var closeLog func()
	logger, closeLog = initLogger(cfg, *flagGTP)
	defer closeLog()

	if *flagGTP {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := runGTP(ctx); err != nil {
			logger.Error("gtp server stopped", "error", err)
			fmt.Fprintf(os.Stderr, "goban-local: %s\n", err)
			os.Exit(1)
		}
		return
	}

	var closeStore func()
	games, closeStore, err = openStore(context.Background(), cfg)
	if err != nil {
		logger.Error("could not open game store", "backend", cfg.Store.Backend, "error", err)
		fmt.Fprintf(os.Stderr, "goban-local: %s\n", err)
		os.Exit(1)
	}
	defer closeStore()

	runUI()
}

// initLogger writes JSON logs to the state dir. The terminal belongs to the
// UI, so when the file cannot be opened logs go to stderr in GTP mode and
// nowhere otherwise.
func initLogger(cfg *config.Config, gtpMode bool) (*slog.Logger, func()) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var out io.Writer = io.Discard
	if gtpMode {
		out = os.Stderr
	}
	closeFn := func() {}

	path, err := cfg.LogFile()
	if err == nil {
		f, ferr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if ferr == nil {
			out = f
			closeFn = func() { f.Close() }
		}
		err = ferr
	}

	l := slog.New(slog.NewJSONHandler(out, opts)).With("version", Version)
	if err != nil {
		l.Warn("log file unavailable", "error", err)
	}
	return l, closeFn
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		s, err := store.NewRedisStore(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis store", "addr", cfg.Store.RedisAddr, "db", cfg.Store.RedisDB)
		return s, func() { s.Close() }, nil
	default:
		s, err := store.NewFileStore(cfg.GamesDir())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file store", "dir", s.Dir())
		return s, func() {}, nil
	}
}

// newGame creates sessions that log through the application logger.
func newGame(size int) (engine.Game, error) {
	return session.New(size, session.WithLogger(logger.With("component", "session")))
}

// openGame builds the game described by gameCfg. An SGF file wins over a game
// code; both take the board size from the record.
func openGame(gameCfg engine.GameConfig) (engine.Game, float64, error) {
	komi := gameCfg.Komi
	sessionLogger := session.WithLogger(logger.With("component", "session"))

	if gameCfg.SGFPath != "" {
		rec, err := sgf.Load(gameCfg.SGFPath)
		if err != nil {
			return nil, 0, err
		}
		game, err := session.Restore(rec.Info.BoardSize, rec.Moves, sessionLogger)
		if err != nil {
			return nil, 0, fmt.Errorf("replay %s: %w", rec.Info.FileName, err)
		}
		if rec.Info.Komi != 0 {
			komi = rec.Info.Komi
		}
		logger.Info("game loaded from sgf", "path", gameCfg.SGFPath, "moves", len(rec.Moves))
		return game, komi, nil
	}

	game, err := newGame(gameCfg.BoardSize)
	if err != nil {
		return nil, 0, err
	}
	if gameCfg.Code != "" {
		if err := game.Deserialize(gameCfg.Code); err != nil {
			return nil, 0, fmt.Errorf("cannot load game code (%s): %w", session.Status(err), err)
		}
		if err := session.CheckCode(gameCfg.Code); err != nil {
			logger.Warn("game code loaded but its moves do not verify", "error", err)
		}
	}
	return game, komi, nil
}

// gameConfigFromFlags starts from the config defaults and applies the flags.
func gameConfigFromFlags() engine.GameConfig {
	gameCfg := engine.GameConfig{
		BoardSize: cfg.Game.DefaultBoardSize,
		Komi:      cfg.Game.DefaultKomi,
		Code:      *flagCode,
		SGFPath:   *flagSGF,
	}
	if session.ValidSize(*flagBoardSize) {
		gameCfg.BoardSize = *flagBoardSize
	}
	return gameCfg
}

func runGTP(ctx context.Context) error {
	game, komi, err := openGame(gameConfigFromFlags())
	if err != nil {
		return err
	}
	server := gtp.NewServer(game, newGame, Version, logger.With("component", "gtp"))
	server.SetKomi(komi)

	// a blocked read only returns once stdin is closed
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()

	logger.Info("serving gtp", "size", game.Size())
	err = server.Serve(ctx, os.Stdin, os.Stdout)
	if ctx.Err() != nil {
		logger.Info("gtp server interrupted")
		return nil
	}
	return err
}

func runUI() {
	quickStart := *flagBoardSize > 0 || *flagCode != "" || *flagSGF != "" || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ goban ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewGoBoard(cfg, gameHint, logger.With("component", "ui"))

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(handleBoardKey)

	setupUI := ui.NewGameSetup(cfg,
		func(gameCfg engine.GameConfig) {
			startGame(gameCfg)
		},
		func() {
			app.Stop()
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
		func() {
			history.Refresh()
			rootPage.SwitchToPage("history")
		},
	)

	history = ui.NewHistoryBrowser(games, cfg.SGFDir(), newGame, logger.With("component", "history"), ui.HistoryActions{
		Load: func(g store.Game) {
			if startGame(engine.GameConfig{BoardSize: g.Size, Komi: cfg.Game.DefaultKomi, Code: g.Code}) {
				savedID = g.ID
			}
		},
		LoadSGF: func(path string) {
			startGame(engine.GameConfig{Komi: cfg.Game.DefaultKomi, SGFPath: path})
		},
		Done: func() {
			rootPage.SwitchToPage("setup")
		},
	})

	colorConfig := ui.NewColorConfig(cfg, func() {
		// Refresh the game board with new colors
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			gameBoard.SetConfig(cfg)
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 70), true, true)
	rootPage.AddPage("gameview", gameFrame, true, false)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)
	rootPage.AddPage("history", history.Flex(), true, false)

	if quickStart && startGame(gameConfigFromFlags()) && *flagFocus {
		gameBoard.SetFocusMode(true)
		ui.BuildFocusLayout(gameFrame, gameBoard)
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		logger.Error("terminal ui failed", "error", err)
		fmt.Fprintf(os.Stderr, "goban-local: %s\n", err)
	}
	gameBoard.Close()
}

func handleBoardKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
		if gameBoard.SelectedTile() != nil {
			gameBoard.ResetSelection()
		} else {
			gameBoard.Close()
			rootPage.SwitchToPage("setup")
		}
		return nil
	}
	switch event.Key() {
	case tcell.KeyUp:
		gameBoard.MoveSelection(0, -1)
	case tcell.KeyDown:
		gameBoard.MoveSelection(0, 1)
	case tcell.KeyLeft:
		gameBoard.MoveSelection(-1, 0)
	case tcell.KeyRight:
		gameBoard.MoveSelection(1, 0)
	case tcell.KeyEnter:
		selTile := gameBoard.SelectedTile()
		if selTile == nil {
			return nil
		}
		gameBoard.PlayMove(selTile.X, selTile.Y)
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			gameBoard.MoveSelection(-1, 0)
		case 'j':
			gameBoard.MoveSelection(0, 1)
		case 'k':
			gameBoard.MoveSelection(0, -1)
		case 'l':
			gameBoard.MoveSelection(1, 0)
		case 'p':
			gameBoard.Pass()
		case 'u':
			gameBoard.Undo()
		case 'r':
			gameBoard.Redo()
		case 'e':
			gameBoard.ToggleEditMode()
		case 'n':
			gameBoard.ToggleMoveNumbers()
		case 's':
			saveGame()
		case 'c':
			showCode()
		case 'f':
			if gameBoard.ToggleFocusMode() {
				ui.BuildFocusLayout(gameFrame, gameBoard)
			} else {
				ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
			}
		}
	}
	return event
}

// startGame opens the game described by gameCfg and shows it. It reports
// whether the game could be opened.
func startGame(gameCfg engine.GameConfig) bool {
	game, komi, err := openGame(gameCfg)
	if err != nil {
		logger.Warn("could not start game", "error", err)
		showModal("error", fmt.Sprintf("Failed to start game:\n%s", err.Error()))
		return false
	}
	savedID = ""
	gameBoard.SetGame(game, komi)
	rootPage.SwitchToPage("gameview")
	return true
}

// saveGame stores the game on the board. Saving again replaces the earlier save.
func saveGame() {
	game := gameBoard.Game()
	if game == nil {
		return
	}
	moves := game.Moves()
	rec := &store.Game{
		ID:      savedID,
		Name:    fmt.Sprintf("%dx%d, %d moves", game.Size(), game.Size(), len(moves)),
		Code:    game.Serialize(),
		Size:    game.Size(),
		Moves:   len(moves),
		SGFPath: gameBoard.RecordPath(),
	}
	if rec.SGFPath == "" {
		path, err := sgf.WriteFile(cfg.SGFDir(), game.Size(), gameBoard.Komi(), moves)
		if err != nil {
			logger.Warn("sgf export failed", "error", err)
		}
		rec.SGFPath = path
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := games.Save(ctx, rec); err != nil {
		logger.Error("could not save game", "error", err)
		gameBoard.SetStatus("Save failed: " + err.Error())
		return
	}
	savedID = rec.ID
	logger.Info("game saved", "id", rec.ID, "moves", rec.Moves)
	gameBoard.SetStatus("Saved")
}

// showCode shows the game code so it can be copied and loaded later.
func showCode() {
	game := gameBoard.Game()
	if game == nil {
		return
	}
	showModal("code", fmt.Sprintf("Game code:\n\n%s", game.Serialize()))
}

func showModal(name, text string) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage(name)
		})
	rootPage.AddPage(name, modal, true, true)
}
