package gtp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"goban-local/engine"
	"goban-local/session"
	"goban-local/types"
)

const protocolVersion = "2"

// errQuit stops the command loop after the quit response is written.
var errQuit = errors.New("quit")

type handler func(s *Server, args []string) (string, error)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"protocol_version": func(*Server, []string) (string, error) { return protocolVersion, nil },
		"name":             func(s *Server, _ []string) (string, error) { return s.name, nil },
		"version":          func(s *Server, _ []string) (string, error) { return s.version, nil },
		"known_command":    (*Server).knownCommand,
		"list_commands":    (*Server).listCommands,
		"quit":             func(*Server, []string) (string, error) { return "", errQuit },
		"boardsize":        (*Server).boardSize,
		"clear_board":      (*Server).clearBoard,
		"komi":             (*Server).setKomi,
		"play":             (*Server).play,
		"undo":             (*Server).undo,
		"redo":             (*Server).redo,
		"showboard":        (*Server).showBoard,
		"captures":         (*Server).captures,
		"list_stones":      (*Server).listStones,
		"savecode":         (*Server).saveCode,
		"loadcode":         (*Server).loadCode,
		"get_komi":         (*Server).getKomi,
	}
}

// Server answers GTP commands against a single local game.
// It is driven by one goroutine through Serve.
type Server struct {
	game    engine.Game
	newGame engine.Factory
	komi    float64

	name    string
	version string
	logger  *slog.Logger
}

// NewServer creates a server for game. newGame builds the replacement game on
// boardsize and clear_board.
func NewServer(game engine.Game, newGame engine.Factory, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		game:    game,
		newGame: newGame,
		komi:    engine.DefaultConfig().Komi,
		name:    "goban-local",
		version: version,
		logger:  logger,
	}
}

// Game returns the game currently being served.
func (s *Server) Game() engine.Game {
	return s.game
}

// SetKomi sets the komi reported by get_komi.
func (s *Server) SetKomi(komi float64) {
	s.komi = komi
}

// Serve reads commands from r and writes responses to w until quit, end of
// input or cancellation of ctx.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := preprocess(scanner.Text())
		if line == "" {
			continue
		}

		id, name, args := split(line)
		s.logger.Debug("gtp command", "id", id, "command", name, "args", args)

		result, err := s.dispatch(name, args)
		quit := errors.Is(err, errQuit)
		if quit {
			err = nil
		}

		if err != nil {
			s.logger.Debug("gtp command failed", "command", name, "error", err)
			fmt.Fprintf(out, "?%s %s\n\n", id, err)
		} else {
			fmt.Fprintf(out, "=%s %s\n\n", id, result)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		if quit {
			s.logger.Info("gtp session closed by quit")
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read command: %w", err)
	}
	return nil
}

func (s *Server) dispatch(name string, args []string) (string, error) {
	h, ok := handlers[name]
	if !ok {
		return "", errors.New("unknown command")
	}
	return h(s, args)
}

// preprocess strips comments and control characters and converts tabs.
func preprocess(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	var b strings.Builder
	for _, r := range line {
		switch {
		case r == '\t':
			b.WriteRune(' ')
		case r < 32 || r == 127:
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// split separates the optional numeric id from the command and its arguments.
func split(line string) (id, name string, args []string) {
	fields := strings.Fields(line)
	if _, err := strconv.Atoi(fields[0]); err == nil {
		id = fields[0]
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return id, "", nil
	}
	return id, strings.ToLower(fields[0]), fields[1:]
}

func (s *Server) knownCommand(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("syntax error")
	}
	_, ok := handlers[strings.ToLower(args[0])]
	return strconv.FormatBool(ok), nil
}

func (s *Server) listCommands([]string) (string, error) {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

func (s *Server) boardSize(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("syntax error")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return "", errors.New("syntax error")
	}
	if !session.ValidSize(size) {
		return "", errors.New("unacceptable size")
	}
	return "", s.reset(size)
}

func (s *Server) clearBoard([]string) (string, error) {
	return "", s.reset(s.game.Size())
}

func (s *Server) reset(size int) error {
	game, err := s.newGame(size)
	if err != nil {
		return fmt.Errorf("cannot start game: %w", err)
	}
	s.game = game
	s.logger.Info("gtp board reset", "size", size)
	return nil
}

func (s *Server) setKomi(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("syntax error")
	}
	komi, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return "", errors.New("syntax error")
	}
	s.komi = komi
	return "", nil
}

// play accepts only the player to move; the game has no way to record two
// consecutive moves of one color.
func (s *Server) play(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("syntax error")
	}
	color, err := ParseColor(args[0])
	if err != nil {
		return "", errors.New("syntax error")
	}
	p, pass, err := ParseVertex(args[1], s.game.Size())
	if err != nil {
		return "", errors.New("syntax error")
	}
	if color != s.game.CurrentPlayer() {
		return "", fmt.Errorf("illegal move (%s to play)", FormatColor(s.game.CurrentPlayer()))
	}
	if pass {
		s.game.Pass()
		return "", nil
	}
	if err := s.game.PlaceStone(p.X, p.Y); err != nil {
		return "", fmt.Errorf("illegal move (%s)", session.Status(err))
	}
	return "", nil
}

func (s *Server) getKomi([]string) (string, error) {
	return strconv.FormatFloat(s.komi, 'f', -1, 64), nil
}

func (s *Server) undo([]string) (string, error) {
	if !s.game.Undo() {
		return "", errors.New("cannot undo")
	}
	return "", nil
}

func (s *Server) redo([]string) (string, error) {
	if !s.game.Redo() {
		return "", errors.New("cannot redo")
	}
	return "", nil
}

func (s *Server) captures(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("syntax error")
	}
	color, err := ParseColor(args[0])
	if err != nil {
		return "", errors.New("syntax error")
	}
	black, white := s.game.Captures()
	if color == types.Black {
		return strconv.Itoa(black), nil
	}
	return strconv.Itoa(white), nil
}

func (s *Server) listStones(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("syntax error")
	}
	color, err := ParseColor(args[0])
	if err != nil {
		return "", errors.New("syntax error")
	}
	size := s.game.Size()
	var vertices []string
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if s.game.Cell(x, y) == color {
				vertices = append(vertices, FormatVertex(x, y, size))
			}
		}
	}
	return strings.Join(vertices, " "), nil
}

func (s *Server) saveCode([]string) (string, error) {
	return s.game.Serialize(), nil
}

func (s *Server) loadCode(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("syntax error")
	}
	if err := s.game.Deserialize(args[0]); err != nil {
		return "", fmt.Errorf("cannot load code (%s)", session.Status(err))
	}
	return "", nil
}

// showBoard draws the position with GTP coordinates around it.
func (s *Server) showBoard([]string) (string, error) {
	size := s.game.Size()
	last, hasLast := s.game.LastMove()

	var b strings.Builder
	header := func() {
		b.WriteString("   ")
		for x := 0; x < size; x++ {
			col := 'A' + rune(x)
			if x >= 8 {
				col++
			}
			fmt.Fprintf(&b, " %c", col)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	header()
	for y := 0; y < size; y++ {
		fmt.Fprintf(&b, "%2d ", size-y)
		for x := 0; x < size; x++ {
			sep := byte(' ')
			if hasLast && last == (types.Point{X: x, Y: y}) {
				sep = '('
			} else if hasLast && last == (types.Point{X: x - 1, Y: y}) {
				sep = ')'
			}
			b.WriteByte(sep)
			switch s.game.Cell(x, y) {
			case types.Black:
				b.WriteByte('X')
			case types.White:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		if hasLast && last == (types.Point{X: size - 1, Y: y}) {
			b.WriteByte(')')
		} else {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%2d", size-y)
		switch y {
		case 0:
			fmt.Fprintf(&b, "    %s to play", FormatColor(s.game.CurrentPlayer()))
		case 1:
			black, white := s.game.Captures()
			fmt.Fprintf(&b, "    captures black %d white %d", black, white)
		}
		b.WriteString("\n")
	}
	header()
	return strings.TrimRight(b.String(), "\n"), nil
}
