package sgf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"goban-local/movelog"
	"goban-local/types"
)

var (
	// ErrSetupStones error occurs when a record places stones with AB/AW,
	// which a move log cannot represent
	ErrSetupStones = errors.New("setup stones are not supported")
	// ErrMove error occurs when a move node does not name a point on the board
	ErrMove = errors.New("invalid move node")
	// ErrBoardSize error occurs when SZ is outside 1-19
	ErrBoardSize = errors.New("unsupported board size")
)

// GameInfo holds metadata parsed from an SGF file header.
type GameInfo struct {
	FilePath    string
	FileName    string
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
	Date        string
	Result      string
	MoveCount   int
}

// Game is a parsed SGF record: its header and main-line moves.
type Game struct {
	Info  GameInfo
	Moves []types.Move
}

// ParseHeader reads an SGF file and extracts metadata from the root node.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	info := parseInfo(string(data))
	info.FilePath = filePath
	info.FileName = filepath.Base(filePath)
	return &info, nil
}

func parseInfo(content string) GameInfo {
	props := parseProperties(content)

	boardSize := 19
	if v, ok := props["SZ"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			boardSize = n
		}
	}

	komi := 0.0
	if v, ok := props["KM"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			komi = f
		}
	}

	return GameInfo{
		BoardSize:   boardSize,
		Komi:        komi,
		PlayerBlack: props["PB"],
		PlayerWhite: props["PW"],
		Date:        props["DT"],
		Result:      props["RE"],
		MoveCount:   countMoves(parseNodes(content)),
	}
}

// Parse reads an SGF record and returns its main-line moves. Moves are not
// checked against the rules; session.Restore does that.
func Parse(content string) (*Game, error) {
	if hasSetup(content) {
		return nil, ErrSetupStones
	}

	info := parseInfo(content)
	if info.BoardSize < 1 || info.BoardSize > 19 {
		return nil, fmt.Errorf("%w: SZ[%d]", ErrBoardSize, info.BoardSize)
	}
	g := &Game{Info: info}
	for _, node := range parseNodes(content) {
		m, ok := parseMoveNode(node)
		if !ok {
			continue
		}
		if !m.Pass && (m.Point.X >= info.BoardSize || m.Point.Y >= info.BoardSize) {
			return nil, fmt.Errorf("%w: %q is off a %dx%d board", ErrMove, strings.TrimSpace(node), info.BoardSize, info.BoardSize)
		}
		g.Moves = append(g.Moves, m)
	}
	return g, nil
}

// Load reads and parses an SGF file.
func Load(filePath string) (*Game, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	g, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(filePath), err)
	}
	g.Info.FilePath = filePath
	g.Info.FileName = filepath.Base(filePath)
	return g, nil
}

// ReplayToEnd parses an SGF file and replays all moves to produce the final board position.
// Returns the board indexed as board[y][x], the move count, and any error.
func ReplayToEnd(filePath string) ([][]types.Stone, int, error) {
	g, err := Load(filePath)
	if err != nil {
		return nil, 0, err
	}
	st := movelog.Replay(g.Info.BoardSize, g.Moves, nil)
	return st.Board.Rows(), len(g.Moves), nil
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)

	// Find the root node: starts after "(;"
	start := strings.Index(content, "(;")
	if start == -1 {
		return props
	}
	start += 2 // skip "(;"

	// Root node ends at the next ";", "(" or ")" outside a value
	end := skipNode(content, start)

	extractProps(content[start:end], props)
	return props
}

// skipNode returns the index of the first ";", "(" or ")" at or after i that
// is not inside a property value.
func skipNode(content string, i int) int {
	for i < len(content) {
		switch content[i] {
		case ';', '(', ')':
			return i
		case '[':
			i = skipValue(content, i)
			continue
		}
		i++
	}
	return i
}

// skipValue returns the index just past the value starting at content[i] == '['.
func skipValue(content string, i int) int {
	i++
	for i < len(content) && content[i] != ']' {
		if content[i] == '\\' && i+1 < len(content) {
			i++ // skip escaped char
		}
		i++
	}
	if i < len(content) {
		i++ // skip ']'
	}
	return i
}

// extractProps parses KEY[value] pairs from a node string into the map.
func extractProps(node string, props map[string]string) {
	i := 0
	for i < len(node) {
		// Skip whitespace
		for i < len(node) && (node[i] == ' ' || node[i] == '\n' || node[i] == '\r' || node[i] == '\t') {
			i++
		}
		if i >= len(node) {
			break
		}

		// Read property identifier (uppercase letters)
		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		// Read all property values (e.g., AB[aa][bb][cc])
		for i < len(node) && node[i] == '[' {
			end := skipValue(node, i)
			val := strings.TrimSuffix(node[i+1:end], "]")
			props[key] = unescape(val) // last value wins for simple props
			i = end
		}
	}
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// countMoves counts the move nodes (;B[...] or ;W[...]) among nodes.
func countMoves(nodes []string) int {
	count := 0
	for _, node := range nodes {
		if _, ok := parseMoveNode(node); ok {
			count++
		}
	}
	return count
}

// parseNodes returns the main-line node strings after the root node. The first
// variation is followed at every branch; the walk stops when it closes.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}
	i := skipNode(content, start+2)

	for i < len(content) {
		switch content[i] {
		case ';':
			end := skipNode(content, i+1)
			nodes = append(nodes, content[i:end])
			i = end
		case ')':
			return nodes
		default:
			i++
		}
	}

	return nodes
}

// parseMoveNode extracts the move from a node like ";B[pd]". Only a B or W
// property at the start of the node counts. Pass is an empty value or "tt".
func parseMoveNode(node string) (types.Move, bool) {
	node = strings.TrimSpace(node)
	if len(node) < 2 || node[0] != ';' {
		return types.Move{}, false
	}
	node = strings.TrimSpace(node[1:])
	if len(node) < 3 || node[1] != '[' {
		return types.Move{}, false
	}

	var player types.Stone
	switch node[0] {
	case 'B':
		player = types.Black
	case 'W':
		player = types.White
	default:
		return types.Move{}, false
	}

	end := strings.IndexByte(node, ']')
	if end == -1 {
		return types.Move{}, false
	}

	coord := node[2:end]
	if coord == "" || coord == "tt" {
		return types.PassMove(player), true
	}

	if len(coord) != 2 || coord[0] < 'a' || coord[0] > 's' || coord[1] < 'a' || coord[1] > 's' {
		return types.Move{}, false
	}

	return types.Place(int(coord[0]-'a'), int(coord[1]-'a'), player), true
}

// hasSetup reports whether any node carries AB, AW or AE properties.
func hasSetup(content string) bool {
	i := 0
	for i < len(content) {
		switch {
		case content[i] == '[':
			i = skipValue(content, i)
			continue
		case content[i] == 'A' && i+1 < len(content) && strings.IndexByte("BWE", content[i+1]) >= 0 &&
			(i == 0 || content[i-1] < 'A' || content[i-1] > 'Z'):
			j := i + 2
			for j < len(content) && (content[j] == ' ' || content[j] == '\n' || content[j] == '\r' || content[j] == '\t') {
				j++
			}
			if j < len(content) && content[j] == '[' {
				return true
			}
		}
		i++
	}
	return false
}

// ListGames scans a directory for .sgf files and returns their parsed headers,
// sorted newest-first (by filename, which contains timestamps).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sgf dir: %w", err)
	}

	var games []GameInfo
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sgf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := ParseHeader(path)
		if err != nil {
			continue
		}
		games = append(games, *info)
	}

	return games, nil
}
