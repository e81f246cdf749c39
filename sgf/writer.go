// Package sgf implements SGF FF[4] writing and reading for Go game records.
package sgf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goban-local/types"
)

// GameRecord mirrors a game's committed moves into an SGF file.
// Every Sync rewrites the whole file so it is complete after each move.
type GameRecord struct {
	FilePath    string
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
	Date        string
	Result      string
	moves       []types.Move
	file        *os.File
}

// NewGameRecord creates a new SGF file in dir and writes the initial header.
func NewGameRecord(dir string, boardSize int, komi float64) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sgf dir: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, fileName(now, boardSize))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sgf file: %w", err)
	}

	rec := &GameRecord{
		FilePath:    path,
		BoardSize:   boardSize,
		Komi:        komi,
		PlayerBlack: "Black",
		PlayerWhite: "White",
		Date:        now.Format("2006-01-02"),
		Result:      "?",
		file:        f,
	}

	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}

	return rec, nil
}

// WriteFile writes moves as a finished SGF file in dir and returns its path.
func WriteFile(dir string, boardSize int, komi float64, moves []types.Move) (string, error) {
	rec, err := NewGameRecord(dir, boardSize, komi)
	if err != nil {
		return "", err
	}
	defer rec.Close()
	if err := rec.Sync(moves); err != nil {
		return "", err
	}
	return rec.FilePath, nil
}

func fileName(t time.Time, boardSize int) string {
	return fmt.Sprintf("%s_%dx%d.sgf", t.Format("2006-01-02_150405.000"), boardSize, boardSize)
}

// sgfCoord converts 0-indexed board coordinates to SGF letter pair.
// (0,0) -> "aa", (3,4) -> "de", (18,18) -> "ss".
func sgfCoord(x, y int) string {
	return string(rune('a'+x)) + string(rune('a'+y))
}

// moveNode renders a move as ";B[pd]", with an empty value for a pass.
func moveNode(m types.Move) string {
	colorChar := "B"
	if m.Player == types.White {
		colorChar = "W"
	}
	if m.Pass {
		return fmt.Sprintf(";%s[]", colorChar)
	}
	return fmt.Sprintf(";%s[%s]", colorChar, sgfCoord(m.Point.X, m.Point.Y))
}

// Sync replaces the recorded moves with moves and rewrites the file.
// Undone moves disappear from the record on the next Sync.
func (r *GameRecord) Sync(moves []types.Move) error {
	r.moves = append(r.moves[:0], moves...)
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() {
	if r.file == nil {
		return
	}
	r.flush()
	r.file.Close()
	r.file = nil
}

// WriteTo writes the complete SGF text to w.
func (r *GameRecord) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

// String renders the record as SGF text.
func (r *GameRecord) String() string {
	var b strings.Builder

	// Root node
	b.WriteString("(;GM[1]FF[4]CA[UTF-8]")
	b.WriteString("AP[goban-local:1.0]")
	b.WriteString(fmt.Sprintf("SZ[%d]", r.BoardSize))
	b.WriteString(fmt.Sprintf("KM[%.1f]", r.Komi))
	b.WriteString(fmt.Sprintf("PB[%s]", escape(r.PlayerBlack)))
	b.WriteString(fmt.Sprintf("PW[%s]", escape(r.PlayerWhite)))
	b.WriteString(fmt.Sprintf("DT[%s]", r.Date))
	b.WriteString(fmt.Sprintf("RE[%s]", r.Result))
	b.WriteString("\n")

	for _, m := range r.moves {
		b.WriteString(moveNode(m))
	}

	b.WriteString(")\n")
	return b.String()
}

// flush rewrites the complete SGF file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.WriteTo(r.file); err != nil {
		return err
	}
	return r.file.Sync()
}

// escape protects the characters that end or escape a property value.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "]", `\]`)
}
