package sgf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goban-local/types"
)

func TestSgfCoord(t *testing.T) {
	tests := []struct {
		x, y int
		want string
	}{
		{0, 0, "aa"},
		{3, 4, "de"},
		{18, 18, "ss"},
		{15, 3, "pd"}, // common star point
		{3, 15, "dp"}, // common star point
	}
	for _, tt := range tests {
		got := sgfCoord(tt.x, tt.y)
		if got != tt.want {
			t.Errorf("sgfCoord(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMoveNode(t *testing.T) {
	tests := []struct {
		move types.Move
		want string
	}{
		{types.Place(15, 3, types.Black), ";B[pd]"},
		{types.Place(3, 15, types.White), ";W[dp]"},
		{types.PassMove(types.White), ";W[]"},
		{types.PassMove(types.Black), ";B[]"},
	}
	for _, tt := range tests {
		if got := moveNode(tt.move); got != tt.want {
			t.Errorf("moveNode(%v) = %q, want %q", tt.move, got, tt.want)
		}
	}
}

func readRecord(t *testing.T, rec *GameRecord) string {
	t.Helper()
	content, err := os.ReadFile(rec.FilePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(content)
}

func TestNewGameRecord(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, 19, 6.5)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	s := readRecord(t, rec)

	for _, prop := range []string{"GM[1]", "FF[4]", "SZ[19]", "KM[6.5]", "PB[Black]", "PW[White]", "RE[?]", "AP[goban-local:1.0]"} {
		if !strings.Contains(s, prop) {
			t.Errorf("SGF missing property %s in:\n%s", prop, s)
		}
	}

	if !strings.HasPrefix(s, "(;") {
		t.Error("SGF should start with '(;'")
	}
	if !strings.HasSuffix(s, ")\n") {
		t.Error("SGF should end with ')'")
	}
}

func TestNewGameRecordCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sgf")
	rec, err := NewGameRecord(dir, 9, 7.5)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	if _, err := os.Stat(rec.FilePath); err != nil {
		t.Fatalf("SGF file not created: %v", err)
	}
}

func TestSync(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, 19, 6.5)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	moves := []types.Move{
		types.Place(15, 3, types.Black),
		types.Place(3, 15, types.White),
		types.Place(15, 15, types.Black),
	}
	if err := rec.Sync(moves); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	s := readRecord(t, rec)
	if !strings.Contains(s, ";B[pd];W[dp];B[pp])") {
		t.Errorf("SGF missing moves in:\n%s", s)
	}

	// undo two moves and play elsewhere
	moves = append(moves[:1], types.Place(16, 16, types.White))
	if err := rec.Sync(moves); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	s = readRecord(t, rec)
	if strings.Contains(s, ";W[dp]") || strings.Contains(s, ";B[pp]") {
		t.Errorf("undone moves still recorded:\n%s", s)
	}
	if !strings.Contains(s, ";B[pd];W[qq])") {
		t.Errorf("SGF missing new line of play in:\n%s", s)
	}
}

func TestSyncDoesNotAliasCaller(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, 9, 6.5)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	moves := []types.Move{types.Place(4, 4, types.Black)}
	if err := rec.Sync(moves); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	moves[0] = types.Place(0, 0, types.Black)

	if s := rec.String(); !strings.Contains(s, ";B[ee]") {
		t.Errorf("record changed with caller's slice:\n%s", s)
	}
}

func TestEscapedPlayerNames(t *testing.T) {
	rec := &GameRecord{BoardSize: 9, PlayerBlack: `a]b`, PlayerWhite: `c\d`, Result: "?"}
	s := rec.String()
	if !strings.Contains(s, `PB[a\]b]`) || !strings.Contains(s, `PW[c\\d]`) {
		t.Errorf("names not escaped:\n%s", s)
	}

	g, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Info.PlayerBlack != `a]b` || g.Info.PlayerWhite != `c\d` {
		t.Errorf("names = %q, %q", g.Info.PlayerBlack, g.Info.PlayerWhite)
	}
}

func TestFilenameFormat(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, 13, 6.5)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	base := filepath.Base(rec.FilePath)
	if !strings.HasSuffix(base, "_13x13.sgf") {
		t.Errorf("Filename should end with _13x13.sgf, got %s", base)
	}
	if !strings.HasPrefix(base, "20") {
		t.Errorf("Filename should start with year, got %s", base)
	}
}

func TestCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, 9, 6.5)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}

	rec.Close()
	rec.Close() // Should not panic

	if err := rec.Sync(nil); err == nil {
		t.Error("Sync after Close should fail")
	}
}

func TestCrashSafety(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, 9, 6.5)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}

	rec.Sync([]types.Move{types.Place(4, 4, types.Black), types.Place(2, 2, types.White)})

	// Simulate crash: read file directly (it should be valid SGF after each flush)
	s := readRecord(t, rec)

	if !strings.HasPrefix(s, "(;") {
		t.Error("File should be valid SGF even without Close()")
	}
	if !strings.Contains(s, ")") {
		t.Error("File should have closing paren even without Close()")
	}
	if !strings.Contains(s, ";B[ee]") {
		t.Error("File should contain moves even without Close()")
	}

	rec.Close()
}
