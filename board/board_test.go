package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goban-local/types"
)

// gridFromRows builds a grid from rows of '.', 'B' and 'W'.
func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g := NewGrid(len(rows))
	for y, row := range rows {
		require.Len(t, row, len(rows), "row %d", y)
		for x, ch := range row {
			switch ch {
			case 'B':
				g.Set(x, y, types.Black)
			case 'W':
				g.Set(x, y, types.White)
			}
		}
	}
	return g
}

func TestGridBounds(t *testing.T) {
	g := NewGrid(9)

	assert.True(t, g.In(0, 0))
	assert.True(t, g.In(8, 8))
	assert.False(t, g.In(-1, 0))
	assert.False(t, g.In(9, 0))
	assert.False(t, g.In(0, 9))

	g.Set(9, 9, types.Black)
	assert.Equal(t, types.Empty, g.At(9, 9))
	assert.Equal(t, 0, g.Count(types.Black))
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := NewGrid(9)
	g.Set(4, 4, types.Black)

	c := g.Clone()
	require.True(t, g.Equal(c))

	c.Set(0, 0, types.White)
	assert.Equal(t, types.Empty, g.At(0, 0))
	assert.False(t, g.Equal(c))
}

func TestGridRows(t *testing.T) {
	g := NewGrid(9)
	g.Set(2, 5, types.White)

	rows := g.Rows()
	require.Len(t, rows, 9)
	assert.Equal(t, types.White, rows[5][2])

	rows[0][0] = types.Black
	assert.Equal(t, types.Empty, g.At(0, 0), "rows must be a copy")
}

func TestHasLiberty(t *testing.T) {
	g := gridFromRows(t,
		"BW.......",
		"W........",
		".........",
		"....B....",
		"...BWB...",
		"....B....",
		".........",
		".........",
		"........W",
	)

	assert.False(t, g.HasLiberty(0, 0, types.Black), "corner stone surrounded")
	assert.True(t, g.HasLiberty(1, 0, types.White))
	assert.False(t, g.HasLiberty(4, 4, types.White), "centre stone surrounded")
	assert.True(t, g.HasLiberty(4, 3, types.Black))
	assert.True(t, g.HasLiberty(8, 8, types.White))
	assert.False(t, g.HasLiberty(-1, 0, types.Black))
}

func TestHasLibertyThroughGroup(t *testing.T) {
	g := gridFromRows(t,
		"WWWWWWWWW",
		"WBBBBBBBW",
		"WWWWWWWB.",
		"WWWWWWWWW",
		"WWWWWWWWW",
		"WWWWWWWWW",
		"WWWWWWWWW",
		"WWWWWWWWW",
		"WWWWWWWWW",
	)
	// the only liberty sits at the far end of a long black chain
	assert.True(t, g.HasLiberty(1, 1, types.Black))

	g.Set(8, 2, types.White)
	assert.False(t, g.HasLiberty(1, 1, types.Black))
}

func TestFullBoardOfOneColour(t *testing.T) {
	g := NewGrid(19)
	for y := 0; y < 19; y++ {
		for x := 0; x < 19; x++ {
			g.Set(x, y, types.Black)
		}
	}

	assert.False(t, g.HasLiberty(9, 9, types.Black))
	assert.Len(t, g.CollectGroup(0, 0, types.Black), 361)

	removed := g.CaptureIfDead(18, 18, types.Black)
	assert.Len(t, removed, 361)
	assert.Equal(t, 361, g.Count(types.Empty))
}

func TestCollectGroup(t *testing.T) {
	g := gridFromRows(t,
		"BB.......",
		".B.......",
		".BB......",
		".........",
		"...B.....",
		".........",
		".........",
		".........",
		".........",
	)

	group := g.CollectGroup(0, 0, types.Black)
	assert.ElementsMatch(t, []types.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2},
	}, group)

	// diagonal contact does not connect
	assert.Len(t, g.CollectGroup(3, 4, types.Black), 1)
	assert.Empty(t, g.CollectGroup(9, 9, types.Black))
}

func TestLiberties(t *testing.T) {
	g := gridFromRows(t,
		"BB.......",
		".........",
		".........",
		".........",
		".........",
		".........",
		".........",
		".........",
		".........",
	)
	assert.Equal(t, 3, g.Liberties(0, 0, types.Black))
}

func TestCaptureIfDead(t *testing.T) {
	t.Run("dead group removed", func(t *testing.T) {
		g := gridFromRows(t,
			"WBBW.....",
			".WW......",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
		)
		removed := g.CaptureIfDead(1, 0, types.Black)
		assert.ElementsMatch(t, []types.Point{{X: 1, Y: 0}, {X: 2, Y: 0}}, removed)
		assert.Equal(t, types.Empty, g.At(1, 0))
		assert.Equal(t, types.Empty, g.At(2, 0))
		assert.Equal(t, types.White, g.At(0, 0))
	})

	t.Run("living group untouched", func(t *testing.T) {
		g := gridFromRows(t,
			"WBB......",
			".WW......",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
		)
		before := g.Clone()
		assert.Nil(t, g.CaptureIfDead(1, 0, types.Black))
		assert.True(t, before.Equal(g))
	})

	t.Run("wrong colour at point", func(t *testing.T) {
		g := gridFromRows(t,
			"BW.......",
			"W........",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
		)
		assert.Nil(t, g.CaptureIfDead(0, 0, types.White))
		assert.Equal(t, types.Black, g.At(0, 0))
	})
}
