package board

import "goban-local/types"

// walk flood-fills the group of colour containing (x, y) with an explicit stack.
// visit is called once per member index; it returns false to stop the walk early.
// An empty neighbour is reported to liberty, which may also stop the walk.
func (g *Grid) walk(x, y int, colour types.Stone, visit func(idx int) bool, liberty func() bool) {
	if !g.In(x, y) {
		return
	}
	visited := make([]bool, len(g.cells))
	stack := make([]int, 0, 16)

	start := y*g.size + x
	visited[start] = true
	stack = append(stack, start)

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visit != nil && !visit(idx) {
			return
		}

		cx, cy := idx%g.size, idx/g.size
		for _, d := range neighbours {
			nx, ny := cx+d[0], cy+d[1]
			if !g.In(nx, ny) {
				continue
			}
			n := ny*g.size + nx
			if visited[n] {
				continue
			}
			switch g.cells[n] {
			case types.Empty:
				if liberty != nil && !liberty() {
					return
				}
			case colour:
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
}

// HasLiberty reports whether the group of colour containing (x, y) touches at
// least one empty intersection.
func (g *Grid) HasLiberty(x, y int, colour types.Stone) bool {
	found := false
	g.walk(x, y, colour, nil, func() bool {
		found = true
		return false
	})
	return found
}

// Liberties counts the distinct empty intersections adjacent to the group.
func (g *Grid) Liberties(x, y int, colour types.Stone) int {
	seen := make(map[int]struct{})
	for _, p := range g.CollectGroup(x, y, colour) {
		for _, d := range neighbours {
			nx, ny := p.X+d[0], p.Y+d[1]
			if g.In(nx, ny) && g.cells[ny*g.size+nx] == types.Empty {
				seen[ny*g.size+nx] = struct{}{}
			}
		}
	}
	return len(seen)
}

// CollectGroup returns every intersection reachable from (x, y) through
// orthogonally adjacent stones of colour, in visit order.
func (g *Grid) CollectGroup(x, y int, colour types.Stone) []types.Point {
	var members []types.Point
	g.walk(x, y, colour, func(idx int) bool {
		members = append(members, types.Point{X: idx % g.size, Y: idx / g.size})
		return true
	}, nil)
	return members
}

// CaptureIfDead empties the group at (x, y) when it has no liberties and
// returns the removed points. A living group is left untouched and nil is returned.
func (g *Grid) CaptureIfDead(x, y int, colour types.Stone) []types.Point {
	if !g.In(x, y) || g.At(x, y) != colour || g.HasLiberty(x, y, colour) {
		return nil
	}
	members := g.CollectGroup(x, y, colour)
	for _, p := range members {
		g.cells[p.Y*g.size+p.X] = types.Empty
	}
	return members
}
