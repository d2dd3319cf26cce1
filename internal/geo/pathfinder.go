package geo

import (
	"container/heap"
	"drone-dispatch-service/internal/domain"
	"errors"
	"math"
)

// ErrNoPathFound is returned when the search exhausts its expansion budget
// or its frontier without getting close to the goal.
var ErrNoPathFound = errors.New("no path found")

// Pathfinder runs A* over the positions reachable by chained moves along the
// configured headings. Positions are kept exact so every move is a true step,
// but the closed set is also tracked on a grid of half-move cells: once a cell
// has been expanded, later arrivals in it are not expanded again.
// It holds no per-search state and is safe for concurrent use.
type Pathfinder struct {
	cfg Config
}

// NewPathfinder returns a Pathfinder searching with cfg.
func NewPathfinder(cfg Config) *Pathfinder {
	return &Pathfinder{cfg: cfg}
}

func (f *Pathfinder) Config() Config { return f.cfg }

// Positions are identified by their coordinates rounded to 8 decimal digits.
type nodeKey struct {
	lng int64
	lat int64
}

func keyOf(p domain.Position) nodeKey {
	return nodeKey{
		lng: int64(math.Round(p.Lng * 1e8)),
		lat: int64(math.Round(p.Lat * 1e8)),
	}
}

// cellFraction sizes the closed-set grid relative to MoveDistance.
const cellFraction = 0.5

type cellKey struct {
	x int64
	y int64
}

func (f *Pathfinder) cellOf(p domain.Position) cellKey {
	size := f.cfg.MoveDistance * cellFraction
	return cellKey{
		x: int64(math.Floor(p.Lng / size)),
		y: int64(math.Floor(p.Lat / size)),
	}
}

// searchNode lives in an arena; parent is an index into that arena (-1 for the start).
type searchNode struct {
	pos    domain.Position
	parent int
	g      int
}

type frontierEntry struct {
	node int
	f    float64
	h    float64
	seq  int
}

// frontier is a min-heap on f, then h, then insertion order.
// Superseded entries stay queued and are dropped at pop time by the closed check.
type frontier []frontierEntry

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].seq < q[j].seq
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)   { *q = append(*q, x.(frontierEntry)) }
func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// FindPath returns a route from start to a position close to goal that
// never enters or crosses any of zones.
func (f *Pathfinder) FindPath(start, goal domain.Position, zones []domain.Polygon) (domain.Route, error) {
	if f.cfg.IsClose(start, goal) {
		return domain.Route{start}, nil
	}

	heuristic := func(p domain.Position) float64 {
		return Distance(p, goal) / f.cfg.MoveDistance
	}

	arena := []searchNode{{pos: start, parent: -1}}
	closed := []bool{false}
	index := map[nodeKey]int{keyOf(start): 0}
	expandedCells := make(map[cellKey]struct{})

	seq := 0
	open := &frontier{}
	h0 := heuristic(start)
	heap.Push(open, frontierEntry{node: 0, f: h0, h: h0, seq: seq})

	expansions := 0
	for open.Len() > 0 {
		e := heap.Pop(open).(frontierEntry)
		if closed[e.node] {
			continue
		}

		current := arena[e.node]
		if f.cfg.IsClose(current.pos, goal) {
			return trace(arena, e.node), nil
		}

		closed[e.node] = true
		cell := f.cellOf(current.pos)
		if _, done := expandedCells[cell]; done {
			continue
		}
		expandedCells[cell] = struct{}{}

		expansions++
		if expansions > f.cfg.MaxExpansions {
			return nil, ErrNoPathFound
		}

		for _, heading := range f.cfg.Headings {
			next := f.cfg.Step(current.pos, heading)
			k := keyOf(next)

			idx, seen := index[k]
			if seen && closed[idx] {
				continue
			}
			if _, done := expandedCells[f.cellOf(next)]; done {
				continue
			}
			if !SegmentClear(current.pos, next, zones) {
				continue
			}

			g := current.g + 1
			if seen {
				if g >= arena[idx].g {
					continue
				}
				arena[idx].g = g
				arena[idx].parent = e.node
			} else {
				idx = len(arena)
				arena = append(arena, searchNode{pos: next, parent: e.node, g: g})
				closed = append(closed, false)
				index[k] = idx
			}

			seq++
			h := heuristic(next)
			heap.Push(open, frontierEntry{node: idx, f: float64(g) + h, h: h, seq: seq})
		}
	}

	return nil, ErrNoPathFound
}

func trace(arena []searchNode, end int) domain.Route {
	n := 0
	for i := end; i >= 0; i = arena[i].parent {
		n++
	}

	route := make(domain.Route, n)
	for i := end; i >= 0; i = arena[i].parent {
		n--
		route[n] = arena[i].pos
	}
	return route
}
