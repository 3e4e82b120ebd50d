package spatial

import (
	"container/heap"
	"math"
)

// CostFunc returns the cost of entering cell (x, y). +Inf marks the cell as
// impassable.
type CostFunc func(x, y int) float64

// Search runs the ground path search over a size x size grid.
//
// The frontier is ordered by accumulated cost plus the Manhattan distance to
// the goal. The search stops as soon as the goal is popped or the frontier is
// exhausted. Ties are broken by insertion order, and neighbours are expanded
// up, right, down, left, so results are reproducible.
//
// A Search keeps its buffers between calls; it is not safe for concurrent use.
type Search struct {
	dist  *Grid[float64]
	done  *Grid[bool]
	queue searchQueue
	seq   uint64
	nbuf  []Cell
}

// NewSearch allocates the buffers for a size x size grid.
func NewSearch(size int) *Search {
	return &Search{
		dist: NewGrid(size, math.Inf(1)),
		done: NewGrid(size, false),
		nbuf: make([]Cell, 0, len(neighbourOffsets)),
	}
}

// FindPath returns the cells from start to goal (both included) and the
// accumulated cost. ok is false when the goal cannot be reached.
func (s *Search) FindPath(cost CostFunc, start, goal Cell) (path []Cell, total float64, ok bool) {
	if !s.dist.InBounds(start.X, start.Y) || !s.dist.InBounds(goal.X, goal.Y) {
		return nil, math.Inf(1), false
	}

	s.dist.Fill(math.Inf(1))
	s.done.Fill(false)
	s.queue = s.queue[:0]
	s.seq = 0

	s.dist.Set(start.X, start.Y, 0)
	s.push(start, manhattan(start, goal))

	for s.queue.Len() > 0 {
		cur := heap.Pop(&s.queue).(searchItem).cell
		if s.done.At(cur.X, cur.Y) {
			continue
		}
		s.done.Set(cur.X, cur.Y, true)

		if cur == goal {
			break
		}

		base := s.dist.At(cur.X, cur.Y)
		s.nbuf = s.dist.Neighbours4(s.nbuf[:0], cur)
		for _, n := range s.nbuf {
			if s.done.At(n.X, n.Y) {
				continue
			}
			c := cost(n.X, n.Y)
			if math.IsInf(c, 1) {
				continue
			}
			if d := base + c; d < s.dist.At(n.X, n.Y) {
				s.dist.Set(n.X, n.Y, d)
				s.push(n, d+manhattan(n, goal))
			}
		}
	}

	total = s.dist.At(goal.X, goal.Y)
	if math.IsInf(total, 1) {
		return nil, total, false
	}
	return s.reconstruct(start, goal), total, true
}

// reconstruct walks back from goal to start choosing, at every step, the
// neighbour with the smallest strictly lower distance.
func (s *Search) reconstruct(start, goal Cell) []Cell {
	path := []Cell{goal}
	cur := goal
	for cur != start {
		best := cur
		bestDist := s.dist.At(cur.X, cur.Y)
		s.nbuf = s.dist.Neighbours4(s.nbuf[:0], cur)
		for _, n := range s.nbuf {
			if d := s.dist.At(n.X, n.Y); d < bestDist {
				best, bestDist = n, d
			}
		}
		if best == cur {
			// Unreachable when dist is consistent; bail out instead of looping.
			break
		}
		cur = best
		path = append(path, cur)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (s *Search) push(c Cell, priority float64) {
	s.seq++
	heap.Push(&s.queue, searchItem{cell: c, priority: priority, seq: s.seq})
}

func manhattan(a, b Cell) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

type searchItem struct {
	cell     Cell
	priority float64
	seq      uint64
}

// searchQueue implements heap.Interface.
type searchQueue []searchItem

func (q searchQueue) Len() int { return len(q) }

func (q searchQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q searchQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *searchQueue) Push(x any) { *q = append(*q, x.(searchItem)) }

func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
