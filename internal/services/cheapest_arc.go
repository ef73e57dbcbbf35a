package services

import (
	"cmp"
	"fmt"
	"route-order-service/internal/domain"
	"slices"
)

type arc struct {
	from, to int
	cost     int
}

// SolveCheapestArc builds a closed tour using a greedy cheapest-arc construction.
//
// Every location starts as its own path fragment. Arcs are taken in order of
// increasing cost and accepted when the origin has no successor yet, the
// destination has no predecessor yet, and the arc would not close a fragment
// on itself. After n-1 merges one fragment spans every location; its two ends
// are joined and the cycle is read out starting at depot.
//
// Equal-cost arcs are taken in enumeration order (origin ascending, then
// destination ascending). This only decides which of several equally cheap
// tours is produced; the result is not guaranteed optimal.
func SolveCheapestArc(m domain.CostMatrix, depot int) (domain.Route, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("solve cheapest arc: %w", err)
	}

	n := m.Size()
	if depot < 0 || depot >= n {
		return nil, fmt.Errorf("solve cheapest arc: %w: depot %d out of range [0,%d)", domain.ErrPrecondition, depot, n)
	}

	if n == 1 {
		return domain.Route{depot, depot}, nil
	}

	arcs := make([]arc, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				arcs = append(arcs, arc{from: i, to: j, cost: m.Cost(i, j)})
			}
		}
	}
	slices.SortStableFunc(arcs, func(a, b arc) int { return cmp.Compare(a.cost, b.cost) })

	next := make([]int, n)
	prev := make([]int, n)
	// headOf[t] is the first node of the fragment whose last node is t;
	// tailOf[h] is the reverse. Only valid at fragment ends.
	headOf := make([]int, n)
	tailOf := make([]int, n)
	for i := range n {
		next[i], prev[i] = -1, -1
		headOf[i], tailOf[i] = i, i
	}

	merged := 0
	for _, a := range arcs {
		if merged == n-1 {
			break
		}
		if next[a.from] != -1 || prev[a.to] != -1 {
			continue
		}
		// a.from is a tail and a.to is a head; same fragment would close a subtour.
		if headOf[a.from] == a.to {
			continue
		}

		head := headOf[a.from]
		tail := tailOf[a.to]
		next[a.from] = a.to
		prev[a.to] = a.from
		tailOf[head] = tail
		headOf[tail] = head
		merged++
	}

	if merged != n-1 {
		return nil, fmt.Errorf("solve cheapest arc: merged %d of %d arcs", merged, n-1)
	}

	// Close the single remaining fragment.
	for i := range n {
		if prev[i] == -1 {
			tail := tailOf[i]
			next[tail] = i
			prev[i] = tail
			break
		}
	}

	route := make(domain.Route, 0, n+1)
	for cur, k := depot, 0; k < n; cur, k = next[cur], k+1 {
		route = append(route, cur)
	}
	route = append(route, depot)

	return route, nil
}
