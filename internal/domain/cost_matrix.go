package domain

import "fmt"

// Metric identifies what a CostMatrix measures.
type Metric string

const (
	MetricDistance Metric = "distance"
	MetricDuration Metric = "duration"
)

// Represents a complete N×N table of non-negative arc costs.
// Cells[i][j] is the cost of travelling from location i to location j.
// The matrix is not assumed symmetric. It is built once by the matrix
// builder and treated as read-only afterwards.
type CostMatrix struct {
	Metric Metric
	Cells  [][]int
}

func (m CostMatrix) Size() int { return len(m.Cells) }

func (m CostMatrix) Cost(from, to int) int { return m.Cells[from][to] }

// Validate reports whether the matrix is non-empty, square and non-negative.
func (m CostMatrix) Validate() error {
	n := len(m.Cells)
	if n == 0 {
		return fmt.Errorf("%w: %s matrix is empty", ErrPrecondition, m.Metric)
	}

	for i, row := range m.Cells {
		if len(row) != n {
			return fmt.Errorf(
				"%w: %s matrix row %d has %d columns, want %d",
				ErrPrecondition, m.Metric, i, len(row), n,
			)
		}
		for j, c := range row {
			if c < 0 {
				return fmt.Errorf(
					"%w: %s matrix cell [%d][%d] is negative (%d)",
					ErrPrecondition, m.Metric, i, j, c,
				)
			}
		}
	}

	return nil
}
