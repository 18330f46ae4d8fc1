// Package distribute spreads marginal totals over a two-dimensional grid.
//
// The input only carries per-domain and per-year totals, never the joint
// per-domain-per-year counts, so Proportional fabricates a plausible grid for
// display purposes. The result is a visual placeholder: it does not recover
// the true joint distribution and must not be read as one.
package distribute

// Matrix is a dense row-major grid of non-negative values.
type Matrix struct {
	cells [][]float64
	cols  int
}

// NewMatrix allocates a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	cells := make([][]float64, rows)
	for i := range cells {
		cells[i] = make([]float64, cols)
	}

	return Matrix{cells: cells, cols: cols}
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m.cells)
}

// Cols returns the number of columns.
func (m Matrix) Cols() int {
	return m.cols
}

// At returns the value at (r, c). It panics when out of range.
func (m Matrix) At(r, c int) float64 {
	return m.cells[r][c]
}

// RowSum returns the sum of row r.
func (m Matrix) RowSum(r int) float64 {
	return sum(m.cells[r])
}

// Max returns the largest cell value, or 0 for an empty matrix.
func (m Matrix) Max() float64 {
	best := 0.0

	for _, row := range m.cells {
		for _, v := range row {
			if v > best {
				best = v
			}
		}
	}

	return best
}

// Proportional allocates each row total across columns in proportion to the
// column totals:
//
//	M[r][c] = rowTotals[r] * colTotals[c] / sum(colTotals)
//
// and then rescales every row with a positive sum by rowTotals[r] / sum(M[r])
// so each row sums back to its total. When the column totals sum to zero the
// matrix is all zeros.
func Proportional(rowTotals, colTotals []float64) Matrix {
	m := NewMatrix(len(rowTotals), len(colTotals))

	colSum := sum(colTotals)
	if colSum == 0 {
		return m
	}

	for r, rowTotal := range rowTotals {
		row := m.cells[r]

		for c, colTotal := range colTotals {
			row[c] = rowTotal * colTotal / colSum
		}

		rowSum := sum(row)
		if rowSum > 0 {
			scale := rowTotal / rowSum

			for c := range row {
				row[c] *= scale
			}
		}
	}

	return m
}

func sum(vs []float64) float64 {
	total := 0.0

	for _, v := range vs {
		total += v
	}

	return total
}
