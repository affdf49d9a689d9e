package similarity

import "fmt"

// Matrix is a square, row-major matrix of similarity scores (immutable value object).
// Row and column i correspond to catalog entry i.
type Matrix struct {
	n    int
	data []float32
}

// New wraps row-major data of an n×n matrix. data is owned by the Matrix afterwards.
func New(n int, data []float32) (Matrix, error) {
	if n < 0 {
		return Matrix{}, fmt.Errorf("matrix dimension must not be negative, got %d", n)
	}
	if len(data) != n*n {
		return Matrix{}, fmt.Errorf("matrix data has %d values, want %d (%dx%d)", len(data), n*n, n, n)
	}
	return Matrix{n: n, data: data}, nil
}

// FromRows builds a Matrix from a slice of equal-length rows.
func FromRows(rows [][]float32) (Matrix, error) {
	n := len(rows)
	data := make([]float32, 0, n*n)
	for i, r := range rows {
		if len(r) != n {
			return Matrix{}, fmt.Errorf("row %d has %d columns, want %d", i, len(r), n)
		}
		data = append(data, r...)
	}
	return New(n, data)
}

// N returns the number of rows (and columns).
func (m Matrix) N() int { return m.n }

// At returns the score at row i, column j.
func (m Matrix) At(i, j int) float32 { return m.data[i*m.n+j] }

// Row returns row i. Callers must not modify the returned slice.
func (m Matrix) Row(i int) []float32 { return m.data[i*m.n : (i+1)*m.n] }

// Sub selects the principal submatrix on indices: result[a][b] = m[indices[a]][indices[b]].
// indices must be valid row numbers; order is preserved.
func (m Matrix) Sub(indices []int) Matrix {
	k := len(indices)
	data := make([]float32, k*k)
	for a, i := range indices {
		row := m.Row(i)
		dst := data[a*k : (a+1)*k]
		for b, j := range indices {
			dst[b] = row[j]
		}
	}
	return Matrix{n: k, data: data}
}
