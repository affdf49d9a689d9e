package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/domain/similarity"
)

// DefaultK is the number of recommendations returned when k is not set.
const DefaultK = 5

// Ranked is one neighbour of the query row.
type Ranked struct {
	Index int
	Score float32
}

// TopK returns up to k neighbours of row idx ordered by descending score.
// Ties keep ascending index order. The query index itself is always excluded,
// even when another row has an identical score.
func TopK(m similarity.Matrix, idx, k int) []Ranked {
	n := m.N()
	if k <= 0 || n == 0 {
		return []Ranked{}
	}

	row := m.Row(idx)
	pairs := make([]Ranked, 0, n)
	for i, score := range row {
		pairs = append(pairs, Ranked{Index: i, Score: score})
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return sortKey(pairs[a].Score) > sortKey(pairs[b].Score)
	})

	out := make([]Ranked, 0, min(k, n-1))
	for _, p := range pairs {
		if p.Index == idx {
			continue
		}
		out = append(out, p)
		if len(out) == k {
			break
		}
	}
	return out
}

// sortKey orders NaN below every real score so the comparator stays a strict
// weak ordering.
func sortKey(s float32) float32 {
	if math.IsNaN(float64(s)) {
		return float32(math.Inf(-1))
	}
	return s
}

// Rank finds title in c (first exact, case-sensitive match) and returns its
// k most similar movies. Returns domain.ErrTitleNotFound when title is absent.
func Rank(c domcat.Catalog, title string, k int) ([]recommendation.Recommendation, error) {
	idx, ok := c.IndexOf(title)
	if !ok {
		return nil, fmt.Errorf("%q: %w", title, domain.ErrTitleNotFound)
	}

	ranked := TopK(c.Matrix(), idx, k)
	recs := make([]recommendation.Recommendation, len(ranked))
	for i, r := range ranked {
		recs[i] = recommendation.New(c.Movie(r.Index), r.Score, i+1)
	}
	return recs, nil
}
