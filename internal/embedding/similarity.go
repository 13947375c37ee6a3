package embedding

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned when comparing vectors of different length.
var ErrDimensionMismatch = errors.New("embedding: vector dimensions differ")

// Match is a candidate's position and its similarity to a query.
type Match struct {
	Index int
	Score float64
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b. Zero
// vectors have similarity 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	x, y := toFloat64(a), toFloat64(b)
	na, nb := floats.Norm(x, 2), floats.Norm(y, 2)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return floats.Dot(x, y) / (na * nb), nil
}

// Rank scores every candidate against query and returns them best first.
// Candidates with a mismatched dimension are an error.
func Rank(query []float32, candidates [][]float32) ([]Match, error) {
	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		score, err := CosineSimilarity(query, c)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		matches[i] = Match{Index: i, Score: score}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}
