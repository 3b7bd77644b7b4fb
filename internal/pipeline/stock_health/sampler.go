package stock_health

import (
	"math/rand/v2"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
)

// RandSource is the randomness Sample draws from. *rand.Rand satisfies it.
type RandSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewRandSource returns a seeded source; equal seeds give equal samples.
func NewRandSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample picks up to k rows of t without replacement. It returns fewer rows
// when t is smaller than k and an empty table when t is empty or k <= 0.
func Sample(t *domain.Table, k int, rnd RandSource) *domain.Table {
	rows := t.Rows()
	n := len(rows)
	if k > n {
		k = n
	}
	if k <= 0 {
		return domain.NewTable(nil)
	}

	// partial Fisher-Yates over the copy
	for i := 0; i < k; i++ {
		j := i + rnd.IntN(n-i)
		rows[i], rows[j] = rows[j], rows[i]
	}
	return domain.NewTable(rows[:k])
}

// ProductNames lists the product column of t in table order.
func ProductNames(t *domain.Table) []string {
	out := make([]string, 0, t.Len())
	t.Each(func(_ int, p domain.Product) {
		out = append(out, p.Product)
	})
	return out
}
