// Package sampler selects digest highlights with book-level diversity.
package sampler

import (
	"math/rand"
	"time"

	"github.com/mrlokans/kindle-digest/internal/entities"
)

// Sampler draws random digest selections from a highlight pool. The random
// source is injected so tests can seed it; selection is intentionally
// non-deterministic in production.
type Sampler struct {
	rng *rand.Rand
}

// New creates a sampler over the given random source. A nil source gets a
// time-seeded one.
func New(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// Sample selects up to count highlights. When the pool is larger than count,
// it first draws one random highlight per book, visiting books in random
// order, then fills the remainder randomly without replacement. The final
// selection is shuffled so consecutive digests don't show book-grouping
// artifacts.
//
// The one-per-book pass is a greedy diversity heuristic: with a heavily
// skewed book distribution the result is only approximately
// diversity-maximizing.
func (s *Sampler) Sample(pool []entities.Highlight, count int) []entities.Highlight {
	if count <= 0 {
		return []entities.Highlight{}
	}

	if len(pool) <= count {
		selection := make([]entities.Highlight, len(pool))
		copy(selection, pool)
		s.rng.Shuffle(len(selection), func(i, j int) {
			selection[i], selection[j] = selection[j], selection[i]
		})
		return selection
	}

	// Group pool indexes by book title, keeping first-seen title order so
	// the shuffle below is the only source of randomness in book order.
	groups := make(map[string][]int)
	var titles []string
	for i, h := range pool {
		if _, ok := groups[h.Title]; !ok {
			titles = append(titles, h.Title)
		}
		groups[h.Title] = append(groups[h.Title], i)
	}

	s.rng.Shuffle(len(titles), func(i, j int) {
		titles[i], titles[j] = titles[j], titles[i]
	})

	selected := make(map[int]struct{}, count)
	var picked []int

	// First pass: one random highlight per book.
	for _, title := range titles {
		if len(picked) >= count {
			break
		}
		group := groups[title]
		idx := group[s.rng.Intn(len(group))]
		picked = append(picked, idx)
		selected[idx] = struct{}{}
	}

	// Fill pass: the remaining draws come from the unselected rest of the
	// pool, irrespective of book.
	if len(picked) < count {
		var remaining []int
		for i := range pool {
			if _, ok := selected[i]; !ok {
				remaining = append(remaining, i)
			}
		}
		s.rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})

		needed := count - len(picked)
		if needed > len(remaining) {
			needed = len(remaining)
		}
		picked = append(picked, remaining[:needed]...)
	}

	s.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	selection := make([]entities.Highlight, 0, len(picked))
	for _, idx := range picked {
		selection = append(selection, pool[idx])
	}
	return selection
}
