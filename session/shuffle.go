// --- qamaster-server/session/shuffle.go ---
package session

import (
	"math/rand"
)

// Shuffle returns a new slice holding a uniform random permutation of items,
// Fisher-Yates from the last index down. The input is never mutated; callers
// inject the random source so session shapes stay reproducible under a seed.
func Shuffle[T any](r *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
