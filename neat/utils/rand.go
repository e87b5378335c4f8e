// Package utils provides small PRNG helpers shared by the genetics and
// population packages.
package utils

import (
	"math/rand"

	"github.com/paul-bokelman/neat-go/neat"
)

// Chance returns true with probability p, comparing a uniform real in
// [0,1) against p.
func Chance(p float64) bool {
	return rand.Float64() < p
}

// RandomExclude returns a uniform integer in [lower, upper] that is not a
// member of exclude. It fails with neat.ErrInvalidArgument if the excluded
// set covers the entire domain, since the caller is expected to guarantee
// otherwise (rejection sampling would never terminate).
func RandomExclude(lower, upper int, exclude ...int) (int, error) {
	if upper < lower {
		return 0, neat.ErrInvalidArgument
	}
	excluded := make(map[int]struct{}, len(exclude))
	for _, e := range exclude {
		if e >= lower && e <= upper {
			excluded[e] = struct{}{}
		}
	}
	if len(excluded) >= upper-lower+1 {
		return 0, neat.ErrInvalidArgument
	}
	for {
		v := lower + rand.Intn(upper-lower+1)
		if _, skip := excluded[v]; !skip {
			return v, nil
		}
	}
}
