package simulation

import "math/rand"

// NormalSource yields standard normal draws for one path. Each path gets its
// own source so workers never contend and a fixed run seed reproduces the
// full ensemble regardless of how many paths run concurrently.
type NormalSource interface {
	NormFloat64() float64
}

// SourceFactory derives the independent per-path source from the run seed.
type SourceFactory func(runSeed int64, pathID int) NormalSource

// DefaultSourceFactory seeds a math/rand stream per path. The (seed, pathID)
// derivation is fixed: changing it changes every reproducible run.
func DefaultSourceFactory(runSeed int64, pathID int) NormalSource {
	return rand.New(rand.NewSource(runSeed + int64(pathID)*0x9e3779b9))
}
