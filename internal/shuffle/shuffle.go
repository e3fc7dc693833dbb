package shuffle

import (
	"math/rand"
	"time"
)

// Shuffler provides in-place shuffling for question batches
type Shuffler struct {
	random *rand.Rand
}

// Config for the shuffler
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new shuffler
func New(cfg *Config) *Shuffler {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)
	random := rand.New(source)

	return &Shuffler{
		random: random,
	}
}

// Shuffle randomly reorders n elements using the provided swap function
func (s *Shuffler) Shuffle(n int, swap func(i, j int)) {
	s.random.Shuffle(n, swap)
}
