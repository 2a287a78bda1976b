package simulate

import (
	"math/rand"

	"github.com/forgewatch/forgewatch/pkg/logger"
)

// Option customizes a Generator.
type Option func(*Generator)

// WithSeed reseeds the generator. Equal seeds give equal streams.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger overrides the generator's logger. Nil loggers are ignored.
func WithLogger(log logger.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}
