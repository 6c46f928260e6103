package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

const (
	orderCodePrefix    = "O"
	orderCodeSpan      = 99999
	defaultMaxAttempts = 50
)

// ErrCodeSpaceExhausted signals the generator gave up after too many
// collisions. With only 100k values, this means the store is nearly full.
var ErrCodeSpaceExhausted = errors.New("could not allocate a unique order code")

// ExistsFunc answers whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// CodeGenerator produces short human-facing codes: a role prefix plus a
// zero-padded random integer, retried until unique. The random source is
// injectable for deterministic tests.
type CodeGenerator struct {
	prefix      string
	span        int
	maxAttempts int
	intn        func(n int) int
}

type CodeOption func(*CodeGenerator)

// WithPrefix overrides the role prefix.
func WithPrefix(prefix string) CodeOption {
	return func(g *CodeGenerator) { g.prefix = prefix }
}

// WithMaxAttempts bounds the retry loop.
func WithMaxAttempts(n int) CodeOption {
	return func(g *CodeGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithIntn injects the random source.
func WithIntn(intn func(n int) int) CodeOption {
	return func(g *CodeGenerator) {
		if intn != nil {
			g.intn = intn
		}
	}
}

// NewCodeGenerator builds a generator with the order defaults.
func NewCodeGenerator(opts ...CodeOption) *CodeGenerator {
	g := &CodeGenerator{
		prefix:      orderCodePrefix,
		span:        orderCodeSpan,
		maxAttempts: defaultMaxAttempts,
		intn:        rand.Intn,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Generate returns a code not yet present according to exists.
func (g *CodeGenerator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := fmt.Sprintf("%s%05d", g.prefix, g.intn(g.span))
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, g.maxAttempts)
}
