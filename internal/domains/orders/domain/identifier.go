package domain

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	idSuffixLength = 4
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// IDGenerator produces order identifiers.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }

// Base36Generator combines the current unix second in base 36 with a short
// random base-36 suffix, e.g. "sq3k2a-x9f0". Uniqueness is probabilistic.
type Base36Generator struct {
	now    func() time.Time
	random func(n int) string
}

// NewBase36Generator returns a generator backed by the wall clock and crypto/rand.
func NewBase36Generator() *Base36Generator {
	return &Base36Generator{now: time.Now, random: randomBase36}
}

// WithClock overrides the time source for deterministic testing.
func (g *Base36Generator) WithClock(now func() time.Time) *Base36Generator {
	if now != nil {
		g.now = now
	}
	return g
}

// WithRandom overrides the suffix source for deterministic testing.
func (g *Base36Generator) WithRandom(random func(n int) string) *Base36Generator {
	if random != nil {
		g.random = random
	}
	return g
}

func (g *Base36Generator) NewID() string {
	return strconv.FormatInt(g.now().Unix(), 36) + "-" + g.random(idSuffixLength)
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	limit := big.NewInt(int64(len(base36Alphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			buf[i] = base36Alphabet[time.Now().UnixNano()%int64(len(base36Alphabet))]
			continue
		}
		buf[i] = base36Alphabet[idx.Int64()]
	}
	return string(buf)
}
