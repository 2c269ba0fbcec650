package domain

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBase36Generator_Deterministic(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	gen := NewBase36Generator().
		WithClock(func() time.Time { return now }).
		WithRandom(func(n int) string { return "abcd"[:n] })

	assert.Equal(t, strconv.FormatInt(now.Unix(), 36)+"-abcd", gen.NewID())
}

func TestBase36Generator_Shape(t *testing.T) {
	shape := regexp.MustCompile(`^[0-9a-z]+-[0-9a-z]{4}$`)
	gen := NewBase36Generator()
	for i := 0; i < 50; i++ {
		id := gen.NewID()
		assert.Regexp(t, shape, id)
	}
}

func TestIDGeneratorFunc(t *testing.T) {
	var gen IDGenerator = IDGeneratorFunc(func() string { return "fixed" })
	assert.Equal(t, "fixed", gen.NewID())
}
