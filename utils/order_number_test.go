package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeOrderNumberGenerator(t *testing.T) {
	gen := TimeOrderNumberGenerator{
		Now: func() time.Time {
			return time.Date(2025, 1, 15, 9, 5, 7, 0, time.UTC)
		},
	}
	assert.Equal(t, "090507", gen.Generate())
}

func TestGenerateOrderNumberUsesPrefix(t *testing.T) {
	gen := TimeOrderNumberGenerator{
		Now: func() time.Time {
			return time.Date(2025, 1, 15, 23, 59, 59, 0, time.UTC)
		},
	}

	t.Setenv("ORDER_PREFIX", "FLA")
	assert.Equal(t, "FLA235959", GenerateOrderNumber(gen))

	t.Setenv("ORDER_PREFIX", "")
	assert.Equal(t, "FUA235959", GenerateOrderNumber(gen))
}

func TestRandomOrderNumberGenerator(t *testing.T) {
	gen := RandomOrderNumberGenerator{}

	a := gen.Generate()
	b := gen.Generate()

	assert.Len(t, a, 6)
	assert.Len(t, b, 6)
	assert.NotEqual(t, a, b)
}

func TestNewOrderNumberGeneratorStrategy(t *testing.T) {
	t.Setenv("ORDER_NUMBER_STRATEGY", "random")
	_, ok := NewOrderNumberGenerator().(RandomOrderNumberGenerator)
	assert.True(t, ok)

	t.Setenv("ORDER_NUMBER_STRATEGY", "")
	_, ok = NewOrderNumberGenerator().(TimeOrderNumberGenerator)
	assert.True(t, ok)
}
