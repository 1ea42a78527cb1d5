package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderNumberGenerator produces the short human-facing order code that
// gets appended to the business prefix. Collision behaviour is a
// deliberate, swappable choice: the database's unique index on
// order_number is the final arbiter either way.
type OrderNumberGenerator interface {
	Generate() string
}

// TimeOrderNumberGenerator derives the code from the time of day
// (hhmmss, each part zero-padded). Two orders created within the same
// second collide; the unique index turns that into a conflict instead
// of a silent duplicate.
type TimeOrderNumberGenerator struct {
	Now func() time.Time
}

func (g TimeOrderNumberGenerator) Generate() string {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	return fmt.Sprintf("%02d%02d%02d", now.Hour(), now.Minute(), now.Second())
}

// RandomOrderNumberGenerator derives a 6-character uppercase code from
// a UUID, trading legibility of the time-based code for a much lower
// collision rate.
type RandomOrderNumberGenerator struct{}

func (g RandomOrderNumberGenerator) Generate() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
}

// NewOrderNumberGenerator picks the strategy from ORDER_NUMBER_STRATEGY
// ("time" or "random"); the time-based code is the default.
func NewOrderNumberGenerator() OrderNumberGenerator {
	if os.Getenv("ORDER_NUMBER_STRATEGY") == "random" {
		return RandomOrderNumberGenerator{}
	}
	return TimeOrderNumberGenerator{}
}

// GenerateOrderNumber prepends the configured business prefix to a
// freshly generated code.
func GenerateOrderNumber(gen OrderNumberGenerator) string {
	prefix := os.Getenv("ORDER_PREFIX")
	if prefix == "" {
		prefix = "FUA"
	}
	return prefix + gen.Generate()
}
