package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberGenerator produces transaction numbers. Collisions are possible and
// are caught by the unique index on transaction_number.
type NumberGenerator interface {
	Next(now time.Time) string
}

// TimestampNumberGenerator builds numbers like TXN-20260102150405-9F3A61C2:
// a UTC timestamp to the second followed by eight random hex characters.
type TimestampNumberGenerator struct {
	Prefix string
}

// NewTimestampNumberGenerator returns a generator with the default prefix
func NewTimestampNumberGenerator() *TimestampNumberGenerator {
	return &TimestampNumberGenerator{Prefix: "TXN"}
}

// Next returns a new transaction number
func (g *TimestampNumberGenerator) Next(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return g.Prefix + "-" + now.UTC().Format("20060102150405") + "-" + suffix
}
