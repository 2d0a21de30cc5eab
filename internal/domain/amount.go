package domain

import (
	"errors"   // Error inspection
	"fmt"      // Formatting error messages
	"math/big" // Arbitrary precision
	"strings"  // String helpers
	"time"     // Timestamps and timeouts

	"github.com/shopspring/decimal" // Exact decimal amounts
)

// OctasPerAPT is the fixed scaling between the display unit and the chain unit.
const OctasPerAPT = 100_000_000

var (
	ErrInvalidAmount = errors.New("amount must be a positive APT value") // Returned by ParseAPT

	octasScale = decimal.NewFromInt(OctasPerAPT)                              // APT to Octas
	maxOctas   = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0) // Largest u64
)

// Octas is an amount in the chain's smallest unit.
type Octas uint64

// UnmarshalJSON accepts "123" and 123
func (o *Octas) UnmarshalJSON(b []byte) error {
	v, err := parseU64JSON(b)
	if err != nil {
		return err
	}
	*o = Octas(v) // Store parsed value
	return nil
}

// MarshalJSON writes the chain's string form
func (o Octas) MarshalJSON() ([]byte, error) {
	return U64(o).MarshalJSON()
}

// String is the decimal Octas value, the form transaction arguments use.
func (o Octas) String() string {
	return new(big.Int).SetUint64(uint64(o)).String()
}

// APT returns the amount in display units.
func (o Octas) APT() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(o)), -8) // Exact, no float rounding
}

// ParseAPT converts a user-entered APT amount into Octas. Fractions below one
// Octa are truncated; zero, negative and malformed input are rejected.
func ParseAPT(input string) (Octas, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(input)) // Parse user input
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	octas := d.Mul(octasScale).Truncate(0) // Drop sub-Octa fractions
	if octas.IsZero() || octas.GreaterThan(maxOctas) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	return Octas(octas.BigInt().Uint64()), nil // Fits in u64
}

// FormatAPT renders Octas as APT with four decimals, the precision every page shows.
func FormatAPT(o Octas) string {
	return o.APT().StringFixed(4) // e.g. "1.5000"
}

// Progress is raised/target as a percentage. A zero target reports 0.
func Progress(raised, target Octas) float64 {
	if target == 0 {
		return 0 // Avoid division by zero
	}
	return float64(raised) / float64(target) * 100
}

// FormatProgress renders Progress with one decimal, e.g. "50.0%".
func FormatProgress(raised, target Octas) string {
	return fmt.Sprintf("%.1f%%", Progress(raised, target))
}

// BarWidth caps Progress at 100 for progress bars.
func BarWidth(raised, target Octas) float64 {
	return min(Progress(raised, target), 100) // Overfunded bars stay full
}

// FormatTimestamp renders chain seconds in UTC.
func FormatTimestamp(seconds U64) string {
	return time.Unix(int64(seconds), 0).UTC().Format("2006-01-02 15:04:05 UTC")
}
