package targets

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Smoothness selects the roughness to smoothness conversion.
type Smoothness string

const (
	IR    Smoothness = "IR"    // 1 - r
	SIR   Smoothness = "SIR"   // (1 - r)^2
	IRS   Smoothness = "IRS"   // 1 - r^2
	IRSR  Smoothness = "IRSR"  // 1 - sqrt(r)
	SRIR  Smoothness = "SRIR"  // sqrt(1 - r)
	SRIRS Smoothness = "SRIRS" // sqrt(1 - r^2)
)

var smoothnessModes = []Smoothness{IR, SIR, IRS, IRSR, SRIR, SRIRS}

// Apply converts roughness r to smoothness. Unknown modes behave like IR.
func (s Smoothness) Apply(r float32) float32 {
	switch s {
	case SIR:
		return (1 - r) * (1 - r)
	case IRS:
		return 1 - r*r
	case IRSR:
		return 1 - math32.Sqrt(r)
	case SRIR:
		return math32.Sqrt(1 - r)
	case SRIRS:
		return math32.Sqrt(1 - r*r)
	}
	return 1 - r
}

// Valid reports whether s is a known conversion.
func (s Smoothness) Valid() bool {
	for _, m := range smoothnessModes {
		if m == s {
			return true
		}
	}
	return false
}

// ParseSmoothness converts a mode string to a Smoothness.
func ParseSmoothness(s string) (Smoothness, error) {
	m := Smoothness(s)
	if !m.Valid() {
		return "", fmt.Errorf("targets: unknown smoothness mapping %q", s)
	}
	return m, nil
}
