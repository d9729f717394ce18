package calibration

import (
	"fmt"
	"math"

	"github.com/kinetechlab/chromquant"
)

// SignalLaw is a parametric function relating concentration to peak signal.
// Design returns the least-squares basis row for one concentration, so every
// law here is linear in its parameters even when it is curved in the
// concentration.
type SignalLaw interface {
	Name() string
	NumParams() int
	Design(conc float64) []float64
	Eval(params []float64, conc float64) float64

	// Invert solves signal = law(conc) for conc.
	Invert(params []float64, signal float64) (float64, error)
}

// Law names.
const (
	LawLinear       = "linear"
	LawLinearOffset = "linear_offset"
	LawQuadratic    = "quadratic"
)

// DefaultLaws returns the candidate laws fitted when none are configured:
// linear through origin, linear with offset, and quadratic through origin.
func DefaultLaws() []SignalLaw {
	return []SignalLaw{linearLaw{}, linearOffsetLaw{}, quadraticLaw{}}
}

// LawByName resolves a law name recorded on a standard.
func LawByName(name string) (SignalLaw, error) {
	for _, law := range DefaultLaws() {
		if law.Name() == name {
			return law, nil
		}
	}
	return nil, &chromquant.FitError{Law: name, Message: "unknown signal law"}
}

// linearLaw is signal = a·c.
type linearLaw struct{}

func (linearLaw) Name() string               { return LawLinear }
func (linearLaw) NumParams() int             { return 1 }
func (linearLaw) Design(c float64) []float64 { return []float64{c} }

func (linearLaw) Eval(p []float64, c float64) float64 { return p[0] * c }

func (linearLaw) Invert(p []float64, signal float64) (float64, error) {
	if p[0] == 0 {
		return 0, &chromquant.FitError{Law: LawLinear, Message: "zero slope is not invertible"}
	}
	return signal / p[0], nil
}

// linearOffsetLaw is signal = a·c + b.
type linearOffsetLaw struct{}

func (linearOffsetLaw) Name() string               { return LawLinearOffset }
func (linearOffsetLaw) NumParams() int             { return 2 }
func (linearOffsetLaw) Design(c float64) []float64 { return []float64{c, 1} }

func (linearOffsetLaw) Eval(p []float64, c float64) float64 { return p[0]*c + p[1] }

func (linearOffsetLaw) Invert(p []float64, signal float64) (float64, error) {
	if p[0] == 0 {
		return 0, &chromquant.FitError{Law: LawLinearOffset, Message: "zero slope is not invertible"}
	}
	return (signal - p[1]) / p[0], nil
}

// quadraticLaw is signal = a·c + b·c², through the origin.
type quadraticLaw struct{}

func (quadraticLaw) Name() string               { return LawQuadratic }
func (quadraticLaw) NumParams() int             { return 2 }
func (quadraticLaw) Design(c float64) []float64 { return []float64{c, c * c} }

func (quadraticLaw) Eval(p []float64, c float64) float64 { return p[0]*c + p[1]*c*c }

func (quadraticLaw) Invert(p []float64, signal float64) (float64, error) {
	a, b := p[0], p[1]
	if b == 0 {
		return linearLaw{}.Invert([]float64{a}, signal)
	}

	disc := a*a + 4*b*signal
	if disc < 0 {
		return 0, &chromquant.FitError{Law: LawQuadratic, Message: fmt.Sprintf("signal %g is outside the invertible branch", signal)}
	}

	// The branch through the origin with positive initial slope.
	return (-a + math.Sqrt(disc)) / (2 * b), nil
}
