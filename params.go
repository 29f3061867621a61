package trajviz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrNoHorizon is returned when the spin exceeds what allows an event horizon.
var ErrNoHorizon = errors.New("no event horizon for these parameters")

// Parameters are the black hole parameters of a simulation.
// Any other field of the parameter file (initial conditions, step, ...) is ignored.
type Parameters struct {
	A float64 // Spin, dimensionless
	M float64 // Mass
}

func (p Parameters) String() string {
	return fmt.Sprintf("a=%g M=%g", p.A, p.M)
}

// Horizon returns the outer event horizon radius M(1+sqrt(1-a²)).
func (p Parameters) Horizon() (float64, error) {
	disc := 1 - p.A*p.A
	if disc < 0 || p.M <= 0 {
		return 0, fmt.Errorf("%w (%s)", ErrNoHorizon, p)
	}
	return p.M * (1 + math.Sqrt(disc)), nil
}

// ReadParameters reads the whole of r and decodes the parameters from it.
func ReadParameters(r io.Reader) (p Parameters, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}
	var raw struct {
		A *float64 `json:"a"`
		M *float64 `json:"M"`
	}
	if err = json.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("parameters: %w", err)
	}
	if raw.A == nil {
		return p, fmt.Errorf("parameters: %w `a`", ErrMissingField)
	}
	if raw.M == nil {
		return p, fmt.Errorf("parameters: %w `M`", ErrMissingField)
	}
	return Parameters{A: *raw.A, M: *raw.M}, nil
}
