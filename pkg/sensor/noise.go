// Package sensor injects measurement noise into the quantities the leader reports.
//
// All randomness flows through an explicit Noise value seeded by the caller, so a
// scenario run with the same seed is reproducible draw for draw.
package sensor

import (
	"fmt"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"gonum.org/v1/gonum/stat/distuv"
)

// streamSalt decorrelates the second PCG word from the seed.
const streamSalt = 0x9e3779b97f4a7c15

// Noise is a seedable source of zero-mean Gaussian perturbations.
// It is not safe for concurrent use; the simulation is single threaded.
type Noise struct {
	src *rand.PCG
}

// New returns a Noise seeded with seed.
func New(seed uint64) *Noise {
	return &Noise{src: rand.NewPCG(seed, seed^streamSalt)}
}

// Gaussian draws one sample from N(0, std²).
// A zero std returns exactly 0 without consuming a draw.
func (n *Noise) Gaussian(std float64) float64 {
	if std == 0 {
		return 0
	}
	d := distuv.Normal{Mu: 0, Sigma: std, Src: n.src}
	return d.Rand()
}

// Vector draws an independent N(0, std²) sample per component.
func (n *Noise) Vector(std float64) geometry.Vector2D {
	if std == 0 {
		return geometry.Vector2D{}
	}
	return geometry.Vector2D{X: n.Gaussian(std), Y: n.Gaussian(std)}
}

// Perturb returns v plus independent Gaussian noise on each component.
func (n *Noise) Perturb(v geometry.Vector2D, std float64) geometry.Vector2D {
	return v.Add(n.Vector(std))
}

// PerturbScalar returns x plus Gaussian noise.
func (n *Noise) PerturbScalar(x, std float64) float64 {
	return x + n.Gaussian(std)
}

// MarshalBinary captures the generator state so a run can be resumed.
func (n *Noise) MarshalBinary() ([]byte, error) {
	return n.src.MarshalBinary()
}

// UnmarshalBinary restores a state produced by MarshalBinary.
func (n *Noise) UnmarshalBinary(data []byte) error {
	if n.src == nil {
		n.src = rand.NewPCG(0, 0)
	}
	if err := n.src.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("restore noise state: %w", err)
	}
	return nil
}
