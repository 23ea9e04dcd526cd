package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid is the logistic activation used by every layer.
type Sigmoid struct{}

func (s Sigmoid) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Derivative takes an already activated value a = σ(x), not x.
func (s Sigmoid) Derivative(a float64) float64 {
	return a * (1 - a)
}

// SigmoidVec writes σ(z) into dst elementwise.
func SigmoidVec(dst, z *mat.VecDense) {
	s := Sigmoid{}
	for i := 0; i < z.Len(); i++ {
		dst.SetVec(i, s.Activate(z.AtVec(i)))
	}
}

// DSigmoidVec writes a(1-a) into dst elementwise.
func DSigmoidVec(dst, a *mat.VecDense) {
	s := Sigmoid{}
	for i := 0; i < a.Len(); i++ {
		dst.SetVec(i, s.Derivative(a.AtVec(i)))
	}
}
