package neuralnet

import "math"

// LossFunction scores a network output against its target.
type LossFunction interface {
	Compute(output []float64, target []float64) float64
}

// CrossEntropy is the binary cross-entropy summed over independent sigmoid outputs.
// It is used for reporting only; backprop derives its output error directly.
type CrossEntropy struct{}

const crossEntropyEpsilon = 1e-12

// Compute returns -Σ[t·log(a) + (1-t)·log(1-a)] with a clamped to [ε, 1-ε].
func (ce CrossEntropy) Compute(output []float64, target []float64) float64 {
	var loss float64
	for i := range output {
		a := math.Min(math.Max(output[i], crossEntropyEpsilon), 1-crossEntropyEpsilon)
		loss -= target[i]*math.Log(a) + (1-target[i])*math.Log(1-a)
	}
	return loss
}
