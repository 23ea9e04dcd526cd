package neuralnet

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sample is one recorded evaluation step. Activation is the highest output
// activation and RunningAccuracy the fraction correct over examples [0, Index].
type Sample struct {
	Index           int
	Predicted       int
	Actual          int
	Activation      float64
	Correct         bool
	RunningAccuracy float64
}

// Report summarizes a pass over a held-out set.
type Report struct {
	Correct int
	Total   int
	// Loss is the mean cross-entropy per example.
	Loss    float64
	Samples []Sample
}

// Accuracy returns the fraction of correctly classified examples.
func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Percent returns Accuracy as a percentage.
func (r Report) Percent() float64 {
	return r.Accuracy() * 100
}

// ArgMax returns the index of the largest element, the first one on ties.
func ArgMax(v *mat.VecDense) int {
	return floats.MaxIdx(v.RawVector().Data[:v.Len()])
}

// Evaluate classifies every example and compares it against the target's
// class. Every verbosity-th example is recorded in the report's samples;
// verbosity <= 0 records none. Parameters are not modified.
func (nn *NeuralNetwork) Evaluate(inputs, targets []*mat.VecDense, verbosity int) (Report, error) {
	if len(inputs) != len(targets) {
		return Report{}, ErrLengthMismatch
	}
	var report Report
	var loss float64
	for i := range inputs {
		out := nn.FeedForward(inputs[i])
		predicted := ArgMax(out)
		actual := ArgMax(targets[i])
		loss += nn.score(out, targets[i])

		report.Total++
		if predicted == actual {
			report.Correct++
		}
		if verbosity > 0 && i%verbosity == 0 {
			report.Samples = append(report.Samples, Sample{
				Index:           i,
				Predicted:       predicted,
				Actual:          actual,
				Activation:      out.AtVec(predicted),
				Correct:         predicted == actual,
				RunningAccuracy: report.Accuracy(),
			})
		}
	}
	if report.Total > 0 {
		report.Loss = loss / float64(report.Total)
	}
	return report, nil
}
