package neuralnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func oneHot(n, class int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	v.SetVec(class, 1)
	return v
}

func TestArgMax(t *testing.T) {
	tests := []struct {
		values []float64
		want   int
	}{
		{[]float64{0.1, 0.9, 0.3}, 1},
		{[]float64{0.7, 0.7, 0.1}, 0},
		{[]float64{0.2, 0.5, 0.5}, 1},
		{[]float64{1}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ArgMax(mat.NewVecDense(len(tt.values), tt.values)), "%v", tt.values)
	}
}

// classifyingNetwork returns a [2,2] network whose prediction is the index of
// the larger input coordinate.
func classifyingNetwork(t *testing.T) *NeuralNetwork {
	nn := newTestNetwork(t, []int{2, 2}, 1, 0.1)
	nn.Weights(0).Copy(mat.NewDense(2, 2, []float64{4, -4, -4, 4}))
	nn.Biases(0).Zero()
	return nn
}

func TestEvaluateAllCorrect(t *testing.T) {
	nn := classifyingNetwork(t)
	inputs := []*mat.VecDense{
		mat.NewVecDense(2, []float64{1, 0}),
		mat.NewVecDense(2, []float64{0, 1}),
		mat.NewVecDense(2, []float64{0.9, 0.2}),
	}
	targets := []*mat.VecDense{oneHot(2, 0), oneHot(2, 1), oneHot(2, 0)}

	report, err := nn.Evaluate(inputs, targets, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Correct)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 100.0, report.Percent())
	require.Len(t, report.Samples, 3)
	for i, s := range report.Samples {
		assert.Equal(t, i, s.Index)
		assert.True(t, s.Correct)
		assert.Equal(t, 1.0, s.RunningAccuracy)
		assert.Greater(t, s.Activation, 0.5)
	}
	assert.Equal(t, 1, report.Samples[1].Predicted)
	assert.Equal(t, 1, report.Samples[1].Actual)
}

func TestEvaluateAllWrong(t *testing.T) {
	nn := classifyingNetwork(t)
	inputs := []*mat.VecDense{
		mat.NewVecDense(2, []float64{1, 0}),
		mat.NewVecDense(2, []float64{0, 1}),
	}
	targets := []*mat.VecDense{oneHot(2, 1), oneHot(2, 0)}

	report, err := nn.Evaluate(inputs, targets, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Correct)
	assert.Equal(t, 0.0, report.Percent())
	for _, s := range report.Samples {
		assert.False(t, s.Correct)
		assert.Equal(t, 0.0, s.RunningAccuracy)
	}
}

func TestEvaluateSamplingAndLoss(t *testing.T) {
	nn := classifyingNetwork(t)
	var inputs, targets []*mat.VecDense
	for i := 0; i < 10; i++ {
		inputs = append(inputs, mat.NewVecDense(2, []float64{1, 0}))
		class := 0
		if i >= 5 {
			class = 1
		}
		targets = append(targets, oneHot(2, class))
	}

	report, err := nn.Evaluate(inputs, targets, 4)
	require.NoError(t, err)
	require.Len(t, report.Samples, 3)
	assert.Equal(t, []int{0, 4, 8}, []int{report.Samples[0].Index, report.Samples[1].Index, report.Samples[2].Index})
	assert.Equal(t, 5.0/9.0, report.Samples[2].RunningAccuracy)
	assert.Equal(t, 0.5, report.Accuracy())

	want := (5*nn.Loss(inputs[0], targets[0]) + 5*nn.Loss(inputs[9], targets[9])) / 10
	assert.InDelta(t, want, report.Loss, 1e-9)
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	nn := classifyingNetwork(t)
	before := mat.DenseCopyOf(nn.Weights(0))
	_, err := nn.Evaluate([]*mat.VecDense{mat.NewVecDense(2, []float64{1, 0})}, []*mat.VecDense{oneHot(2, 1)}, 0)
	require.NoError(t, err)
	assert.True(t, mat.Equal(before, nn.Weights(0)))
}

func TestLossTargetLengthMismatch(t *testing.T) {
	nn := classifyingNetwork(t)
	input := mat.NewVecDense(2, []float64{1, 0})
	assert.Panics(t, func() { nn.Loss(input, oneHot(3, 0)) })
	assert.Panics(t, func() { nn.Loss(input, mat.NewVecDense(1, []float64{1})) })
	assert.NotPanics(t, func() { nn.Loss(input, oneHot(2, 0)) })
}

func TestEvaluateTargetLengthMismatch(t *testing.T) {
	nn := classifyingNetwork(t)
	inputs := []*mat.VecDense{mat.NewVecDense(2, []float64{1, 0})}
	assert.Panics(t, func() { _, _ = nn.Evaluate(inputs, []*mat.VecDense{oneHot(3, 0)}, 1) })
	assert.Panics(t, func() { _, _ = nn.Evaluate(inputs, []*mat.VecDense{mat.NewVecDense(1, []float64{1})}, 1) })
}

func TestEvaluateErrors(t *testing.T) {
	nn := classifyingNetwork(t)
	_, err := nn.Evaluate([]*mat.VecDense{mat.NewVecDense(2, nil)}, nil, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	report, err := nn.Evaluate(nil, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Accuracy())
	assert.Empty(t, report.Samples)
}
