package neuralnet

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Batches shuffles the indices [0, n) and splits them into consecutive
// chunks of batchSize. The last chunk holds the remainder, if any.
func Batches(n, batchSize int, rng *rand.Rand) [][]int {
	if n <= 0 || batchSize <= 0 {
		return nil
	}
	perm := rng.Perm(n)
	batches := make([][]int, 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		batches = append(batches, perm[start:end])
	}
	return batches
}

// MiniBatchTrain runs one epoch: the training set is reshuffled and every
// mini-batch is passed to GradientDescent in turn.
func (nn *NeuralNetwork) MiniBatchTrain(inputs, targets []*mat.VecDense) error {
	if len(inputs) != len(targets) {
		return ErrLengthMismatch
	}
	batchInputs := make([]*mat.VecDense, 0, nn.params.BatchSize)
	batchTargets := make([]*mat.VecDense, 0, nn.params.BatchSize)
	for _, batch := range Batches(len(inputs), nn.params.BatchSize, nn.rng) {
		batchInputs, batchTargets = batchInputs[:0], batchTargets[:0]
		for _, idx := range batch {
			batchInputs = append(batchInputs, inputs[idx])
			batchTargets = append(batchTargets, targets[idx])
		}
		if err := nn.GradientDescent(batchInputs, batchTargets); err != nil {
			return err
		}
	}
	return nil
}
