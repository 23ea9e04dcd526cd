package neuralnet

// Optimizer applies accumulated gradients to a network's parameters.
type Optimizer interface {
	Apply(nn *NeuralNetwork, grads *Gradients, batchSize int) error
}

// SGD implements plain stochastic gradient descent with a fixed learning rate.
type SGD struct{}

// Apply moves every parameter by -(lr/batchSize) times its summed gradient.
func (o *SGD) Apply(nn *NeuralNetwork, grads *Gradients, batchSize int) error {
	if batchSize <= 0 {
		return ErrEmptyBatch
	}
	step := -nn.params.LearningRate / float64(batchSize)
	for i := range nn.weights {
		nn.weights[i].Apply(func(r, c int, w float64) float64 {
			return w + step*grads.Weights[i].At(r, c)
		}, nn.weights[i])
		nn.biases[i].AddScaledVec(nn.biases[i], step, grads.Biases[i])
	}
	return nil
}
