package neuralnet

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Params configures a network.
type Params struct {
	// Sizes holds the neuron count per layer, input first and output last.
	Sizes        []int
	BatchSize    int
	LearningRate float64

	// Inputs and Classes, when non-zero, pin the first and last layer to the
	// dataset's feature and class counts.
	Inputs  int
	Classes int
}

func (p Params) validate() error {
	if len(p.Sizes) < 2 {
		return &ConstructionError{Field: "sizes", Reason: fmt.Sprintf("need at least 2 layers, got %d", len(p.Sizes))}
	}
	for i, s := range p.Sizes {
		if s <= 0 {
			return &ConstructionError{Field: "sizes", Reason: fmt.Sprintf("layer %d has %d neurons", i, s)}
		}
	}
	if p.BatchSize <= 0 {
		return &ConstructionError{Field: "batch size", Reason: fmt.Sprintf("must be positive, got %d", p.BatchSize)}
	}
	if !(p.LearningRate > 0) || math.IsInf(p.LearningRate, 0) {
		return &ConstructionError{Field: "learning rate", Reason: fmt.Sprintf("must be positive and finite, got %v", p.LearningRate)}
	}
	if p.Inputs != 0 && p.Sizes[0] != p.Inputs {
		return &ConstructionError{Field: "sizes", Reason: fmt.Sprintf("input layer has %d neurons, dataset has %d features", p.Sizes[0], p.Inputs)}
	}
	if last := p.Sizes[len(p.Sizes)-1]; p.Classes != 0 && last != p.Classes {
		return &ConstructionError{Field: "sizes", Reason: fmt.Sprintf("output layer has %d neurons, dataset has %d classes", last, p.Classes)}
	}
	return nil
}

// NeuralNetwork is a fully connected sigmoid network trained with mini-batch SGD.
// A NeuralNetwork is not safe for concurrent use: FeedForward reuses its
// activation buffers.
type NeuralNetwork struct {
	params  Params
	weights []*mat.Dense
	biases  []*mat.VecDense

	// per-example scratch, overwritten by FeedForward; zl[0] is unused
	zl []*mat.VecDense
	al []*mat.VecDense

	rng       *rand.Rand
	optimizer Optimizer
	loss      LossFunction
}

// NewNeuralNetwork builds a network whose weights and biases are drawn
// uniformly from ±sqrt(2/fan_in). src drives both initialization and the
// per-epoch shuffle.
func NewNeuralNetwork(params Params, src rand.Source) (*NeuralNetwork, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	params.Sizes = append([]int(nil), params.Sizes...)
	sizes := params.Sizes
	layers := len(sizes) - 1

	nn := &NeuralNetwork{
		params:    params,
		weights:   make([]*mat.Dense, layers),
		biases:    make([]*mat.VecDense, layers),
		zl:        make([]*mat.VecDense, len(sizes)),
		al:        make([]*mat.VecDense, len(sizes)),
		rng:       rand.New(src),
		optimizer: &SGD{},
		loss:      CrossEntropy{},
	}

	for i := 0; i < layers; i++ {
		fanIn, fanOut := sizes[i], sizes[i+1]
		scale := math.Sqrt(2.0 / float64(fanIn))
		dist := distuv.Uniform{Min: -scale, Max: scale, Src: src}

		w := make([]float64, fanOut*fanIn)
		for k := range w {
			w[k] = dist.Rand()
		}
		b := make([]float64, fanOut)
		for k := range b {
			b[k] = dist.Rand()
		}
		nn.weights[i] = mat.NewDense(fanOut, fanIn, w)
		nn.biases[i] = mat.NewVecDense(fanOut, b)
	}
	for i, size := range sizes {
		nn.zl[i] = mat.NewVecDense(size, nil)
		nn.al[i] = mat.NewVecDense(size, nil)
	}
	return nn, nil
}

// Params returns the configuration the network was built with.
func (nn *NeuralNetwork) Params() Params {
	p := nn.params
	p.Sizes = nn.Sizes()
	return p
}

// Sizes returns a copy of the layer sizes.
func (nn *NeuralNetwork) Sizes() []int {
	return append([]int(nil), nn.params.Sizes...)
}

// Weights returns the weight matrix feeding layer i+1. The matrix is live;
// mutating it changes the network.
func (nn *NeuralNetwork) Weights(i int) *mat.Dense {
	return nn.weights[i]
}

// Biases returns the bias vector of layer i+1. The vector is live.
func (nn *NeuralNetwork) Biases(i int) *mat.VecDense {
	return nn.biases[i]
}

func (nn *NeuralNetwork) outputIndex() int {
	return len(nn.params.Sizes) - 1
}

// FeedForward propagates input through every layer and returns the output
// activations. The returned vector is owned by the network and is overwritten
// by the next call.
func (nn *NeuralNetwork) FeedForward(input *mat.VecDense) *mat.VecDense {
	if input.Len() != nn.params.Sizes[0] {
		panic(mat.ErrShape)
	}
	nn.al[0].CopyVec(input)
	for i := range nn.weights {
		nn.zl[i+1].MulVec(nn.weights[i], nn.al[i])
		nn.zl[i+1].AddVec(nn.zl[i+1], nn.biases[i])
		SigmoidVec(nn.al[i+1], nn.zl[i+1])
	}
	return nn.al[nn.outputIndex()]
}

// Output returns the activations of the last FeedForward call.
func (nn *NeuralNetwork) Output() *mat.VecDense {
	return nn.al[nn.outputIndex()]
}

// Activation returns the activations of layer i from the last FeedForward call.
func (nn *NeuralNetwork) Activation(i int) *mat.VecDense {
	return nn.al[i]
}

// Backprop adds the gradient of the example last passed to FeedForward into
// grads. The output error is a - y, the cross-entropy gradient through a
// sigmoid output.
func (nn *NeuralNetwork) Backprop(target *mat.VecDense, grads *Gradients) {
	out := nn.outputIndex()
	delta := mat.NewVecDense(nn.params.Sizes[out], nil)
	delta.SubVec(nn.al[out], target)

	for i := len(nn.weights) - 1; i >= 0; i-- {
		grads.Weights[i].RankOne(grads.Weights[i], 1, delta, nn.al[i])
		grads.Biases[i].AddVec(grads.Biases[i], delta)
		if i == 0 {
			break
		}
		prev := mat.NewVecDense(nn.params.Sizes[i], nil)
		prev.MulVec(nn.weights[i].T(), delta)
		d := mat.NewVecDense(nn.params.Sizes[i], nil)
		DSigmoidVec(d, nn.al[i])
		prev.MulElemVec(prev, d)
		delta = prev
	}
}

// GradientDescent runs one SGD step over a mini-batch: the gradient is summed
// over every example and the parameters move by -(lr/N) times that sum.
func (nn *NeuralNetwork) GradientDescent(inputs, targets []*mat.VecDense) error {
	if len(inputs) != len(targets) {
		return ErrLengthMismatch
	}
	grads := NewGradients(nn.params.Sizes)
	for i := range inputs {
		nn.FeedForward(inputs[i])
		nn.Backprop(targets[i], grads)
	}
	return nn.optimizer.Apply(nn, grads, len(inputs))
}

// Loss runs input through the network and scores it against target.
func (nn *NeuralNetwork) Loss(input, target *mat.VecDense) float64 {
	return nn.score(nn.FeedForward(input), target)
}

func (nn *NeuralNetwork) score(out, target *mat.VecDense) float64 {
	if target.Len() != out.Len() {
		panic(mat.ErrShape)
	}
	return nn.loss.Compute(out.RawVector().Data[:out.Len()], target.RawVector().Data[:target.Len()])
}

// Gradients accumulates per-layer parameter gradients over a mini-batch.
type Gradients struct {
	Weights []*mat.Dense
	Biases  []*mat.VecDense
}

// NewGradients returns zeroed gradients shaped like a network of the given sizes.
func NewGradients(sizes []int) *Gradients {
	g := &Gradients{
		Weights: make([]*mat.Dense, len(sizes)-1),
		Biases:  make([]*mat.VecDense, len(sizes)-1),
	}
	for i := 0; i < len(sizes)-1; i++ {
		g.Weights[i] = mat.NewDense(sizes[i+1], sizes[i], nil)
		g.Biases[i] = mat.NewVecDense(sizes[i+1], nil)
	}
	return g
}

func (nn *NeuralNetwork) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("NeuralNetwork %v batch=%d lr=%g\n", nn.params.Sizes, nn.params.BatchSize, nn.params.LearningRate))
	for i, w := range nn.weights {
		r, c := w.Dims()
		sb.WriteString(fmt.Sprintf("Layer %d: weights %dx%d, biases %d\n", i+1, r, c, nn.biases[i].Len()))
	}
	return sb.String()
}
