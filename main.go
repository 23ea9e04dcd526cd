// Command mlp trains a sigmoid feedforward network on MNIST idx files with
// mini-batch SGD and reports test accuracy after every epoch.
//
// Usage:
//
//	mlp [flags] train-images train-labels test-images test-labels
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"mlp/mnist"
	"mlp/neuralnet"
)

type dataset struct {
	inputs, targets []*mat.VecDense
	features        int
}

func loadDataset(imagesPath, labelsPath string) (*dataset, error) {
	images, err := mnist.ReadImages(imagesPath)
	if err != nil {
		return nil, err
	}
	labels, err := mnist.ReadLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if images.Len() != labels.Len() {
		return nil, fmt.Errorf("%s has %d images but %s has %d labels", imagesPath, images.Len(), labelsPath, labels.Len())
	}
	return &dataset{inputs: images.Vectors(), targets: labels.Vectors(), features: images.Features()}, nil
}

func report(epoch int, r neuralnet.Report) {
	for _, s := range r.Samples {
		verdict := "Incorrect."
		if s.Correct {
			verdict = "Correct."
		}
		log.Printf("%s Predicted: %d, Actual: %d, Activation: %.4f, Percent correct: %.4f",
			verdict, s.Predicted, s.Actual, s.Activation, s.RunningAccuracy)
	}
	log.Printf("Epoch %d: Final Accuracy: %.2f%% (%d/%d), loss %.4f", epoch, r.Percent(), r.Correct, r.Total, r.Loss)
}

func run(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	train, err := loadDataset(cfg.TrainImages, cfg.TrainLabels)
	if err != nil {
		return fmt.Errorf("loading training set: %w", err)
	}
	test, err := loadDataset(cfg.TestImages, cfg.TestLabels)
	if err != nil {
		return fmt.Errorf("loading test set: %w", err)
	}
	if train.features != test.features {
		return fmt.Errorf("training images have %d features, test images have %d", train.features, test.features)
	}
	log.Printf("Loaded %d training and %d test examples", len(train.inputs), len(test.inputs))

	network, err := neuralnet.NewNeuralNetwork(neuralnet.Params{
		Sizes:        cfg.Sizes(train.features, mnist.Classes),
		BatchSize:    cfg.BatchSize,
		LearningRate: cfg.LearningRate,
		Inputs:       train.features,
		Classes:      mnist.Classes,
	}, rand.NewSource(cfg.Seed))
	if err != nil {
		return err
	}
	log.Print(network)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		start := time.Now()
		log.Printf("Epoch %d", epoch)
		if err := network.MiniBatchTrain(train.inputs, train.targets); err != nil {
			return fmt.Errorf("epoch %d: %w", epoch, err)
		}
		r, err := network.Evaluate(test.inputs, test.targets, cfg.Verbosity)
		if err != nil {
			return fmt.Errorf("epoch %d: evaluating: %w", epoch, err)
		}
		report(epoch, r)
		log.Printf("Epoch %d took %s", epoch, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func main() {
	cfg := &Config{}
	hidden := flag.String("hidden", "100", "comma-separated hidden layer sizes")
	flag.IntVar(&cfg.BatchSize, "batch", 30, "mini-batch size")
	flag.Float64Var(&cfg.LearningRate, "rate", 0.04, "learning rate")
	flag.IntVar(&cfg.Epochs, "epochs", 50, "number of training epochs")
	flag.IntVar(&cfg.Verbosity, "verbosity", 1000, "log every n-th test prediction (0 disables)")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "random seed (0 seeds from the clock)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] train-images train-labels test-images test-labels\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 4 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.TrainImages, cfg.TrainLabels = flag.Arg(0), flag.Arg(1)
	cfg.TestImages, cfg.TestLabels = flag.Arg(2), flag.Arg(3)

	var err error
	if cfg.Hidden, err = ParseHidden(*hidden); err != nil {
		log.Fatalf("parsing -hidden: %v", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	log.Printf("seed %d", cfg.Seed)

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}
