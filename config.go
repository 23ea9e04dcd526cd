package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the training run configuration.
type Config struct {
	TrainImages, TrainLabels string
	TestImages, TestLabels   string

	Hidden       []int
	BatchSize    int
	LearningRate float64
	Epochs       int
	Verbosity    int
	Seed         uint64
}

// ParseHidden parses a comma-separated list of hidden layer sizes. An empty
// string means no hidden layers.
func ParseHidden(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	hidden := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parsing hidden layer %d: %w", i, err)
		}
		hidden[i] = n
	}
	return hidden, nil
}

// Sizes returns the full layer sizes for a dataset with the given feature
// and class counts.
func (c *Config) Sizes(features, classes int) []int {
	sizes := make([]int, 0, len(c.Hidden)+2)
	sizes = append(sizes, features)
	sizes = append(sizes, c.Hidden...)
	return append(sizes, classes)
}

// Validate checks the configuration before any file is read.
func (c *Config) Validate() error {
	for i, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden layer %d must be positive, got %d", i, h)
		}
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative")
	}
	return nil
}
