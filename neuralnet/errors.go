package neuralnet

import (
	"errors"
	"fmt"
)

// ConstructionError reports an invalid network configuration.
type ConstructionError struct {
	Field  string
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("neuralnet: invalid %s: %s", e.Field, e.Reason)
}

var (
	// ErrLengthMismatch is returned when inputs and targets differ in length.
	ErrLengthMismatch = errors.New("neuralnet: inputs and targets have different lengths")

	// ErrEmptyBatch is returned when a gradient step is asked to average over no examples.
	ErrEmptyBatch = errors.New("neuralnet: empty batch")
)
