// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
)

// MinImageSize is the smallest square input that keeps every convolution
// output non-empty.
const MinImageSize = 21

// ErrInvalidConfig is returned (wrapped) by Config.Validate and New.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the tunable hyperparameters of Net.
// The layer layout itself is fixed.
type Config struct {
	// InChannels is the number of input image channels (3 for RGB).
	InChannels int

	// NumClasses is the width of the classifier output.
	NumClasses int

	// Dropout is the drop probability after every convolution stage.
	Dropout float32

	// BatchNormEps is added to the variance before normalization.
	BatchNormEps float32

	// BatchNormMomentum weights the newest batch in the running statistics.
	BatchNormMomentum float32

	// Seed drives weight initialization and dropout masks.
	// Zero picks a time-based seed.
	Seed int64
}

// DefaultConfig returns the reference configuration: RGB input, 10 classes,
// dropout 0.1 and PyTorch batch norm defaults.
func DefaultConfig() Config {
	return Config{
		InChannels:        3,
		NumClasses:        10,
		Dropout:           0.1,
		BatchNormEps:      1e-5,
		BatchNormMomentum: 0.1,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.InChannels <= 0:
		return fmt.Errorf("%w: in_channels must be positive, got %d", ErrInvalidConfig, c.InChannels)
	case c.NumClasses <= 0:
		return fmt.Errorf("%w: num_classes must be positive, got %d", ErrInvalidConfig, c.NumClasses)
	case c.Dropout < 0 || c.Dropout >= 1:
		return fmt.Errorf("%w: dropout must be in [0, 1), got %g", ErrInvalidConfig, c.Dropout)
	case c.BatchNormEps <= 0:
		return fmt.Errorf("%w: batch norm eps must be positive, got %g", ErrInvalidConfig, c.BatchNormEps)
	case c.BatchNormMomentum < 0 || c.BatchNormMomentum > 1:
		return fmt.Errorf("%w: batch norm momentum must be in [0, 1], got %g", ErrInvalidConfig, c.BatchNormMomentum)
	}
	return nil
}
