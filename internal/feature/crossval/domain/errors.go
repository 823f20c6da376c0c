// Package domain defines domain-level errors for the crossval feature.
package domain

import "errors"

// Configuration errors. These are fatal at startup: a merger must never be
// constructed from weights or thresholds that violate the invariants below.
var (
	// ErrInvalidWeights indicates a weight pair that is negative or does not sum to 1.0.
	ErrInvalidWeights = errors.New("category weights must be non-negative and sum to 1.0")

	// ErrInvalidThresholds indicates thresholds violating 0 <= LOW < HIGH <= 1.
	ErrInvalidThresholds = errors.New("thresholds must satisfy 0 <= LOW < HIGH <= 1")

	// ErrNoEvidence indicates an analysis request without any evidence images.
	ErrNoEvidence = errors.New("evidence set is empty")
)
