// Package stats holds the incremental moving-average arithmetic used to
// maintain the review aggregate in O(1) per mutation.
package stats

import "fmt"

// Incorporate folds one new sample into a running average that previously
// covered priorCount samples. It is pure and has no side effects.
func Incorporate(oldAverage, newValue float64, priorCount int) (float64, error) {
	if priorCount < 0 {
		return 0, fmt.Errorf("prior count must be non-negative, got %d", priorCount)
	}
	return (oldAverage*float64(priorCount) + newValue) / float64(priorCount+1), nil
}

// Remove reverses Incorporate: it takes one sample back out of a running
// average that currently covers count samples. When removing the sample would
// leave zero (or fewer) samples, the average resets to zero instead of
// dividing by zero.
func Remove(oldAverage, removedValue float64, count int) float64 {
	if count <= 1 {
		return 0
	}
	return (oldAverage*float64(count) - removedValue) / float64(count-1)
}
