package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a series is empty or too short to produce a snapshot.
	// Callers are expected to skip the instrument.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidSeries marks upstream data-quality faults in a price series.
	ErrInvalidSeries = errors.New("invalid series")
)

// InvalidSeriesError describes the first offending bar of a rejected series.
type InvalidSeriesError struct {
	Index  int
	Reason string
}

func (e *InvalidSeriesError) Error() string {
	return fmt.Sprintf("invalid series at bar %d: %s", e.Index, e.Reason)
}

func (e *InvalidSeriesError) Unwrap() error { return ErrInvalidSeries }
