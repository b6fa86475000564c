package model

import "errors"

var (
	// ErrLocatorMiss is returned when an entity's text cannot be found in its source.
	ErrLocatorMiss = errors.New("entity text not found in source text")
	// ErrGeometryMiss is returned when a span maps to no word boxes.
	ErrGeometryMiss = errors.New("span does not cover any word box")
	// ErrOracleFailure marks an adjudication that produced no merge decision.
	ErrOracleFailure = errors.New("oracle produced no merge decision")
	// ErrMalformedPattern marks a fuzzy pattern without any usable token.
	ErrMalformedPattern = errors.New("degenerate fuzzy match pattern")
	// ErrInvalidLabel marks a registry label that cannot be used as a file name.
	ErrInvalidLabel = errors.New("label is not a valid file name")
)
