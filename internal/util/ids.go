package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRunID returns a short unique identifier for an analysis run.
// Falls back to a constant on generator failure so callers never have
// to branch; collisions are acceptable for log correlation.
func NewRunID() string {
	id, err := gonanoid.Generate(runIDAlphabet, 12)
	if err != nil {
		return "run-unknown"
	}
	return "run-" + id
}
