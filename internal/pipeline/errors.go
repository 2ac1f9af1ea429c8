package pipeline

import (
	"errors"
	"fmt"
)

// Pipeline stage names used to tag abort-class errors.
const (
	StageInput     = "input"
	StageReport    = "report"
	StageDiscovery = "discovery"
	StageGenerate  = "generate"
)

// ErrInvalidInput marks client errors: missing or malformed URLs. The
// pipeline never starts for these.
var ErrInvalidInput = errors.New("invalid input")

// ErrExtraction marks discovery responses with no conforming URL or topic.
// The run aborts before any generation spend.
var ErrExtraction = errors.New("discovery output had no usable result")

// Error is an abort-class pipeline error tagged with the stage it occurred
// in.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	return &Error{Stage: stage, Err: err}
}
