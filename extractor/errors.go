package extractor

import (
	"errors"
	"fmt"
)

// Stage names the part of the pipeline that failed.
type Stage string

const (
	StageNormalization Stage = "normalization"
	StageClustering    Stage = "clustering"
	StageNaming        Stage = "naming"
	StageAssembly      Stage = "assembly"
	StageCacheLoad     Stage = "cache load"
	StageCacheStore    Stage = "cache store"
)

var (
	ErrMalformedRow        = errors.New("malformed row")
	ErrInvalidClusterCount = errors.New("number of clusters must be positive")
)

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// WrapStage attaches stage to err unless err already carries one.
func WrapStage(stage Stage, err error) error {
	return stageErr(stage, err)
}
