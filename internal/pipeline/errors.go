package pipeline

import "fmt"

// Stage names the step of the pipeline an error came from.
type Stage string

const (
	StageConfig  Stage = "config"
	StageAliases Stage = "aliases"
	StageParse   Stage = "parse"
	StageExpand  Stage = "expand"
	StageLower   Stage = "lower"
)

// StageError tags an error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
