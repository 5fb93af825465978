package pipeline

import "fmt"

// UsageMessage is printed when the program is not given exactly one dataset path.
const UsageMessage = "Usage: autolysis <dataset.csv>"

// UsageError reports a wrong number of command-line arguments.
type UsageError struct {
	Got int
}

func (e *UsageError) Error() string { return UsageMessage }

// RenderError reports a failed report or chart stage.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
