package labelstudio

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAnnotationKey marks a task that carries neither an
	// "annotations" nor a "completions" key. This aborts the whole
	// collection parse; there is no best-effort mode.
	ErrMissingAnnotationKey = errors.New("cannot find annotation data for task")

	// ErrMissingVideoInfo marks a task without meta.video, leaving no way
	// to resolve which frame the annotations belong to.
	ErrMissingVideoInfo = errors.New("cannot locate video information for task")
)

// TaskError wraps any failure encountered while parsing a single task,
// annotated with the originating task's identifier ("??" when the task has
// none). The original cause stays reachable through errors.Is/As.
type TaskError struct {
	TaskID string
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task #%s: %v", e.TaskID, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func wrapTask(id TaskID, err error) error {
	if err == nil {
		return nil
	}
	return &TaskError{TaskID: id.Label(), Err: err}
}
