package mnist

import "fmt"

// FileOpenError is returned when a dataset file cannot be opened.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("mnist: cannot open %s: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// FormatError is returned when a file is not a valid idx image or label file.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return "mnist: " + e.Reason
	}
	return fmt.Sprintf("mnist: %s: %s", e.Path, e.Reason)
}
