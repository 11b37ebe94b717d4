package archive

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies why producing an archive failed.
type Kind int

const (
	// KindFilesystem covers any OS-level failure not listed below.
	KindFilesystem Kind = iota
	// KindNotFound means the source directory is missing or not a directory.
	KindNotFound
	// KindPermission means access to some path was denied.
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	default:
		return "filesystem error"
	}
}

// Error is returned by Service.Produce. Path names the offending file or
// directory and Err holds the underlying OS error.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain.
// Errors not produced by this package report KindFilesystem.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFilesystem
}

// classify wraps err as a permission or filesystem failure. When err carries
// its own path (as *fs.PathError does) that path is reported instead of fallback.
func classify(op, fallback string, err error) *Error {
	path := fallback
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Path != "" {
		path = pathErr.Path
	}

	kind := KindFilesystem
	if errors.Is(err, fs.ErrPermission) {
		kind = KindPermission
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
