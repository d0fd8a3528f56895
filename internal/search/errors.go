package search

import (
	"context"
	"errors"
	"io/fs"
)

// Query-level outcomes. These are returned as typed errors so callers
// can branch on the taxonomy with errors.Is instead of string
// matching. Parse problems are never part of this set; they travel as
// warnings alongside results.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrCancelled        = errors.New("cancelled")
)

// normalizeErr maps collaborator and context errors onto the query
// taxonomy, leaving already-typed errors untouched.
func normalizeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrCancelled):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errors.Join(ErrCancelled, err)
	case errors.Is(err, fs.ErrNotExist):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return errors.Join(ErrPermissionDenied, err)
	default:
		return err
	}
}

// ErrorCode returns the stable taxonomy code for an error, or
// "internal" when it falls outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	default:
		return "internal"
	}
}
