package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidContent means the content id does not resolve to an item.
	ErrInvalidContent = errors.New("invalid content")
	// ErrInvalidProduct means the id does not resolve to a product record.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrUnsupportedContentType means the item's type is not enabled for analysis.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// PersistenceError wraps a failure of the analysis store. The core never retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Outcome labels an analysis error for metrics and logs.
func Outcome(err error) string {
	var perr *PersistenceError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidProduct):
		return "invalid_product"
	case errors.Is(err, ErrInvalidContent):
		return "invalid_content"
	case errors.Is(err, ErrUnsupportedContentType):
		return "unsupported_type"
	case errors.As(err, &perr):
		return "persistence_failure"
	}
	return "error"
}
