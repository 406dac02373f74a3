package learner

import (
	"errors"
	"fmt"

	"github.com/sgostarter/i/commerr"
)

var ErrConfiguration = fmt.Errorf("configuration error: %w", commerr.ErrInvalidArgument)

var (
	ErrInvalidBounds     = fmt.Errorf("%w: invalid bounds", ErrConfiguration)
	ErrInvalidResolution = fmt.Errorf("%w: min resolution must be at least 2", ErrConfiguration)
	ErrNoTolerance       = fmt.Errorf("%w: at least one of atol and rtol should be set", ErrConfiguration)
	ErrMixedLearners     = fmt.Errorf("%w: learners must all have the same type", ErrConfiguration)
	ErrNoLearners        = fmt.Errorf("%w: no learners", ErrConfiguration)
)

var (
	ErrInvalidPoint     = fmt.Errorf("invalid point: %w", commerr.ErrInvalidArgument)
	ErrLengthMismatch   = fmt.Errorf("xs and ys differ in length: %w", commerr.ErrInvalidArgument)
	ErrSnapshotMismatch = fmt.Errorf("snapshot belongs to another learner: %w", commerr.ErrInvalidArgument)
	ErrTooFewPoints     = errors.New("too few points")
)
