package partition

import (
	apperrors "github.com/kbukum/partitionflow/errors"
)

// Sentinels for errors.Is. Matching is by error code, so ErrClosed matches
// every closed-queue error regardless of which queue or cause produced it.
var (
	ErrInvalidConfig   = apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid configuration")
	ErrIndexOutOfRange = apperrors.New(apperrors.ErrCodeIndexOutOfRange, "partition index out of range")
	ErrClosed          = apperrors.New(apperrors.ErrCodeClosed, "closed")
	ErrTransformFailed = apperrors.New(apperrors.ErrCodeTransformFailed, "transform failed")
	ErrWorkerFatal     = apperrors.New(apperrors.ErrCodeWorkerFatal, "worker stopped")
)

// ErrOutputClosed is the close cause used when the consumer closes the
// merged output.
var ErrOutputClosed = apperrors.Closed("output", nil)
