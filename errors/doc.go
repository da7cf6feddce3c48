// Package errors provides the structured error type used across partitionflow.
//
// Every structural failure is an *AppError carrying a machine-readable
// ErrorCode. AppError.Is compares codes, so a sentinel built with one of the
// constructors matches any error of the same code:
//
//	if errors.Is(err, partition.ErrClosed) {
//	    // expected during shutdown
//	}
//
// The underlying cause, if any, is reachable through Unwrap.
package errors
