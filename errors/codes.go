package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors. Raised at construction or call time, never clamped.
const (
	// ErrCodeInvalidConfig indicates an invalid pipeline, set or policy configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeIndexOutOfRange indicates a partition index outside [0, N).
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
)

// Runtime errors
const (
	// ErrCodeClosed indicates a send to, or receive from, a closed partition or output.
	ErrCodeClosed ErrorCode = "CLOSED"
	// ErrCodeTransformFailed indicates the user transform failed for one element.
	ErrCodeTransformFailed ErrorCode = "TRANSFORM_FAILED"
	// ErrCodeWorkerFatal indicates a worker could not deliver an outcome downstream.
	ErrCodeWorkerFatal ErrorCode = "WORKER_FATAL"
)

// expectedCodes are codes that occur during normal shutdown.
var expectedCodes = map[ErrorCode]bool{
	ErrCodeClosed: true,
}

// IsExpectedCode returns true if the code is part of normal shutdown rather
// than an unexpected failure.
func IsExpectedCode(code ErrorCode) bool {
	return expectedCodes[code]
}
