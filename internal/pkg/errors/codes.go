package errors

// Sentinel constructors for the handful of error conditions the pipeline
// facade actually returns to callers (spec.md §6.4), mirroring the
// teacher's package-level `var ErrXxx = New(...)` roster.

// InvalidInput reports a bad caller argument: non-finite coordinates, an
// unknown vehicle class, or a negative target/budget.
func InvalidInput(op, message string) *Error {
	return New(KindInvalidInput, op, message)
}

// RoutingUnavailable reports that the external routing engine returned an
// error or an unusable polyline.
func RoutingUnavailable(op string, cause error) *Error {
	return Wrap(KindRoutingUnavailable, op, "routing engine unavailable", cause)
}

// DeadlineExceeded reports that the query's deadline was hit before a
// Selection could be produced.
func DeadlineExceeded(op string) *Error {
	return New(KindDeadlineExceeded, op, "deadline exceeded")
}

// Internal reports a failure inside the system rather than in the caller's
// input or the routing engine, such as the offline model cache failing to
// be written or a routing request failing to encode.
func Internal(op string, cause error) *Error {
	return Wrap(KindInternal, op, "internal error", cause)
}
