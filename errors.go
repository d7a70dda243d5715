package eurailnet

// FormatError reports a malformed input string (time, price, table header).
// It is always caller-fatal and never retried.
type FormatError struct{ Msg string }

func (e *FormatError) Error() string { return e.Msg }

// ValidationError reports a semantic rule violation: a same-city connection,
// an illegal layover, a negative price. Never silently dropped, never
// auto-corrected.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports a referenced entity absent from the registry.
// The failing operation aborts with no partial mutation.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }
