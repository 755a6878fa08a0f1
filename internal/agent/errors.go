package agent

import "fmt"

// ProtocolViolationError reports that the model requested a function
// call outside the declared allow-list. The call is rejected, never
// executed.
type ProtocolViolationError struct {
	Requested string
	Allowed   string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("agent: model requested undeclared function %q (allowed: %s)", e.Requested, e.Allowed)
}

// ModelStreamError reports a failure raised mid-flight by the model's
// response stream. Events already emitted before the failure remain
// valid.
type ModelStreamError struct {
	Err error
}

func (e *ModelStreamError) Error() string {
	return fmt.Sprintf("agent: model stream: %v", e.Err)
}

func (e *ModelStreamError) Unwrap() error { return e.Err }
