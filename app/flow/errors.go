package flow

// deniedError marks a refused request. The user has already been told why.
type deniedError struct {
	code string
	msg  string
}

func (e *deniedError) Error() string { return e.msg }

// Code implements the router's error code lookup.
func (e *deniedError) Code() string { return e.code }

// Denied reports that the request was refused rather than failed.
func (e *deniedError) Denied() bool { return true }

var (
	// ErrGateDenied is returned when the user is not a member of every required channel.
	ErrGateDenied error = &deniedError{code: "GATE_DENIED", msg: "membership gate denied"}
	// ErrUnauthorized is returned when a non-admin invokes an admin operation.
	ErrUnauthorized error = &deniedError{code: "UNAUTHORIZED", msg: "admin privileges required"}
)
