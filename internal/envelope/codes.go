package envelope

// Code is the closed set of response codes shared by runner, parser and
// collector failures. New failure modes map onto an existing code; the set is
// never extended ad hoc.
type Code int

const (
	Success                Code = 0
	CommandNotFound        Code = 1001
	CommandExecutionFailed Code = 1002
	ParseFailed            Code = 1003
	UnexpectedException    Code = 1004
	DeviceNotAvailable     Code = 1005
)

var defaultMessages = map[Code]string{
	Success:                "success",
	CommandNotFound:        "command not found or permission denied",
	CommandExecutionFailed: "command execution failed",
	ParseFailed:            "failed to parse response",
	UnexpectedException:    "unexpected exception occurred",
	DeviceNotAvailable:     "device not available or no matching hardware found",
}

// DefaultMessage returns the canonical message for a code.
func (c Code) DefaultMessage() string {
	if m, ok := defaultMessages[c]; ok {
		return m
	}
	return "unknown error"
}
