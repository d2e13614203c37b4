package domain

import "strings"

// Input names as declared by the workflow action.
const (
	InputPercy    = "percy"
	InputRunTests = "runTests"
	InputRecord   = "record"
	InputParallel = "parallel"
	InputHeaded   = "headed"
	InputGroup    = "group"
)

// Inputs holds the job configuration flags. They are read once at process start.
type Inputs struct {
	Percy    bool
	RunTests bool
	Record   bool
	Parallel bool
	Headed   bool
	Group    string
}

// DefaultInputs returns the inputs used when nothing was specified.
// Tests run by default; every other switch is off.
func DefaultInputs() Inputs {
	return Inputs{RunTests: true}
}

// ParseBool converts a textual input into a boolean.
// "true" and "1" yield true, "false" and "0" yield false and anything else,
// including an empty value, yields def.
func ParseBool(value string, def bool) bool {
	switch strings.TrimSpace(value) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return def
	}
}
