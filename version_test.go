package wireline

import "testing"

// checkProtocolVersion only logs; these just exercise it for panics
// across malformed/compatible/incompatible inputs.
func TestCheckProtocolVersionDoesNotPanic(t *testing.T) {
	logger := NewNopLogger()
	checkProtocolVersion(logger, "", "1.0.0")
	checkProtocolVersion(logger, "1.2.3", "")
	checkProtocolVersion(logger, "not-a-version", "1.0.0")
	checkProtocolVersion(logger, "2.0.0", "1.0.0")
	checkProtocolVersion(logger, "0.9.0", "1.0.0")
}
