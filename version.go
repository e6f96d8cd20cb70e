package wireline

import "github.com/Masterminds/semver"

// checkProtocolVersion compares a broker-reported INFO version against
// minSupported, purely as a diagnostic (spec.md §4.5, §9 Open Question:
// the client never refuses to talk to an incompatible broker, it only
// logs). Grounded on bzerolib/datachannel's semver.NewConstraint/Check
// pattern for negotiating agent-protocol versions.
func checkProtocolVersion(logger Logger, infoVersion, minSupported string) {
	if infoVersion == "" || minSupported == "" {
		return
	}

	reported, err := semver.NewVersion(infoVersion)
	if err != nil {
		if logger != nil {
			logger.Warnf("broker reported unparseable INFO version %q: %v", infoVersion, err)
		}
		return
	}

	constraint, err := semver.NewConstraint(">= " + minSupported)
	if err != nil {
		if logger != nil {
			logger.Warnf("invalid minimum supported version %q: %v", minSupported, err)
		}
		return
	}

	if !constraint.Check(reported) {
		if logger != nil {
			logger.Warnf("broker protocol version %s is below the minimum supported version %s; continuing anyway", infoVersion, minSupported)
		}
	}
}
