package versions

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// IsNewerVersion reports whether newVersion is strictly greater than oldVersion.
// It uses semantic versioning for comparison when both strings are valid semver,
// and falls back to lexicographic string comparison otherwise.
func IsNewerVersion(newVersion, oldVersion string) bool {
	newSemver, errNew := semver.NewVersion(newVersion)
	oldSemver, errOld := semver.NewVersion(oldVersion)

	if errNew != nil || errOld != nil {
		// Fallback to string comparison if semver parsing fails
		return newVersion > oldVersion
	}

	return newSemver.GreaterThan(oldSemver)
}

// AtLeast reports whether version is equal to or newer than minimum
func AtLeast(version, minimum string) bool {
	v, errV := semver.NewVersion(version)
	m, errM := semver.NewVersion(minimum)
	if errV != nil || errM != nil {
		return version == minimum || IsNewerVersion(version, minimum)
	}
	return !v.LessThan(m)
}

// NodeVersion renders the integer version reported by bitcoind's
// getnetworkinfo as a semver string. 210100 is 0.21.1 and 250000 is 0.25.0,
// which keeps releases before and after the 22.0 renumbering comparable.
func NodeVersion(version int64) string {
	return fmt.Sprintf("%d.%d.%d", version/1000000, (version/10000)%100, (version/100)%100)
}
