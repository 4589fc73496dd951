package fdw

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// HostVersionRequirement is the semver constraint on the host plugin
// protocol this connector was built against.
const HostVersionRequirement = "^0.1.0"

// CheckHostVersion reports whether the host protocol version satisfies
// HostVersionRequirement.
func CheckHostVersion(hostVersion string) error {
	ok, err := SatisfiesCaret(HostVersionRequirement, hostVersion)
	if err != nil {
		return newError(ErrConfig, "version", "", err)
	}
	if !ok {
		return newError(ErrNotSupported, "version",
			fmt.Sprintf("host version %s does not satisfy %s", hostVersion, HostVersionRequirement), nil)
	}
	return nil
}

// SatisfiesCaret evaluates a caret constraint such as "^0.1.0" the way
// Cargo and npm do: the left-most non-zero component must not change.
func SatisfiesCaret(constraint, version string) (bool, error) {
	if !strings.HasPrefix(constraint, "^") {
		return false, fmt.Errorf("constraint %q is not a caret requirement", constraint)
	}
	lower := canonical(strings.TrimPrefix(constraint, "^"))
	if lower == "" {
		return false, fmt.Errorf("invalid constraint %q", constraint)
	}
	v := canonical(version)
	if v == "" {
		return false, fmt.Errorf("invalid version %q", version)
	}

	var major, minor, patch int
	if _, err := fmt.Sscanf(strings.SplitN(lower, "-", 2)[0], "v%d.%d.%d", &major, &minor, &patch); err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	var upper string
	switch {
	case major > 0:
		upper = fmt.Sprintf("v%d.0.0", major+1)
	case minor > 0:
		upper = fmt.Sprintf("v0.%d.0", minor+1)
	default:
		upper = fmt.Sprintf("v0.0.%d", patch+1)
	}

	return semver.Compare(v, lower) >= 0 && semver.Compare(v, upper) < 0, nil
}

// canonical returns the full vMAJOR.MINOR.PATCH form, or "" if invalid.
func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
