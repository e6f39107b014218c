package semver

import "github.com/Masterminds/semver/v3"

func LessThan(a, b string) (bool, error) {
	versionA, err := semver.NewVersion(a)
	if err != nil {
		return false, err
	}

	versionB, err := semver.NewVersion(b)
	if err != nil {
		return false, err
	}

	return versionA.LessThan(versionB), nil
}

// AtLeast reports whether version satisfies the constraint ">= minimum".
// Pre-release versions are compared as semver orders them, so "1.2.0-rc.1" is below "1.2.0".
func AtLeast(version, minimum string) (bool, error) {
	less, err := LessThan(version, minimum)
	if err != nil {
		return false, err
	}

	return !less, nil
}
