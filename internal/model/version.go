package model

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownVersion indicates a version identifier outside the supported set.
var ErrUnknownVersion = errors.New("unknown postgres version")

// Version is a PostgreSQL major version.
type Version int

// Supported returns the major versions the catalog tracks, oldest first.
func Supported() []Version {
	return []Version{10, 11, 12, 13, 14, 15, 16, 17}
}

// Latest returns the newest supported version.
func Latest() Version {
	s := Supported()
	return s[len(s)-1]
}

// String returns the decimal form of the version.
func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// IsValid checks whether the version is in the supported set.
func (v Version) IsValid() bool {
	for _, s := range Supported() {
		if v == s {
			return true
		}
	}
	return false
}

// redirects maps pre-release identifiers to the stable identifier that
// superseded them. Applied before any version lookup so old links keep
// working after a release.
var redirects = map[string]string{
	"12beta4": "12",
	"16beta1": "16",
	"17beta1": "17",
}

// Redirect resolves pre-release identifiers to their stable form.
// Identifiers with no redirect entry are returned unchanged.
func Redirect(s string) string {
	if r, ok := redirects[s]; ok {
		return r
	}
	return s
}

// Aliases returns a copy of the redirect table, pre-release identifier
// to the stable identifier it resolves to.
func Aliases() map[string]string {
	m := make(map[string]string, len(redirects))
	for k, v := range redirects {
		m[k] = v
	}
	return m
}

// ParseVersion parses a version identifier after applying redirects.
// Identifiers outside the supported set fail with ErrUnknownVersion.
func ParseVersion(s string) (Version, error) {
	n, err := strconv.Atoi(Redirect(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
	v := Version(n)
	if !v.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
	return v, nil
}
