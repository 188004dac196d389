package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

const (
	major = 0
	minor = 1
	patch = 0

	// Version is the contract version in the major*1_000_000+minor*1_000+patch
	// form.
	Version = major*1_000_000 + minor*1_000 + patch

	// MinUpdateVersion is the oldest contract version which can be updated to
	// Version. Storage layout has not changed since the first release.
	MinUpdateVersion = 0

	// ErrVersionMismatch is thrown by CheckVersion for versions out of the
	// [MinUpdateVersion, Version) range.
	ErrVersionMismatch = "previous version mismatch"

	// ErrAlreadyUpdated is thrown by CheckVersion if the contract is updated
	// from Version to itself.
	ErrAlreadyUpdated = "contract is already of the latest version"
)

// CheckVersion panics unless the contract of version from can be updated to
// Version.
func CheckVersion(from int) {
	if from == Version {
		panic(ErrAlreadyUpdated + ": " + std.Itoa(Version, 10))
	}

	if from < MinUpdateVersion || from > Version {
		panic(ErrVersionMismatch + ": " + std.Itoa(from, 10))
	}
}

// AppendVersion appends current contract version to the update data, it is
// read back by CheckVersion in _deploy of the new contract.
func AppendVersion(data any) []any {
	if data == nil {
		return []any{Version}
	}
	return append(data.([]any), Version)
}
