package buildinfo

// These variables are set via -ldflags at build time:
//
//	-X 'github.com/m3rciful/applybot/core/buildinfo.Version=v1.0.0'
//	-X 'github.com/m3rciful/applybot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/applybot/core/buildinfo.Date=2026-10-01T12:00:00Z'
var (
	// Version reports the release tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String formats build metadata for the startup log line and /version style replies.
func String() string {
	if Date == "" {
		return Version + " (" + Commit + ")"
	}
	return Version + " (" + Commit + ", " + Date + ")"
}
