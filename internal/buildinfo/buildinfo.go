package buildinfo

import "time"

// Set via -ldflags at build time, e.g.
// -X github.com/sanoh-inlab/labelgo/internal/buildinfo.CommitHash=abc123
var (
	BuildTime  string // when the binary was compiled
	CommitHash string // short git commit hash
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC()

// Info describes the running binary for /api/status
type Info struct {
	BuildTime  string `json:"buildTime,omitempty"`
	CommitHash string `json:"commitHash,omitempty"`
	StartTime  string `json:"startTime"`
	Uptime     string `json:"uptime"`
}

// Current returns the build info of this process
func Current() Info {
	return Info{
		BuildTime:  BuildTime,
		CommitHash: CommitHash,
		StartTime:  StartTime.Format(time.RFC3339),
		Uptime:     time.Since(StartTime).Round(time.Second).String(),
	}
}
