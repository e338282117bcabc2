// Package version carries build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time; "dev" marks a local build.
//
//nolint:gochecknoglobals // Link-time injection requires package variables
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the printable version record.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build's version record.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the record as a multi-line block.
func (i Info) String() string {
	return fmt.Sprintf("payrun %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  platform: %s",
		i.Version, i.Commit, i.Date, i.GoVersion, i.Platform)
}

// Short returns just the version number.
func (i Info) Short() string {
	return i.Version
}
