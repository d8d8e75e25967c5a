package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	FullVersion = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
)
