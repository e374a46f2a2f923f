package version

// Set at build time with -ldflags "-X github.com/PyramidAGI/scenariodb/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
