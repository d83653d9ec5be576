// Package version reports the build of the agent.
package version

// Version is set during build via ldflags:
//
//	go build -ldflags "-X backoffice-agent/internal/version.Version=1.2.0"
var Version = "dev"
