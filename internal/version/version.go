// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP API (positions, day tracks), gzip snapshots, pointing detector
// 0.2.0 - Moon phase, rise/transit/set day tracks, mini sky
// 0.1.0 - Initial release: Sun and Moon positions, TUI sky view, headless modes
