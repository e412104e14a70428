package version

// Version is the SDK version, reported by the CLI and stamped into the
// User-Agent header of every request.
const Version = "0.3.0"
