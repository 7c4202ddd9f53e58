package version

// Version is the SDK version, overridden at build time with
// -ldflags "-X github.com/blazee-io/blazee-go/version.Version=...".
var Version string = "0.0.0"
