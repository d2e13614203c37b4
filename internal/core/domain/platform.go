package domain

import "runtime"

// Platform identifies the operating system and CPU architecture a cache was produced on.
// Names follow the Node.js conventions so keys line up with the tooling being cached.
type Platform struct {
	OS   string
	Arch string
}

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	return NewPlatform(runtime.GOOS, runtime.GOARCH)
}

// NewPlatform maps Go's GOOS/GOARCH values onto Node.js platform names.
func NewPlatform(goos, goarch string) Platform {
	return Platform{OS: nodeOS(goos), Arch: nodeArch(goarch)}
}

// String returns "os-arch".
func (p Platform) String() string {
	return p.OS + "-" + p.Arch
}

func nodeOS(goos string) string {
	if goos == "windows" {
		return "win32"
	}
	return goos
}

func nodeArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "ia32"
	default:
		return goarch
	}
}
