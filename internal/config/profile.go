package config

import "github.com/pkg/profile"

// Start begins profiling as configured and returns the function that writes
// the profile out. Mode "off" returns a no-op.
func (p ProfileConfig) Start() (stop func()) {
	var mode func(*profile.Profile)
	switch p.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "allocs":
		mode = profile.MemProfileAllocs
	default:
		return func() {}
	}
	return profile.Start(mode, profile.ProfilePath(p.Path), profile.NoShutdownHook).Stop
}
