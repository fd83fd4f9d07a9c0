//go:build !linux && !darwin && !windows

package platform

// Notify drops the notification; there is no desktop service to reach.
func Notify(string, string, Options) error { return nil }
