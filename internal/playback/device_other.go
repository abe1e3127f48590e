//go:build !linux

package playback

import "context"

// DefaultDeviceOpener tries the OSS device nodes. PulseAudio is only
// supported on Linux, so usePulse is ignored here.
func DefaultDeviceOpener(paths []string, _ bool) DeviceOpener {
	return func(_ context.Context) (Device, error) {
		return openOSS(paths)
	}
}
