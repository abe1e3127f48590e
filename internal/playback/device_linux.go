//go:build linux

package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfreymuth/pulse"
)

// OSS defaults: unsigned 8-bit mono at 8 kHz. The PulseAudio sink uses
// the same format so bytes pass through exactly as they would to /dev/dsp.
const (
	ossSampleRate = 8000
	pulseLatency  = 0.1
)

// DefaultDeviceOpener tries the OSS device nodes and then, if enabled,
// a PulseAudio playback stream.
func DefaultDeviceOpener(paths []string, usePulse bool) DeviceOpener {
	return func(_ context.Context) (Device, error) {
		dev, ossErr := openOSS(paths)
		if ossErr == nil {
			return dev, nil
		}
		if !usePulse {
			return nil, ossErr
		}

		dev, err := openPulse()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(ossErr, err))
		}
		return dev, nil
	}
}

// pulseDevice plays each Write as one PulseAudio playback stream.
type pulseDevice struct {
	client *pulse.Client
}

func openPulse() (Device, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseDevice{client: c}, nil
}

func (d *pulseDevice) Name() string {
	return "pulseaudio"
}

// Write blocks until the stream has drained.
func (d *pulseDevice) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	pos := 0
	reader := pulse.Uint8Reader(func(buf []byte) (int, error) {
		if pos >= len(data) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, data[pos:])
		pos += n
		return n, nil
	})

	stream, err := d.client.NewPlayback(reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(ossSampleRate),
		pulse.PlaybackLatency(pulseLatency),
	)
	if err != nil {
		return 0, fmt.Errorf("pulse playback: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	stream.Stop()

	if err := stream.Error(); err != nil {
		return pos, fmt.Errorf("pulse playback: %w", err)
	}
	return len(data), nil
}

func (d *pulseDevice) Close() error {
	d.client.Close()
	return nil
}
