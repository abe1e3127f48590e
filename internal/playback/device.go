package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Device is a write-capable audio output handle.
type Device interface {
	io.WriteCloser
	Name() string
}

// DeviceOpener opens the host's native audio device. It returns an error
// wrapping ErrUnavailable when no device can be opened.
type DeviceOpener func(ctx context.Context) (Device, error)

// DeviceProvider writes the raw file bytes straight to a native audio device.
type DeviceProvider struct {
	logger *slog.Logger
	open   DeviceOpener
}

// NewDeviceProvider creates a device provider using the given opener.
func NewDeviceProvider(open DeviceOpener, logger *slog.Logger) *DeviceProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceProvider{
		logger: logger,
		open:   open,
	}
}

// Name implements Provider.
func (p *DeviceProvider) Name() string {
	return "device"
}

// Play opens the device, writes the whole file to it and closes it.
func (p *DeviceProvider) Play(ctx context.Context, path string) error {
	dev, err := p.openDevice(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = dev.Close()
		return fmt.Errorf("failed to read sound file: %w", err)
	}

	p.logger.Debug("writing to audio device",
		"device", dev.Name(),
		"path", path,
		"size", humanize.Bytes(uint64(len(data))))

	if _, err := dev.Write(data); err != nil {
		_ = dev.Close()
		return fmt.Errorf("failed to write to %s: %w", dev.Name(), err)
	}

	if err := dev.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dev.Name(), err)
	}
	return nil
}

// Probe opens and immediately closes the device.
func (p *DeviceProvider) Probe(ctx context.Context) error {
	dev, err := p.openDevice(ctx)
	if err != nil {
		return err
	}
	p.logger.Debug("audio device available", "device", dev.Name())
	return dev.Close()
}

func (p *DeviceProvider) openDevice(ctx context.Context) (Device, error) {
	if p.open == nil {
		return nil, unavailable("no audio device opener")
	}
	dev, err := p.open(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return dev, nil
}

// fileDevice is an OSS-style device node opened for writing.
type fileDevice struct {
	*os.File
}

// OSSOpener returns an opener that opens the first writable device node
// from paths.
func OSSOpener(paths []string) DeviceOpener {
	return func(_ context.Context) (Device, error) {
		return openOSS(paths)
	}
}

func openOSS(paths []string) (Device, error) {
	if len(paths) == 0 {
		return nil, unavailable("no audio device paths configured")
	}

	var errs []error
	for _, path := range paths {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err == nil {
			return fileDevice{File: f}, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}
