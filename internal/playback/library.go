package playback

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSpeakerBuffer is the speaker buffer length used when none is configured.
const DefaultSpeakerBuffer = 100 * time.Millisecond

// LibraryProvider plays the file with the beep speaker. Supports WAV, OGG,
// MP3, and FLAC files.
type LibraryProvider struct {
	mu     sync.Mutex
	logger *slog.Logger

	bufferLen time.Duration

	// Whether the speaker has been initialized, and at which rate
	initialized bool
	sampleRate  beep.SampleRate

	// speaker package functions, replaceable in tests
	initSpeaker  func(sr beep.SampleRate, bufferSize int) error
	playSpeaker  func(s ...beep.Streamer)
	clearSpeaker func()
	closeSpeaker func()
}

// NewLibraryProvider creates a provider backed by the beep speaker.
func NewLibraryProvider(bufferLen time.Duration, logger *slog.Logger) *LibraryProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferLen <= 0 {
		bufferLen = DefaultSpeakerBuffer
	}
	return &LibraryProvider{
		logger:       logger,
		bufferLen:    bufferLen,
		initSpeaker:  speaker.Init,
		playSpeaker:  speaker.Play,
		clearSpeaker: speaker.Clear,
		closeSpeaker: speaker.Close,
	}
}

// Name implements Provider.
func (p *LibraryProvider) Name() string {
	return "library:beep"
}

// Play decodes the file and blocks until the speaker has played all of it
// or ctx is cancelled.
func (p *LibraryProvider) Play(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	streamer, format, err := decode(f, path)
	if err != nil {
		return err
	}
	defer func() { _ = streamer.Close() }()

	if err := p.ensureInitialized(format.SampleRate); err != nil {
		return err
	}

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, s)
	}

	done := make(chan struct{})
	p.playSpeaker(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.clearSpeaker()
		return ctx.Err()
	}
}

// Probe initializes the speaker at the default rate.
func (p *LibraryProvider) Probe(_ context.Context) error {
	return p.ensureInitialized(beep.SampleRate(44100))
}

// Close releases the speaker.
func (p *LibraryProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		p.closeSpeaker()
		p.initialized = false
	}
}

// decode picks a decoder from the file extension.
func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %q", ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode sound: %w", err)
	}
	return streamer, format, nil
}

// ensureInitialized initializes the speaker if not already done. A speaker
// that cannot be initialized means the host has no usable audio output.
func (p *LibraryProvider) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	bufferSize := sampleRate.N(p.bufferLen)
	if err := p.initSpeaker(sampleRate, bufferSize); err != nil {
		return unavailable("failed to initialize speaker: %v", err)
	}

	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}
