// Package audio provides playback of synthesized report narrations and
// exposes a live sample window for the spectrum visualizer.
package audio

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"skydrift/pkg/tts"
)

const (
	targetSampleRate = 48000
	frameInterval    = 50 * time.Millisecond
)

// Service defines the interface for narration playback control.
type Service interface {
	// Play starts playback of a clip, replacing any current playback.
	// onComplete fires when the clip finishes naturally, not when replaced.
	Play(clip *tts.Clip, onComplete func()) error
	// Stop stops current playback.
	Stop()
	// Shutdown stops playback and releases resources.
	Shutdown()

	// IsPlaying returns true while a clip is playing.
	IsPlaying() bool
	// SetVolume sets playback volume (0.0 to 1.0).
	SetVolume(vol float64)
	// Volume returns the current volume level.
	Volume() float64
	// SetFrameSink registers the callback receiving spectrum frames.
	SetFrameSink(fn func([]float64))
}

// Manager implements Service using gopxl/beep.
type Manager struct {
	mu                 sync.RWMutex
	ctrl               *beep.Ctrl
	volume             float64
	speakerInitialized bool
	currentSampleRate  beep.SampleRate
	streamer           *effects.Volume
	tap                *Tap
	epoch              uint64
	frameSink          func([]float64)
}

// New creates a new Manager instance.
func New() *Manager {
	return &Manager{
		volume: 1.0,
		tap:    NewTap(),
	}
}

// SetFrameSink registers the callback that receives spectrum frames while
// a clip plays. Frames stop when playback is replaced or finishes.
func (m *Manager) SetFrameSink(fn func([]float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameSink = fn
}

// Play starts playback of a clip. Any clip already playing is stopped
// first and its completion callback is discarded.
func (m *Manager) Play(clip *tts.Clip, onComplete func()) error {
	if clip == nil || len(clip.Data) == 0 {
		return fmt.Errorf("empty clip")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	m.epoch++
	epoch := m.epoch

	streamer, format, err := wav.Decode(bytes.NewReader(tts.EncodeWAV(clip)))
	if err != nil {
		slog.Error("Audio: failed to decode clip", "error", err)
		return err
	}

	if err := m.ensureSpeakerInitialized(); err != nil {
		return err
	}

	resampled := beep.Resample(3, format.SampleRate, m.currentSampleRate, streamer)

	m.tap.Reset()
	tapped := m.tap.Wrap(resampled)

	volStreamer := &effects.Volume{
		Streamer: tapped,
		Base:     2,
		Volume:   volumeToPower(m.volume),
		Silent:   m.volume <= 0.01,
	}
	m.streamer = volStreamer

	m.ctrl = &beep.Ctrl{Streamer: volStreamer}

	speaker.Play(beep.Seq(m.ctrl, beep.Callback(func() {
		go func() {
			m.mu.Lock()
			stale := m.epoch != epoch
			if !stale {
				m.ctrl = nil
			}
			m.mu.Unlock()

			// A replacement clip took over; its callback owns completion.
			if stale {
				return
			}
			if onComplete != nil {
				onComplete()
			}
		}()
	})))

	go m.frameLoop(epoch)

	slog.Debug("Audio: playing clip", "samples", len(clip.Data)/2, "rate", clip.SampleRate)
	return nil
}

// frameLoop pushes spectrum frames to the sink until the clip stops or a
// newer clip takes over.
func (m *Manager) frameLoop(epoch uint64) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.RLock()
		current := m.epoch == epoch && m.ctrl != nil
		sink := m.frameSink
		m.mu.RUnlock()

		if !current {
			return
		}
		if sink != nil {
			sink(m.tap.Spectrum())
		}

		m.mu.RLock()
		current = m.epoch == epoch && m.ctrl != nil
		m.mu.RUnlock()
		if !current {
			return
		}
	}
}

// Stop stops current playback.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.epoch++
}

func (m *Manager) stopLocked() {
	if m.ctrl != nil {
		speaker.Clear()
		m.ctrl = nil
	}
}

func (m *Manager) ensureSpeakerInitialized() error {
	if !m.speakerInitialized {
		err := speaker.Init(beep.SampleRate(targetSampleRate), beep.SampleRate(targetSampleRate).N(time.Second/10))
		if err != nil {
			slog.Error("Audio: failed to initialize speaker", "error", err)
			return err
		}
		m.speakerInitialized = true
		m.currentSampleRate = beep.SampleRate(targetSampleRate)
	}
	return nil
}

// Shutdown stops playback and releases resources.
func (m *Manager) Shutdown() {
	m.Stop()
}

// IsPlaying returns true while a clip is playing.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl != nil
}

// SetVolume sets playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	m.volume = vol

	if m.streamer != nil {
		speaker.Lock()
		m.streamer.Volume = volumeToPower(vol)
		m.streamer.Silent = vol <= 0.01
		speaker.Unlock()
	}
}

// Volume returns the current volume level.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}
