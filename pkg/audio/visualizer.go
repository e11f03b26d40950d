package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
)

const (
	// windowSize is the number of most recent mono samples retained for
	// spectrum analysis.
	windowSize = 256
	// spectrumBins is the number of magnitude bins per frame, the first
	// half of the analysis window's frequency content.
	spectrumBins = windowSize / 2
)

// Tap sits in the playback chain and records the most recent samples
// flowing through it. It is safe for concurrent use: the speaker thread
// writes while the frame loop reads.
type Tap struct {
	mu     sync.Mutex
	window [windowSize]float64
	pos    int
	filled bool
}

// NewTap creates an empty tap.
func NewTap() *Tap {
	return &Tap{}
}

// Reset clears the recorded window.
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window = [windowSize]float64{}
	t.pos = 0
	t.filled = false
}

// Wrap returns a streamer that passes src through unchanged while
// recording its samples.
func (t *Tap) Wrap(src beep.Streamer) beep.Streamer {
	return &tapStreamer{src: src, tap: t}
}

type tapStreamer struct {
	src beep.Streamer
	tap *Tap
}

func (s *tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.src.Stream(samples)
	if n > 0 {
		s.tap.record(samples[:n])
	}
	return n, ok
}

func (s *tapStreamer) Err() error {
	return s.src.Err()
}

func (t *Tap) record(samples [][2]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range samples {
		// Downmix to mono.
		t.window[t.pos] = (s[0] + s[1]) / 2
		t.pos++
		if t.pos == windowSize {
			t.pos = 0
			t.filled = true
		}
	}
}

// Window returns the recorded samples in chronological order, oldest first.
func (t *Tap) Window() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]float64, windowSize)
	if !t.filled {
		copy(out, t.window[:t.pos])
		return out
	}
	n := copy(out, t.window[t.pos:])
	copy(out[n:], t.window[:t.pos])
	return out
}

// Spectrum computes the magnitude spectrum of the current window: one
// value per analysis bin, normalized so a full-scale sine lands near 1.0.
func (t *Tap) Spectrum() []float64 {
	window := t.Window()
	return spectrum(window)
}

// spectrum runs a direct DFT over the window. The window is small enough
// that the quadratic cost is negligible at the frame rate used.
func spectrum(window []float64) []float64 {
	n := len(window)
	bins := make([]float64, spectrumBins)
	for k := 0; k < spectrumBins; k++ {
		var re, im float64
		for i, v := range window {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += v * math.Cos(angle)
			im += v * math.Sin(angle)
		}
		// Scale so a unit-amplitude sine peaks at 1.0 in its bin.
		bins[k] = 2 * math.Sqrt(re*re+im*im) / float64(n)
	}
	return bins
}

// Bar describes one rendered spectrum bar for the client view.
type Bar struct {
	LeftPercent   float64 `json:"left"`
	HeightPercent float64 `json:"height"`
	Opacity       float64 `json:"opacity"`
}

// Bars lays the spectrum out as evenly spaced bars. Heights scale with
// magnitude and are clamped to 100 percent; opacity tracks the bar's
// share of the loudest bin in the frame.
func Bars(bins []float64) []Bar {
	if len(bins) == 0 {
		return nil
	}

	peak := 0.0
	for _, b := range bins {
		if b > peak {
			peak = b
		}
	}

	width := 100.0 / float64(len(bins))
	out := make([]Bar, len(bins))
	for i, b := range bins {
		height := b * 100
		if height > 100 {
			height = 100
		}
		opacity := 0.2
		if peak > 0 {
			opacity = 0.2 + 0.8*(b/peak)
		}
		out[i] = Bar{
			LeftPercent:   float64(i) * width,
			HeightPercent: height,
			Opacity:       opacity,
		}
	}
	return out
}
