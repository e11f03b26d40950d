// Package core runs the report pipeline: weather fetch, narrative
// generation, media synthesis and playback, as a single-run state machine.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"skydrift/pkg/geo"
	"skydrift/pkg/theme"
	"skydrift/pkg/tts"
	"skydrift/pkg/weather"
)

// State names the pipeline phases.
type State string

const (
	StateIdle                State = "idle"
	StateFetchingWeather     State = "fetching_weather"
	StateGeneratingNarrative State = "generating_narrative"
	StateGeneratingMedia     State = "generating_media"
	StatePlaying             State = "playing"
	StateError               State = "error"
)

// Failure categories recorded in the run log and mapped to on-air copy.
const (
	OutcomeOK        = "ok"
	OutcomeProgress  = "progress"
	CategoryWeather  = "WEATHER_FAILED"
	CategoryNarrate  = "NARRATIVE_FAILED"
	CategoryAudio    = "AUDIO_FAILED"
	CategoryInternal = "INTERNAL"
)

var failureMessages = map[string]string{
	CategoryWeather: "Telemetry link down. The station cannot see the sky right now.",
	CategoryNarrate: "Synthesis failure. The voice of the station is lost in the noise.",
	CategoryAudio:   "Audio corruption detected. The transmission cannot be aired.",
}

// Narrative fallback when the model returns success with no usable text.
const staticFallback = "The transmission dissolves into static."

// Stage deadlines.
const (
	weatherTimeout   = 15 * time.Second
	narrativeTimeout = 60 * time.Second
	mediaTimeout     = 2 * time.Minute
)

// WeatherSource provides current conditions for a coordinate.
type WeatherSource interface {
	Current(ctx context.Context, coord geo.Coordinate) (weather.Snapshot, error)
}

// TextSource generates the report monologue.
type TextSource interface {
	GenerateText(ctx context.Context, intent, prompt string) (string, error)
}

// SpeechSource renders the monologue as audio.
type SpeechSource interface {
	Synthesize(ctx context.Context, text, voice string) (*tts.Clip, error)
}

// ImageSource renders the scene visual. Failures yield an empty URI.
type ImageSource interface {
	GenerateOrEmpty(ctx context.Context, prompt string) string
}

// Player airs the finished clip.
type Player interface {
	Play(clip *tts.Clip, onComplete func()) error
	Stop()
}

// Report is the finished bundle for one coordinate.
type Report struct {
	RunID       string           `json:"runId"`
	Coordinate  geo.Coordinate   `json:"coordinate"`
	Theme       string           `json:"theme"`
	Terrain     string           `json:"terrain"`
	Weather     weather.Snapshot `json:"weather"`
	Condition   string           `json:"condition"`
	Narrative   string           `json:"narrative"`
	ImageURI    string           `json:"imageUri,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// Snapshot is the externally visible pipeline state.
type Snapshot struct {
	State        State      `json:"state"`
	Report       *Report    `json:"report,omitempty"`
	ErrorMessage string     `json:"error,omitempty"`
	Log          []RunEntry `json:"log"`
}

// Pipeline drives one report at a time through the generation phases.
type Pipeline struct {
	weather WeatherSource
	text    TextSource
	speech  SpeechSource
	images  ImageSource
	player  Player
	themes  *theme.Registry
	log     *RunLog

	mu       sync.RWMutex
	state    State
	report   *Report
	errMsg   string
	onChange func(Snapshot)
}

// NewPipeline wires the pipeline's gateways.
func NewPipeline(w WeatherSource, t TextSource, s SpeechSource, i ImageSource, p Player, themes *theme.Registry) *Pipeline {
	return &Pipeline{
		weather: w,
		text:    t,
		speech:  s,
		images:  i,
		player:  p,
		themes:  themes,
		log:     NewRunLog(),
		state:   StateIdle,
	}
}

// SetOnChange registers the callback fired after every state transition.
func (p *Pipeline) SetOnChange(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Snapshot returns the current externally visible state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Pipeline) snapshotLocked() Snapshot {
	return Snapshot{
		State:        p.state,
		Report:       p.report,
		ErrorMessage: p.errMsg,
		Log:          p.log.Entries(),
	}
}

// Submit requests a report for the coordinate. Requests arriving while a
// run is generating are dropped; a run already playing is replaced.
// Returns false when the request was dropped.
func (p *Pipeline) Submit(coord geo.Coordinate, themeID string) bool {
	if !coord.Valid() {
		slog.Warn("Pipeline: rejected invalid coordinate", "coord", coord)
		return false
	}
	if !p.begin(coord) {
		slog.Debug("Pipeline: busy, dropping request", "coord", coord)
		return false
	}

	go p.run(coord, themeID)
	return true
}

// begin claims the pipeline for a new run. Only a quiet pipeline (idle,
// playing a previous report, or showing an error) accepts work.
func (p *Pipeline) begin(coord geo.Coordinate) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateIdle, StatePlaying, StateError:
	default:
		return false
	}

	p.state = StateFetchingWeather
	p.errMsg = ""
	p.notifyLocked()
	slog.Info("Pipeline: run started", "coord", coord.String())
	return true
}

// run executes the phases for a claimed pipeline. The caller must have
// succeeded with begin first.
func (p *Pipeline) run(coord geo.Coordinate, themeID string) {
	runID := uuid.NewString()
	th := p.themes.Get(themeID)

	// Phase 1: weather.
	ctx, cancel := context.WithTimeout(context.Background(), weatherTimeout)
	snap, err := p.weather.Current(ctx, coord)
	cancel()
	if err != nil {
		p.fail(runID, coord, th.ID, CategoryWeather, err)
		return
	}

	data := theme.PromptData{
		Location:     coord.String(),
		Terrain:      geo.TerrainLabel(coord),
		TemperatureC: snap.TemperatureC,
		WindSpeedKmh: snap.WindSpeedKmh,
		Condition:    weather.ConditionLabel(snap.ConditionCode),
	}
	p.progress(runID, coord, th.ID, fmt.Sprintf("Telemetry acquired: %s, %.1f C", data.Condition, snap.TemperatureC))

	// Phase 2: narrative.
	p.transition(StateGeneratingNarrative)

	prompt, err := p.themes.RenderPrompt(th.ID, data)
	if err != nil {
		p.fail(runID, coord, th.ID, CategoryNarrate, err)
		return
	}

	ctx, cancel = context.WithTimeout(context.Background(), narrativeTimeout)
	narrative, err := p.text.GenerateText(ctx, "report", prompt)
	cancel()
	if err != nil {
		p.fail(runID, coord, th.ID, CategoryNarrate, err)
		return
	}
	if narrative == "" {
		narrative = staticFallback
	}
	p.progress(runID, coord, th.ID, fmt.Sprintf("Narrative ready, %d characters", len(narrative)))

	// Phase 3: speech and image in parallel. Both branches always run to
	// completion so a failed image never cancels a good clip.
	p.transition(StateGeneratingMedia)

	ctx, cancel = context.WithTimeout(context.Background(), mediaTimeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		clip     *tts.Clip
		clipErr  error
		imageURI string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		clip, clipErr = p.speech.Synthesize(ctx, narrative, th.Voice)
	}()
	go func() {
		defer wg.Done()
		imageURI = p.images.GenerateOrEmpty(ctx, p.themes.ImagePrompt(th.ID, data))
	}()
	wg.Wait()

	// A report without audio cannot air; the image is dropped with it.
	if clipErr != nil {
		p.fail(runID, coord, th.ID, CategoryAudio, clipErr)
		return
	}
	sceneNote := "with scene image"
	if imageURI == "" {
		sceneNote = "no scene image"
	}
	p.progress(runID, coord, th.ID, "Media settled, "+sceneNote)

	report := &Report{
		RunID:       runID,
		Coordinate:  coord,
		Theme:       th.ID,
		Terrain:     data.Terrain,
		Weather:     snap,
		Condition:   data.Condition,
		Narrative:   narrative,
		ImageURI:    imageURI,
		GeneratedAt: time.Now(),
	}

	if err := p.player.Play(clip, nil); err != nil {
		p.fail(runID, coord, th.ID, CategoryAudio, err)
		return
	}

	p.mu.Lock()
	p.state = StatePlaying
	p.report = report
	p.errMsg = ""
	p.log.Add(RunEntry{
		RunID:      runID,
		Coordinate: coord,
		Theme:      th.ID,
		Outcome:    OutcomeOK,
		Message:    "On air: " + data.Condition,
		FinishedAt: time.Now(),
	})
	p.notifyLocked()
	p.mu.Unlock()

	slog.Info("Pipeline: report on air", "runId", runID, "coord", coord.String(), "theme", th.ID)
}

func (p *Pipeline) transition(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
	p.notifyLocked()
}

// progress appends a step line to the run history.
func (p *Pipeline) progress(runID string, coord geo.Coordinate, themeID, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.Add(RunEntry{
		RunID:      runID,
		Coordinate: coord,
		Theme:      themeID,
		Outcome:    OutcomeProgress,
		Message:    message,
		FinishedAt: time.Now(),
	})
	p.notifyLocked()
}

// fail records the run and surfaces the category's on-air message.
func (p *Pipeline) fail(runID string, coord geo.Coordinate, themeID, category string, err error) {
	msg, ok := failureMessages[category]
	if !ok {
		category = CategoryInternal
		msg = "Something went wrong on the night shift: " + err.Error()
	}

	slog.Error("Pipeline: run failed", "runId", runID, "category", category, "error", err)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateError
	p.errMsg = msg
	p.log.Add(RunEntry{
		RunID:      runID,
		Coordinate: coord,
		Theme:      themeID,
		Outcome:    category,
		Message:    msg,
		FinishedAt: time.Now(),
	})
	p.notifyLocked()
}

// notifyLocked fires the change callback outside the lock.
func (p *Pipeline) notifyLocked() {
	if p.onChange == nil {
		return
	}
	snap := p.snapshotLocked()
	fn := p.onChange
	go fn(snap)
}

// Log returns the run history, newest first.
func (p *Pipeline) Log() []RunEntry {
	return p.log.Entries()
}

// Shutdown stops any playback in flight.
func (p *Pipeline) Shutdown() {
	p.player.Stop()
}
