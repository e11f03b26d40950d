// Package gemini implements tts.Provider using the Gemini speech models.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"skydrift/pkg/config"
	"skydrift/pkg/tts"
)

// Gemini speech models return raw PCM at a fixed rate.
const outputSampleRate = 24000

// Provider synthesizes speech via the Gemini native TTS models.
type Provider struct {
	client    *genai.Client
	modelName string
	voiceID   string
}

// NewProvider creates a new Gemini TTS provider sharing an existing client.
func NewProvider(client *genai.Client, cfg config.TTSConfig) *Provider {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash-preview-tts"
	}
	voice := cfg.Voice
	if voice == "" {
		voice = "Kore"
	}
	return &Provider{
		client:    client,
		modelName: model,
		voiceID:   voice,
	}
}

// Synthesize renders the text as speech. An empty voice falls back to the
// configured default.
func (p *Provider) Synthesize(ctx context.Context, text, voice string) (*tts.Clip, error) {
	if p.client == nil {
		return nil, fmt.Errorf("gemini client not configured")
	}
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}
	if voice == "" {
		voice = p.voiceID
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: voice,
				},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.modelName, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("speech generation error: %w", err)
	}

	data, err := extractAudio(resp)
	if err != nil {
		return nil, err
	}

	slog.Debug("TTS: synthesized clip", "voice", voice, "bytes", len(data))
	return &tts.Clip{
		Data:       data,
		SampleRate: outputSampleRate,
		Channels:   1,
	}, nil
}

// Close cleans up resources. The underlying client is shared and owned
// by the LLM layer.
func (p *Provider) Close() {
	p.client = nil
}

func extractAudio(resp *genai.GenerateContentResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates returned")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("response contained no audio payload")
}
