// Package imagegen renders scene images via the Imagen models.
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"skydrift/pkg/config"
)

// Generator produces scene images as data URIs ready for direct embedding.
type Generator struct {
	client    *genai.Client
	modelName string
	enabled   bool
}

// NewGenerator creates an image generator sharing an existing client.
func NewGenerator(client *genai.Client, cfg config.ImageConfig) *Generator {
	model := cfg.Model
	if model == "" {
		model = "imagen-3.0-generate-002"
	}
	return &Generator{
		client:    client,
		modelName: model,
		enabled:   cfg.Enabled,
	}
}

// Generate renders the prompt as a single image and returns it as a
// data:image/png;base64 URI.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.enabled {
		return "", fmt.Errorf("image generation disabled")
	}
	if g.client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	}

	resp, err := g.client.Models.GenerateImages(ctx, g.modelName, prompt, cfg)
	if err != nil {
		return "", fmt.Errorf("image generation error: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("response contained no image")
	}

	raw := resp.GeneratedImages[0].Image.ImageBytes
	if len(raw) == 0 {
		return "", fmt.Errorf("response contained empty image payload")
	}

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	slog.Debug("Image: generated scene", "bytes", len(raw))
	return uri, nil
}

// GenerateOrEmpty renders the prompt, treating any failure as a missing
// visual rather than an error. The report continues without an image.
func (g *Generator) GenerateOrEmpty(ctx context.Context, prompt string) string {
	uri, err := g.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("Image: generation failed, continuing without visual", "error", err)
		return ""
	}
	return uri
}
