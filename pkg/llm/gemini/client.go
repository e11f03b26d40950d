// Package gemini implements llm.Provider for Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/iterator"
	"google.golang.org/genai"

	"skydrift/pkg/config"
)

// Client implements llm.Provider for Google Gemini.
type Client struct {
	genaiClient *genai.Client
	apiKey      string
	modelName   string
	profiles    map[string]string // Map intent -> modelName
	logPath     string

	mu sync.RWMutex
}

// NewClient creates a new Gemini client. The API key is required.
func NewClient(apiKey string, cfg config.LLMConfig, logPath string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key missing")
	}

	c := &Client{
		apiKey:    apiKey,
		modelName: cfg.Model,
		profiles:  cfg.Profiles,
		logPath:   logPath,
	}
	if c.modelName == "" {
		c.modelName = "gemini-2.5-flash-lite"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	c.genaiClient = client

	// Validate model availability. Failure is a warning only, so startup
	// works even when the API is flaky or rate-limited; a truly invalid
	// key fails on the first generation call instead.
	if err := c.validateModel(context.Background()); err != nil {
		slog.Warn("Gemini model validation failed (proceeding anyway)", "error", err)
	}

	return c, nil
}

// Raw exposes the underlying genai client for the speech and image gateways,
// which share the credential and connection.
func (c *Client) Raw() *genai.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.genaiClient
}

// Close cleans up resources.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genaiClient = nil
}

// GenerateText sends a prompt and returns the text response.
func (c *Client) GenerateText(ctx context.Context, intent, prompt string) (string, error) {
	c.mu.RLock()
	client := c.genaiClient
	c.mu.RUnlock()

	if client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	modelName := c.resolveModel(intent)

	resp, err := client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), &genai.GenerateContentConfig{})
	if err != nil {
		c.logPrompt(intent, prompt, fmt.Sprintf("ERROR: %v", err))
		return "", fmt.Errorf("generate text error: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		c.logPrompt(intent, prompt, fmt.Sprintf("TEXT_PARSE_ERROR: %v", err))
		return "", err
	}

	c.logPrompt(intent, prompt, text)
	return strings.TrimSpace(text), nil
}

// resolveModel returns the target model name for the given intent.
func (c *Client) resolveModel(intent string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if profileModel, ok := c.profiles[intent]; ok && profileModel != "" {
		return profileModel
	}
	return c.modelName
}

func (c *Client) logPrompt(intent, prompt, response string) {
	if c.logPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return
	}

	f, err := os.OpenFile(c.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] PROMPT: %s\nPROMPT_TEXT:\n%s\n\nRESPONSE:\n%s\n%s\n",
		timestamp, intent, prompt, response, strings.Repeat("-", 80))

	_, _ = f.WriteString(entry)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// validateModel checks if the configured model is available for the API key.
func (c *Client) validateModel(ctx context.Context) error {
	name := c.modelName
	if !strings.HasPrefix(name, "models/") {
		name = "models/" + name
	}

	_, err := c.genaiClient.Models.Get(ctx, name, nil)
	if err == nil {
		slog.Debug("Gemini model validation success", "model", c.modelName)
		return nil
	}

	slog.Warn("Gemini model validation failed, fetching available models...", "model", c.modelName, "error", err)

	iter, listErr := c.genaiClient.Models.List(ctx, nil)
	if listErr != nil {
		slog.Warn("Failed to list models for recovery", "error", listErr)
		return nil
	}

	var availableModels []string
	for {
		resp, nextErr := iter.Next(ctx)
		if nextErr == iterator.Done {
			break
		}
		if nextErr != nil {
			break
		}
		if strings.Contains(strings.ToLower(resp.Name), "gemini") {
			availableModels = append(availableModels, resp.Name)
		}
	}

	slog.Error("Configured model not found", "configured", c.modelName)
	for _, m := range availableModels {
		slog.Error("- " + m)
	}

	return nil
}
