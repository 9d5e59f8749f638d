// Package ai is the boundary to the external generation backend. The core
// consumes it through three narrow contracts: prompt-in/text-out,
// prompt-in/image-out, and a repetition judgment used by the dialogue
// retry loop. The backend is a black box; nothing in here understands
// language.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options tune a single text generation call.
type Options struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// TextGenerator is the prompt-in/text-out contract.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts Options) (string, error)
}

// ImageGenerator is the prompt-in/image-out contract. The returned string
// is an opaque portrait reference written back onto the appearance record.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// RepetitionJudge decides whether a candidate line is too similar to the
// character's recent utterances. The judgment itself is delegated to the
// external service.
type RepetitionJudge interface {
	TooSimilar(ctx context.Context, candidate string, recent []string) (bool, error)
}

// Service is the HTTP client for all three contracts.
type Service struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ServiceConfig configures the client.
type ServiceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewService creates a Service. BaseURL is required; the timeout defaults
// to 30 seconds.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("ai service URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Service{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}, nil
}

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type generateResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// GenerateText posts the prompt and returns the generated text.
func (s *Service) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	var resp generateResponse
	err := s.post(ctx, "/generate", generateRequest{
		Prompt:      prompt,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("text API error: %s", resp.Error)
	}
	if resp.Text == "" {
		return "", errors.New("no text generated")
	}
	return resp.Text, nil
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	ImageRef string `json:"image_ref"`
	Error    string `json:"error,omitempty"`
}

// GenerateImage posts the prompt and returns a portrait reference.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var resp imageResponse
	if err := s.post(ctx, "/image", imageRequest{Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("image API error: %s", resp.Error)
	}
	if resp.ImageRef == "" {
		return "", errors.New("no image generated")
	}
	return resp.ImageRef, nil
}

type similarityRequest struct {
	Candidate string   `json:"candidate"`
	Recent    []string `json:"recent"`
}

type similarityResponse struct {
	TooSimilar bool   `json:"too_similar"`
	Error      string `json:"error,omitempty"`
}

// TooSimilar asks the service whether the candidate repeats the recent
// lines.
func (s *Service) TooSimilar(ctx context.Context, candidate string, recent []string) (bool, error) {
	if len(recent) == 0 {
		return false, nil
	}
	var resp similarityResponse
	err := s.post(ctx, "/similarity", similarityRequest{
		Candidate: candidate,
		Recent:    recent,
	}, &resp)
	if err != nil {
		return false, err
	}
	if resp.Error != "" {
		return false, fmt.Errorf("similarity API error: %s", resp.Error)
	}
	return resp.TooSimilar, nil
}

func (s *Service) post(ctx context.Context, path string, payload any, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making API request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status code %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshaling response: %v", err)
	}
	return nil
}
