// Package embedding provides sentence embeddings for semantic answer
// matching, backed by an Ollama-compatible embeddings endpoint with a
// bounded in-process cache.
package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Config controls the embedding service.
type Config struct {
	// BaseURL of the embeddings endpoint, e.g. http://localhost:11434.
	BaseURL string
	// Model name passed to the endpoint.
	Model string
	// CacheSize bounds the embedding LRU cache (entries).
	CacheSize int
	// Timeout for a single embedding request.
	Timeout time.Duration
}

// Service computes and caches embeddings. Safe for concurrent use; repeated
// requests for the same text are deduplicated in flight and served from a
// bounded LRU cache afterwards.
type Service struct {
	cfg    Config
	client *http.Client
	cache  *lru.Cache[string, []float32]
	flight singleflight.Group
}

// NewService creates an embedding service. CacheSize must be positive.
func NewService(cfg Config) (*Service, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("embedding: base URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding: model is required")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cache, err := lru.New[string, []float32](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("embedding: create cache: %w", err)
	}

	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
	}, nil
}

// Model returns the configured model name.
func (s *Service) Model() string {
	return s.cfg.Model
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for text, computing it at most once
// per cache lifetime. The ctx bounds the remote call.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := s.cache.Get(text); ok {
		return vec, nil
	}

	result, err, _ := s.flight.Do(text, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the cache while we queued.
		if vec, ok := s.cache.Get(text); ok {
			return vec, nil
		}
		vec, err := s.embedRemote(ctx, text)
		if err != nil {
			return nil, err
		}
		s.cache.Add(text, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]float32), nil
}

func (s *Service) embedRemote(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: s.cfg.Model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("embedding: marshal request: %w", err)
	}

	url := s.cfg.BaseURL + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding: endpoint returned %d: %s", resp.StatusCode, payload)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("embedding: decode response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding: endpoint returned empty vector")
	}

	vec := make([]float32, len(parsed.Embedding))
	for i, v := range parsed.Embedding {
		vec[i] = float32(v)
	}

	log.Debug().
		Str("model", s.cfg.Model).
		Int("dimensions", len(vec)).
		Int("textLen", len(text)).
		Msg("Computed embedding")

	return vec, nil
}

// CacheLen returns the number of cached embeddings.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// ResetCache drops all cached embeddings. Intended for tests.
func (s *Service) ResetCache() {
	s.cache.Purge()
}
