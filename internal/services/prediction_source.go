package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// PredictionSource produces model output for a date range.
type PredictionSource interface {
	Name() string
	Predict(ctx context.Context, r models.DateRange) (*models.InferenceResponse, error)
}

// MockSource answers with generated predictions after a simulated network
// delay.
type MockSource struct {
	gen          *Generator
	delay        time.Duration
	modelVersion string
}

func NewMockSource(gen *Generator, delay time.Duration, modelVersion string) *MockSource {
	return &MockSource{gen: gen, delay: delay, modelVersion: modelVersion}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Predict(ctx context.Context, r models.DateRange) (*models.InferenceResponse, error) {
	if err := sleepContext(ctx, m.delay); err != nil {
		return nil, err
	}
	return &models.InferenceResponse{
		Predictions:  m.gen.Generate(r),
		Timestamp:    time.Now().UTC(),
		ModelVersion: m.modelVersion,
	}, nil
}

// InferenceClient calls a hosted model endpoint, such as the HuggingFace
// inference API, with the date range as input.
type InferenceClient struct {
	url    string
	token  string
	client *http.Client
}

func NewInferenceClient(url, token string, timeout time.Duration) *InferenceClient {
	return &InferenceClient{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *InferenceClient) Name() string { return "remote" }

func (c *InferenceClient) Predict(ctx context.Context, r models.DateRange) (*models.InferenceResponse, error) {
	body, err := json.Marshal(models.InferenceRequest{Inputs: r})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out models.InferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	return &out, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
