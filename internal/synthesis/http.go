package synthesis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mpetrenko/voicefront/internal/audio"
)

// HTTPSynthesizer sends finalized text to a remote synthesis service and
// decodes the returned PCM into normalized samples. Requests are rate
// limited by a semaphore and retried with exponential backoff.
type HTTPSynthesizer struct {
	config     HTTPConfig
	httpClient *http.Client
	semaphore  chan struct{}

	// Statistics
	totalRequests   uint64
	successRequests uint64
	failedRequests  uint64
	totalRetries    uint64

	mu sync.RWMutex
}

// generateRequest is the JSON body sent to the synthesis endpoint.
type generateRequest struct {
	Text      string  `json:"text"`
	SpeakerID int     `json:"speaker_id"`
	Speed     float32 `json:"speed"`
}

// generateResponse is the JSON body returned by the synthesis endpoint.
// Audio carries base64-encoded little-endian 16-bit PCM.
type generateResponse struct {
	SampleRate int    `json:"sample_rate"`
	Audio      string `json:"audio"`
}

// ClientStats represents synthesis client statistics.
type ClientStats struct {
	TotalRequests   uint64  `json:"total_requests"`
	SuccessRequests uint64  `json:"success_requests"`
	FailedRequests  uint64  `json:"failed_requests"`
	SuccessRate     float64 `json:"success_rate"`
	TotalRetries    uint64  `json:"total_retries"`
}

// NewHTTPSynthesizer creates a remote synthesis client.
func NewHTTPSynthesizer(config HTTPConfig) (*HTTPSynthesizer, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("synthesis: endpoint cannot be empty")
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	if config.MaxRetries < 0 {
		config.MaxRetries = 3
	}

	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPSynthesizer{
		config:     config,
		httpClient: httpClient,
		semaphore:  make(chan struct{}, config.MaxConcurrent),
	}, nil
}

// Generate posts the text and returns the decoded samples.
func (c *HTTPSynthesizer) Generate(ctx context.Context, text string, speakerID int, speed float32) (Audio, error) {
	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-ctx.Done():
		return Audio{}, ctx.Err()
	}

	c.incrementTotalRequests()

	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.incrementTotalRetries()

			backoffTime := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			if backoffTime > 30*time.Second {
				backoffTime = 30 * time.Second
			}

			select {
			case <-time.After(backoffTime):
			case <-ctx.Done():
				return Audio{}, ctx.Err()
			}
		}

		out, err := c.doRequest(ctx, generateRequest{Text: text, SpeakerID: speakerID, Speed: speed})
		if err == nil {
			c.incrementSuccessRequests()
			return out, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			break
		}
	}

	c.incrementFailedRequests()
	return Audio{}, fmt.Errorf("synthesis failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

// doRequest performs a single HTTP request to the synthesis API.
func (c *HTTPSynthesizer) doRequest(ctx context.Context, request generateRequest) (Audio, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return Audio{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Audio{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Audio{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Audio{}, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return Audio{}, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if genResp.SampleRate <= 0 {
		return Audio{}, fmt.Errorf("invalid sample rate in response: %d", genResp.SampleRate)
	}

	pcm, err := base64.StdEncoding.DecodeString(genResp.Audio)
	if err != nil {
		return Audio{}, fmt.Errorf("failed to decode audio payload: %w", err)
	}

	samples, err := audio.DecodePCM16(pcm)
	if err != nil {
		return Audio{}, fmt.Errorf("malformed audio payload: %w", err)
	}

	return Audio{Samples: samples, SampleRate: genResp.SampleRate}, nil
}

// isRetryableError determines if an error is worth another attempt:
// server errors, rate limiting and network failures.
func isRetryableError(err error) bool {
	if err == context.DeadlineExceeded {
		return true
	}

	errStr := err.Error()

	if strings.Contains(errStr, "HTTP error 5") {
		return true
	}

	if strings.Contains(errStr, "HTTP error 429") {
		return true
	}

	if strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "refused") {
		return true
	}

	return false
}

func (c *HTTPSynthesizer) incrementTotalRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
}

func (c *HTTPSynthesizer) incrementSuccessRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successRequests++
}

func (c *HTTPSynthesizer) incrementFailedRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedRequests++
}

func (c *HTTPSynthesizer) incrementTotalRetries() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRetries++
}

// GetStats returns current client statistics.
func (c *HTTPSynthesizer) GetStats() ClientStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	successRate := float64(0)
	if c.totalRequests > 0 {
		successRate = float64(c.successRequests) / float64(c.totalRequests) * 100
	}

	return ClientStats{
		TotalRequests:   c.totalRequests,
		SuccessRequests: c.successRequests,
		FailedRequests:  c.failedRequests,
		SuccessRate:     successRate,
		TotalRetries:    c.totalRetries,
	}
}

// Close waits for all active requests to complete.
func (c *HTTPSynthesizer) Close() error {
	for i := 0; i < cap(c.semaphore); i++ {
		c.semaphore <- struct{}{}
	}
	return nil
}
