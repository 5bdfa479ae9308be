// Package scoring calls the external positivity-scoring service. A review is
// never stored without a score, so scorer failures abort the create/modify
// that triggered them.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"feedback-hub/internal/utils"
)

// Scorer assigns a 0-100 positivity level to a piece of review text.
type Scorer interface {
	Score(ctx context.Context, comment string) (float64, error)
}

// Client is the HTTP implementation of Scorer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	Comment string `json:"comment"`
}

type scoreResponse struct {
	PositivityLevel *float64 `json:"positivityLevel"`
}

// Score posts the comment text to the scoring service and returns the
// positivity level clamped to [0,100]. Missing or non-numeric responses are
// scoring failures.
func (c *Client) Score(ctx context.Context, comment string) (float64, error) {
	body, err := json.Marshal(scoreRequest{Comment: comment})
	if err != nil {
		return 0, utils.NewAppError(utils.ErrScoringFailed, "failed to encode scoring request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, utils.NewAppError(utils.ErrScoringFailed, "failed to build scoring request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrScoringFailed, "scoring service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, utils.NewAppError(utils.ErrScoringFailed,
			fmt.Sprintf("scoring service returned status %d", resp.StatusCode), nil)
	}

	var parsed scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, utils.NewAppError(utils.ErrScoringFailed, "malformed scoring response", err)
	}
	if parsed.PositivityLevel == nil {
		return 0, utils.NewAppError(utils.ErrScoringFailed, "scoring response missing positivityLevel", nil)
	}

	return Clamp(*parsed.PositivityLevel), nil
}

// Clamp forces a score into the valid [0,100] range.
func Clamp(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
