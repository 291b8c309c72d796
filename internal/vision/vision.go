package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is what the classification collaborator hands back for one photo.
type Result struct {
	Labels        []string
	Score         int
	Inappropriate bool
}

type Classifier interface {
	Classify(ctx context.Context, image []byte) (Result, error)
}

// Client calls the image annotation REST API (label detection + safe-search)
// and reduces the response to labels, a feed score, and an appropriateness
// verdict.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		SafeSearchAnnotation struct {
			Adult    string `json:"adult"`
			Violence string `json:"violence"`
		} `json:"safeSearchAnnotation"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func likely(v string) bool {
	return v == "LIKELY" || v == "VERY_LIKELY"
}

func (c *Client) Classify(ctx context.Context, image []byte) (Result, error) {
	payload := annotateRequest{
		Requests: []annotateEntry{{
			Image: annotateImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []annotateFeature{
				{Type: "LABEL_DETECTION"},
				{Type: "SAFE_SEARCH_DETECTION"},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, err
	}

	url := c.endpoint
	if c.apiKey != "" {
		url = fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("vision api returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed annotateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode vision response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return Result{}, fmt.Errorf("empty vision response")
	}
	r := parsed.Responses[0]
	if r.Error != nil {
		return Result{}, fmt.Errorf("vision api error: %s", r.Error.Message)
	}

	labels := make([]string, 0, len(r.LabelAnnotations))
	for _, l := range r.LabelAnnotations {
		labels = append(labels, strings.ToLower(l.Description))
	}

	return Result{
		Labels:        labels,
		Score:         ScoreLabels(labels),
		Inappropriate: likely(r.SafeSearchAnnotation.Adult) || likely(r.SafeSearchAnnotation.Violence),
	}, nil
}
