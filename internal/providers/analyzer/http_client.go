package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// The analyzer call must not block a turn indefinitely.
const defaultTimeout = 20 * time.Second

// HTTPClient talks to the external analyzer service. Every failure path
// collapses into a degraded Result; callers never see a transport error.
type HTTPClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

func NewHTTPClient(url string, log *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		log:    log,
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (c *HTTPClient) Analyze(ctx context.Context, text string) Result {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return c.degraded("marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return c.degraded("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.degraded("analyzer unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.degraded("analyzer status "+resp.Status, nil)
	}

	const maxBody = 1 << 20
	raw := map[string]any{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&raw); err != nil {
		return c.degraded("decode response", err)
	}

	return Normalize(raw)
}

func (c *HTTPClient) degraded(msg string, err error) Result {
	if c.log != nil {
		entry := c.log.WithField("analyzer_url", c.url)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("analyzer degraded: " + msg)
	}
	return DegradedResult()
}
