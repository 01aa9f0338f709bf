package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Gateway talks to a self-hosted WhatsApp HTTP gateway. The limiter paces
// requests so the channel's rate limits are respected even if the caller
// forgets its own delay.
type Gateway struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
	limiter   <-chan time.Time
}

func NewGateway() (*Gateway, error) {
	baseURL := strings.TrimSpace(os.Getenv("WA_GATEWAY_URL"))
	if baseURL == "" {
		return nil, errors.New("WA_GATEWAY_URL is empty")
	}
	apiKey := strings.TrimSpace(os.Getenv("WA_GATEWAY_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("WA_GATEWAY_API_KEY is empty")
	}
	apiKeyHeader := strings.TrimSpace(os.Getenv("WA_GATEWAY_API_KEY_HEADER"))
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	rateLimitPerMin := int64(6)
	if v := strings.TrimSpace(os.Getenv("WA_GATEWAY_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			rateLimitPerMin = n
		}
	}
	interval := time.Minute / time.Duration(rateLimitPerMin)

	return &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   time.Tick(interval),
	}, nil
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (g *Gateway) Send(ctx context.Context, destination, message string) error {
	<-g.limiter

	body, err := json.Marshal(sendRequest{To: destination, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(g.apiKeyHdr, g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
