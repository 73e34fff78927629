package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPError represents a non-2xx HTTP response returned by the daemon.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Header     http.Header

	// Message, Code and Type carry the daemon's JSON error envelope
	// ({"Message":...,"Code":...,"Type":...}) when it was present.
	Message string
	Code    int
	Type    string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return fmt.Sprintf("httpx: status=%d message=%q", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpx: status=%d body=%s", e.StatusCode, string(e.Body))
}

func (c *Client) handleError(resp *http.Response) error {
	defer closeBody(resp.Body)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpx: read error body: %w", err)
	}
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header.Clone(),
	}
	if isJSON(resp.Header.Get("Content-Type")) {
		var envelope struct {
			Message string `json:"Message"`
			Code    int    `json:"Code"`
			Type    string `json:"Type"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			httpErr.Message = envelope.Message
			httpErr.Code = envelope.Code
			httpErr.Type = envelope.Type
		}
	}
	return httpErr
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType) == "application/json"
}
