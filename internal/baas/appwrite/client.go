// Package appwrite implements the backend contract against the Appwrite REST API.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio-site/internal/baas"
)

const (
	headerProject = "X-Appwrite-Project"
	headerKey     = "X-Appwrite-Key"
	headerSession = "X-Appwrite-Session"
)

// Config points the client at one Appwrite project.
type Config struct {
	Endpoint   string // e.g. https://cloud.appwrite.io/v1
	ProjectID  string
	APIKey     string // only used to obtain session secrets at login
	DatabaseID string
	Timeout    time.Duration
}

type client struct {
	endpoint string
	project  string
	apiKey   string
	http     *http.Client
}

// apiError is the error body returned by Appwrite.
type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("appwrite %d %s: %s", e.Code, e.Type, e.Message)
}

type request struct {
	method      string
	path        string
	query       url.Values
	session     baas.Session
	useKey      bool
	body        io.Reader
	contentType string
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// do sends the request and decodes a JSON response into out when out is non-nil.
func (c *client) do(ctx context.Context, r request, out any) (*http.Response, error) {
	u := c.endpoint + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headerProject, c.project)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		ct := r.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}
	if r.useKey && c.apiKey != "" {
		req.Header.Set(headerKey, c.apiKey)
	}
	if !r.session.Anonymous() {
		req.Header.Set(headerSession, r.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", baas.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resp, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp, fmt.Errorf("%w: decode response: %w", baas.ErrUnavailable, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &apiError{Code: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Code == 0 {
		apiErr.Code = resp.StatusCode
	}
	return fmt.Errorf("%w: %w", sentinelFor(resp.StatusCode, apiErr.Type), apiErr)
}

// sentinelFor maps an Appwrite failure onto the backend sentinels.
func sentinelFor(status int, typ string) error {
	switch typ {
	case "user_invalid_credentials":
		return baas.ErrInvalidCredentials
	case "user_not_found":
		return baas.ErrUserNotFound
	}
	switch {
	case status == http.StatusUnauthorized:
		return baas.ErrUnauthorized
	case status == http.StatusForbidden:
		return baas.ErrForbidden
	case status == http.StatusNotFound:
		return baas.ErrNotFound
	case status == http.StatusConflict:
		return baas.ErrConflict
	default:
		return baas.ErrUnavailable
	}
}
