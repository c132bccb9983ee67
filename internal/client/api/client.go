// FILE: checkers/internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"checkers/internal/client/display"
	"checkers/internal/server/core"
)

// Client talks to a checkers analysis server
type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

type HealthResponse struct {
	Status   string `json:"status"`
	Time     int64  `json:"time"`
	Storage  string `json:"storage"`
	Queue    int    `json:"queue"`
	Analyses int    `json:"analyses"`
}

// RequestError is a non-2xx reply from the server
type RequestError struct {
	Status   int
	Response core.ErrorResponse
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("server returned %d", e.Status)
	if e.Response.Error != "" {
		msg += ": " + e.Response.Error
	}
	if e.Response.Details != "" {
		msg += " (" + e.Response.Details + ")"
	}
	return msg
}

func New(baseURL string, out io.Writer) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Searches can run up to the server's search timeout
			Timeout: 60 * time.Second,
		},
		Out: out,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

func (c *Client) SetToken(token string) {
	c.AuthToken = token
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	var bodyReader io.Reader
	var jsonData []byte
	if body != nil {
		var err error
		jsonData, err = json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	if c.Verbose {
		fmt.Fprintf(c.Out, "%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
		if len(jsonData) > 0 {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Blue, jsonData, display.Reset)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if c.Verbose {
		statusColor := display.Green
		if resp.StatusCode >= 400 {
			statusColor = display.Red
		}
		fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)
	}

	if resp.StatusCode >= 400 {
		reqErr := &RequestError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &reqErr.Response); err != nil {
			reqErr.Response.Error = strings.TrimSpace(string(respBody))
		}
		return reqErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("response parse error: %w", err)
		}
	}

	return nil
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) LegalMoves(grid []string, turn core.Color) (*core.LegalMovesResponse, error) {
	req := core.PositionRequest{Board: grid, Turn: turn.String()}
	var resp core.LegalMovesResponse
	err := c.doRequest(http.MethodPost, "/api/v1/moves/legal", req, &resp)
	return &resp, err
}

func (c *Client) Evaluate(grid []string, turn core.Color) (*core.EvaluateResponse, error) {
	req := core.PositionRequest{Board: grid, Turn: turn.String()}
	var resp core.EvaluateResponse
	err := c.doRequest(http.MethodPost, "/api/v1/evaluate", req, &resp)
	return &resp, err
}

// Search asks the server for its best move at the given depth
func (c *Client) Search(grid []string, turn core.Color, depth int) (*core.SearchResponse, error) {
	req := core.SearchRequest{Board: grid, Turn: turn.String(), Depth: depth}
	var resp core.SearchResponse
	err := c.doRequest(http.MethodPost, "/api/v1/search", req, &resp)
	return &resp, err
}

func (c *Client) Login(identifier, password string) (*core.AuthResponse, error) {
	req := core.LoginRequest{Identifier: identifier, Password: password}
	var resp core.AuthResponse
	if err := c.doRequest(http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// PurgeCache empties the server's analysis cache; requires Login first
func (c *Client) PurgeCache() (*core.PurgeCacheResponse, error) {
	var resp core.PurgeCacheResponse
	err := c.doRequest(http.MethodDelete, "/api/v1/cache", nil, &resp)
	return &resp, err
}
