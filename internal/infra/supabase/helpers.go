package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// newWriteRequest builds an authenticated PostgREST request for the
// mutating verbs. The prefer header decides whether PostgREST echoes
// the written row back ("return=representation") or stays silent
// ("return=minimal").
func (c *Client) newWriteRequest(ctx context.Context, method, path, prefer string, body []byte) (*http.Request, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	return req, nil
}

// doPost inserts a row and returns the created representation, which
// the stores decode back into the domain type so callers see
// server-assigned fields (created_at and friends).
func (c *Client) doPost(ctx context.Context, table string, data map[string]any) ([]byte, error) {
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := c.newWriteRequest(ctx, http.MethodPost, table, "return=representation", jsonBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: POST request failed",
			zap.String("table", table),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: POST non-2xx",
			zap.String("table", table),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("supabase POST %s returned %d: %s", table, resp.StatusCode, string(body))
	}

	c.logger.Debug("supabase: POST OK", zap.String("table", table), zap.Int("status", resp.StatusCode))
	return body, nil
}

// doPatch applies a partial update to the rows selected by path (the
// stores pass table?id=eq.<id>&user_id=eq.<uid> so the user filter is
// enforced at the database, not just in the service).
func (c *Client) doPatch(ctx context.Context, path string, data map[string]any) error {
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return err
	}

	req, err := c.newWriteRequest(ctx, http.MethodPatch, path, "return=minimal", jsonBody)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: PATCH request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("supabase: PATCH non-2xx",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("supabase PATCH returned %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("supabase: PATCH OK", zap.String("path", path))
	return nil
}

// doDelete removes the rows selected by path. PostgREST answers 2xx
// even when the filter matched nothing, so existence checks belong to
// the store methods, not here.
func (c *Client) doDelete(ctx context.Context, path string) error {
	req, err := c.newWriteRequest(ctx, http.MethodDelete, path, "", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: DELETE request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("supabase: DELETE non-2xx",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("supabase DELETE returned %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("supabase: DELETE OK", zap.String("path", path))
	return nil
}
