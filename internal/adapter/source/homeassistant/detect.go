package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const detectTimeout = 10 * time.Second

// webManifest is the unauthenticated /manifest.json served by the frontend
type webManifest struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// DetectServer probes serverURL without credentials and reports whether it
// looks like a Home Assistant instance.
func DetectServer(ctx context.Context, serverURL string) error {
	serverURL = strings.TrimRight(serverURL, "/")

	client := &http.Client{
		Timeout: detectTimeout,
	}

	manifestErr := tryManifest(ctx, client, serverURL)
	if manifestErr == nil {
		return nil
	}

	// The API root answers 401 to anonymous callers
	apiErr := tryAPIRoot(ctx, client, serverURL)
	if apiErr == nil {
		return nil
	}

	return fmt.Errorf("not a Home Assistant server: tried manifest (%v), API (%v)", manifestErr, apiErr)
}

func tryManifest(ctx context.Context, client *http.Client, serverURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/manifest.json", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var m webManifest
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if strings.Contains(strings.ToLower(m.Name+" "+m.ShortName), "home assistant") {
		return nil
	}
	return fmt.Errorf("unexpected app name %q", m.Name)
}

func tryAPIRoot(ctx context.Context, client *http.Client, serverURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/api/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}
