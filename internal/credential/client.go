package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the HTTP implementation of Issuer, calling the minting service's
// JSON API. The service wraps the actual chain interaction; this client knows
// nothing about tokens or transaction formats.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type mintResponse struct {
	CredentialRef string `json:"credential_ref"`
}

func (c *Client) MintMembershipCredential(ctx context.Context, walletAddress string, tier int) (string, error) {
	payload := map[string]interface{}{
		"wallet_address": walletAddress,
		"tier":           tier,
	}

	var resp mintResponse
	if err := c.post(ctx, "/v1/credentials/membership", payload, &resp); err != nil {
		return "", fmt.Errorf("c.post -> %w", err)
	}

	return resp.CredentialRef, nil
}

func (c *Client) MintEventCredential(ctx context.Context, walletAddress string, eventID uint, eventName string) (string, error) {
	payload := map[string]interface{}{
		"wallet_address": walletAddress,
		"event_id":       eventID,
		"event_name":     eventName,
	}

	var resp mintResponse
	if err := c.post(ctx, "/v1/credentials/attendance", payload, &resp); err != nil {
		return "", fmt.Errorf("c.post -> %w", err)
	}

	return resp.CredentialRef, nil
}

func (c *Client) RefreshMetadata(ctx context.Context, credentialRef string, newTier int) error {
	payload := map[string]interface{}{
		"credential_ref": credentialRef,
		"tier":           newTier,
	}

	if err := c.post(ctx, "/v1/credentials/refresh", payload, nil); err != nil {
		return fmt.Errorf("c.post -> %w", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("minting service returned %d: %s", resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode -> %w", err)
	}

	return nil
}
