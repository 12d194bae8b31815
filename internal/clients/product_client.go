package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ProductSyncClient pushes owner activation changes to the Product service
// so the denormalized owner-active flag on products tracks account state.
type ProductSyncClient struct {
	baseURL string
	client  *http.Client
}

func NewProductSyncClient(baseURL string) *ProductSyncClient {
	return &ProductSyncClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (c *ProductSyncClient) PushOwnerStatus(ctx context.Context, userID uint, isActive bool) error {
	url := fmt.Sprintf("%s/api/products/internal/user-status/%d", c.baseURL, userID)

	body, err := json.Marshal(isActive)
	if err != nil {
		return fmt.Errorf("failed to encode status body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build status push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach product service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("product service returned status %d", resp.StatusCode)
	}

	return nil
}
