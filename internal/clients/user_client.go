package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"innoshop/internal/logger"
)

const defaultTimeout = 5 * time.Second

type userStatus struct {
	UserID         uint `json:"userId"`
	EmailConfirmed bool `json:"emailConfirmed"`
	IsActive       bool `json:"isActive"`
}

// UserStatusClient reads account status from the User service. It backs the
// product service's UserDirectory: on any transport or decode failure the
// answer is false, so an unreachable User service blocks product mutations
// instead of waving them through.
type UserStatusClient struct {
	baseURL string
	client  *http.Client
}

func NewUserStatusClient(baseURL string) *UserStatusClient {
	return &UserStatusClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (c *UserStatusClient) Exists(ctx context.Context, userID uint) bool {
	_, err := c.fetchStatus(ctx, userID)
	return err == nil
}

func (c *UserStatusClient) IsEmailConfirmed(ctx context.Context, userID uint) bool {
	status, err := c.fetchStatus(ctx, userID)
	if err != nil {
		return false
	}
	return status.EmailConfirmed
}

func (c *UserStatusClient) fetchStatus(ctx context.Context, userID uint) (*userStatus, error) {
	url := fmt.Sprintf("%s/api/users/%d/status", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("User status lookup failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
			zap.String("event", "user_status_lookup_failed"),
		)
		return nil, fmt.Errorf("failed to reach user service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var status userStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode user status: %w", err)
	}

	return &status, nil
}
