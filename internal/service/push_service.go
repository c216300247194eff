package service

import (
	"bytes"
	"context"
	"edutrack_backend/internal/config"
	"edutrack_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// PushMessage is one notification for one device token.
type PushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// PushSender dispatches a batch of notifications. Delivery is best-effort and
// unconfirmed; callers must never block a primary write on it.
type PushSender interface {
	SendBatch(ctx context.Context, messages []PushMessage) error
}

// PushService posts batches to an Expo-style push gateway.
type PushService struct {
	cfg    *config.PushConfig
	client *http.Client
}

func NewPushService(cfg *config.Config) *PushService {
	timeout := cfg.Push.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &PushService{
		cfg:    &cfg.Push,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *PushService) SendBatch(ctx context.Context, messages []PushMessage) error {
	if len(messages) == 0 {
		return nil
	}
	if s.cfg.GatewayURL == "" {
		logger.Log.Debug("push gateway not configured, dropping batch", zap.Int("count", len(messages)))
		return nil
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}
