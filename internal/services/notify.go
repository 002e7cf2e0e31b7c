package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/andrevilar/romaneio-api/internal/config"
	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/go-resty/resty/v2"
)

// NotifyService is the direct notification channel: one unretried POST to
// a transactional email API per status transition. It runs alongside the
// mail queue path, so a single transition can legitimately produce two
// messages for the same recipient.
type NotifyService struct {
	cfg    config.NotifyConfig
	client *resty.Client
}

type notifyPayload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func NewNotifyService(cfg config.NotifyConfig) *NotifyService {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(10 * time.Second)
	return &NotifyService{cfg: cfg, client: client}
}

func (s *NotifyService) IsConfigured() bool {
	return s.cfg.ServiceID != "" && s.cfg.TemplateID != "" && s.cfg.PublicKey != ""
}

// SendStatusNotification posts the status-change template to the
// configured service. With any of the three identifiers unset it no-ops
// with a warning. Callers dispatch it fire-and-forget; failure never
// blocks or reverts the status write that triggered it.
func (s *NotifyService) SendStatusNotification(ctx context.Context, recipient, status, orderID string) error {
	if !s.IsConfigured() {
		log.Printf("notify: channel not configured, skipping status notification for %s", recipient)
		return nil
	}

	trimmed := NormalizeEmail(recipient)
	if trimmed == "" {
		return nil
	}

	payload := notifyPayload{
		ServiceID:  s.cfg.ServiceID,
		TemplateID: s.cfg.TemplateID,
		UserID:     s.cfg.PublicKey,
		TemplateParams: map[string]string{
			"to_email":     trimmed,
			"status":       status,
			"status_label": models.StatusLabel(status),
			"order_id":     orderID,
		},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("")
	if err != nil {
		return fmt.Errorf("failed to send status notification: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification service returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
