package services

import (
	"context"
	"fmt"

	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/models"
)

// MailService writes outbound notifications into the mail queue. Delivery,
// retries and bounces belong to the worker that drains the queue, not to
// this API.
type MailService struct {
	db *database.DB
}

func NewMailService(db *database.DB) *MailService {
	return &MailService{db: db}
}

// EnqueueStatusChange queues the templated status-change message for an
// order's contact email.
func (s *MailService) EnqueueStatusChange(ctx context.Context, recipient, status, orderID string) error {
	label := models.StatusLabel(status)
	subject := fmt.Sprintf("Atualização do seu pedido – Status: %s", label)
	html := buildStatusChangeHTML(label, orderID)

	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO mail_queue (recipient, subject, html) VALUES ($1, $2, $3)
	`, recipient, subject, html)
	if err != nil {
		return fmt.Errorf("failed to enqueue mail: %w", err)
	}
	return nil
}

func buildStatusChangeHTML(statusLabel, orderID string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Atualização do seu pedido</title>
</head>
<body style="font-family: system-ui, -apple-system, sans-serif; line-height: 1.6; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-top: 0; color: #111;">Atualização do seu pedido</h2>
  <p>Olá,</p>
  <p>O status do seu pedido foi atualizado:</p>
  <p style="font-size: 1.1em;"><strong>Novo status: %s</strong></p>
  <p>Mantemos você informado sobre as etapas do seu pedido. Em caso de dúvidas, entre em contato.</p>
  <p style="margin-top: 32px; font-size: 0.9em; color: #666;">
    Referência do pedido: %s
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;">
  <p style="font-size: 0.85em; color: #888;">Este é um e-mail automático. Por favor, não responda diretamente.</p>
</body>
</html>`, statusLabel, orderID)
}
