// Package notify envía los hallazgos de la auditoría de inventario fuera del proceso:
// webhook HTTP (Slack, Teams, n8n...), canal pub/sub de Redis o tópico de Kafka.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// WebhookNotifier publica un AuditAlertDTO como JSON en la URL configurada.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookNotifier construye el notificador. Los fallos de red se reintentan dos veces.
func NewWebhookNotifier(url string) *WebhookNotifier {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &WebhookNotifier{httpClient: restyClient, url: url}
}

// NotifyAudit envía la alerta. Cualquier respuesta >= 400 es un error.
func (n *WebhookNotifier) NotifyAudit(ctx context.Context, alert dto.AuditAlertDTO) error {
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(alert).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("enviar alerta de auditoría: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook de auditoría respondió %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
