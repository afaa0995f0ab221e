package notify

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// AuditNotifier destino de las alertas de auditoría.
type AuditNotifier interface {
	NotifyAudit(ctx context.Context, alert dto.AuditAlertDTO) error
}

// Fanout entrega la alerta a todos los destinos; el fallo de uno no impide los demás.
type Fanout struct {
	sinks []AuditNotifier
}

func NewFanout(sinks ...AuditNotifier) *Fanout {
	return &Fanout{sinks: sinks}
}

// Len cantidad de destinos configurados.
func (f *Fanout) Len() int { return len(f.sinks) }

func (f *Fanout) NotifyAudit(ctx context.Context, alert dto.AuditAlertDTO) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.NotifyAudit(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
