package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Auditor concilia el stock de todos los ítems contra el libro de movimientos.
type Auditor interface {
	AuditAll(ctx context.Context) (*inventory.AuditReport, error)
}

// ReplenishmentLister genera la lista de ítems bajo el mínimo.
type ReplenishmentLister interface {
	GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error)
}

// Notifier recibe los hallazgos de una auditoría.
type Notifier interface {
	NotifyAudit(ctx context.Context, alert dto.AuditAlertDTO) error
}

// Scheduler ejecuta la auditoría periódica del libro de inventario.
type Scheduler struct {
	cron          *cron.Cron
	spec          string
	auditor       Auditor
	replenishment ReplenishmentLister
	notifier      Notifier
	service       string
	log           *logger.Logger
	timeout       time.Duration
}

// NewScheduler construye el scheduler. spec es una expresión cron de 5 campos
// (minuto, hora, día del mes, mes, día de la semana). log puede ser nil.
func NewScheduler(spec string, auditor Auditor, replenishment ReplenishmentLister, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		spec:          spec,
		auditor:       auditor,
		replenishment: replenishment,
		log:           log.Component("scheduler"),
		timeout:       2 * time.Minute,
	}
}

// WithNotifier envía los hallazgos de cada auditoría (descuadres o ítems bajo el mínimo)
// a n. service identifica la instancia en la alerta.
func (s *Scheduler) WithNotifier(n Notifier, service string) *Scheduler {
	s.notifier = n
	s.service = service
	return s
}

// Start programa la auditoría y arranca el cron. Falla si la expresión no es válida.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunAudit(context.Background()) }); err != nil {
		return fmt.Errorf("programar auditoría %q: %w", s.spec, err)
	}
	s.log.Info().Str("cron", s.spec).Msg("scheduler iniciado")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine la ejecución en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler detenido")
}

// RunAudit concilia todos los ítems y registra los descuadres y los ítems bajo el mínimo.
// Si hay notificador y hallazgos, los envía al final.
func (s *Scheduler) RunAudit(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.auditor.AuditAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("auditoría de inventario fallida")
		return
	}
	ev := s.log.Info()
	if len(report.Unbalanced) > 0 {
		ev = s.log.Warn()
	}
	ev.Int("checked", report.Checked).
		Int("unbalanced", len(report.Unbalanced)).
		Dur("elapsed", time.Since(start)).
		Msg("auditoría de inventario completada")

	var list []dto.ReplenishmentSuggestionDTO
	if s.replenishment != nil {
		list, err = s.replenishment.GenerateReplenishmentList(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("lista de reposición fallida")
		} else if len(list) > 0 {
			s.log.Warn().Int("items", len(list)).Str("most_urgent", list[0].ItemName).Msg("ítems en o bajo el stock mínimo")
		}
	}

	if s.notifier == nil || (len(report.Unbalanced) == 0 && len(list) == 0) {
		return
	}
	alert := dto.AuditAlertDTO{
		Service:     s.service,
		GeneratedAt: time.Now().UTC(),
		Checked:     report.Checked,
		Unbalanced:  make([]dto.UnbalancedItemDTO, 0, len(report.Unbalanced)),
		LowStock:    list,
	}
	for _, r := range report.Unbalanced {
		alert.Unbalanced = append(alert.Unbalanced, dto.UnbalancedItemDTO{
			ItemID:   r.ItemID,
			ItemName: r.ItemName,
			Expected: r.Expected,
			Actual:   r.Actual,
		})
	}
	if err := s.notifier.NotifyAudit(ctx, alert); err != nil {
		s.log.Error().Err(err).Msg("notificación de auditoría fallida")
	}
}
