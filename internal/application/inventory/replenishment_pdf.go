package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ReplenishmentPDFGenerator genera la representación imprimible de la lista de reposición.
type ReplenishmentPDFGenerator interface {
	GenerateReplenishmentPDF(ctx context.Context, list []dto.ReplenishmentSuggestionDTO, generatedAt time.Time) ([]byte, error)
}

// ReplenishmentPDFUseCase arma el PDF de la lista de reposición para enviar a compras.
type ReplenishmentPDFUseCase struct {
	replenishment *ReplenishmentUseCase
	generator     ReplenishmentPDFGenerator
}

// NewReplenishmentPDFUseCase construye el caso de uso.
func NewReplenishmentPDFUseCase(replenishment *ReplenishmentUseCase, generator ReplenishmentPDFGenerator) *ReplenishmentPDFUseCase {
	return &ReplenishmentPDFUseCase{replenishment: replenishment, generator: generator}
}

// DownloadReplenishmentPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
// Una lista vacía también genera documento (sin filas).
func (uc *ReplenishmentPDFUseCase) DownloadReplenishmentPDF(ctx context.Context, generatedAt time.Time) (pdfBytes []byte, filename string, err error) {
	list, err := uc.replenishment.GenerateReplenishmentList(ctx)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateReplenishmentPDF(ctx, list, generatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("reposicion_%s.pdf", generatedAt.Format("20060102"))
	return pdfBytes, filename, nil
}
