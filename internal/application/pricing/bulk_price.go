package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Tipos de filtro para resolver el conjunto de productos objetivo.
const (
	FilterAll      = "all"
	FilterCategory = "category"
	FilterProduct  = "product"
)

var minPercentage = decimal.NewFromInt(-100)

// PriceFilter selecciona los productos afectados por un ajuste masivo.
type PriceFilter struct {
	Kind      string
	Category  string
	ProductID string
}

// BulkPriceEngine ajusta precios del catálogo en dos pasos: Preview sin escribir y
// Apply en un único lote atómico.
type BulkPriceEngine struct {
	store repository.DocumentStore
	log   *logger.Logger
}

// NewBulkPriceEngine construye el motor. log puede ser nil.
func NewBulkPriceEngine(store repository.DocumentStore, log *logger.Logger) *BulkPriceEngine {
	return &BulkPriceEngine{store: store, log: log.Component("pricing")}
}

// Preview devuelve los productos que afectaría el filtro, sin modificar nada.
func (e *BulkPriceEngine) Preview(ctx context.Context, filter PriceFilter) ([]*entity.Product, error) {
	return e.resolve(ctx, filter)
}

// Apply multiplica price y dealerPrice de cada producto objetivo por (1 + percentage/100).
// Los precios ausentes o inválidos no se tocan. Falla con ErrValidation si el porcentaje
// no es numérico, es menor a -100 o el filtro no resuelve ningún producto.
func (e *BulkPriceEngine) Apply(ctx context.Context, filter PriceFilter, percentage string) ([]*entity.Product, error) {
	pct, err := inventory.ParseNumber("porcentaje", percentage)
	if err != nil {
		return nil, e.reject(filter, err)
	}
	if pct.LessThan(minPercentage) {
		return nil, e.reject(filter, fmt.Errorf("%w: el porcentaje no puede ser menor a -100", domain.ErrValidation))
	}
	products, err := e.resolve(ctx, filter)
	if err != nil {
		return nil, e.reject(filter, err)
	}

	catalog := docstore.NewProductCatalog(e.store)
	now := e.store.Now()
	b := repository.NewBatch()
	for _, p := range products {
		if p.Price != nil {
			v := inventory.ApplyPercentage(*p.Price, pct)
			p.Price = &v
		}
		if p.DealerPrice != nil {
			v := inventory.ApplyPercentage(*p.DealerPrice, pct)
			p.DealerPrice = &v
		}
		catalog.StagePrices(b, p, now)
	}
	if err := e.store.RunAtomic(ctx, b.Writes()); err != nil {
		if !domain.IsKnown(err) {
			err = fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		return nil, e.reject(filter, err)
	}
	e.log.Info().
		Str("filter", filter.Kind).
		Str("category", filter.Category).
		Str("product_id", filter.ProductID).
		Str("percentage", pct.String()).
		Int("count", len(products)).
		Msg("precios actualizados")
	return products, nil
}

// resolve devuelve el conjunto objetivo; nunca vacío.
func (e *BulkPriceEngine) resolve(ctx context.Context, filter PriceFilter) ([]*entity.Product, error) {
	catalog := docstore.NewProductCatalog(e.store)
	var (
		products []*entity.Product
		err      error
	)
	switch filter.Kind {
	case FilterAll:
		products, err = catalog.List(ctx, "")
	case FilterCategory:
		category := strings.TrimSpace(filter.Category)
		if category == "" {
			return nil, fmt.Errorf("%w: categoría requerida", domain.ErrValidation)
		}
		products, err = catalog.List(ctx, category)
	case FilterProduct:
		if strings.TrimSpace(filter.ProductID) == "" {
			return nil, fmt.Errorf("%w: producto requerido", domain.ErrValidation)
		}
		var p *entity.Product
		p, err = catalog.Get(ctx, filter.ProductID)
		if p != nil {
			products = []*entity.Product{p}
		}
	default:
		return nil, fmt.Errorf("%w: filtro %q no soportado", domain.ErrValidation, filter.Kind)
	}
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: ningún producto coincide con el filtro", domain.ErrValidation)
	}
	return products, nil
}

func (e *BulkPriceEngine) reject(filter PriceFilter, err error) error {
	e.log.Warn().Err(err).Str("filter", filter.Kind).Msg("ajuste masivo de precios rechazado")
	return err
}

// FilterFromRequest adapta el body HTTP al filtro.
func FilterFromRequest(req dto.BulkPriceRequest) PriceFilter {
	return PriceFilter{
		Kind:      strings.TrimSpace(req.Filter),
		Category:  req.Category,
		ProductID: req.ProductID,
	}
}

// PreviewFromRequest vista previa para el handler HTTP.
func (e *BulkPriceEngine) PreviewFromRequest(ctx context.Context, req dto.BulkPriceRequest) (*dto.BulkPriceResponse, error) {
	products, err := e.Preview(ctx, FilterFromRequest(req))
	if err != nil {
		return nil, err
	}
	out := &dto.BulkPriceResponse{Count: len(products), Products: make([]dto.PriceChangeDTO, 0, len(products))}
	pct, pctErr := decimal.NewFromString(strings.TrimSpace(req.Percentage))
	for _, p := range products {
		change := dto.PriceChangeDTO{
			ProductID:   p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			DealerPrice: p.DealerPrice,
		}
		// con porcentaje válido la vista previa incluye los precios resultantes
		if pctErr == nil {
			if p.Price != nil {
				v := inventory.ApplyPercentage(*p.Price, pct)
				change.NewPrice = &v
			}
			if p.DealerPrice != nil {
				v := inventory.ApplyPercentage(*p.DealerPrice, pct)
				change.NewDealerPrice = &v
			}
		}
		out.Products = append(out.Products, change)
	}
	return out, nil
}

// ApplyFromRequest aplicación para el handler HTTP.
func (e *BulkPriceEngine) ApplyFromRequest(ctx context.Context, req dto.BulkPriceRequest) (*dto.BulkPriceResponse, error) {
	products, err := e.Apply(ctx, FilterFromRequest(req), req.Percentage)
	if err != nil {
		return nil, err
	}
	out := &dto.BulkPriceResponse{Count: len(products), Applied: true, Products: make([]dto.PriceChangeDTO, 0, len(products))}
	for _, p := range products {
		out.Products = append(out.Products, dto.PriceChangeDTO{
			ProductID:      p.ID,
			Name:           p.Name,
			Category:       p.Category,
			NewPrice:       p.Price,
			NewDealerPrice: p.DealerPrice,
		})
	}
	return out, nil
}
