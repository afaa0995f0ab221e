package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductCatalog acceso al catálogo de precios. El alta y edición de productos
// pertenecen a la capa de UI; aquí solo se leen y se actualizan precios.
type ProductCatalog struct {
	r repository.Reader
}

// NewProductCatalog construye el catálogo. Pasar el almacén o una transacción (Reader).
func NewProductCatalog(r repository.Reader) *ProductCatalog {
	return &ProductCatalog{r: r}
}

// Get obtiene un producto por ID; ErrNotFound si no existe.
func (c *ProductCatalog) Get(ctx context.Context, id string) (*entity.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id del producto requerido", domain.ErrValidation)
	}
	snap, err := c.r.Get(ctx, CollectionProducts, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return productFromDoc(snap), nil
}

// List devuelve todos los productos, o los de una categoría si category no está vacía.
func (c *ProductCatalog) List(ctx context.Context, category string) ([]*entity.Product, error) {
	var filters []repository.Filter
	if category != "" {
		filters = append(filters, repository.Eq("category", category))
	}
	snaps, err := c.r.Query(ctx, CollectionProducts, filters...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(snaps))
	for _, snap := range snaps {
		list = append(list, productFromDoc(snap))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// FindByName busca un producto cuyo nombre normalizado coincida con name. Devuelve nil si no hay.
// Busca por igualdad sobre nameKey, así dentro de una transacción solo se bloquea la fila
// encontrada. Los documentos escritos por la UI sin nameKey se resuelven recorriendo el catálogo.
func (c *ProductCatalog) FindByName(ctx context.Context, name string) (*entity.Product, error) {
	key := inventory.NormalizeName(name)
	if key == "" {
		return nil, nil
	}
	snaps, err := c.r.Query(ctx, CollectionProducts, repository.Eq("nameKey", key))
	if err != nil {
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	if len(snaps) > 0 {
		return productFromDoc(snaps[0]), nil
	}

	snaps, err = c.r.Query(ctx, CollectionProducts)
	if err != nil {
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	for _, snap := range snaps {
		if _, ok := snap.Data["nameKey"]; ok {
			continue
		}
		if inventory.NormalizeName(str(snap.Data, "name")) == key {
			return productFromDoc(snap), nil
		}
	}
	return nil, nil
}

// StagePrices agrega a w la actualización de Price y DealerPrice; los nil no se tocan.
// También escribe nameKey, que completa los documentos que aún no la tienen.
func (c *ProductCatalog) StagePrices(w repository.Writer, p *entity.Product, now time.Time) {
	fields := repository.Document{"updatedAt": now}
	if key := inventory.NormalizeName(p.Name); key != "" {
		fields["nameKey"] = key
	}
	if p.Price != nil {
		fields["price"] = decimalValue(*p.Price)
	}
	if p.DealerPrice != nil {
		fields["dealerPrice"] = decimalValue(*p.DealerPrice)
	}
	p.UpdatedAt = now
	w.Update(CollectionProducts, p.ID, fields)
}

// ProductDocument documento completo de un producto; lo usa el importador de catálogo.
func ProductDocument(p *entity.Product) repository.Document {
	doc := repository.Document{
		"name":      p.Name,
		"nameKey":   inventory.NormalizeName(p.Name),
		"category":  p.Category,
		"updatedAt": p.UpdatedAt,
	}
	if p.Price != nil {
		doc["price"] = decimalValue(*p.Price)
	}
	if p.DealerPrice != nil {
		doc["dealerPrice"] = decimalValue(*p.DealerPrice)
	}
	return doc
}

func productFromDoc(snap repository.Snapshot) *entity.Product {
	d := snap.Data
	p := &entity.Product{
		ID:        snap.ID,
		Name:      str(d, "name"),
		Category:  str(d, "category"),
		UpdatedAt: timestamp(d, "updatedAt"),
	}
	if price, ok := number(d, "price"); ok {
		p.Price = &price
	}
	if dealer, ok := number(d, "dealerPrice"); ok {
		p.DealerPrice = &dealer
	}
	return p
}
