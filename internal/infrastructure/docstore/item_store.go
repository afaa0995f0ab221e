package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ItemStore CRUD y búsqueda por nombre de ítems de inventario.
type ItemStore struct {
	r repository.Reader
}

// NewItemStore construye el almacén de ítems. Pasar el almacén o una transacción (Reader).
func NewItemStore(r repository.Reader) *ItemStore {
	return &ItemStore{r: r}
}

// Get obtiene un ítem por ID; ErrNotFound si no existe.
func (s *ItemStore) Get(ctx context.Context, id string) (*entity.InventoryItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id del ítem requerido", domain.ErrValidation)
	}
	snap, err := s.r.Get(ctx, CollectionItems, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return itemFromDoc(snap), nil
}

// FindByName busca por nombre normalizado (trim + case fold). Devuelve nil si no existe.
func (s *ItemStore) FindByName(ctx context.Context, name string) (*entity.InventoryItem, error) {
	key := inventory.NormalizeName(name)
	if key == "" {
		return nil, nil
	}
	snaps, err := s.r.Query(ctx, CollectionItems, repository.Eq("nameKey", key))
	if err != nil {
		return nil, fmt.Errorf("find item by name: %w", err)
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	// nameKey es único; ante datos heredados duplicados gana el ID menor (Query ordena por ID).
	return itemFromDoc(snaps[0]), nil
}

// List devuelve todos los ítems ordenados por nombre.
func (s *ItemStore) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	snaps, err := s.r.Query(ctx, CollectionItems)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	list := make([]*entity.InventoryItem, 0, len(snaps))
	for _, snap := range snaps {
		list = append(list, itemFromDoc(snap))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].NameKey < list[j].NameKey })
	return list, nil
}

// itemNamespace espacio UUID de los IDs de ítem derivados del nombre.
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:inventario-ledger:inventory_items"))

// ItemID ID determinista (UUID v5) de un ítem a partir de su nombre normalizado. Dos altas con
// el mismo nombre escriben el mismo documento, por lo que el almacén rechaza la segunda con
// ErrDuplicate aunque ambas pasen FindByName a la vez.
func ItemID(nameKey string) string {
	return uuid.NewSHA1(itemNamespace, []byte(nameKey)).String()
}

// Create valida el ítem, le asigna clave de nombre e ID derivado de ella y agrega su alta
// (WriteCreate) a w. Falla con ErrValidation si el nombre está vacío o el stock es negativo,
// y con ErrDuplicate si ya existe un ítem con el mismo nombre normalizado.
func (s *ItemStore) Create(ctx context.Context, w repository.Writer, item *entity.InventoryItem, now time.Time) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return fmt.Errorf("%w: nombre del ítem requerido", domain.ErrValidation)
	}
	if item.Stock.IsNegative() {
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrValidation)
	}
	if item.CostPerUnit.IsNegative() || item.StockMinimum.IsNegative() {
		return fmt.Errorf("%w: costo y stock mínimo no pueden ser negativos", domain.ErrValidation)
	}
	existing, err := s.FindByName(ctx, item.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: ya existe el ítem %q", domain.ErrDuplicate, existing.Name)
	}
	item.NameKey = inventory.NormalizeName(item.Name)
	item.ID = ItemID(item.NameKey)
	item.CreatedAt = now
	item.UpdatedAt = now
	w.Create(CollectionItems, item.ID, itemToDoc(item))
	return nil
}

// StageStock agrega a w la actualización de stock y costo del ítem.
func (s *ItemStore) StageStock(w repository.Writer, item *entity.InventoryItem, now time.Time) {
	item.UpdatedAt = now
	w.Update(CollectionItems, item.ID, repository.Document{
		"stock":       decimalValue(item.Stock),
		"costPerUnit": decimalValue(item.CostPerUnit),
		"updatedAt":   now,
	})
}

func itemToDoc(item *entity.InventoryItem) repository.Document {
	return repository.Document{
		"name":         item.Name,
		"nameKey":      item.NameKey,
		"sku":          item.SKU,
		"category":     item.Category,
		"unit":         item.Unit,
		"stock":        decimalValue(item.Stock),
		"stockMinimum": decimalValue(item.StockMinimum),
		"costPerUnit":  decimalValue(item.CostPerUnit),
		"supplierName": item.SupplierName,
		"initialStock": decimalValue(item.InitialStock),
		"createdAt":    item.CreatedAt,
		"updatedAt":    item.UpdatedAt,
	}
}

func itemFromDoc(snap repository.Snapshot) *entity.InventoryItem {
	d := snap.Data
	item := &entity.InventoryItem{
		ID:           snap.ID,
		Name:         str(d, "name"),
		NameKey:      str(d, "nameKey"),
		SKU:          str(d, "sku"),
		Category:     str(d, "category"),
		Unit:         str(d, "unit"),
		Stock:        num(d, "stock"),
		StockMinimum: num(d, "stockMinimum"),
		CostPerUnit:  num(d, "costPerUnit"),
		SupplierName: str(d, "supplierName"),
		InitialStock: num(d, "initialStock"),
		CreatedAt:    timestamp(d, "createdAt"),
		UpdatedAt:    timestamp(d, "updatedAt"),
	}
	if item.NameKey == "" {
		item.NameKey = inventory.NormalizeName(item.Name)
	}
	return item
}
