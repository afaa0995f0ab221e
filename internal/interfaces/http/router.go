package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/finance"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/pricing"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator      *inventory.TransactionCoordinator
	Query            *inventory.QueryUseCase
	Reconciliation   *inventory.ReconciliationUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	ReplenishmentPDF *inventory.ReplenishmentPDFUseCase
	Pricing          *pricing.BulkPriceEngine
	Finance          *finance.UseCase
	// JWTSecret vacío deja la API sin autenticación (la protege la aplicación que la hospeda).
	JWTSecret string
	// JWTIssuer si no está vacío, solo se aceptan tokens de ese emisor.
	JWTIssuer string
}

// ErrIssuerWithoutSecret JWTIssuer configurado sin JWTSecret: la API quedaría abierta.
var ErrIssuerWithoutSecret = errors.New("JWT_ISSUER configurado sin JWT_SECRET")

// Router registra las rutas de la API. Falla si la configuración de autenticación no es válida;
// en ese caso no registra ninguna ruta.
func Router(app *fiber.App, deps RouterDeps) error {
	var verifier *jwt.Verifier
	switch {
	case deps.JWTSecret != "":
		v, err := jwt.NewVerifier(deps.JWTSecret, deps.JWTIssuer)
		if err != nil {
			return fmt.Errorf("verificador JWT: %w", err)
		}
		verifier = v
	case deps.JWTIssuer != "":
		return ErrIssuerWithoutSecret
	}

	api := app.Group("/api")
	if verifier != nil {
		api.Use(AuthMiddleware(verifier))
	}

	// Inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Coordinator, deps.Query, deps.Reconciliation, deps.Replenishment, deps.ReplenishmentPDF)
	invGroup.Post("/items", inventoryHandler.CreateItem)
	invGroup.Get("/items", inventoryHandler.ListItems)
	invGroup.Get("/items/:id", inventoryHandler.GetItem)
	invGroup.Post("/restock", inventoryHandler.Restock)
	invGroup.Post("/items/:id/egress", inventoryHandler.Egress)
	invGroup.Post("/items/:id/adjustment", inventoryHandler.Adjustment)
	invGroup.Get("/items/:id/movements", inventoryHandler.Movements)
	invGroup.Get("/items/:id/reconciliation", inventoryHandler.Reconciliation)
	invGroup.Get("/audit", inventoryHandler.Audit)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/low-stock/pdf", inventoryHandler.LowStockPDF)

	// Recetas y entregas de terminados
	recipes := api.Group("/recipes")
	recipeHandler := NewRecipeHandler(deps.Coordinator, deps.Query)
	recipes.Get("/", recipeHandler.List)
	recipes.Post("/:id/deliveries", recipeHandler.Deliver)

	// Precios
	pricingGroup := api.Group("/pricing")
	pricingHandler := NewPricingHandler(deps.Pricing)
	pricingGroup.Post("/bulk/preview", pricingHandler.Preview)
	pricingGroup.Post("/bulk/apply", pricingHandler.Apply)

	// Finanzas
	financeGroup := api.Group("/finance")
	financeHandler := NewFinanceHandler(deps.Finance)
	financeGroup.Get("/summary", financeHandler.Summary)
	financeGroup.Get("/records", financeHandler.Records)
	return nil
}
