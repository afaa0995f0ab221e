package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para agregar detalle;
// los consumidores deben compararlos con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrValidation         = errors.New("entrada inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvariantViolation = errors.New("el stock resultante sería negativo")
	ErrUnknownPrice       = errors.New("no se pudo resolver el precio unitario")
	ErrStore              = errors.New("error del almacén de documentos")
)

// IsKnown indica si err ya pertenece a una de las categorías de dominio.
func IsKnown(err error) bool {
	for _, k := range []error{
		ErrNotFound, ErrDuplicate, ErrValidation, ErrInsufficientStock,
		ErrInvariantViolation, ErrUnknownPrice, ErrStore,
	} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
