package repository

import (
	"context"
	"time"
)

// Document es el contenido de un documento: campos planos con valores primitivos,
// decimales como texto canónico y fechas como time.Time.
type Document map[string]any

// Clone devuelve una copia superficial del documento.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Snapshot es un documento leído junto con su ID.
type Snapshot struct {
	ID   string
	Data Document
}

// Filter restringe una consulta a documentos cuyo campo Field es igual a Value.
// Los drivers comparan la representación textual del valor.
type Filter struct {
	Field string
	Value any
}

// Eq construye un filtro de igualdad.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// WriteKind tipo de operación de escritura.
type WriteKind int

const (
	// WriteCreate inserta un documento nuevo; falla con ErrDuplicate si el ID ya existe.
	WriteCreate WriteKind = iota
	// WriteSet reemplaza (o inserta) el documento completo.
	WriteSet
	// WriteUpdate fusiona campos en un documento existente; falla con ErrNotFound si no existe.
	WriteUpdate
)

// Write es una operación de escritura pendiente dentro de un lote o transacción.
type Write struct {
	Kind       WriteKind
	Collection string
	ID         string
	Data       Document
}

// Reader lectura de documentos; lo implementan tanto el almacén como una transacción abierta.
type Reader interface {
	// Get devuelve domain.ErrNotFound si el documento no existe.
	Get(ctx context.Context, collection, id string) (Snapshot, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Snapshot, error)
}

// Writer acumula escrituras que se aplican juntas (lote atómico o transacción).
type Writer interface {
	Create(collection, id string, data Document)
	Set(collection, id string, data Document)
	Update(collection, id string, fields Document)
}

// Tx es una transacción de lectura-luego-escritura. Las lecturas ven el estado confirmado
// y quedan aisladas frente a transacciones concurrentes sobre los mismos documentos;
// las escrituras se aplican al confirmar.
type Tx interface {
	Reader
	Writer
}

// DocumentStore es el contrato del almacén de documentos transaccional consumido por el motor.
// Toda mutación del motor pasa por RunAtomic o RunTransaction.
type DocumentStore interface {
	Reader
	Set(ctx context.Context, collection, id string, data Document) error
	Update(ctx context.Context, collection, id string, fields Document) error
	// RunAtomic aplica todas las escrituras o ninguna.
	RunAtomic(ctx context.Context, writes []Write) error
	// RunTransaction ejecuta fn y confirma sus escrituras si fn no devuelve error.
	// fn puede ejecutarse más de una vez si el driver reintenta por conflicto.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Now devuelve la marca de tiempo asignada por el almacén.
	Now() time.Time
}
