package repository

// Batch acumula escrituras para un único RunAtomic. Implementa Writer.
type Batch struct {
	writes []Write
}

// NewBatch construye un lote vacío.
func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Create(collection, id string, data Document) {
	b.writes = append(b.writes, Write{Kind: WriteCreate, Collection: collection, ID: id, Data: data.Clone()})
}

func (b *Batch) Set(collection, id string, data Document) {
	b.writes = append(b.writes, Write{Kind: WriteSet, Collection: collection, ID: id, Data: data.Clone()})
}

func (b *Batch) Update(collection, id string, fields Document) {
	b.writes = append(b.writes, Write{Kind: WriteUpdate, Collection: collection, ID: id, Data: fields.Clone()})
}

// Writes devuelve las escrituras acumuladas en orden.
func (b *Batch) Writes() []Write {
	return b.writes
}

// Len cantidad de escrituras acumuladas.
func (b *Batch) Len() int {
	return len(b.writes)
}
