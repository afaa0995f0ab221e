package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestClasificacionDeErrores(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		unique    bool
		retryable bool
	}{
		{"único", &pgconn.PgError{Code: "23505"}, true, false},
		{"llave foránea", &pgconn.PgError{Code: "23503"}, false, false},
		{"serialización", &pgconn.PgError{Code: "40001"}, false, true},
		{"deadlock envuelto", fmt.Errorf("%w: %w", domain.ErrStore, &pgconn.PgError{Code: "40P01"}), false, true},
		{"no es de postgres", errors.New("boom"), false, false},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.retryable, isRetryable(tt.err))
		})
	}
}
