package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrSchemaMismatch  = errors.New("el archivo no tiene el esquema de columnas esperado")
	ErrRemoteCall      = errors.New("la llamada al grafo remoto no tuvo éxito")
	ErrHistoryDisabled = errors.New("historial de importaciones desactivado")
)

// SchemaError indica que faltan columnas obligatorias en el archivo de entrada.
// Es el único error fatal del pipeline: continuar dejaría todos los campos en su valor por defecto.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	return "esquema CSV inválido: faltan columnas " + strings.Join(quoted, ", ")
}

// Unwrap permite errors.Is(err, ErrSchemaMismatch).
func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }
