package ingest_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain"
)

func TestLoader_ConservaOrdenYCantidad(t *testing.T) {
	loader := ingest.NewLoader(ingest.DefaultColumns())

	records, stats, err := loader.Load(bytes.NewReader(threeRecords()))
	require.NoError(t, err)
	require.Len(t, records, 3, "una InvoiceRecord por fila de datos")

	assert.Equal(t, "INV/001", records[0].InvoiceNo)
	assert.Equal(t, "INV/002", records[1].InvoiceNo)
	assert.Equal(t, "INV/003", records[2].InvoiceNo)
	assert.True(t, decimal.NewFromInt(2_200_000).Equal(records[1].Total))
	assert.True(t, decimal.NewFromInt(200_000).Equal(records[1].Tax))
	assert.True(t, records[1].IsUnpaid())
	assert.Zero(t, stats.MalformedAmounts)
}

func TestLoader_ToleraBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, threeRecords()...)

	records, _, err := ingest.NewLoader(ingest.DefaultColumns()).Load(bytes.NewReader(data))
	require.NoError(t, err, "el BOM no debe romper el encabezado")
	assert.Len(t, records, 3)
}

func TestLoader_MontoInvalidoNoAbortaLaFila(t *testing.T) {
	data := buildCSV(
		row{no: "X1", customer: "C", total: "abc", due: "", tax: "1,000"},
		row{no: "X2", customer: "C", total: `"2,500"`},
	)

	records, stats, err := ingest.NewLoader(ingest.DefaultColumns()).Load(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].Total.IsZero())
	assert.True(t, decimal.NewFromInt(1000).Equal(records[0].Tax))
	assert.True(t, decimal.NewFromInt(2500).Equal(records[1].Total))
	assert.Equal(t, 1, stats.MalformedAmounts)
	assert.Positive(t, stats.EmptyAmounts)
}

func TestLoader_FilaCortaUsaCeldasVacias(t *testing.T) {
	data := strings.Join(csvHeader(), ",") + "\nINV/9,Cliente\n"

	records, _, err := ingest.NewLoader(ingest.DefaultColumns()).Load(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Cliente", records[0].Customer)
	assert.Empty(t, records[0].DueDate)
	assert.True(t, records[0].AmountDue.IsZero())
}

func TestLoader_ColumnaFaltanteEsSchemaError(t *testing.T) {
	header := csvHeader()
	data := strings.Join(header[:len(header)-2], ",") + "\na,b,c,d,e,f,g,h,i\n"

	records, _, err := ingest.NewLoader(ingest.DefaultColumns()).Load(strings.NewReader(data))
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))

	var schemaErr *domain.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{header[len(header)-2], header[len(header)-1]}, schemaErr.Missing)
}

func TestLoader_EntradaVacia(t *testing.T) {
	records, _, err := ingest.NewLoader(ingest.DefaultColumns()).Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoader_SoloEncabezado(t *testing.T) {
	records, _, err := ingest.NewLoader(ingest.DefaultColumns()).Load(bytes.NewReader(buildCSV()))
	require.NoError(t, err)
	assert.Empty(t, records)
}
