package export

import (
	"bytes"
	"testing"
	"time"

	"go-slab-ws/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *Report {
	batch := &model.Batch{
		BatchNumber:  "B1",
		SupplierName: "Acme Quarry",
		Color:        "Black Galaxy",
		Thickness:    "2cm",
		Date:         time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		User:         &model.User{Username: "anwar"},
	}
	slabs := []model.Slab{
		{SlabNumber: 3, Length: 6, Width: 6, SqFt: 36, Grade: model.GradeC},
		{SlabNumber: 1, Length: 10, Width: 5, SqFt: 50, Grade: model.GradeA},
	}
	return NewReport(batch, slabs)
}

func TestNewReportOrdersSlabs(t *testing.T) {
	r := sampleReport()
	require.Len(t, r.Slabs, 2)
	assert.Equal(t, int64(1), r.Slabs[0].SlabNumber)
	assert.Equal(t, int64(3), r.Slabs[1].SlabNumber)
	assert.Equal(t, "anwar", r.Batch.Uploader)
	assert.Equal(t, "B1_report.xlsx", r.FileName())
}

func TestWorkbookHasTwoSheets(t *testing.T) {
	data, err := sampleReport().Workbook()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{BatchSheet, SlabsSheet}, f.GetSheetList())

	batchRows, err := f.GetRows(BatchSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"supplier_name", "batch_number", "username", "color", "thickness", "date"},
		{"Acme Quarry", "B1", "anwar", "Black Galaxy", "2cm", "2024-05-17"},
	}, batchRows)

	slabRows, err := f.GetRows(SlabsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"slab_number", "length", "width", "sq_ft", "grade"},
		{"1", "10", "5", "50", "A"},
		{"3", "6", "6", "36", "C"},
	}, slabRows)
}

func TestWorkbookWithoutSlabs(t *testing.T) {
	r := NewReport(&model.Batch{BatchNumber: "EMPTY", Date: time.Now()}, nil)
	data, err := r.Workbook()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SlabsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
