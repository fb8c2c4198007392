// Package export renders a batch report as an .xlsx workbook with a
// "Batch" sheet and a "Slabs" sheet.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"go-slab-ws/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	BatchSheet = "Batch"
	SlabsSheet = "Slabs"
)

var (
	batchHeader = []interface{}{"supplier_name", "batch_number", "username", "color", "thickness", "date"}
	slabsHeader = []interface{}{"slab_number", "length", "width", "sq_ft", "grade"}
)

// BatchRow is the batch metadata joined with the uploader's username
type BatchRow struct {
	SupplierName string    `json:"supplier_name"`
	BatchNumber  string    `json:"batch_number"`
	Uploader     string    `json:"username"`
	Color        string    `json:"color"`
	Thickness    string    `json:"thickness"`
	Date         time.Time `json:"date"`
}

type SlabRow struct {
	SlabNumber int64       `json:"slab_number"`
	Length     float64     `json:"length"`
	Width      float64     `json:"width"`
	SqFt       float64     `json:"sq_ft"`
	Grade      model.Grade `json:"grade"`
}

type Report struct {
	Batch BatchRow  `json:"batch"`
	Slabs []SlabRow `json:"slabs"`
}

// NewReport projects a batch (with User preloaded) and its slabs.
// Slabs come out ordered by slab number regardless of input order.
func NewReport(batch *model.Batch, slabs []model.Slab) *Report {
	r := &Report{
		Batch: BatchRow{
			SupplierName: batch.SupplierName,
			BatchNumber:  batch.BatchNumber,
			Color:        batch.Color,
			Thickness:    batch.Thickness,
			Date:         batch.Date,
		},
		Slabs: make([]SlabRow, len(slabs)),
	}
	if batch.User != nil {
		r.Batch.Uploader = batch.User.Username
	}
	for i, s := range slabs {
		r.Slabs[i] = SlabRow{SlabNumber: s.SlabNumber, Length: s.Length, Width: s.Width, SqFt: s.SqFt, Grade: s.Grade}
	}
	sort.Slice(r.Slabs, func(i, j int) bool { return r.Slabs[i].SlabNumber < r.Slabs[j].SlabNumber })
	return r
}

func (r *Report) FileName() string {
	return fmt.Sprintf("%s_report.xlsx", r.Batch.BatchNumber)
}

// Workbook writes the two sheets and returns the encoded file
func (r *Report) Workbook() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), BatchSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SlabsSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	b := r.Batch
	batchRow := []interface{}{b.SupplierName, b.BatchNumber, b.Uploader, b.Color, b.Thickness, b.Date.Format("2006-01-02")}
	if err := writeRows(f, BatchSheet, batchHeader, [][]interface{}{batchRow}); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(r.Slabs))
	for i, s := range r.Slabs {
		rows[i] = []interface{}{s.SlabNumber, s.Length, s.Width, s.SqFt, string(s.Grade)}
	}
	if err := writeRows(f, SlabsSheet, slabsHeader, rows); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
