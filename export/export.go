// Package export renders the product catalog as a downloadable spreadsheet.
package export

import (
	"bytes"
	"context"
	"strconv"

	"catalog-backend/apperr"
	"catalog-backend/logger"
	"catalog-backend/models"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

const SheetName = "Products List"

// Header is the column order of every export.
var Header = []string{"ID", "Name", "Price", "Description", "Brand", "Rating", "Quantity", "Subcategory"}

type ProductSource interface {
	FindAll(ctx context.Context) ([]models.Product, error)
}

// Row is one exported product.
type Row struct {
	ID          string `csv:"ID"`
	Name        string `csv:"Name"`
	Price       string `csv:"Price"`
	Description string `csv:"Description"`
	Brand       string `csv:"Brand"`
	Rating      string `csv:"Rating"`
	Quantity    string `csv:"Quantity"`
	Subcategory string `csv:"Subcategory"`
}

func newRow(p models.Product) Row {
	rating := ""
	if p.Rating != nil {
		rating = formatFloat(*p.Rating)
	}
	return Row{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       formatFloat(p.Price),
		Description: p.Description,
		Brand:       p.Brand,
		Rating:      rating,
		Quantity:    strconv.Itoa(p.Quantity),
		Subcategory: p.SubcategoryName(),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type Exporter struct {
	products ProductSource
	log      *zap.Logger

	write func(*excelize.File) (*bytes.Buffer, error)
}

func NewExporter(products ProductSource, log *zap.Logger) *Exporter {
	if log == nil {
		log = logger.Named("export")
	}
	return &Exporter{
		products: products,
		log:      log,
		write:    func(f *excelize.File) (*bytes.Buffer, error) { return f.WriteToBuffer() },
	}
}

// XLSX renders every product into one sheet: a header row, then one row per product.
// Serialization failures return *apperr.ExportError and no bytes.
func (e *Exporter) XLSX(ctx context.Context) ([]byte, error) {
	products, err := e.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetName)

	for col, title := range Header {
		f.SetCellValue(SheetName, cell(col, 1), title)
	}
	if style, err := f.NewStyle(`{"font":{"bold":true}}`); err == nil {
		f.SetCellStyle(SheetName, cell(0, 1), cell(len(Header)-1, 1), style)
	}

	for i, p := range products {
		r := i + 2
		f.SetCellValue(SheetName, cell(0, r), p.ID.String())
		f.SetCellValue(SheetName, cell(1, r), p.Name)
		f.SetCellValue(SheetName, cell(2, r), p.Price)
		f.SetCellValue(SheetName, cell(3, r), p.Description)
		f.SetCellValue(SheetName, cell(4, r), p.Brand)
		if p.Rating != nil {
			f.SetCellValue(SheetName, cell(5, r), *p.Rating)
		} else {
			f.SetCellValue(SheetName, cell(5, r), "")
		}
		f.SetCellValue(SheetName, cell(6, r), p.Quantity)
		f.SetCellValue(SheetName, cell(7, r), p.SubcategoryName())
	}
	f.SetColWidth(SheetName, "A", "A", 38)
	f.SetColWidth(SheetName, "B", "H", 18)

	buf, err := e.write(f)
	if err != nil {
		e.log.Error("xlsx export failed", zap.Error(err))
		return nil, &apperr.ExportError{Err: err}
	}

	e.log.Info("xlsx export completed", zap.Int("products", len(products)))
	return buf.Bytes(), nil
}

// CSV renders the same columns as XLSX.
func (e *Exporter) CSV(ctx context.Context) ([]byte, error) {
	products, err := e.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, newRow(p))
	}

	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		e.log.Error("csv export failed", zap.Error(err))
		return nil, &apperr.ExportError{Err: err}
	}

	e.log.Info("csv export completed", zap.Int("products", len(products)))
	return data, nil
}

// cell converts zero-based column and one-based row to an A1 reference.
func cell(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}
