package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetProductsExport streams every product as a spreadsheet; ?format=csv selects CSV over XLSX.
func (h *ProductHandler) GetProductsExport(c *gin.Context) {
	ctx := c.Request.Context()
	stamp := time.Now().UTC().Format("20060102")

	var (
		data        []byte
		err         error
		contentType string
		filename    string
	)
	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		data, err = h.Exporter.XLSX(ctx)
		contentType = xlsxContentType
		filename = fmt.Sprintf("products_%s.xlsx", stamp)
	case "csv":
		data, err = h.Exporter.CSV(ctx)
		contentType = "text/csv; charset=utf-8"
		filename = fmt.Sprintf("products_%s.csv", stamp)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or csv"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to fetch products")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
