package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// DownloadNutritionReport renders a product's nutrition facts as a PDF label.
func (ctrl *Controller) DownloadNutritionReport(c *gin.Context) {
	utils.LogInfo("DownloadNutritionReport called")

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid product id", nil)
		return
	}

	var product models.Product
	if err := ctrl.DB.Preload("Category").First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Product not found")
			return
		}
		utils.LogError("Failed to load product %d: %v", productID, err)
		utils.InternalServerError(c, "Failed to generate nutrition report", nil)
		return
	}
	if !product.IsActive {
		utils.NotFound(c, "Product not found")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "Nutrition Facts")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(100, 8, product.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	if product.Brand != "" {
		pdf.Cell(100, 8, "Brand: "+product.Brand)
		pdf.Ln(8)
	}
	if product.Category.Name != "" {
		pdf.Cell(100, 8, "Category: "+product.Category.Name)
		pdf.Ln(8)
	}
	if product.ServingSize != "" {
		pdf.Cell(100, 8, "Serving Size: "+product.ServingSize)
		pdf.Ln(10)
	}

	// Facts table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Nutrient", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Per Serving", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	rows := []struct {
		label string
		value float64
		unit  string
	}{
		{"Calories", product.Calories, "kcal"},
		{"Protein", product.Protein, "g"},
		{"Carbohydrates", product.Carbs, "g"},
		{"Fat", product.Fat, "g"},
		{"Fiber", product.Fiber, "g"},
		{"Sugar", product.Sugar, "g"},
	}
	for _, row := range rows {
		pdf.CellFormat(80, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.1f %s", row.value, row.unit), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if product.Ingredients != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(100, 8, "Ingredients")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, product.Ingredients, "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 8, "Values are approximate and may vary by batch.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render nutrition report for product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to generate nutrition report", nil)
		return
	}
	utils.LogInfo("Nutrition report generated for product %d", product.ID)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=nutrition_%d.pdf", product.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
