package controllers

import (
	"strconv"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListProducts returns active catalog products with optional search, category
// filter and sorting.
func (ctrl *Controller) ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")

	pagination := utils.NewPagination(c)
	query := ctrl.DB.Model(&models.Product{}).Where("is_active = ?", true)

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR brand LIKE ? OR description LIKE ?", like, like, like)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	switch c.DefaultQuery("sort", "newest") {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to list products", nil)
		return
	}
	pagination.SetTotal(total)

	var products []models.Product
	if err := query.Preload("Packs").Preload("Category").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to list products", nil)
		return
	}

	utils.SendPaginatedResponse(c, products, pagination)
}

// GetProductDetails returns one active product with its packs, category and
// nutrition facts.
func (ctrl *Controller) GetProductDetails(c *gin.Context) {
	utils.LogInfo("GetProductDetails called")

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid product id", nil)
		return
	}

	var product models.Product
	err = ctrl.DB.Preload("Packs").Preload("Category").First(&product, productID).Error
	if err == gorm.ErrRecordNotFound {
		utils.NotFound(c, "Product not found")
		return
	}
	if err != nil {
		utils.LogError("Failed to fetch product %d: %v", productID, err)
		utils.InternalServerError(c, "Failed to get product", nil)
		return
	}
	if !product.IsActive {
		utils.NotFound(c, "Product not found")
		return
	}

	utils.Success(c, "Product retrieved", product)
}
