package controllers

import (
	"net/http"

	"menu-import-service/middleware"
	"menu-import-service/models"
	"menu-import-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogController exposes read-only listings of the owner's catalog so a
// client can render the result of an import.
type CatalogController struct {
	products   services.ProductRepo
	categories services.CategoryRepo
	cache      *CacheManager
}

func NewCatalogController(products services.ProductRepo, categories services.CategoryRepo, cache *CacheManager) *CatalogController {
	return &CatalogController{products: products, categories: categories, cache: cache}
}

func (ctl *CatalogController) GetProducts(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var products []models.Product
	if ctl.cache != nil && ctl.cache.GetList(c.Request.Context(), ownerID, "products", &products) {
		c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
		return
	}

	products, err := ctl.products.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	if ctl.cache != nil {
		ctl.cache.SetList(c.Request.Context(), ownerID, "products", products)
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (ctl *CatalogController) GetCategories(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var categories []models.Category
	if ctl.cache != nil && ctl.cache.GetList(c.Request.Context(), ownerID, "categories", &categories) {
		c.JSON(http.StatusOK, gin.H{"categories": categories})
		return
	}

	categories, err := ctl.categories.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		zap.L().Error("failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}

	if ctl.cache != nil {
		ctl.cache.SetList(c.Request.Context(), ownerID, "categories", categories)
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
