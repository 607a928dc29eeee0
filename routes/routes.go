package routes

import (
	"menu-import-service/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, importCtl *controllers.ImportController, catalogCtl *controllers.CatalogController, auth gin.HandlerFunc, importLimiter gin.HandlerFunc) {
	menu := r.Group("/menu", auth)
	{
		menu.POST("/import", importLimiter, importCtl.ImportMenu)
		menu.GET("/products", catalogCtl.GetProducts)
		menu.GET("/categories", catalogCtl.GetCategories)
	}
}
