package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
)

// CategoryAPI wires HTTP transport with the catalog categories.
type CategoryAPI struct {
	service catalogports.Service
}

func NewCategoryAPI(service catalogports.Service) CategoryAPI {
	return CategoryAPI{service: service}
}

// Get /categories
// The admin UI expects a bare array here.
func (api *CategoryAPI) ListCategories(c *gin.Context) {
	list, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromCategoryList(list))
}

// Get /categories/count
func (api *CategoryAPI) CountCategories(c *gin.Context) {
	total, err := api.service.CountCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalCategories": total})
}

// Get /categories/:id
func (api *CategoryAPI) GetCategory(c *gin.Context) {
	category, err := api.service.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": catalogmapper.FromCategory(category)})
}

// Post /categories
func (api *CategoryAPI) CreateCategory(c *gin.Context) {
	var payload catalogmapper.CategoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	category, err := api.service.CreateCategory(c.Request.Context(), payload.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category added successfully", "category": catalogmapper.FromCategory(category)})
}

// Put /categories/:id
func (api *CategoryAPI) UpdateCategory(c *gin.Context) {
	var payload catalogmapper.CategoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	category, err := api.service.RenameCategory(c.Request.Context(), c.Param("id"), payload.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": catalogmapper.FromCategory(category)})
}

// Delete /categories/:id
func (api *CategoryAPI) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	if err := api.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "id": id})
}
