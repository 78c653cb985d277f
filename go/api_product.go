package shopserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
)

// ProductAPI wires HTTP transport with catalog products and the image store.
type ProductAPI struct {
	service catalogports.Service
	images  ImageStore
}

func NewProductAPI(service catalogports.Service, images ImageStore) ProductAPI {
	return ProductAPI{service: service, images: images}
}

// Get /products
// Optional categoryId narrows the list.
func (api *ProductAPI) ListProducts(c *gin.Context) {
	filter := catalogports.ProductFilter{CategoryID: strings.TrimSpace(c.Query("categoryId"))}
	list, err := api.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	products := catalogmapper.WithCategories(catalogmapper.FromProductList(list), catalogmapper.CategoryNames(categories))
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get /products/:id
func (api *ProductAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": api.present(c.Request.Context(), product)})
}

// Post /products
// Multipart form with an image file; stock is a JSON array field.
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var form catalogmapper.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, err)
		return
	}
	image, err := saveImage(c, api.images, true)
	if err != nil {
		respondError(c, err)
		return
	}
	input, err := catalogmapper.ToProductInput(form, image)
	if err != nil {
		discardImage(api.images, image)
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), input)
	if err != nil {
		discardImage(api.images, image)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": api.present(c.Request.Context(), product)})
}

// Put /products/:id
// Accepts either a JSON patch or a multipart form with an optional new image.
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var patch catalogmapper.ProductPatch
	image := ""
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var err error
		if patch, err = productPatchFromForm(c); err != nil {
			respondBadRequest(c, err)
			return
		}
		if image, err = saveImage(c, api.images, false); err != nil {
			respondError(c, err)
			return
		}
		if image != "" {
			patch.Image = &image
		}
	} else if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := api.service.UpdateProduct(c.Request.Context(), c.Param("id"), catalogmapper.ToProductPatch(patch))
	if err != nil {
		discardImage(api.images, image)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": api.present(c.Request.Context(), product)})
}

// Delete /products/:id
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	product, err := api.service.GetProduct(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := api.service.DeleteProduct(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "product": api.present(ctx, product)})
}

// present maps a product and embeds its category. A category that cannot be
// read leaves only categoryId in the response.
func (api *ProductAPI) present(ctx context.Context, product *catalogports.ProductProjection) catalogmapper.Product {
	out := catalogmapper.FromProduct(product)
	if product == nil {
		return out
	}
	category, err := api.service.GetCategory(ctx, product.Entity.CategoryID)
	if err != nil {
		return out
	}
	return out.WithCategory(catalogmapper.CategoryNames([]*catalogports.CategoryProjection{category}))
}

func productPatchFromForm(c *gin.Context) (catalogmapper.ProductPatch, error) {
	var patch catalogmapper.ProductPatch
	if v, ok := c.GetPostForm("title"); ok {
		patch.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		patch.Description = &v
	}
	if v, ok := c.GetPostForm("categoryId"); ok {
		patch.CategoryID = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return patch, errors.New("price must be a number")
		}
		patch.Price = &price
	}
	if v, ok := c.GetPostForm("stock"); ok {
		stock, err := catalogmapper.ParseStock(v)
		if err != nil {
			return patch, err
		}
		patch.Stock = &stock
	}
	return patch, nil
}
