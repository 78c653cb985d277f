package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	companymapper "github.com/Apurer/clothes-shop-api/internal/domains/companies/adapters/http/mapper"
	companyports "github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
)

// CompanyAPI wires HTTP transport with supplier companies.
type CompanyAPI struct {
	service companyports.Service
	images  ImageStore
}

func NewCompanyAPI(service companyports.Service, images ImageStore) CompanyAPI {
	return CompanyAPI{service: service, images: images}
}

// Get /companies
func (api *CompanyAPI) ListCompanies(c *gin.Context) {
	list, err := api.service.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companymapper.FromCompanyList(list)})
}

// Get /companies/:id
func (api *CompanyAPI) GetCompany(c *gin.Context) {
	company, err := api.service.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": companymapper.FromCompany(company)})
}

// Post /companies
func (api *CompanyAPI) CreateCompany(c *gin.Context) {
	var form companymapper.CompanyForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, err)
		return
	}
	image, err := saveImage(c, api.images, true)
	if err != nil {
		respondError(c, err)
		return
	}
	company, err := api.service.CreateCompany(c.Request.Context(), companymapper.ToCompanyInput(form, image))
	if err != nil {
		discardImage(api.images, image)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Company added successfully", "company": companymapper.FromCompany(company)})
}

// Delete /companies/:id
func (api *CompanyAPI) DeleteCompany(c *gin.Context) {
	id := c.Param("id")
	if err := api.service.DeleteCompany(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully", "id": id})
}
