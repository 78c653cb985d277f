package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Protected routes run behind the auth middleware.
	Protected bool
}

// ApiHandleFunctions groups the handlers of every resource.
type ApiHandleFunctions struct {
	CategoryAPI CategoryAPI
	ProductAPI  ProductAPI
	CompanyAPI  CompanyAPI
	InvoiceAPI  InvoiceAPI
	AuthAPI     AuthAPI
}

// RouterOptions tune the engine built by NewRouter.
type RouterOptions struct {
	// Auth guards protected routes; nil leaves them open.
	Auth gin.HandlerFunc
	// UploadDir is served under /uploads when set.
	UploadDir string
	// Middleware runs before every route, e.g. otelgin.
	Middleware []gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions, opts)
}

// NewRouterWithGinEngine adds the shop routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router.Use(opts.Middleware...)
	router.MaxMultipartMemory = 8 << 20

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Protected && opts.Auth != nil {
			handlers = append([]gin.HandlerFunc{opts.Auth}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"ListCategories", http.MethodGet, "/categories", h.CategoryAPI.ListCategories, false},
		{"CountCategories", http.MethodGet, "/categories/count", h.CategoryAPI.CountCategories, false},
		{"GetCategory", http.MethodGet, "/categories/:id", h.CategoryAPI.GetCategory, false},
		{"CreateCategory", http.MethodPost, "/categories", h.CategoryAPI.CreateCategory, true},
		{"UpdateCategory", http.MethodPut, "/categories/:id", h.CategoryAPI.UpdateCategory, true},
		{"DeleteCategory", http.MethodDelete, "/categories/:id", h.CategoryAPI.DeleteCategory, true},

		{"ListProducts", http.MethodGet, "/products", h.ProductAPI.ListProducts, false},
		{"GetProduct", http.MethodGet, "/products/:id", h.ProductAPI.GetProduct, false},
		{"CreateProduct", http.MethodPost, "/products", h.ProductAPI.CreateProduct, true},
		{"UpdateProduct", http.MethodPut, "/products/:id", h.ProductAPI.UpdateProduct, true},
		{"DeleteProduct", http.MethodDelete, "/products/:id", h.ProductAPI.DeleteProduct, true},

		{"ListCompanies", http.MethodGet, "/companies", h.CompanyAPI.ListCompanies, false},
		{"GetCompany", http.MethodGet, "/companies/:id", h.CompanyAPI.GetCompany, false},
		{"CreateCompany", http.MethodPost, "/companies", h.CompanyAPI.CreateCompany, true},
		{"DeleteCompany", http.MethodDelete, "/companies/:id", h.CompanyAPI.DeleteCompany, true},

		{"ListInvoices", http.MethodGet, "/invoices", h.InvoiceAPI.ListInvoices, false},
		{"GetInvoice", http.MethodGet, "/invoices/:id", h.InvoiceAPI.GetInvoice, false},
		{"CreateInvoice", http.MethodPost, "/invoices", h.InvoiceAPI.CreateInvoice, true},

		{"Register", http.MethodPost, "/auth/register", h.AuthAPI.Register, false},
		{"Login", http.MethodPost, "/auth/login", h.AuthAPI.Login, false},
		{"Logout", http.MethodPost, "/auth/logout", h.AuthAPI.Logout, false},
	}
}
