package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductService is the product side of the catalog
type ProductService interface {
	List(ctx context.Context, filter catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error)
	ListAll(ctx context.Context, filter catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	GetAny(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
}

// CategoryService is the category side of the catalog
type CategoryService interface {
	List(ctx context.Context, includeInactive bool) ([]catalogapp.CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	Create(ctx context.Context, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error)
}

// ImageService presigns product image uploads
type ImageService interface {
	PresignUpload(ctx context.Context, req catalogapp.ImageUploadRequest) (*catalog.PresignedUpload, error)
	Delete(ctx context.Context, key string) error
}

// CatalogHandler serves the public catalog and its admin maintenance
type CatalogHandler struct {
	BaseHandler
	products   ProductService
	categories CategoryService
	images     ImageService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products ProductService, categories CategoryService, images ImageService) *CatalogHandler {
	return &CatalogHandler{
		products:   products,
		categories: categories,
		images:     images,
	}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	h.listProducts(c, h.products.List)
}

// ListAllProducts handles GET /admin/products, inactive products included
func (h *CatalogHandler) ListAllProducts(c *gin.Context) {
	h.listProducts(c, h.products.ListAll)
}

func (h *CatalogHandler) listProducts(c *gin.Context, list func(context.Context, catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error)) {
	var filter catalogapp.ProductListFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := list(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	h.getProduct(c, h.products.Get)
}

// GetAnyProduct handles GET /admin/products/:id
func (h *CatalogHandler) GetAnyProduct(c *gin.Context) {
	h.getProduct(c, h.products.GetAny)
}

func (h *CatalogHandler) getProduct(c *gin.Context, get func(context.Context, uuid.UUID) (*catalogapp.ProductResponse, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	product, err := get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// CreateProduct handles POST /admin/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ActivateProduct handles POST /admin/products/:id/activate
func (h *CatalogHandler) ActivateProduct(c *gin.Context) {
	h.getProduct(c, h.products.Activate)
}

// DeactivateProduct handles POST /admin/products/:id/deactivate
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	h.getProduct(c, h.products.Deactivate)
}

// ListCategories handles GET /categories, active only
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	h.listCategories(c, false)
}

// ListAllCategories handles GET /admin/categories
func (h *CatalogHandler) ListAllCategories(c *gin.Context) {
	h.listCategories(c, true)
}

func (h *CatalogHandler) listCategories(c *gin.Context, includeInactive bool) {
	categories, err := h.categories.List(c.Request.Context(), includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetCategory handles GET /categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// CreateCategory handles POST /admin/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// PresignImageUpload handles POST /admin/images/presign
func (h *CatalogHandler) PresignImageUpload(c *gin.Context) {
	var req catalogapp.ImageUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	upload, err := h.images.PresignUpload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, upload)
}

type deleteImageQuery struct {
	Key string `form:"key" binding:"required,max=512"`
}

// DeleteImage handles DELETE /admin/images?key=
func (h *CatalogHandler) DeleteImage(c *gin.Context) {
	var q deleteImageQuery
	if !bindQuery(c, &q) {
		return
	}
	if err := h.images.Delete(c.Request.Context(), q.Key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
