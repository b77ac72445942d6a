package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	products   *MockProductService
	categories *MockCategoryService
	images     *MockImageService
	handler    *CatalogHandler
}

func newCatalogFixture() catalogFixture {
	f := catalogFixture{
		products:   new(MockProductService),
		categories: new(MockCategoryService),
		images:     new(MockImageService),
	}
	f.handler = NewCatalogHandler(f.products, f.categories, f.images)
	return f
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	f := newCatalogFixture()
	r := newRouter(nil)
	r.GET("/products", f.handler.ListProducts)

	categoryID := uuid.New()
	page := shared.NewPaginated([]catalogapp.ProductResponse{
		{ID: uuid.New(), Name: "Masala Chai", Price: decimal.RequireFromString("4.50")},
	}, 41, 2, 20)
	f.products.On("List", mock.Anything, mock.MatchedBy(func(filter catalogapp.ProductListFilter) bool {
		return filter.Search == "chai" && filter.Page == 2 && filter.CategoryID != nil && *filter.CategoryID == categoryID
	})).Return(page, nil)

	w := perform(r, http.MethodGet, "/products?search=chai&page=2&category_id="+categoryID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	var items []catalogapp.ProductResponse
	decodeData(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Masala Chai", items[0].Name)
	f.products.AssertExpectations(t)
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	f := newCatalogFixture()
	r := newRouter(nil)
	r.GET("/products/:id", f.handler.GetProduct)

	hidden := uuid.New()
	f.products.On("Get", mock.Anything, hidden).Return(nil, shared.NewDomainError(shared.CodeNotFound, "Product not found"))

	w := perform(r, http.MethodGet, "/products/"+hidden.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))

	w = perform(r, http.MethodGet, "/products/chai", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_AdminProducts(t *testing.T) {
	f := newCatalogFixture()
	r := newRouter(adminClaims())
	r.POST("/admin/products", f.handler.CreateProduct)
	r.POST("/admin/products/:id/deactivate", f.handler.DeactivateProduct)

	created := &catalogapp.ProductResponse{ID: uuid.New(), Name: "Filter Coffee", IsActive: true, CreatedAt: time.Now()}
	f.products.On("Create", mock.Anything, mock.MatchedBy(func(req catalogapp.CreateProductRequest) bool {
		return req.Name == "Filter Coffee" && req.Price.Equal(decimal.RequireFromString("6.25"))
	})).Return(created, nil)
	f.products.On("Deactivate", mock.Anything, created.ID).Return(&catalogapp.ProductResponse{ID: created.ID, IsActive: false}, nil)

	w := perform(r, http.MethodPost, "/admin/products", `{"name":"Filter Coffee","price":"6.25","stock_quantity":12}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = perform(r, http.MethodPost, "/admin/products/"+created.ID.String()+"/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got catalogapp.ProductResponse
	decodeData(t, w, &got)
	assert.False(t, got.IsActive)

	w = perform(r, http.MethodPost, "/admin/products", `{"name":"","stock_quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.products.AssertExpectations(t)
}

func TestCatalogHandler_Categories(t *testing.T) {
	f := newCatalogFixture()
	r := newRouter(nil)
	r.GET("/categories", f.handler.ListCategories)
	r.GET("/admin/categories", f.handler.ListAllCategories)

	f.categories.On("List", mock.Anything, false).Return([]catalogapp.CategoryResponse{{Name: "Tea"}}, nil)
	f.categories.On("List", mock.Anything, true).Return([]catalogapp.CategoryResponse{{Name: "Tea"}, {Name: "Retired"}}, nil)

	var got []catalogapp.CategoryResponse
	decodeData(t, perform(r, http.MethodGet, "/categories", nil), &got)
	assert.Len(t, got, 1)

	decodeData(t, perform(r, http.MethodGet, "/admin/categories", nil), &got)
	assert.Len(t, got, 2)
}

func TestCatalogHandler_Images(t *testing.T) {
	f := newCatalogFixture()
	r := newRouter(adminClaims())
	r.POST("/admin/images/presign", f.handler.PresignImageUpload)
	r.DELETE("/admin/images", f.handler.DeleteImage)

	f.images.On("PresignUpload", mock.Anything, mock.MatchedBy(func(req catalogapp.ImageUploadRequest) bool {
		return req.FileName == "chai.png" && req.ContentType == "image/png"
	})).Return(&catalog.PresignedUpload{Key: "products/unassigned/abc.png", UploadURL: "https://s3/put"}, nil)
	f.images.On("Delete", mock.Anything, "products/unassigned/abc.png").Return(nil)
	f.images.On("Delete", mock.Anything, "elsewhere/x.png").Return(shared.NewValidationError("Not a product image key"))

	w := perform(r, http.MethodPost, "/admin/images/presign", `{"file_name":"chai.png","content_type":"image/png"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var upload catalog.PresignedUpload
	decodeData(t, w, &upload)
	assert.Equal(t, "https://s3/put", upload.UploadURL)

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodDelete, "/admin/images?key=products/unassigned/abc.png", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodDelete, "/admin/images?key=elsewhere/x.png", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodDelete, "/admin/images", nil).Code)
}

func TestCatalogHandler_StorageNotConfigured(t *testing.T) {
	f := newCatalogFixture()
	r := newRouter(adminClaims())
	r.POST("/admin/images/presign", f.handler.PresignImageUpload)
	f.images.On("PresignUpload", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError(shared.CodeStorageNotConfigured, "Image storage is not configured"))

	w := perform(r, http.MethodPost, "/admin/images/presign", `{"file_name":"chai.png","content_type":"image/png"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrCodeStorageNotConfigured, errorCode(t, w))
}
