package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sneakpeak/storefront/internal/catalog"
	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/usecase/product"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, prod *domain.Product) error {
	args := m.Called(ctx, prod)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, c catalog.Criteria) ([]*domain.Product, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, prod *domain.Product) error {
	args := m.Called(ctx, prod)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductCache is a mock implementation of product.Cache
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) GetCatalogPage(ctx context.Context, cr catalog.Criteria) (*domain.ProductPage, error) {
	args := m.Called(ctx, cr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPage), args.Error(1)
}

func (m *MockProductCache) SetCatalogPage(ctx context.Context, cr catalog.Criteria, page *domain.ProductPage) error {
	args := m.Called(ctx, cr, page)
	return args.Error(0)
}

func (m *MockProductCache) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) SetProduct(ctx context.Context, prod *domain.Product) error {
	args := m.Called(ctx, prod)
	return args.Error(0)
}

func (m *MockProductCache) InvalidateProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductCache) InvalidateCatalogPages(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockImageStore is a mock implementation of product.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, filename, contentType, data)
	return args.String(0), args.Error(1)
}

func newProductHandler(repo *MockProductRepository, cache *MockProductCache, images *MockImageStore) *ProductHandler {
	log := logger.New("test")
	service := product.NewService(repo, cache, images, 4, log)
	return NewProductHandler(service, log)
}

func TestProductHandler_List_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	handler := newProductHandler(mockRepo, mockCache, new(MockImageStore))

	products := []*domain.Product{
		{ID: uuid.New(), Name: "Air Max", Price: 120.0},
		{ID: uuid.New(), Name: "Gel Lyte", Price: 90.0},
	}

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockRepo.On("List", mock.Anything, mock.Anything).Return(products, nil)
	mockRepo.On("Count", mock.Anything).Return(9, nil)
	mockCache.On("SetCatalogPage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?keyword=a&page=1", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Products              []json.RawMessage `json:"products"`
			FilteredProductsCount int               `json:"filtered_products_count"`
			ProductsCount         int               `json:"products_count"`
			ResPerPage            int               `json:"res_per_page"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Data.Products, 2)
	assert.Equal(t, 2, response.Data.FilteredProductsCount)
	assert.Equal(t, 9, response.Data.ProductsCount)
	assert.Equal(t, 4, response.Data.ResPerPage)
	mockRepo.AssertExpectations(t)
}

func TestProductHandler_List_RepositoryError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	handler := newProductHandler(mockRepo, mockCache, new(MockImageStore))

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockRepo.On("List", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("database error"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProductHandler_GetByID_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	handler := newProductHandler(mockRepo, mockCache, new(MockImageStore))

	productID := uuid.New()
	expected := &domain.Product{ID: productID, Name: "Air Max", Price: 120.0, Ratings: 4.5}

	mockCache.On("GetProduct", mock.Anything, productID).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, productID).Return(expected, nil)
	mockCache.On("SetProduct", mock.Anything, expected).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	handler.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestProductHandler_GetByID_InvalidUUID(t *testing.T) {
	handler := newProductHandler(new(MockProductRepository), new(MockProductCache), new(MockImageStore))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/invalid-uuid", nil)
	w := httptest.NewRecorder()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "invalid-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	handler.GetByID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "Invalid product ID")
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	handler := newProductHandler(mockRepo, mockCache, new(MockImageStore))

	productID := uuid.New()
	mockCache.On("GetProduct", mock.Anything, productID).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, productID).Return(nil, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	handler.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Create_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockImages := new(MockImageStore)
	handler := newProductHandler(mockRepo, mockCache, mockImages)

	requestBody := CreateProductRequest{
		Name:  "Air Max",
		Price: 120.0,
		Stock: 5,
		Images: []ImagePayload{
			{Filename: "front.jpg", ContentType: "image/jpeg", Data: []byte{1, 2, 3}},
		},
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockImages.On("Upload", mock.Anything, "front.jpg", "image/jpeg", []byte{1, 2, 3}).
		Return("http://minio/products/front.jpg", nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Air Max" && p.Price == 120.0 && len(p.Images) == 1
	})).Return(nil)
	mockCache.On("InvalidateCatalogPages", mock.Anything).Return(nil)

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestProductHandler_Create_InvalidJSON(t *testing.T) {
	handler := newProductHandler(new(MockProductRepository), new(MockProductCache), new(MockImageStore))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Create_NoImages(t *testing.T) {
	mockRepo := new(MockProductRepository)
	handler := newProductHandler(mockRepo, new(MockProductCache), new(MockImageStore))

	requestBody := CreateProductRequest{Name: "Air Max", Price: 120.0}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestProductHandler_Delete_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	handler := newProductHandler(mockRepo, mockCache, new(MockImageStore))

	productID := uuid.New()
	mockRepo.On("Delete", mock.Anything, productID).Return(nil)
	mockCache.On("InvalidateProduct", mock.Anything, productID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockRepo.AssertExpectations(t)
}
