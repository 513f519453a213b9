package services_test

import (
	"fmt"
	"testing"

	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(page, size int) ([]models.Product, error) {
	args := m.Called(page, size)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCategory(categoryID string) ([]models.Product, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func newProduct(currency models.Currency, price string, stock int) *models.Product {
	return &models.Product{
		ID:       "prod-1",
		SKU:      "SKU-001",
		Name:     "Test Product",
		Currency: currency,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Active:   true,
		Status:   models.StatusNew,
		Deleted:  models.NotDeleted,
	}
}

func TestProductService_GetProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expected := []models.Product{*newProduct(models.CurrencyMXN, "10", 100)}
	mockRepo.On("GetAll", 0, 20).Return(expected, nil).Once()

	products, err := service.GetProducts(0, 20)

	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99 not found")).Once()

	product, err := service.GetProductByID("99")

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdatePrice_AmountIncrease(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "100", 0)

	mockRepo.On("Update", product).Return(nil).Once()

	err := service.UpdatePrice(product, models.PriceChange{
		Currency:  models.CurrencyMXN,
		Amount:    decimal.RequireFromString("10"),
		ValueType: models.ValueAmount,
		Type:      models.PriceIncrease,
	})

	assert.NoError(t, err)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("110")), "got %s", product.Price)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdatePrice_PercentageDecrease(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "100", 0)

	mockRepo.On("Update", product).Return(nil).Once()

	err := service.UpdatePrice(product, models.PriceChange{
		Currency:  models.CurrencyMXN,
		Amount:    decimal.RequireFromString("0.1"),
		ValueType: models.ValuePercentage,
		Type:      models.PriceDecrease,
	})

	assert.NoError(t, err)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("90")), "got %s", product.Price)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdatePrice_CurrencyMismatch(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyUSD, "100", 0)

	err := service.UpdatePrice(product, models.PriceChange{
		Currency:  models.CurrencyMXN,
		Amount:    decimal.RequireFromString("10"),
		ValueType: models.ValueAmount,
		Type:      models.PriceIncrease,
	})

	assert.ErrorIs(t, err, services.ErrCurrencyMismatch)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("100")), "price must not change")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestProductService_SetPrice_ReplacesCurrency(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyUSD, "100", 0)

	mockRepo.On("Update", product).Return(nil).Once()

	err := service.SetPrice(product, models.PriceRequest{
		Currency: models.CurrencyMXN,
		Amount:   decimal.RequireFromString("150"),
	})

	assert.NoError(t, err)
	assert.Equal(t, models.CurrencyMXN, product.Currency, "set-price replaces the currency unconditionally")
	assert.True(t, product.Price.Equal(decimal.RequireFromString("150")))
	mockRepo.AssertExpectations(t)
}

func TestProductService_DecreaseStock_ClampsAtZero(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "10", 5)

	mockRepo.On("Update", product).Return(nil).Once()

	err := service.DecreaseStock(product, 10)

	assert.NoError(t, err)
	assert.Equal(t, 0, product.Stock, "stock never goes negative")
	mockRepo.AssertExpectations(t)
}

func TestProductService_IncreaseStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "10", 5)

	mockRepo.On("Update", product).Return(nil).Once()

	err := service.IncreaseStock(product, 7)

	assert.NoError(t, err)
	assert.Equal(t, 12, product.Stock)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateDescription_InvalidContent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "10", 0)
	product.Description = "original"

	err := service.UpdateDescription(product, models.DescriptionContent{
		Content:     "<script>x</script>",
		ContentType: models.ContentHTML,
	})

	assert.ErrorIs(t, err, services.ErrInvalidDescription)
	assert.Equal(t, "original", product.Description, "invalid content must not mutate")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestProductService_UpdateDescription_SanitizesHTML(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "10", 0)

	mockRepo.On("Update", product).Return(nil).Once()

	err := service.UpdateDescription(product, models.DescriptionContent{
		Content:     "<script>alert(1)</script><p>Safe</p>",
		ContentType: models.ContentHTML,
	})

	assert.NoError(t, err)
	assert.NotContains(t, product.Description, "script")
	assert.Contains(t, product.Description, "Safe")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateDescription_WrapsPlainText(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "10", 0)

	mockRepo.On("Update", product).Return(nil).Once()

	err := service.UpdateDescription(product, models.DescriptionContent{
		Content:     "<p>plain description</p>",
		ContentType: models.ContentPlainText,
	})

	assert.NoError(t, err)
	assert.Equal(t, "<p><p>plain description</p></p>", product.Description)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct_SoftDeletes(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	product := newProduct(models.CurrencyMXN, "10", 0)

	mockRepo.On("GetByID", "prod-1").Return(product, nil).Once()
	mockRepo.On("Update", product).Return(nil).Once()

	err := service.DeleteProduct("prod-1")

	assert.NoError(t, err)
	assert.Equal(t, models.SoftDeleted, product.Deleted)
	assert.False(t, product.Active)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99 not found")).Once()

	err := service.DeleteProduct("99")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}
