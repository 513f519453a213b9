package services

import (
	"encoding/json"
	"errors"
	"log"

	"tienda/internal/content"
	"tienda/internal/models"
	"tienda/internal/pricing"
	"tienda/internal/repositories"
	"tienda/pkg/rabbitmq"
)

// Validation failures surfaced by product mutations. The caller sees a
// rejected request and nothing is persisted.
var (
	// ErrCurrencyMismatch means a price change named a currency other
	// than the product's current one. No conversion is attempted.
	ErrCurrencyMismatch = errors.New("price change currency does not match product currency")
	// ErrInvalidDescription means the description content failed
	// validation for its declared content type.
	ErrInvalidDescription = errors.New("description content is not valid for its content type")
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client // nil when the broker is unavailable; events are skipped
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// GetProducts retrieves a page of products.
func (s *ProductService) GetProducts(page, size int) ([]models.Product, error) {
	return s.repo.GetAll(page, size)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductsByCategory retrieves the not-deleted products of a category.
func (s *ProductService) GetProductsByCategory(categoryID string) ([]models.Product, error) {
	return s.repo.GetByCategory(categoryID)
}

// CreateProduct creates a new product and publishes a created event.
// Creation defaults (active, zero stock, NEW status, delete marker,
// default currency) are applied by the repository layer.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publishEvent("product.created", map[string]interface{}{
		"productID": product.ID,
		"sku":       product.SKU,
		"name":      product.Name,
	})
	return nil
}

// UpdateProduct persists an already-mutated product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct soft-deletes a product: the delete marker flips to
// DELETED and the product goes inactive. The row stays in the store so
// category listings can filter on the marker.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	product.Deleted = models.SoftDeleted
	product.Active = false
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publishEvent("product.deleted", map[string]interface{}{
		"productID": product.ID,
		"sku":       product.SKU,
	})
	return nil
}

// SetPrice replaces the product's price and currency unconditionally and
// persists the result.
func (s *ProductService) SetPrice(product *models.Product, price models.PriceRequest) error {
	product.Price = price.Amount
	product.Currency = price.Currency
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publishPriceChanged(product)
	return nil
}

// UpdatePrice applies a price change to the product. The change request
// must name the product's current currency; a mismatch is rejected with
// ErrCurrencyMismatch before any mutation. The adjustment itself is the
// pricing engine's job and never goes below zero.
func (s *ProductService) UpdatePrice(product *models.Product, change models.PriceChange) error {
	if product.Currency != "" && product.Currency != change.Currency {
		return ErrCurrencyMismatch
	}
	product.Price = pricing.Adjust(product.Price, change)
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publishPriceChanged(product)
	return nil
}

// IncreaseStock adds a non-negative quantity to the product's stock.
func (s *ProductService) IncreaseStock(product *models.Product, quantity int) error {
	product.Stock += quantity
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publishStockChanged(product)
	return nil
}

// DecreaseStock subtracts a quantity from the product's stock, clamping
// the result at zero. An over-large decrease is not an error.
func (s *ProductService) DecreaseStock(product *models.Product, quantity int) error {
	stock := product.Stock - quantity
	if stock < 0 {
		stock = 0
	}
	product.Stock = stock
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publishStockChanged(product)
	return nil
}

// SetActive activates or deactivates the product.
func (s *ProductService) SetActive(product *models.Product, active bool) error {
	product.Active = active
	return s.repo.Update(product)
}

// UpdateDescription validates the rich description for its declared
// content type, rejects invalid content with ErrInvalidDescription, and
// otherwise persists the normalized content.
func (s *ProductService) UpdateDescription(product *models.Product, description models.DescriptionContent) error {
	if !content.Valid(description.Content, description.ContentType) {
		return ErrInvalidDescription
	}
	product.Description = content.Normalize(description.Content, description.ContentType)
	return s.repo.Update(product)
}

func (s *ProductService) publishPriceChanged(product *models.Product) {
	s.publishEvent("product.price_changed", map[string]interface{}{
		"productID": product.ID,
		"sku":       product.SKU,
		"price":     product.Price,
		"currency":  product.Currency,
		"display":   pricing.FormattedPrice(product.Currency, product.Price),
	})
}

func (s *ProductService) publishStockChanged(product *models.Product) {
	s.publishEvent("product.stock_changed", map[string]interface{}{
		"productID": product.ID,
		"sku":       product.SKU,
		"stock":     product.Stock,
	})
}

// publishEvent sends a catalog event after a successful persist. The
// broker is best-effort: a nil client or a publish failure never fails
// the request, it is only logged.
func (s *ProductService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s payload: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", eventType, err)
	}
}
