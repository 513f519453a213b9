package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"tienda/internal/images"
	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Patch("/:id/rich-description", h.HandleUpdateRichDescription)
	productRoutes.Patch("/:id/increase", h.HandleAddStock)
	productRoutes.Patch("/:id/decrease", h.HandleRemoveStock)
	productRoutes.Patch("/:id/activate", h.HandleActivateProduct)
	productRoutes.Patch("/:id/deactivate", h.HandleDeactivateProduct)
	productRoutes.Patch("/:id/set-price", h.HandleSetPrice)
	productRoutes.Patch("/:id/modify-price", h.HandleModifyPrice)
	productRoutes.Patch("/:id/upload-image", h.HandleUploadImage)
}

// findProduct loads the product addressed by the :id path parameter.
// When it fails it writes the response and returns a nil product; the
// caller just returns the error.
func (h *ProductHandler) findProduct(c *fiber.Ctx) (*models.Product, error) {
	id := c.Params("id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", id),
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return product, nil
}

// validationError expands validator errors into a 400 response.
func (h *ProductHandler) validationError(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// HandleGetProducts retrieves a page of products. An empty catalog page
// responds 404, matching the service's listing contract.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 0)
	products, err := h.service.GetProducts(page, size)
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No products found",
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return h.validationError(c, err)
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct merges the provided fields into an existing
// product. Zero-valued fields in the body are left untouched, except
// the active flag which is taken as sent.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}

	var body models.Product
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if body.Name != "" {
		product.Name = body.Name
	}
	if body.SKU != "" {
		product.SKU = body.SKU
	}
	if body.Description != "" {
		product.Description = body.Description
	}
	if !body.Price.IsZero() {
		product.Price = body.Price
	}
	if body.Stock != 0 {
		product.Stock = body.Stock
	}
	if body.ImageURL != "" {
		product.ImageURL = body.ImageURL
	}
	if body.CategoryID != "" {
		product.CategoryID = body.CategoryID
	}
	product.Active = body.Active

	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", id),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUpdateRichDescription validates and sanitizes rich description
// content before persisting it.
func (h *ProductHandler) HandleUpdateRichDescription(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}

	var description models.DescriptionContent
	if err := c.BodyParser(&description); err != nil {
		log.Printf("Error parsing description body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(description); err != nil {
		return h.validationError(c, err)
	}

	if err := h.service.UpdateDescription(product, description); err != nil {
		if errors.Is(err, services.ErrInvalidDescription) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Description content is not valid",
				"error":   err.Error(),
			})
		}
		log.Printf("Error updating description for product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update description",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleAddStock increases the product's stock by the given quantity.
func (h *ProductHandler) HandleAddStock(c *fiber.Ctx) error {
	return h.handleStock(c, h.service.IncreaseStock)
}

// HandleRemoveStock decreases the product's stock, clamping at zero.
func (h *ProductHandler) HandleRemoveStock(c *fiber.Ctx) error {
	return h.handleStock(c, h.service.DecreaseStock)
}

func (h *ProductHandler) handleStock(c *fiber.Ctx, apply func(*models.Product, int) error) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}

	var stock models.StockRequest
	if err := c.BodyParser(&stock); err != nil {
		log.Printf("Error parsing stock body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(stock); err != nil {
		return h.validationError(c, err)
	}

	if err := apply(product, stock.Quantity); err != nil {
		log.Printf("Error adjusting stock for product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not adjust stock",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleActivateProduct marks the product active.
func (h *ProductHandler) HandleActivateProduct(c *fiber.Ctx) error {
	return h.handleActive(c, true)
}

// HandleDeactivateProduct marks the product inactive.
func (h *ProductHandler) HandleDeactivateProduct(c *fiber.Ctx) error {
	return h.handleActive(c, false)
}

func (h *ProductHandler) handleActive(c *fiber.Ctx, active bool) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}
	if err := h.service.SetActive(product, active); err != nil {
		log.Printf("Error setting active=%t for product %s: %v", active, product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleSetPrice replaces the product's price and currency.
func (h *ProductHandler) HandleSetPrice(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}

	var price models.PriceRequest
	if err := c.BodyParser(&price); err != nil {
		log.Printf("Error parsing price body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(price); err != nil {
		return h.validationError(c, err)
	}

	if err := h.service.SetPrice(product, price); err != nil {
		log.Printf("Error setting price for product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not set price",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleModifyPrice applies a relative price change. A change request
// whose currency differs from the product's is rejected before any
// mutation.
func (h *ProductHandler) HandleModifyPrice(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}

	var change models.PriceChange
	if err := c.BodyParser(&change); err != nil {
		log.Printf("Error parsing price change body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(change); err != nil {
		return h.validationError(c, err)
	}

	if err := h.service.UpdatePrice(product, change); err != nil {
		if errors.Is(err, services.ErrCurrencyMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Price change currency does not match the product",
				"error":   err.Error(),
			})
		}
		log.Printf("Error modifying price for product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not modify price",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleUploadImage validates an uploaded image (size, media type,
// dimensions, aspect ratio) and stores its filename on the product.
// Unreadable bytes are an internal failure, not a validation one.
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if product == nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image file is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded image",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded image",
			"error":   err.Error(),
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := images.Validate(data, contentType); err != nil {
		if errors.Is(err, images.ErrDecode) {
			log.Printf("Error decoding uploaded image for product %s: %v", product.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not decode uploaded image",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image is not acceptable",
			"error":   err.Error(),
		})
	}

	product.ImageURL = fileHeader.Filename
	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error saving image for product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save product image",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}
