package models

import "github.com/shopspring/decimal"

// ValueType says whether a price change carries an absolute amount or a
// percentage.
type ValueType string

const (
	ValueAmount     ValueType = "AMOUNT"
	ValuePercentage ValueType = "PERCENTAGE"
)

// PriceChangeType is the direction of a price change.
type PriceChangeType string

const (
	PriceIncrease PriceChangeType = "INCREASE"
	PriceDecrease PriceChangeType = "DECREASE"
)

// ContentType is the declared kind of rich description content.
type ContentType string

const (
	ContentHTML      ContentType = "HTML"
	ContentMarkdown  ContentType = "MARKDOWN"
	ContentPlainText ContentType = "PLAIN_TEXT"
)

// PriceChange is the modify-price request body. Its currency must match
// the product's current currency; the check happens before the price
// adjustment engine runs.
type PriceChange struct {
	Currency  Currency        `json:"currency" validate:"required,oneof=MXN USD EUR"`
	Amount    decimal.Decimal `json:"amount"`
	ValueType ValueType       `json:"value_type" validate:"required,oneof=AMOUNT PERCENTAGE"`
	Type      PriceChangeType `json:"type" validate:"required,oneof=INCREASE DECREASE"`
}

// PriceRequest is the set-price request body. It replaces price and
// currency unconditionally.
type PriceRequest struct {
	Currency Currency        `json:"currency" validate:"required,oneof=MXN USD EUR"`
	Amount   decimal.Decimal `json:"amount"`
}

// StockRequest is the stock increase/decrease request body.
type StockRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// DescriptionContent is the rich-description request body: the content
// plus its declared kind.
type DescriptionContent struct {
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type" validate:"required,oneof=HTML MARKDOWN PLAIN_TEXT"`
}
