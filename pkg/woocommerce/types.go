package woocommerce

import "github.com/shopspring/decimal"

// Order statuses used by the storefront. The backend owns the full set.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Image is a catalog image reference.
type Image struct {
	ID  int    `json:"id,omitempty"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Attribute is a product-level attribute (e.g. Size with its options).
type Attribute struct {
	ID      int      `json:"id,omitempty"`
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
}

// VariationAttribute is the selected option on a concrete variation.
type VariationAttribute struct {
	ID     int    `json:"id,omitempty"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Product mirrors the catalog product payload.
type Product struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Slug         string      `json:"slug"`
	Type         string      `json:"type"`
	Price        string      `json:"price"`
	RegularPrice string      `json:"regular_price"`
	SalePrice    string      `json:"sale_price"`
	OnSale       bool        `json:"on_sale"`
	StockStatus  string      `json:"stock_status"`
	Description  string      `json:"description,omitempty"`
	Images       []Image     `json:"images,omitempty"`
	Attributes   []Attribute `json:"attributes,omitempty"`
}

// Variation is a purchasable variant of a variable product.
type Variation struct {
	ID           int                  `json:"id"`
	Price        string               `json:"price"`
	RegularPrice string               `json:"regular_price"`
	SalePrice    string               `json:"sale_price"`
	StockStatus  string               `json:"stock_status"`
	Image        *Image               `json:"image,omitempty"`
	Attributes   []VariationAttribute `json:"attributes,omitempty"`
}

// Address carries the billing/shipping fields the backend stores.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Customer mirrors the backend customer record.
type Customer struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Billing   Address `json:"billing"`
	Shipping  Address `json:"shipping"`
}

// CustomerPayload is the create-customer request body.
type CustomerPayload struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Username  string   `json:"username,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	Billing   *Address `json:"billing,omitempty"`
}

// LineItem references a catalog product; the backend derives the price.
type LineItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// ShippingLine carries the computed shipping fee.
type ShippingLine struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total"`
}

// FeeLine carries an extra charge or, with a negative total, a discount.
type FeeLine struct {
	Name      string `json:"name"`
	Total     string `json:"total"`
	TaxStatus string `json:"tax_status,omitempty"`
}

// MetaEntry is an order metadata key/value pair.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OrderPayload is the create-order request body.
type OrderPayload struct {
	PaymentMethod      string         `json:"payment_method"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	SetPaid            bool           `json:"set_paid"`
	Status             string         `json:"status,omitempty"`
	CustomerID         int            `json:"customer_id"`
	Billing            Address        `json:"billing"`
	Shipping           Address        `json:"shipping"`
	LineItems          []LineItem     `json:"line_items"`
	ShippingLines      []ShippingLine `json:"shipping_lines,omitempty"`
	FeeLines           []FeeLine      `json:"fee_lines,omitempty"`
	MetaData           []MetaEntry    `json:"meta_data,omitempty"`
}

// OrderUpdate is the partial update body for finalizing payment state.
type OrderUpdate struct {
	Status        string      `json:"status,omitempty"`
	SetPaid       bool        `json:"set_paid"`
	TransactionID string      `json:"transaction_id,omitempty"`
	DatePaid      string      `json:"date_paid,omitempty"`
	MetaData      []MetaEntry `json:"meta_data,omitempty"`
}

// OrderLineItem is a line item as stored on an order record.
type OrderLineItem struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

// Order mirrors the backend order record. Read-only to this system
// beyond status/payment updates.
type Order struct {
	ID                 int             `json:"id"`
	OrderKey           string          `json:"order_key"`
	Status             string          `json:"status"`
	Currency           string          `json:"currency"`
	Total              string          `json:"total"`
	CustomerID         int             `json:"customer_id"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentMethodTitle string          `json:"payment_method_title"`
	TransactionID      string          `json:"transaction_id,omitempty"`
	DateCreated        string          `json:"date_created,omitempty"`
	DatePaid           string          `json:"date_paid,omitempty"`
	Billing            Address         `json:"billing"`
	Shipping           Address         `json:"shipping"`
	LineItems          []OrderLineItem `json:"line_items"`
	MetaData           []MetaEntry     `json:"meta_data,omitempty"`
}

// Paid reports whether the backend has recorded payment for the order.
func (o *Order) Paid() bool {
	if o == nil {
		return false
	}
	return o.DatePaid != "" || o.Status == OrderStatusProcessing || o.Status == OrderStatusCompleted
}

// TotalDecimal parses the order total without float drift.
func (o *Order) TotalDecimal() (decimal.Decimal, error) {
	if o == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(o.Total)
}
