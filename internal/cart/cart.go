package cart

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
)

// Line is a price snapshot of a product held in the cart.
type Line struct {
	ProductID         int              `json:"product_id"`
	Name              string           `json:"name"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	OriginalUnitPrice *decimal.Decimal `json:"original_unit_price,omitempty"`
	Quantity          int              `json:"quantity"`
	ImageRef          string           `json:"image_ref,omitempty"`
}

// Subtotal returns unit price times quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product id to its line. Retained lines always have
// quantity >= 1; a quantity below one removes the line.
type Cart struct {
	lines map[int]Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: map[int]Line{}}
}

// FromLines rebuilds a cart from a persisted snapshot, dropping any
// line that would violate the quantity invariant.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, line := range lines {
		if line.ProductID <= 0 || line.Quantity < 1 {
			continue
		}
		c.lines[line.ProductID] = line
	}
	return c
}

// Add inserts the line, merging quantity when the product is already present.
func (c *Cart) Add(line Line) error {
	if line.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if line.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if line.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	if strings.TrimSpace(line.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	if existing, ok := c.lines[line.ProductID]; ok {
		existing.Quantity += line.Quantity
		c.lines[line.ProductID] = existing
		return nil
	}
	c.lines[line.ProductID] = line
	return nil
}

// Remove drops the line for the product id if present.
func (c *Cart) Remove(productID int) {
	delete(c.lines, productID)
}

// SetQuantity updates the quantity for a held product; below one removes it.
func (c *Cart) SetQuantity(productID, quantity int) {
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if quantity < 1 {
		delete(c.lines, productID)
		return
	}
	line.Quantity = quantity
	c.lines[productID] = line
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = map[int]Line{}
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns the lines in stable product-id order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ItemCount returns the summed quantity across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}
