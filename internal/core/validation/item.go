package validation

import (
	"strconv"
)

// =============================================================================
// Item Forms
// =============================================================================

// ItemForm is the raw item create form. Category holds every posted value
// so that a form posting more than one can be rejected.
type ItemForm struct {
	Name         string
	Category     []string
	PriceInCents string
	Quantity     string
}

// ItemInput is a sanitized item create request.
type ItemInput struct {
	Name         string `form:"name" validate:"min=1,max=100"`
	CategoryID   string `form:"category" validate:"required"`
	PriceInCents int64  `form:"priceInCents" validate:"gte=1"`
	Quantity     int64  `form:"quantity" validate:"gte=0"`
}

var itemFieldOrder = []string{"name", "category", "priceInCents", "quantity"}

var itemMessages = map[string]string{
	"name.min":             "Item name must not be empty.",
	"name.max":             "Item name must not exceed 100 characters",
	"category.required":    "A category must be selected.",
	"priceInCents.gte":     "Price must be at least 1 cent.",
	"quantity.gte":         "Quantity must not be negative.",
	"category.multiple":    "Only one category may be selected.",
	"priceInCents.integer": "Price must be a whole number of cents.",
	"quantity.integer":     "Quantity must be a whole number.",
	"priceInCents.missing": "Price is required.",
	"quantity.missing":     "Quantity is required.",
}

// Item sanitizes and checks an item create form. Every field is checked
// independently and all failures are reported.
func (v *Validator) Item(form ItemForm) (ItemInput, Errors) {
	input := ItemInput{Name: SanitizeLine(form.Name)}
	parseFailed := make(map[string]string)

	categories := make([]string, 0, len(form.Category))
	for _, c := range form.Category {
		if c = SanitizeLine(c); c != "" {
			categories = append(categories, c)
		}
	}
	if len(categories) > 0 {
		input.CategoryID = categories[0]
	}
	if len(categories) > 1 {
		parseFailed["category"] = itemMessages["category.multiple"]
	}

	if n, rule := parseInt(form.PriceInCents); rule == "" {
		input.PriceInCents = n
	} else {
		parseFailed["priceInCents"] = itemMessages["priceInCents."+rule]
	}

	if n, rule := parseInt(form.Quantity); rule == "" {
		input.Quantity = n
	} else {
		parseFailed["quantity"] = itemMessages["quantity."+rule]
	}

	failed, err := v.check(input, itemMessages)
	if err != nil {
		return input, Errors{{Field: "name", Message: err.Error()}}
	}
	for field, msg := range parseFailed {
		failed[field] = msg
	}
	return input, ordered(itemFieldOrder, failed)
}

// parseInt returns the value, or the failed rule: "missing" or "integer".
func parseInt(raw string) (int64, string) {
	raw = SanitizeLine(raw)
	if raw == "" {
		return 0, "missing"
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, "integer"
	}
	return n, ""
}
