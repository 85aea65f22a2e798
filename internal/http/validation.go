package http

import (
	"strings"

	"github.com/fjod/apna-store/internal/checkout"
	"github.com/fjod/apna-store/internal/domain"
)

type validationError struct {
	Field   string
	Message string
}

func (e *validationError) Error() string {
	return e.Message
}

func invalid(field, message string) *validationError {
	return &validationError{Field: field, Message: message}
}

// digitsOnly keeps the ASCII digits 0-9 and drops everything else.
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func isDigits(s string) bool {
	return s != "" && digitsOnly(s) == s
}

// validateCheckout trims the request in place and checks the contact and address fields.
func validateCheckout(req *checkout.Request) *validationError {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	req.Pincode = strings.TrimSpace(req.Pincode)

	if req.CustomerName == "" {
		return invalid("customerName", "name is required")
	}
	phone := digitsOnly(req.CustomerPhone)
	if len(phone) != 10 {
		return invalid("customerPhone", "phone must have 10 digits")
	}
	req.CustomerPhone = phone
	if req.Address == "" {
		return invalid("address", "address is required")
	}
	if req.City == "" {
		return invalid("city", "city is required")
	}
	if len(req.Pincode) != 6 || !isDigits(req.Pincode) {
		return invalid("pincode", "pincode must be 6 digits")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentCOD
	}
	if !req.PaymentMethod.Valid() {
		return invalid("paymentMethod", "unsupported payment method")
	}
	return nil
}

// validateProduct checks the fields a new product must carry.
func validateProduct(p domain.Product) *validationError {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return invalid("category", "category is required")
	}
	if p.Price < 0 {
		return invalid("price", "price must not be negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return invalid("stock", "stock must not be negative")
	}
	return nil
}

func validateProductPatch(patch domain.ProductPatch) *validationError {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return invalid("name", "name must not be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return invalid("price", "price must not be negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return invalid("stock", "stock must not be negative")
	}
	return nil
}
