package domain

import (
	"strings"
	"time"
)

type Product struct {
	ID          int64     `json:"Id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Stock       *int      `json:"stock,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// CategoryCount is the number of active products in one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (p *Product) RecordID() int64 { return p.ID }

func (p *Product) SetRecordID(id int64) { p.ID = id }

// Clone returns a copy that shares no memory with p.
func (p *Product) Clone() Product {
	c := *p
	if p.Stock != nil {
		stock := *p.Stock
		c.Stock = &stock
	}
	return c
}

// Touch stamps createdAt on creation and updatedAt on every later write.
func (p *Product) Touch(now time.Time, created bool) {
	if created {
		p.CreatedAt = now
		return
	}
	p.UpdatedAt = now
}

// Matches reports whether the lowercased query is a substring of any searchable field.
func (p *Product) Matches(lowerQuery string) bool {
	for _, field := range []string{p.Name, p.DisplayName, p.Description, p.Category} {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}
	return false
}

// ProductPatch is a partial product update: nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	DisplayName *string  `json:"displayName,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.DisplayName != nil {
		p.DisplayName = *pp.DisplayName
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.Stock != nil {
		stock := *pp.Stock
		p.Stock = &stock
	}
	if pp.IsActive != nil {
		p.IsActive = *pp.IsActive
	}
}
