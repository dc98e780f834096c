// Package records содержит JSON-представления записей для обработчиков /records.
package records

import (
	"time"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/expiry"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

// Record сохраненная запись в ответе API.
type Record struct {
	ID          string    `json:"id" example:"5b0c3e7e-8f7a-4d43-9a53-0a3f4bb1d0a1"`
	ProductName string    `json:"product_name" example:"Paracetamol 500mg"`
	Quantity    int       `json:"quantity" example:"10"`
	ExpiryDate  string    `json:"expiry_date" example:"2025-01-25"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Classified запись с вычисленной срочностью.
type Classified struct {
	ID           string `json:"id"`
	ProductName  string `json:"product_name" example:"Paracetamol 500mg"`
	Quantity     int    `json:"quantity" example:"10"`
	ExpiryDate   string `json:"expiry_date" example:"2025-01-25"`
	DaysToExpiry int    `json:"days_to_expiry" example:"10"`
	Status       string `json:"status" example:"URGENT"`
	StatusLabel  string `json:"status_label" example:"Urgent: <1 month"`
}

// FromModel переводит запись в представление API.
func FromModel(rec models.Record) Record {
	return Record{
		ID:          rec.ID,
		ProductName: rec.ProductName,
		Quantity:    rec.Quantity,
		ExpiryDate:  rec.ExpiryDateString(),
		CreatedAt:   rec.CreatedAt,
	}
}

// FromClassified переводит классифицированные записи в представление API.
// Для пустого входа возвращает пустой, а не nil, срез.
func FromClassified(items []expiry.Classified) []Classified {
	result := make([]Classified, 0, len(items))
	for _, c := range items {
		result = append(result, Classified{
			ID:           c.ID,
			ProductName:  c.ProductName,
			Quantity:     c.Quantity,
			ExpiryDate:   c.ExpiryDateString(),
			DaysToExpiry: c.DaysToExpiry,
			Status:       string(c.Status),
			StatusLabel:  c.Status.Label(),
		})
	}
	return result
}
