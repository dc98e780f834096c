package intake

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/apperrors"
)

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name       string
		candidate  Candidate
		wantName   string
		wantExpiry string
	}{
		{
			name:       "iso date",
			candidate:  Candidate{ProductName: "Paracetamol 500mg", Quantity: 10, ExpiryDate: "2025-03-01"},
			wantName:   "Paracetamol 500mg",
			wantExpiry: "2025-03-01",
		},
		{
			name:       "long month name",
			candidate:  Candidate{ProductName: "Amoxicillin", Quantity: 1, ExpiryDate: "March 1, 2025"},
			wantName:   "Amoxicillin",
			wantExpiry: "2025-03-01",
		},
		{
			name:       "name and date are trimmed",
			candidate:  Candidate{ProductName: "  Vitamin C  ", Quantity: 20, ExpiryDate: " 2025-03-01 "},
			wantName:   "Vitamin C",
			wantExpiry: "2025-03-01",
		},
		{
			name:       "timestamp keeps only the date",
			candidate:  Candidate{ProductName: "Insulin", Quantity: 2, ExpiryDate: "2025-03-01 17:45:00"},
			wantName:   "Insulin",
			wantExpiry: "2025-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Validate(tt.candidate, "owner-1")
			require.NoError(t, err)

			assert.Equal(t, tt.wantName, rec.ProductName)
			assert.Equal(t, tt.candidate.Quantity, rec.Quantity)
			assert.Equal(t, tt.wantExpiry, rec.ExpiryDateString())
			assert.Equal(t, "owner-1", rec.Owner)
			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, time.UTC, rec.ExpiryDate.Location())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		owner     string
		wantField string
	}{
		{
			name:      "zero quantity",
			candidate: Candidate{ProductName: "Paracetamol", Quantity: 0, ExpiryDate: "2025-03-01"},
			owner:     "owner-1",
			wantField: "quantity",
		},
		{
			name:      "negative quantity",
			candidate: Candidate{ProductName: "Paracetamol", Quantity: -1, ExpiryDate: "2025-03-01"},
			owner:     "owner-1",
			wantField: "quantity",
		},
		{
			name:      "unparseable date",
			candidate: Candidate{ProductName: "Paracetamol", Quantity: 1, ExpiryDate: "next tuesday-ish"},
			owner:     "owner-1",
			wantField: "expiry_date",
		},
		{
			name:      "empty date",
			candidate: Candidate{ProductName: "Paracetamol", Quantity: 1, ExpiryDate: "   "},
			owner:     "owner-1",
			wantField: "expiry_date",
		},
		{
			name:      "blank name",
			candidate: Candidate{ProductName: " \t ", Quantity: 1, ExpiryDate: "2025-03-01"},
			owner:     "owner-1",
			wantField: "product_name",
		},
		{
			name:      "missing owner",
			candidate: Candidate{ProductName: "Paracetamol", Quantity: 1, ExpiryDate: "2025-03-01"},
			owner:     "",
			wantField: "owner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.candidate, tt.owner)
			require.Error(t, err)

			var vErr *apperrors.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = NormalizeDate("not a date")
	assert.Error(t, err)
}
