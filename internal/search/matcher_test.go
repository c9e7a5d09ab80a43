package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

func TestMatchFields(t *testing.T) {
	product := domain.Product{
		Name:   "Tine Yoghurt Vanilje",
		Brand:  "Tine",
		Vendor: "TINE SA",
		Store:  domain.Store{Name: "Rema 1000", Code: "REMA_1000"},
		Categories: []domain.Category{
			{ID: 1, Depth: 0, Name: "Meieri"},
			{ID: 2, Depth: 1, Name: "Yoghurt"},
		},
	}

	tests := []struct {
		name      string
		substring string
		want      Field
	}{
		{"brand and name and vendor", "tine", FieldName | FieldBrand | FieldVendor},
		{"name and category", "yoghurt", FieldName | FieldCategory},
		{"store only", "rema", FieldStore},
		{"category only", "meieri", FieldCategory},
		{"no field", "sjokolade", 0},
		{"case insensitive input", "YOGHURT", FieldName | FieldCategory},
		{"multi word span", "tine yoghurt", FieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchFields(&product, tt.substring))
		})
	}
}

func TestMatchFieldsEmptyFields(t *testing.T) {
	// Absent fields must never match, not even the empty substring.
	product := domain.Product{Name: "Melk"}

	assert.Equal(t, FieldName, MatchFields(&product, "melk"))
	assert.Equal(t, Field(0), MatchFields(&product, "tine"))

	empty := domain.Product{}
	assert.Equal(t, Field(0), MatchFields(&empty, "melk"))
}
