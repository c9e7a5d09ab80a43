package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"defaults for zero values", Params{}, Params{Page: 1, PageSize: 12}},
		{"negative page", Params{Page: -3, PageSize: 10}, Params{Page: 1, PageSize: 10}},
		{"large page size passes through", Params{Page: 2, PageSize: 500}, Params{Page: 2, PageSize: 500}},
		{"valid passthrough", Params{Page: 3, PageSize: 24}, Params{Page: 3, PageSize: 24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PageSize: 12}.Offset())
	assert.Equal(t, 24, Params{Page: 3, PageSize: 12}.Offset())
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?page=2&pageSize=24", nil)
	assert.Equal(t, Params{Page: 2, PageSize: 24}, FromRequest(r))

	r = httptest.NewRequest("GET", "/search", nil)
	assert.Equal(t, Params{Page: 1, PageSize: 12}, FromRequest(r))

	r = httptest.NewRequest("GET", "/search?page=abc&pageSize=-5", nil)
	assert.Equal(t, Params{Page: 1, PageSize: 12}, FromRequest(r))
}
