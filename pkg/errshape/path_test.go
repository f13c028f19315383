package errshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		resource string
		want     []string
	}{
		{"line item uid becomes id", "Lines[0].TaxCode.UID", "invoice", []string{"invoice", "lineitems", "0", "taxcode", "id"}},
		{"line item field", "Lines[2].Description", "expense", []string{"expense", "lineitems", "2", "description"}},
		{"elements prefix", "Elements[0].Contact.Name", "bill", []string{"bill", "elements", "0", "contact", "name"}},
		{"request body prefix", "request.body.Contact.Email", "customer", []string{"customer", "contact", "email"}},
		{"request body prefix is case-insensitive", "Request.Body.Date", "customer", []string{"customer", "date"}},
		{"empty resource falls back", "Lines[1].Account.UID", "", []string{"resource", "lineitems", "1", "account", "id"}},
		{"resource is lower-cased", "Lines[3].Amount", "Invoice", []string{"invoice", "lineitems", "3", "amount"}},
		{"uid only rewritten as a whole segment", "Lines[0].Item.UIDX", "bill", []string{"bill", "lineitems", "0", "item", "uidx"}},
		{"unknown shape is split as-is", "Contact.Addresses[1].City", "customer", []string{"contact", "addresses[1]", "city"}},
		{"empty segments dropped", "a..b.", "x", []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePath(tc.raw, tc.resource))
		})
	}
}

func TestNormalizePath_RejectsProse(t *testing.T) {
	assert.Nil(t, NormalizePath("has space", "x"))
	assert.Nil(t, NormalizePath("", "x"))
	assert.Nil(t, NormalizePath("nodots", "x"))
	assert.Nil(t, NormalizePath("The value. Is invalid", "x"))
	assert.Nil(t, NormalizePath("...", "x"))
}

func TestNormalizePath_Deterministic(t *testing.T) {
	first := NormalizePath("Lines[4].TaxCode.UID", "invoice")
	for i := 0; i < 10; i++ {
		require.Equal(t, first, NormalizePath("Lines[4].TaxCode.UID", "invoice"))
	}
}

func TestLooksLikePath(t *testing.T) {
	assert.True(t, LooksLikePath("a.b"))
	assert.True(t, LooksLikePath("Lines[0].TaxCode.UID"))
	assert.False(t, LooksLikePath("a b.c"))
	assert.False(t, LooksLikePath("plain"))
}
