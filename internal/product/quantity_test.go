package product

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Quantity
		wantErr bool
	}{
		{name: "Number", input: `10`, want: 10},
		{name: "Numeric string", input: `"10"`, want: 10},
		{name: "Padded string", input: `" 7 "`, want: 7},
		{name: "Negative string", input: `"-2"`, want: -2},
		{name: "Word", input: `"lots"`, wantErr: true},
		{name: "Fraction", input: `"2.5"`, wantErr: true},
		{name: "Fractional number", input: `2.5`, wantErr: true},
		{name: "Boolean", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tt.input), &q)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestNewProduct_StringFields(t *testing.T) {
	var in NewProduct
	require.NoError(t, json.Unmarshal([]byte(`{"fishName":"Rohu","price":"200","stockQuantity":"10","category":"River Fish"}`), &in))

	require.NotNil(t, in.Price)
	assert.Equal(t, "200", in.Price.String())
	require.NotNil(t, in.StockQuantity)
	assert.Equal(t, Quantity(10), *in.StockQuantity)
}
