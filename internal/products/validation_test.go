package products

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseProductForm_Accepts(t *testing.T) {
	tests := []struct {
		name       string
		form       ProductForm
		wantType   string
		wantDesc   string
		wantPrice  string
		wantWeight string
	}{
		{
			name:      "comma decimal separator",
			form:      ProductForm{Type: "Arroz", Price: "12,50"},
			wantType:  "Arroz",
			wantPrice: "12.50",
		},
		{
			name:       "trims every field",
			form:       ProductForm{Type: "  Feijão  ", Description: "  carioca 1kg ", Price: " 8.9 ", Weight: " 1,000 "},
			wantType:   "Feijão",
			wantDesc:   "carioca 1kg",
			wantPrice:  "8.90",
			wantWeight: "1.000",
		},
		{
			name:       "rounds to column scale",
			form:       ProductForm{Type: "Café", Price: "10.005", Weight: "0.0005"},
			wantType:   "Café",
			wantPrice:  "10.01",
			wantWeight: "0.001",
		},
		{
			name:      "integer price",
			form:      ProductForm{Type: "Sal", Price: "3"},
			wantType:  "Sal",
			wantPrice: "3.00",
		},
		{
			name:      "tiny exponent rounds to zero",
			form:      ProductForm{Type: "Brinde", Price: "1e-100000000"},
			wantType:  "Brinde",
			wantPrice: "0.00",
		},
		{
			name:      "zero with huge exponent",
			form:      ProductForm{Type: "Brinde", Price: "0e100000000"},
			wantType:  "Brinde",
			wantPrice: "0.00",
		},
		{
			name:       "exponent notation within bounds",
			form:       ProductForm{Type: "Saco", Price: "1.5e2", Weight: "5e-4"},
			wantType:   "Saco",
			wantPrice:  "150.00",
			wantWeight: "0.001",
		},
		{
			name:      "type at max length",
			form:      ProductForm{Type: strings.Repeat("a", maxTypeLength), Price: "1"},
			wantType:  strings.Repeat("a", maxTypeLength),
			wantPrice: "1.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := ParseProductForm(tt.form)

			require.NoError(t, err)
			require.Equal(t, tt.wantType, fields.Type)
			require.Equal(t, tt.wantDesc, fields.Description)
			require.Equal(t, tt.wantPrice, fields.Price.StringFixed(2))
			if tt.wantWeight == "" {
				require.False(t, fields.Weight.Valid)
				return
			}
			require.True(t, fields.Weight.Valid)
			require.Equal(t, tt.wantWeight, fields.Weight.Decimal.StringFixed(3))
		})
	}
}

func TestParseProductForm_EmptyWeightIsNull(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		fields, err := ParseProductForm(ProductForm{Type: "Sabão", Price: "2,00", Weight: raw})

		require.NoError(t, err)
		require.False(t, fields.Weight.Valid, "weight %q must be null, not zero", raw)
	}
}

func TestParseProductForm_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		form      ProductForm
		wantErr   error
		wantField string
		wantMsg   string
	}{
		{
			name:      "whitespace type",
			form:      ProductForm{Type: "   ", Price: "1"},
			wantErr:   ErrorMissingType,
			wantField: "tipo",
			wantMsg:   "O campo tipo é obrigatório.",
		},
		{
			name:      "type too long",
			form:      ProductForm{Type: strings.Repeat("á", maxTypeLength+1), Price: "1"},
			wantErr:   ErrorTypeTooLong,
			wantField: "tipo",
		},
		{
			name:      "NUL byte in type",
			form:      ProductForm{Type: "a\x00b", Price: "1"},
			wantErr:   ErrorInvalidText,
			wantField: "tipo",
			wantMsg:   "O campo tipo contém caracteres inválidos.",
		},
		{
			name:      "invalid UTF-8 in type",
			form:      ProductForm{Type: "caf\xe9", Price: "1"},
			wantErr:   ErrorInvalidText,
			wantField: "tipo",
		},
		{
			name:      "NUL byte in description",
			form:      ProductForm{Type: "Arroz", Description: "tipo\x001", Price: "1"},
			wantErr:   ErrorInvalidText,
			wantField: "descricao",
			wantMsg:   "O campo descrição contém caracteres inválidos.",
		},
		{
			name:      "invalid UTF-8 in description",
			form:      ProductForm{Type: "Arroz", Description: "\xff\xfe", Price: "abc"},
			wantErr:   ErrorInvalidText,
			wantField: "descricao",
		},
		{
			name:      "price not a number",
			form:      ProductForm{Type: "Arroz", Price: "abc"},
			wantErr:   ErrorInvalidPrice,
			wantField: "valor",
			wantMsg:   "Valor inválido.",
		},
		{
			name:    "empty price",
			form:    ProductForm{Type: "Arroz", Price: ""},
			wantErr: ErrorInvalidPrice,
		},
		{
			name:    "thousands separator",
			form:    ProductForm{Type: "Arroz", Price: "1.234,56"},
			wantErr: ErrorInvalidPrice,
		},
		{
			name:    "price overflows numeric(10,2)",
			form:    ProductForm{Type: "Arroz", Price: "100000000"},
			wantErr: ErrorInvalidPrice,
		},
		{
			name:    "price with huge exponent",
			form:    ProductForm{Type: "Arroz", Price: "1e100000000"},
			wantErr: ErrorInvalidPrice,
		},
		{
			name:    "price longer than any column value",
			form:    ProductForm{Type: "Arroz", Price: strings.Repeat("9", maxDecimalLength+1)},
			wantErr: ErrorInvalidPrice,
		},
		{
			name:      "weight not a number",
			form:      ProductForm{Type: "Arroz", Price: "1", Weight: "pesado"},
			wantErr:   ErrorInvalidWeight,
			wantField: "peso",
			wantMsg:   "Peso inválido.",
		},
		{
			name:    "weight overflows numeric(10,3)",
			form:    ProductForm{Type: "Arroz", Price: "1", Weight: "-10000000"},
			wantErr: ErrorInvalidWeight,
		},
		{
			name:    "weight with huge exponent",
			form:    ProductForm{Type: "Arroz", Price: "1", Weight: "-9e99999999"},
			wantErr: ErrorInvalidWeight,
		},
		{
			name:    "type checked before price",
			form:    ProductForm{Type: "", Price: "abc", Weight: "xyz"},
			wantErr: ErrorMissingType,
		},
		{
			name:    "price checked before weight",
			form:    ProductForm{Type: "Arroz", Price: "abc", Weight: "xyz"},
			wantErr: ErrorInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := ParseProductForm(tt.form)

			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, ProductFields{}, fields)

			var validationError *ValidationError
			require.ErrorAs(t, err, &validationError)
			require.NotEmpty(t, validationError.Message)
			if tt.wantField != "" {
				require.Equal(t, tt.wantField, validationError.Field)
			}
			if tt.wantMsg != "" {
				require.Equal(t, tt.wantMsg, validationError.Message)
			}
		})
	}
}

func TestParseDecimal_Boundaries(t *testing.T) {
	value, ok := parseDecimal("99999999.99", priceScale, priceIntegerDigits)
	require.True(t, ok)
	require.True(t, value.Equal(decimal.RequireFromString("99999999.99")))

	// Redondea hacia arriba y se pasa del límite.
	_, ok = parseDecimal("99999999.995", priceScale, priceIntegerDigits)
	require.False(t, ok)
}

func TestParseDecimal_ExtremeExponentsAreFast(t *testing.T) {
	inputs := []string{"1e100000000", "-1e2147483647", "1e-100000000", "9.99e-2147483648", "0e2147483647"}

	start := time.Now()
	for _, raw := range inputs {
		parseDecimal(raw, priceScale, priceIntegerDigits)
		parseDecimal(raw, weightScale, weightIntegerDigits)
	}

	require.Less(t, time.Since(start), time.Second)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "valor", Message: "Valor inválido.", Err: ErrorInvalidPrice}

	require.Equal(t, "valor: invalid price", err.Error())
}
