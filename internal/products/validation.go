package products

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Errores de dominio (no HTTP). El handler los traduce a respuestas.
var (
	ErrorMissingType   = errors.New("missing type")
	ErrorTypeTooLong   = errors.New("type too long")
	ErrorInvalidPrice  = errors.New("invalid price")
	ErrorInvalidWeight = errors.New("invalid weight")
	ErrorInvalidText   = errors.New("invalid characters")
	ErrorNotFound      = errors.New("product not found")
)

// Límites que impone el esquema: type VARCHAR(100), price NUMERIC(10,2), weight NUMERIC(10,3).
const (
	maxTypeLength       = 100
	priceIntegerDigits  = 10 - priceScale
	weightIntegerDigits = 10 - weightScale

	// Más largo que esto no entra en numeric(10,s) con ninguna escritura razonable.
	maxDecimalLength = 32
)

// ValidationError describe el primer campo rechazado del formulario.
// Message es el texto que ve el usuario.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (validationError *ValidationError) Error() string {
	return validationError.Field + ": " + validationError.Err.Error()
}

func (validationError *ValidationError) Unwrap() error {
	return validationError.Err
}

// ParseProductForm valida y convierte la entrada cruda en campos tipados.
// Orden fijo type → description → price → weight; corta en el primer error.
func ParseProductForm(form ProductForm) (ProductFields, error) {
	productType := strings.TrimSpace(form.Type)
	if productType == "" {
		return ProductFields{}, &ValidationError{Field: "tipo", Message: "O campo tipo é obrigatório.", Err: ErrorMissingType}
	}
	if !validText(productType) {
		return ProductFields{}, &ValidationError{Field: "tipo", Message: "O campo tipo contém caracteres inválidos.", Err: ErrorInvalidText}
	}
	if utf8.RuneCountInString(productType) > maxTypeLength {
		return ProductFields{}, &ValidationError{Field: "tipo", Message: "O campo tipo deve ter no máximo 100 caracteres.", Err: ErrorTypeTooLong}
	}

	description := strings.TrimSpace(form.Description)
	if !validText(description) {
		return ProductFields{}, &ValidationError{Field: "descricao", Message: "O campo descrição contém caracteres inválidos.", Err: ErrorInvalidText}
	}

	price, ok := parseDecimal(form.Price, priceScale, priceIntegerDigits)
	if !ok {
		return ProductFields{}, &ValidationError{Field: "valor", Message: "Valor inválido.", Err: ErrorInvalidPrice}
	}

	var weight decimal.NullDecimal
	if normalizeDecimal(form.Weight) != "" {
		value, ok := parseDecimal(form.Weight, weightScale, weightIntegerDigits)
		if !ok {
			return ProductFields{}, &ValidationError{Field: "peso", Message: "Peso inválido.", Err: ErrorInvalidWeight}
		}
		weight = decimal.NewNullDecimal(value)
	}

	return ProductFields{
		Type:        productType,
		Description: description,
		Price:       price,
		Weight:      weight,
	}, nil
}

// normalizeDecimal acepta coma como separador decimal ("12,50" → "12.50").
func normalizeDecimal(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
}

// validText: Postgres no acepta bytes NUL ni UTF-8 inválido en columnas de texto.
func validText(text string) bool {
	return utf8.ValidString(text) && !strings.ContainsRune(text, 0)
}

// parseDecimal redondea a la escala de la columna y rechaza lo que no entra en su precisión.
// Los exponentes se acotan antes de Round: reescalar "1e100000000" arma un big.Int de 10^exp.
func parseDecimal(raw string, scale int32, integerDigits int32) (decimal.Decimal, bool) {
	normalized := normalizeDecimal(raw)
	if len(normalized) > maxDecimalLength {
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if value.IsZero() {
		return decimal.Zero, true
	}
	if value.Exponent() > integerDigits {
		return decimal.Decimal{}, false
	}
	// |value| < 10^(digits+exp); por debajo de 10^-(scale+1) redondea a cero.
	if int64(value.NumDigits())+int64(value.Exponent()) < -int64(scale) {
		return decimal.Zero, true
	}
	value = value.Round(scale)
	if value.Abs().GreaterThanOrEqual(decimal.New(1, integerDigits)) {
		return decimal.Decimal{}, false
	}
	return value, true
}
