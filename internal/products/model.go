package products

import "github.com/shopspring/decimal"

// Escala de las columnas numeric de la tabla products.
const (
	priceScale  = 2
	weightScale = 3
)

// Product representa un registro persistido en la tabla products.
// Price y Weight son decimales exactos; nunca pasan por float.
type Product struct {
	ID          int64
	Type        string
	Description string
	Price       decimal.Decimal
	// Weight inválido (Valid == false) significa "no aplica" y se guarda como NULL.
	Weight decimal.NullDecimal
}

// PriceText formatea el precio con 2 decimales, como lo guarda la base.
func (product Product) PriceText() string {
	return product.Price.StringFixed(priceScale)
}

// WeightText formatea el peso con 3 decimales, o "" si no aplica.
func (product Product) WeightText() string {
	if !product.Weight.Valid {
		return ""
	}
	return product.Weight.Decimal.StringFixed(weightScale)
}

// ProductFields son los campos mutables ya validados y tipados.
// Es lo único que acepta el repositorio para escribir.
type ProductFields struct {
	Type        string
	Description string
	Price       decimal.Decimal
	Weight      decimal.NullDecimal
}

// ProductForm es la entrada cruda del formulario, tal cual la mandó el usuario.
type ProductForm struct {
	Type        string
	Description string
	Price       string
	Weight      string
}

// FormFromProduct arma el formulario de edición con los valores actuales.
func FormFromProduct(product Product) ProductForm {
	return ProductForm{
		Type:        product.Type,
		Description: product.Description,
		Price:       product.PriceText(),
		Weight:      product.WeightText(),
	}
}
