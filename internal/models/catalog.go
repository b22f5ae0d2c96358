package models

// VehicleModel модель виатуры и её префиксы.
type VehicleModel struct {
	Modelo   string   `json:"modelo"`
	Prefixos []string `json:"prefixos"`
}

// Catalog неизменяемый каталог виатур, загружается один раз при старте.
type Catalog struct {
	models []VehicleModel
	flat   []string
	index  map[string]struct{}
}

// NewCatalog строит каталог, сохраняя порядок моделей и префиксов.
func NewCatalog(src ...VehicleModel) *Catalog {
	c := &Catalog{index: make(map[string]struct{})}
	for _, m := range src {
		prefixos := append([]string(nil), m.Prefixos...)
		c.models = append(c.models, VehicleModel{Modelo: m.Modelo, Prefixos: prefixos})
		for _, p := range prefixos {
			value := m.Modelo + " - " + p
			c.flat = append(c.flat, value)
			c.index[value] = struct{}{}
		}
	}
	return c
}

// Models возвращает копию списка моделей.
func (c *Catalog) Models() []VehicleModel {
	out := make([]VehicleModel, len(c.models))
	for i, m := range c.models {
		out[i] = VehicleModel{Modelo: m.Modelo, Prefixos: append([]string(nil), m.Prefixos...)}
	}
	return out
}

// Flat возвращает значения "модель - префикс", которые видит пользователь.
func (c *Catalog) Flat() []string {
	return append([]string(nil), c.flat...)
}

// Contains проверяет, что значение присутствует в каталоге.
func (c *Catalog) Contains(value string) bool {
	_, ok := c.index[value]
	return ok
}

var humaitaPrefixos = []string{"93001", "93002", "93100", "93200", "93121", "93122", "93123", "93157", "93000"}

// DefaultCatalog каталог виатур 3º BPChq Humaitá.
var DefaultCatalog = NewCatalog(
	VehicleModel{Modelo: "TRAIL 23 HUMAITÁ", Prefixos: humaitaPrefixos},
	VehicleModel{Modelo: "TRAIL 21 HUMAITÁ", Prefixos: humaitaPrefixos},
	VehicleModel{Modelo: "SPIN", Prefixos: []string{
		"3-163",
		"22-858",
		"22-871",
		"22-384",
		"22-650",
		"BA-046",
		"ESSgt-020",
		"3-351",
	}},
)
