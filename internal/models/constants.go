package models

// Patentes da Polícia Militar, от старшей к младшей.
var Patentes = []string{
	"Tenente Coronel",
	"Major",
	"Capitão",
	"1º Tenente",
	"2º Tenente",
	"Aspirante a Oficial",
	"Subtenente",
	"1º Sargento",
	"2º Sargento",
	"3º Sargento",
	"Cabo",
	"Soldado 1ª Classe",
	"Soldado 2ª Classe",
}

// ValidPatentes множество допустимых патентов.
var ValidPatentes = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Patentes))
	for _, p := range Patentes {
		m[p] = struct{}{}
	}
	return m
}()

// Роли экипажа
const (
	FuncaoChefeBarca    = "Chefe de Barca"
	FuncaoMotorista     = "Motorista"
	FuncaoTerceiroHomem = "3º Homem"
	FuncaoQuartoHomem   = "4º Homem"
	FuncaoQuintoHomem   = "5º Homem"
)

// Роли пользователей платформы
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
