package validation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rso-backend/internal/models"
)

func validInput() *models.RelatorioInput {
	inicio := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	return &models.RelatorioInput{
		EncarregadoNome:      "João",
		EncarregadoSobrenome: "Silva",
		EncarregadoPatente:   "Cabo",
		ViaturaPrefixo:       "SPIN - 3-163",
		ChefeBarcaPatente:    "3º Sargento",
		ChefeBarcaNome:       "Souza",
		MotoristaPatente:     "Cabo",
		MotoristaNome:        "Lima",
		TerceiroHomemPatente: "Soldado 1ª Classe",
		TerceiroHomemNome:    "Pereira",
		QuartoHomemPatente:   "Soldado 2ª Classe",
		QuartoHomemNome:      "Costa",
		QuintoHomemPatente:   "Soldado 2ª Classe",
		QuintoHomemNome:      "Alves",
		DataInicio:           inicio,
		DataFim:              inicio.Add(12 * time.Hour),
		TotalOcorrencias:     3,
	}
}

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	return errs
}

func TestValidateRelatorio_Valid(t *testing.T) {
	assert.NoError(t, ValidateRelatorio(validInput(), Options{}))
	assert.NoError(t, ValidateRelatorio(validInput(), Options{Strict: true, Catalog: models.DefaultCatalog}))
}

func TestValidateRelatorio_MissingFields(t *testing.T) {
	in := validInput()
	in.EncarregadoNome = "   "
	in.MotoristaPatente = ""
	in.DataFim = time.Time{}

	errs := fieldErrors(t, ValidateRelatorio(in, Options{}))
	assert.Equal(t, "Nome é obrigatório", errs["encarregadoNome"])
	assert.Equal(t, "Patente do motorista é obrigatória", errs["motoristaPatente"])
	assert.Equal(t, "Data de fim é obrigatória", errs["dataFim"])
	assert.Len(t, errs, 3)
}

func TestValidateRelatorio_NegativeCounters(t *testing.T) {
	in := validInput()
	in.DrogasApreendidas = -1
	in.DinheiroSujoApreendido = -0.5

	errs := fieldErrors(t, ValidateRelatorio(in, Options{}))
	assert.Contains(t, errs, "drogasApreendidas")
	assert.Contains(t, errs, "dinheiroSujoApreendido")
}

func TestValidateRelatorio_CountersFitInteger(t *testing.T) {
	in := validInput()
	in.TotalOcorrencias = 3_000_000_000
	in.MunicaoApreendida = math.MaxInt32

	errs := fieldErrors(t, ValidateRelatorio(in, Options{}))
	assert.Equal(t, msgTooLarge, errs["totalOcorrencias"])
	assert.NotContains(t, errs, "municaoApreendida")

	huge := math.MaxInt32 + 1
	errs = fieldErrors(t, ValidatePatch(&models.RelatorioPatch{LockpikApreendidas: &huge}, Options{}))
	assert.Equal(t, msgTooLarge, errs["lockpikApreendidas"])
}

func TestValidateRelatorio_DinheiroCentavos(t *testing.T) {
	for _, v := range []float64{0, 0.1, 150.75, 1e6, MaxDinheiro} {
		in := validInput()
		in.DinheiroSujoApreendido = v
		assert.NoError(t, ValidateRelatorio(in, Options{}), "%v", v)
	}

	in := validInput()
	in.DinheiroSujoApreendido = 10.005
	errs := fieldErrors(t, ValidateRelatorio(in, Options{}))
	assert.Equal(t, msgCentavos, errs["dinheiroSujoApreendido"])

	v := 0.001
	errs = fieldErrors(t, ValidatePatch(&models.RelatorioPatch{DinheiroSujoApreendido: &v}, Options{}))
	assert.Equal(t, msgCentavos, errs["dinheiroSujoApreendido"])
}

func TestValidateRelatorio_TooLong(t *testing.T) {
	in := validInput()
	long := make([]rune, MaxTextoLength+1)
	for i := range long {
		long[i] = 'a'
	}
	s := string(long)
	in.Observacoes = &s

	errs := fieldErrors(t, ValidateRelatorio(in, Options{}))
	assert.Contains(t, errs, "observacoes")
}

func TestValidateRelatorio_StrictMode(t *testing.T) {
	in := validInput()
	in.EncarregadoPatente = "General"
	in.ViaturaPrefixo = "FUSCA - 1"
	in.DataFim = in.DataInicio

	// нестрогий режим пропускает отклонения от справочников
	assert.NoError(t, ValidateRelatorio(in, Options{Catalog: models.DefaultCatalog}))

	errs := fieldErrors(t, ValidateRelatorio(in, Options{Strict: true, Catalog: models.DefaultCatalog}))
	assert.Equal(t, msgPatente, errs["encarregadoPatente"])
	assert.Equal(t, msgViatura, errs["viaturaPrefixo"])
	assert.Equal(t, msgJanela, errs["dataFim"])
}

func TestCatalogIssues(t *testing.T) {
	assert.Empty(t, CatalogIssues(validInput(), models.DefaultCatalog))

	in := validInput()
	in.QuintoHomemPatente = "Recruta"
	issues := CatalogIssues(in, models.DefaultCatalog)
	assert.Equal(t, Errors{"quintohomemPatente": msgPatente}, issues)

	// без каталога префикс не проверяется
	in = validInput()
	in.ViaturaPrefixo = "qualquer"
	assert.Empty(t, CatalogIssues(in, nil))
}

func TestValidatePatch(t *testing.T) {
	empty := ""
	neg := -2
	name := "Maria"
	patente := "Coronel"

	assert.NoError(t, ValidatePatch(&models.RelatorioPatch{}, Options{}))
	assert.NoError(t, ValidatePatch(&models.RelatorioPatch{EncarregadoNome: &name}, Options{Strict: true}))

	errs := fieldErrors(t, ValidatePatch(&models.RelatorioPatch{
		EncarregadoSobrenome: &empty,
		BombasApreendidas:    &neg,
	}, Options{}))
	assert.Equal(t, "Sobrenome é obrigatório", errs["encarregadoSobrenome"])
	assert.Equal(t, msgNegative, errs["bombasApreendidas"])

	assert.NoError(t, ValidatePatch(&models.RelatorioPatch{EncarregadoPatente: &patente}, Options{}))
	errs = fieldErrors(t, ValidatePatch(&models.RelatorioPatch{EncarregadoPatente: &patente}, Options{Strict: true}))
	assert.Equal(t, msgPatente, errs["encarregadoPatente"])
}

func TestValidatePatch_StrictWindow(t *testing.T) {
	inicio := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	fim := inicio.Add(-time.Hour)
	p := &models.RelatorioPatch{DataInicio: &inicio, DataFim: &fim}

	assert.NoError(t, ValidatePatch(p, Options{}))
	errs := fieldErrors(t, ValidatePatch(p, Options{Strict: true}))
	assert.Equal(t, msgJanela, errs["dataFim"])
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	assert.NoError(t, errs.Err())

	errs.Add("b", "segundo")
	errs.Add("a", "primeiro")
	errs.Add("a", "ignorado")
	assert.Equal(t, "a: primeiro; b: segundo", errs.Error())
}

func TestParseCounter(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"  7 ", 7, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"1.5", 0, true},
		{"2.0", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCounter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMoney(t *testing.T) {
	v, err := ParseMoney("1500,50")
	require.NoError(t, err)
	assert.Equal(t, 1500.5, v)

	v, err = ParseMoney("x")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = ParseMoney("-10")
	assert.Error(t, err)

	_, err = ParseMoney("10,005")
	assert.EqualError(t, err, msgCentavos)
}

func TestParseDateAndTime(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	h, m, err := ParseTimeOfDay("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	_, _, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
