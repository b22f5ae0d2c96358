package validation

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ignatzorin/rso-backend/internal/models"
)

// Errors ошибки валидации по полям. Ключ это JSON имя поля.
type Errors map[string]string

// Error собирает сообщения в стабильном порядке.
func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Add сохраняет первое сообщение для поля.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Merge переносит ошибки other, не перетирая существующие.
func (e Errors) Merge(other Errors) {
	for k, v := range other {
		e.Add(k, v)
	}
}

// Err возвращает nil, если ошибок нет.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Options управляет строгостью проверки.
// Strict включает проверку патентов, каталога виатур и порядка дат.
type Options struct {
	Strict  bool
	Catalog *models.Catalog
}

// Сообщения об обязательных полях, общие для сервера и мастера.
var Messages = map[string]string{
	"encarregadoNome":      "Nome é obrigatório",
	"encarregadoSobrenome": "Sobrenome é obrigatório",
	"encarregadoPatente":   "Patente é obrigatória",
	"viaturaPrefixo":       "Prefixo da viatura é obrigatório",
	"chefeBarcaPatente":    "Patente do chefe de barca é obrigatória",
	"chefeBarcaNome":       "Nome do chefe de barca é obrigatório",
	"motoristaPatente":     "Patente do motorista é obrigatória",
	"motoristaNome":        "Nome do motorista é obrigatório",
	"terceirohomemPatente": "Patente do 3º homem é obrigatória",
	"terceirohomemNome":    "Nome do 3º homem é obrigatório",
	"quartohomemPatente":   "Patente do 4º homem é obrigatória",
	"quartohomemNome":      "Nome do 4º homem é obrigatório",
	"quintohomemPatente":   "Patente do 5º homem é obrigatória",
	"quintohomemNome":      "Nome do 5º homem é obrigatório",
	"dataInicio":           "Data de início é obrigatória",
	"horarioInicio":        "Horário de início é obrigatório",
	"dataFim":              "Data de fim é obrigatória",
	"horarioFim":           "Horário de fim é obrigatório",
}

const (
	msgNegative     = "não pode ser negativo"
	msgNotInteger   = "deve ser um número inteiro"
	msgInvalidValue = "valor inválido"
	msgTooLarge     = "valor acima do permitido"
	msgCentavos     = "no máximo 2 casas decimais"
	msgPatente      = "patente fora da lista oficial"
	msgViatura      = "prefixo fora do catálogo de viaturas"
	msgJanela       = "data de fim deve ser posterior à data de início"
)

type stringField struct {
	key     string
	max     int
	patente bool
	get     func(in *models.RelatorioInput) string
	patch   func(p *models.RelatorioPatch) *string
}

var requiredStrings = []stringField{
	{"encarregadoNome", MaxNomeLength, false, func(in *models.RelatorioInput) string { return in.EncarregadoNome }, func(p *models.RelatorioPatch) *string { return p.EncarregadoNome }},
	{"encarregadoSobrenome", MaxNomeLength, false, func(in *models.RelatorioInput) string { return in.EncarregadoSobrenome }, func(p *models.RelatorioPatch) *string { return p.EncarregadoSobrenome }},
	{"encarregadoPatente", MaxPatenteLength, true, func(in *models.RelatorioInput) string { return in.EncarregadoPatente }, func(p *models.RelatorioPatch) *string { return p.EncarregadoPatente }},
	{"viaturaPrefixo", MaxPrefixoLength, false, func(in *models.RelatorioInput) string { return in.ViaturaPrefixo }, func(p *models.RelatorioPatch) *string { return p.ViaturaPrefixo }},
	{"chefeBarcaPatente", MaxPatenteLength, true, func(in *models.RelatorioInput) string { return in.ChefeBarcaPatente }, func(p *models.RelatorioPatch) *string { return p.ChefeBarcaPatente }},
	{"chefeBarcaNome", MaxNomeLength, false, func(in *models.RelatorioInput) string { return in.ChefeBarcaNome }, func(p *models.RelatorioPatch) *string { return p.ChefeBarcaNome }},
	{"motoristaPatente", MaxPatenteLength, true, func(in *models.RelatorioInput) string { return in.MotoristaPatente }, func(p *models.RelatorioPatch) *string { return p.MotoristaPatente }},
	{"motoristaNome", MaxNomeLength, false, func(in *models.RelatorioInput) string { return in.MotoristaNome }, func(p *models.RelatorioPatch) *string { return p.MotoristaNome }},
	{"terceirohomemPatente", MaxPatenteLength, true, func(in *models.RelatorioInput) string { return in.TerceiroHomemPatente }, func(p *models.RelatorioPatch) *string { return p.TerceiroHomemPatente }},
	{"terceirohomemNome", MaxNomeLength, false, func(in *models.RelatorioInput) string { return in.TerceiroHomemNome }, func(p *models.RelatorioPatch) *string { return p.TerceiroHomemNome }},
	{"quartohomemPatente", MaxPatenteLength, true, func(in *models.RelatorioInput) string { return in.QuartoHomemPatente }, func(p *models.RelatorioPatch) *string { return p.QuartoHomemPatente }},
	{"quartohomemNome", MaxNomeLength, false, func(in *models.RelatorioInput) string { return in.QuartoHomemNome }, func(p *models.RelatorioPatch) *string { return p.QuartoHomemNome }},
	{"quintohomemPatente", MaxPatenteLength, true, func(in *models.RelatorioInput) string { return in.QuintoHomemPatente }, func(p *models.RelatorioPatch) *string { return p.QuintoHomemPatente }},
	{"quintohomemNome", MaxNomeLength, false, func(in *models.RelatorioInput) string { return in.QuintoHomemNome }, func(p *models.RelatorioPatch) *string { return p.QuintoHomemNome }},
}

type counterField struct {
	key   string
	get   func(in *models.RelatorioInput) int
	patch func(p *models.RelatorioPatch) *int
}

var counters = []counterField{
	{"totalOcorrencias", func(in *models.RelatorioInput) int { return in.TotalOcorrencias }, func(p *models.RelatorioPatch) *int { return p.TotalOcorrencias }},
	{"drogasApreendidas", func(in *models.RelatorioInput) int { return in.DrogasApreendidas }, func(p *models.RelatorioPatch) *int { return p.DrogasApreendidas }},
	{"armamentoApreendido", func(in *models.RelatorioInput) int { return in.ArmamentoApreendido }, func(p *models.RelatorioPatch) *int { return p.ArmamentoApreendido }},
	{"municaoApreendida", func(in *models.RelatorioInput) int { return in.MunicaoApreendida }, func(p *models.RelatorioPatch) *int { return p.MunicaoApreendida }},
	{"bombasApreendidas", func(in *models.RelatorioInput) int { return in.BombasApreendidas }, func(p *models.RelatorioPatch) *int { return p.BombasApreendidas }},
	{"lockpikApreendidas", func(in *models.RelatorioInput) int { return in.LockpikApreendidas }, func(p *models.RelatorioPatch) *int { return p.LockpikApreendidas }},
}

// ValidateRelatorio проверяет новый отчёт перед вставкой.
func ValidateRelatorio(in *models.RelatorioInput, opts Options) error {
	errs := Errors{}

	for _, f := range requiredStrings {
		checkRequiredString(errs, f.key, f.get(in), f.max)
	}

	if in.DataInicio.IsZero() {
		errs.Add("dataInicio", Messages["dataInicio"])
	}
	if in.DataFim.IsZero() {
		errs.Add("dataFim", Messages["dataFim"])
	}

	for _, c := range counters {
		checkCounter(errs, c.key, c.get(in))
	}
	checkDinheiro(errs, in.DinheiroSujoApreendido)

	checkText(errs, "relacaoDetidosBos", in.RelacaoDetidosBos)
	checkText(errs, "acoesRealizadas", in.AcoesRealizadas)
	checkText(errs, "observacoes", in.Observacoes)

	if opts.Strict {
		errs.Merge(CatalogIssues(in, opts.Catalog))
	}

	return errs.Err()
}

// ValidatePatch проверяет только переданные поля частичного обновления.
func ValidatePatch(p *models.RelatorioPatch, opts Options) error {
	errs := Errors{}

	for _, f := range requiredStrings {
		if v := f.patch(p); v != nil {
			checkRequiredString(errs, f.key, *v, f.max)
		}
	}

	if p.DataInicio != nil && p.DataInicio.IsZero() {
		errs.Add("dataInicio", Messages["dataInicio"])
	}
	if p.DataFim != nil && p.DataFim.IsZero() {
		errs.Add("dataFim", Messages["dataFim"])
	}

	for _, c := range counters {
		if v := c.patch(p); v != nil {
			checkCounter(errs, c.key, *v)
		}
	}
	if p.DinheiroSujoApreendido != nil {
		checkDinheiro(errs, *p.DinheiroSujoApreendido)
	}

	checkText(errs, "relacaoDetidosBos", p.RelacaoDetidosBos)
	checkText(errs, "acoesRealizadas", p.AcoesRealizadas)
	checkText(errs, "observacoes", p.Observacoes)

	if opts.Strict {
		errs.Merge(PatchCatalogIssues(p, opts.Catalog))
	}

	return errs.Err()
}

// CatalogIssues возвращает отклонения от справочников: патент вне списка,
// префикс вне каталога, конец патрулирования не позже начала.
// В нестрогом режиме сервис только журналирует их.
func CatalogIssues(in *models.RelatorioInput, catalog *models.Catalog) Errors {
	errs := Errors{}

	for _, f := range requiredStrings {
		if !f.patente {
			continue
		}
		v := f.get(in)
		if v == "" {
			continue
		}
		if _, ok := models.ValidPatentes[v]; !ok {
			errs.Add(f.key, msgPatente)
		}
	}

	if catalog != nil && in.ViaturaPrefixo != "" && !catalog.Contains(in.ViaturaPrefixo) {
		errs.Add("viaturaPrefixo", msgViatura)
	}

	errs.Merge(CheckWindow(in.DataInicio, in.DataFim))

	return errs
}

// PatchCatalogIssues то же, что CatalogIssues, но только для переданных полей патча.
// Порядок дат проверяется, когда переданы обе даты.
func PatchCatalogIssues(p *models.RelatorioPatch, catalog *models.Catalog) Errors {
	errs := Errors{}

	for _, f := range requiredStrings {
		if !f.patente {
			continue
		}
		if v := f.patch(p); v != nil && *v != "" {
			if _, ok := models.ValidPatentes[*v]; !ok {
				errs.Add(f.key, msgPatente)
			}
		}
	}

	if catalog != nil && p.ViaturaPrefixo != nil && *p.ViaturaPrefixo != "" && !catalog.Contains(*p.ViaturaPrefixo) {
		errs.Add("viaturaPrefixo", msgViatura)
	}

	if p.DataInicio != nil && p.DataFim != nil {
		errs.Merge(CheckWindow(*p.DataInicio, *p.DataFim))
	}

	return errs
}

// CheckWindow проверяет, что конец патрулирования позже начала.
func CheckWindow(inicio, fim time.Time) Errors {
	if inicio.IsZero() || fim.IsZero() || fim.After(inicio) {
		return Errors{}
	}
	return Errors{"dataFim": msgJanela}
}

// ParseCounter приводит текст поля формы к неотрицательному целому.
// Пустой или нечисловой ввод превращается в 0.
func ParseCounter(text string) (int, error) {
	v, ok := parseNumber(text)
	if !ok {
		return 0, nil
	}
	if v < 0 {
		return 0, errMessage(msgNegative)
	}
	if v != math.Trunc(v) {
		return 0, errMessage(msgNotInteger)
	}
	if v > math.MaxInt32 {
		return 0, errMessage(msgTooLarge)
	}
	return int(v), nil
}

// ParseMoney приводит текст поля формы к неотрицательной сумме.
// Допускается десятичная запятая.
func ParseMoney(text string) (float64, error) {
	v, ok := parseNumber(strings.ReplaceAll(text, ",", "."))
	if !ok {
		return 0, nil
	}
	if v < 0 {
		return 0, errMessage(msgNegative)
	}
	if v > MaxDinheiro {
		return 0, errMessage(msgTooLarge)
	}
	if !centavos(v) {
		return 0, errMessage(msgCentavos)
	}
	return v, nil
}

// ParseDate разбирает дату формы в формате YYYY-MM-DD.
func ParseDate(text string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(text))
}

// ParseTimeOfDay разбирает время формы HH:MM и возвращает часы и минуты.
func ParseTimeOfDay(text string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(text))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

type errMessage string

func (e errMessage) Error() string { return string(e) }

func parseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func checkRequiredString(errs Errors, key, value string, max int) {
	if strings.TrimSpace(value) == "" {
		errs.Add(key, Messages[key])
		return
	}
	if err := ValidateLength(key, value, 0, max); err != nil {
		errs.Add(key, err.Error())
	}
}

func checkDinheiro(errs Errors, v float64) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		errs.Add("dinheiroSujoApreendido", msgInvalidValue)
	case v < 0:
		errs.Add("dinheiroSujoApreendido", msgNegative)
	case v > MaxDinheiro:
		errs.Add("dinheiroSujoApreendido", msgTooLarge)
	case !centavos(v):
		errs.Add("dinheiroSujoApreendido", msgCentavos)
	}
}

// centavos сообщает, что в сумме не больше двух знаков после точки.
// Колонка NUMERIC(14,2) иначе молча округлит значение.
func centavos(v float64) bool {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(text, '.')
	return dot < 0 || len(text)-dot-1 <= 2
}

// checkCounter счётчики хранятся в колонках INTEGER.
func checkCounter(errs Errors, key string, v int) {
	switch {
	case v < 0:
		errs.Add(key, msgNegative)
	case v > math.MaxInt32:
		errs.Add(key, msgTooLarge)
	}
}

func checkText(errs Errors, key string, v *string) {
	if v == nil {
		return
	}
	if err := ValidateLength(key, *v, 0, MaxTextoLength); err != nil {
		errs.Add(key, err.Error())
	}
}
