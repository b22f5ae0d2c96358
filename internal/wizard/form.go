package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/validation"
)

const (
	msgDataInvalida    = "data inválida"
	msgHorarioInvalido = "horário inválido"
)

// Form текстовое состояние формы, как его вводит пользователь.
// Ключи полей совпадают с JSON именами отчёта.
type Form struct {
	values map[string]string
}

// NewForm создаёт пустую форму.
func NewForm() Form {
	return Form{values: make(map[string]string)}
}

// Get возвращает значение поля или пустую строку.
func (f Form) Get(key string) string {
	return f.values[key]
}

// Values копия всех заполненных полей.
func (f Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f Form) clone() Form {
	return Form{values: f.Values()}
}

// Поля каждого шага.
var (
	step1Fields = []string{"encarregadoNome", "encarregadoSobrenome", "encarregadoPatente"}

	step2Fields = []string{
		"viaturaPrefixo",
		"chefeBarcaPatente", "chefeBarcaNome",
		"motoristaPatente", "motoristaNome",
		"terceirohomemPatente", "terceirohomemNome",
		"quartohomemPatente", "quartohomemNome",
		"quintohomemPatente", "quintohomemNome",
	}

	step3Fields = []string{"dataInicio", "horarioInicio", "dataFim", "horarioFim"}

	counterFields = []string{
		"totalOcorrencias", "drogasApreendidas", "armamentoApreendido",
		"municaoApreendida", "bombasApreendidas", "lockpikApreendidas",
	}

	textFields = []string{"relacaoDetidosBos", "acoesRealizadas", "observacoes"}

	step4Fields = append(append(append([]string{}, counterFields...), "dinheiroSujoApreendido"), textFields...)
)

// Labels подписи полей для интерактивного ввода.
var Labels = map[string]string{
	"encarregadoNome":        "Nome do encarregado",
	"encarregadoSobrenome":   "Sobrenome do encarregado",
	"encarregadoPatente":     "Patente do encarregado",
	"viaturaPrefixo":         "Prefixo da viatura",
	"chefeBarcaPatente":      "Patente do chefe de barca",
	"chefeBarcaNome":         "Nome do chefe de barca",
	"motoristaPatente":       "Patente do motorista",
	"motoristaNome":          "Nome do motorista",
	"terceirohomemPatente":   "Patente do 3º homem",
	"terceirohomemNome":      "Nome do 3º homem",
	"quartohomemPatente":     "Patente do 4º homem",
	"quartohomemNome":        "Nome do 4º homem",
	"quintohomemPatente":     "Patente do 5º homem",
	"quintohomemNome":        "Nome do 5º homem",
	"dataInicio":             "Data de início (AAAA-MM-DD)",
	"horarioInicio":          "Horário de início (HH:MM)",
	"dataFim":                "Data de fim (AAAA-MM-DD)",
	"horarioFim":             "Horário de fim (HH:MM)",
	"totalOcorrencias":       "Total de ocorrências",
	"drogasApreendidas":      "Drogas apreendidas",
	"dinheiroSujoApreendido": "Dinheiro sujo apreendido (R$)",
	"armamentoApreendido":    "Armamento apreendido",
	"municaoApreendida":      "Munição apreendida",
	"bombasApreendidas":      "Bombas apreendidas",
	"lockpikApreendidas":     "Lockpik apreendidas",
	"relacaoDetidosBos":      "Relação de detidos / BOs",
	"acoesRealizadas":        "Ações realizadas",
	"observacoes":            "Observações",
}

// StepFields возвращает ключи полей шага step (1..4).
func StepFields(step State) []string {
	switch step {
	case Step1:
		return append([]string(nil), step1Fields...)
	case Step2:
		return append([]string(nil), step2Fields...)
	case Step3:
		return append([]string(nil), step3Fields...)
	case Step4:
		return append([]string(nil), step4Fields...)
	}
	return nil
}

// KnownField сообщает, есть ли такое поле в форме.
func KnownField(key string) bool {
	for step := Step1; step <= Step4; step++ {
		for _, k := range StepFields(step) {
			if k == key {
				return true
			}
		}
	}
	return false
}

// validateStep проверяет поля одного шага.
func (f Form) validateStep(step State) validation.Errors {
	errs := validation.Errors{}

	switch step {
	case Step1, Step2:
		for _, key := range StepFields(step) {
			if strings.TrimSpace(f.values[key]) == "" {
				errs.Add(key, validation.Messages[key])
			}
		}
	case Step3:
		for _, key := range step3Fields {
			v := strings.TrimSpace(f.values[key])
			if v == "" {
				errs.Add(key, validation.Messages[key])
				continue
			}
			if strings.HasPrefix(key, "data") {
				if _, err := validation.ParseDate(v); err != nil {
					errs.Add(key, msgDataInvalida)
				}
			} else if _, _, err := validation.ParseTimeOfDay(v); err != nil {
				errs.Add(key, msgHorarioInvalido)
			}
		}
	case Step4:
		for _, key := range counterFields {
			if _, err := validation.ParseCounter(f.values[key]); err != nil {
				errs.Add(key, err.Error())
			}
		}
		if _, err := validation.ParseMoney(f.values["dinheiroSujoApreendido"]); err != nil {
			errs.Add("dinheiroSujoApreendido", err.Error())
		}
	}

	return errs
}

// validateUpTo проверяет все шаги с первого по step включительно.
func (f Form) validateUpTo(step State) validation.Errors {
	errs := validation.Errors{}
	for s := Step1; s <= step && s <= Step4; s++ {
		errs.Merge(f.validateStep(s))
	}
	return errs
}

// Build собирает отчёт. Дата и время каждой границы объединяются в loc.
func (f Form) Build(loc *time.Location) (*models.RelatorioInput, error) {
	if errs := f.validateUpTo(Step4); len(errs) > 0 {
		return nil, errs
	}
	if loc == nil {
		loc = time.Local
	}

	inicio, err := f.timestamp("dataInicio", "horarioInicio", loc)
	if err != nil {
		return nil, err
	}
	fim, err := f.timestamp("dataFim", "horarioFim", loc)
	if err != nil {
		return nil, err
	}

	in := &models.RelatorioInput{
		EncarregadoNome:      strings.TrimSpace(f.values["encarregadoNome"]),
		EncarregadoSobrenome: strings.TrimSpace(f.values["encarregadoSobrenome"]),
		EncarregadoPatente:   strings.TrimSpace(f.values["encarregadoPatente"]),
		ViaturaPrefixo:       strings.TrimSpace(f.values["viaturaPrefixo"]),
		ChefeBarcaPatente:    strings.TrimSpace(f.values["chefeBarcaPatente"]),
		ChefeBarcaNome:       strings.TrimSpace(f.values["chefeBarcaNome"]),
		MotoristaPatente:     strings.TrimSpace(f.values["motoristaPatente"]),
		MotoristaNome:        strings.TrimSpace(f.values["motoristaNome"]),
		TerceiroHomemPatente: strings.TrimSpace(f.values["terceirohomemPatente"]),
		TerceiroHomemNome:    strings.TrimSpace(f.values["terceirohomemNome"]),
		QuartoHomemPatente:   strings.TrimSpace(f.values["quartohomemPatente"]),
		QuartoHomemNome:      strings.TrimSpace(f.values["quartohomemNome"]),
		QuintoHomemPatente:   strings.TrimSpace(f.values["quintohomemPatente"]),
		QuintoHomemNome:      strings.TrimSpace(f.values["quintohomemNome"]),
		DataInicio:           inicio,
		DataFim:              fim,
		RelacaoDetidosBos:    f.optional("relacaoDetidosBos"),
		AcoesRealizadas:      f.optional("acoesRealizadas"),
		Observacoes:          f.optional("observacoes"),
	}

	// ошибки счётчиков уже исключены validateUpTo
	in.TotalOcorrencias, _ = validation.ParseCounter(f.values["totalOcorrencias"])
	in.DrogasApreendidas, _ = validation.ParseCounter(f.values["drogasApreendidas"])
	in.ArmamentoApreendido, _ = validation.ParseCounter(f.values["armamentoApreendido"])
	in.MunicaoApreendida, _ = validation.ParseCounter(f.values["municaoApreendida"])
	in.BombasApreendidas, _ = validation.ParseCounter(f.values["bombasApreendidas"])
	in.LockpikApreendidas, _ = validation.ParseCounter(f.values["lockpikApreendidas"])
	in.DinheiroSujoApreendido, _ = validation.ParseMoney(f.values["dinheiroSujoApreendido"])

	if err := validation.ValidateRelatorio(in, validation.Options{}); err != nil {
		return nil, err
	}
	return in, nil
}

func (f Form) timestamp(dateKey, timeKey string, loc *time.Location) (time.Time, error) {
	d, err := validation.ParseDate(f.values[dateKey])
	if err != nil {
		return time.Time{}, fmt.Errorf("wizard: %s: %w", dateKey, err)
	}
	h, m, err := validation.ParseTimeOfDay(f.values[timeKey])
	if err != nil {
		return time.Time{}, fmt.Errorf("wizard: %s: %w", timeKey, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc), nil
}

func (f Form) optional(key string) *string {
	v := strings.TrimSpace(f.values[key])
	if v == "" {
		return nil
	}
	return &v
}
