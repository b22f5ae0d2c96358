package models

import (
	"strings"
	"time"
)

// RelatorioInput содержит все поля RSO, которые заполняет пользователь.
// Идентификатор и метки времени назначает хранилище.
type RelatorioInput struct {
	EncarregadoNome      string `db:"encarregado_nome" json:"encarregadoNome"`
	EncarregadoSobrenome string `db:"encarregado_sobrenome" json:"encarregadoSobrenome"`
	EncarregadoPatente   string `db:"encarregado_patente" json:"encarregadoPatente"`

	ViaturaPrefixo       string `db:"viatura_prefixo" json:"viaturaPrefixo"`
	ChefeBarcaPatente    string `db:"chefe_barca_patente" json:"chefeBarcaPatente"`
	ChefeBarcaNome       string `db:"chefe_barca_nome" json:"chefeBarcaNome"`
	MotoristaPatente     string `db:"motorista_patente" json:"motoristaPatente"`
	MotoristaNome        string `db:"motorista_nome" json:"motoristaNome"`
	TerceiroHomemPatente string `db:"terceiro_homem_patente" json:"terceirohomemPatente"`
	TerceiroHomemNome    string `db:"terceiro_homem_nome" json:"terceirohomemNome"`
	QuartoHomemPatente   string `db:"quarto_homem_patente" json:"quartohomemPatente"`
	QuartoHomemNome      string `db:"quarto_homem_nome" json:"quartohomemNome"`
	QuintoHomemPatente   string `db:"quinto_homem_patente" json:"quintohomemPatente"`
	QuintoHomemNome      string `db:"quinto_homem_nome" json:"quintohomemNome"`

	DataInicio time.Time `db:"data_inicio" json:"dataInicio"`
	DataFim    time.Time `db:"data_fim" json:"dataFim"`

	TotalOcorrencias       int     `db:"total_ocorrencias" json:"totalOcorrencias"`
	DrogasApreendidas      int     `db:"drogas_apreendidas" json:"drogasApreendidas"`
	DinheiroSujoApreendido float64 `db:"dinheiro_sujo_apreendido" json:"dinheiroSujoApreendido"`
	ArmamentoApreendido    int     `db:"armamento_apreendido" json:"armamentoApreendido"`
	MunicaoApreendida      int     `db:"municao_apreendida" json:"municaoApreendida"`
	BombasApreendidas      int     `db:"bombas_apreendidas" json:"bombasApreendidas"`
	LockpikApreendidas     int     `db:"lockpik_apreendidas" json:"lockpikApreendidas"`

	RelacaoDetidosBos *string `db:"relacao_detidos_bos" json:"relacaoDetidosBos,omitempty"`
	AcoesRealizadas   *string `db:"acoes_realizadas" json:"acoesRealizadas,omitempty"`
	Observacoes       *string `db:"observacoes" json:"observacoes,omitempty"`
}

// Relatorio описывает сохранённый Relatório de Serviço Operacional.
type Relatorio struct {
	ID int64 `db:"id" json:"id"`
	RelatorioInput
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NomeCompleto возвращает имя и фамилию ответственного через пробел.
func (r *Relatorio) NomeCompleto() string {
	return r.EncarregadoNome + " " + r.EncarregadoSobrenome
}

// CrewMember одна позиция экипажа.
type CrewMember struct {
	Funcao  string `json:"funcao"`
	Patente string `json:"patente"`
	Nome    string `json:"nome"`
}

// Crew возвращает пять позиций экипажа в фиксированном порядке.
func (in *RelatorioInput) Crew() []CrewMember {
	return []CrewMember{
		{Funcao: FuncaoChefeBarca, Patente: in.ChefeBarcaPatente, Nome: in.ChefeBarcaNome},
		{Funcao: FuncaoMotorista, Patente: in.MotoristaPatente, Nome: in.MotoristaNome},
		{Funcao: FuncaoTerceiroHomem, Patente: in.TerceiroHomemPatente, Nome: in.TerceiroHomemNome},
		{Funcao: FuncaoQuartoHomem, Patente: in.QuartoHomemPatente, Nome: in.QuartoHomemNome},
		{Funcao: FuncaoQuintoHomem, Patente: in.QuintoHomemPatente, Nome: in.QuintoHomemNome},
	}
}

// RelatorioPatch частичное обновление: nil означает "не трогать поле".
type RelatorioPatch struct {
	EncarregadoNome      *string `json:"encarregadoNome,omitempty"`
	EncarregadoSobrenome *string `json:"encarregadoSobrenome,omitempty"`
	EncarregadoPatente   *string `json:"encarregadoPatente,omitempty"`

	ViaturaPrefixo       *string `json:"viaturaPrefixo,omitempty"`
	ChefeBarcaPatente    *string `json:"chefeBarcaPatente,omitempty"`
	ChefeBarcaNome       *string `json:"chefeBarcaNome,omitempty"`
	MotoristaPatente     *string `json:"motoristaPatente,omitempty"`
	MotoristaNome        *string `json:"motoristaNome,omitempty"`
	TerceiroHomemPatente *string `json:"terceirohomemPatente,omitempty"`
	TerceiroHomemNome    *string `json:"terceirohomemNome,omitempty"`
	QuartoHomemPatente   *string `json:"quartohomemPatente,omitempty"`
	QuartoHomemNome      *string `json:"quartohomemNome,omitempty"`
	QuintoHomemPatente   *string `json:"quintohomemPatente,omitempty"`
	QuintoHomemNome      *string `json:"quintohomemNome,omitempty"`

	DataInicio *time.Time `json:"dataInicio,omitempty"`
	DataFim    *time.Time `json:"dataFim,omitempty"`

	TotalOcorrencias       *int     `json:"totalOcorrencias,omitempty"`
	DrogasApreendidas      *int     `json:"drogasApreendidas,omitempty"`
	DinheiroSujoApreendido *float64 `json:"dinheiroSujoApreendido,omitempty"`
	ArmamentoApreendido    *int     `json:"armamentoApreendido,omitempty"`
	MunicaoApreendida      *int     `json:"municaoApreendida,omitempty"`
	BombasApreendidas      *int     `json:"bombasApreendidas,omitempty"`
	LockpikApreendidas     *int     `json:"lockpikApreendidas,omitempty"`

	RelacaoDetidosBos *string `json:"relacaoDetidosBos,omitempty"`
	AcoesRealizadas   *string `json:"acoesRealizadas,omitempty"`
	Observacoes       *string `json:"observacoes,omitempty"`
}

// PatchColumn пара "колонка = значение" для построения UPDATE.
type PatchColumn struct {
	Column string
	Value  any
}

// Columns возвращает заданные поля патча в порядке объявления структуры.
func (p *RelatorioPatch) Columns() []PatchColumn {
	var cols []PatchColumn
	addStr := func(column string, v *string) {
		if v != nil {
			cols = append(cols, PatchColumn{Column: column, Value: *v})
		}
	}
	addInt := func(column string, v *int) {
		if v != nil {
			cols = append(cols, PatchColumn{Column: column, Value: *v})
		}
	}
	addTime := func(column string, v *time.Time) {
		if v != nil {
			cols = append(cols, PatchColumn{Column: column, Value: *v})
		}
	}

	addStr("encarregado_nome", p.EncarregadoNome)
	addStr("encarregado_sobrenome", p.EncarregadoSobrenome)
	addStr("encarregado_patente", p.EncarregadoPatente)
	addStr("viatura_prefixo", p.ViaturaPrefixo)
	addStr("chefe_barca_patente", p.ChefeBarcaPatente)
	addStr("chefe_barca_nome", p.ChefeBarcaNome)
	addStr("motorista_patente", p.MotoristaPatente)
	addStr("motorista_nome", p.MotoristaNome)
	addStr("terceiro_homem_patente", p.TerceiroHomemPatente)
	addStr("terceiro_homem_nome", p.TerceiroHomemNome)
	addStr("quarto_homem_patente", p.QuartoHomemPatente)
	addStr("quarto_homem_nome", p.QuartoHomemNome)
	addStr("quinto_homem_patente", p.QuintoHomemPatente)
	addStr("quinto_homem_nome", p.QuintoHomemNome)
	addTime("data_inicio", p.DataInicio)
	addTime("data_fim", p.DataFim)
	addInt("total_ocorrencias", p.TotalOcorrencias)
	addInt("drogas_apreendidas", p.DrogasApreendidas)
	if p.DinheiroSujoApreendido != nil {
		cols = append(cols, PatchColumn{Column: "dinheiro_sujo_apreendido", Value: *p.DinheiroSujoApreendido})
	}
	addInt("armamento_apreendido", p.ArmamentoApreendido)
	addInt("municao_apreendida", p.MunicaoApreendida)
	addInt("bombas_apreendidas", p.BombasApreendidas)
	addInt("lockpik_apreendidas", p.LockpikApreendidas)
	addStr("relacao_detidos_bos", p.RelacaoDetidosBos)
	addStr("acoes_realizadas", p.AcoesRealizadas)
	addStr("observacoes", p.Observacoes)

	return cols
}

// Apply накладывает патч на запись в памяти. Отсутствующие поля не меняются.
func (p *RelatorioPatch) Apply(r *Relatorio) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setText := func(dst **string, v *string) {
		if v != nil {
			s := *v
			*dst = &s
		}
	}

	setStr(&r.EncarregadoNome, p.EncarregadoNome)
	setStr(&r.EncarregadoSobrenome, p.EncarregadoSobrenome)
	setStr(&r.EncarregadoPatente, p.EncarregadoPatente)
	setStr(&r.ViaturaPrefixo, p.ViaturaPrefixo)
	setStr(&r.ChefeBarcaPatente, p.ChefeBarcaPatente)
	setStr(&r.ChefeBarcaNome, p.ChefeBarcaNome)
	setStr(&r.MotoristaPatente, p.MotoristaPatente)
	setStr(&r.MotoristaNome, p.MotoristaNome)
	setStr(&r.TerceiroHomemPatente, p.TerceiroHomemPatente)
	setStr(&r.TerceiroHomemNome, p.TerceiroHomemNome)
	setStr(&r.QuartoHomemPatente, p.QuartoHomemPatente)
	setStr(&r.QuartoHomemNome, p.QuartoHomemNome)
	setStr(&r.QuintoHomemPatente, p.QuintoHomemPatente)
	setStr(&r.QuintoHomemNome, p.QuintoHomemNome)
	if p.DataInicio != nil {
		r.DataInicio = *p.DataInicio
	}
	if p.DataFim != nil {
		r.DataFim = *p.DataFim
	}
	setInt(&r.TotalOcorrencias, p.TotalOcorrencias)
	setInt(&r.DrogasApreendidas, p.DrogasApreendidas)
	if p.DinheiroSujoApreendido != nil {
		r.DinheiroSujoApreendido = *p.DinheiroSujoApreendido
	}
	setInt(&r.ArmamentoApreendido, p.ArmamentoApreendido)
	setInt(&r.MunicaoApreendida, p.MunicaoApreendida)
	setInt(&r.BombasApreendidas, p.BombasApreendidas)
	setInt(&r.LockpikApreendidas, p.LockpikApreendidas)
	setText(&r.RelacaoDetidosBos, p.RelacaoDetidosBos)
	setText(&r.AcoesRealizadas, p.AcoesRealizadas)
	setText(&r.Observacoes, p.Observacoes)
}

// FilterRelatorios оставляет записи, у которых имя, фамилия ответственного
// или префикс виатуры содержат term без учёта регистра.
// Пустой term возвращает исходный срез без изменений.
func FilterRelatorios(items []Relatorio, term string) []Relatorio {
	if term == "" {
		return items
	}

	needle := strings.ToLower(term)
	result := make([]Relatorio, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.EncarregadoNome), needle) ||
			strings.Contains(strings.ToLower(item.EncarregadoSobrenome), needle) ||
			strings.Contains(strings.ToLower(item.ViaturaPrefixo), needle) {
			result = append(result, item)
		}
	}
	return result
}
