package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/ignatzorin/rso-backend/internal/export"
	"github.com/ignatzorin/rso-backend/internal/models"
)

// Field подпись и значение строки карточки.
type Field struct {
	Label string
	Value string
}

// Detail карточка отчёта: все поля, экипаж и непустые текстовые поля.
type Detail struct {
	ID     int64
	Fields []Field
	Crew   []models.CrewMember
	Texts  []Field
}

// BuildDetail собирает карточку. Даты выводятся в loc.
func BuildDetail(rel *models.Relatorio, loc *time.Location) *Detail {
	d := &Detail{
		ID: rel.ID,
		Fields: []Field{
			{"ID", strconv.FormatInt(rel.ID, 10)},
			{"Data de Criação", export.DateTimeBR(rel.CreatedAt, loc)},
			{"Encarregado", rel.NomeCompleto()},
			{"Patente", rel.EncarregadoPatente},
			{"Viatura", rel.ViaturaPrefixo},
			{"Data de Início", export.DateTimeBR(rel.DataInicio, loc)},
			{"Data de Fim", export.DateTimeBR(rel.DataFim, loc)},
			{"Total de Ocorrências", strconv.Itoa(rel.TotalOcorrencias)},
			{"Drogas Apreendidas", strconv.Itoa(rel.DrogasApreendidas)},
			{"Dinheiro Apreendido", "R$ " + export.Money(rel.DinheiroSujoApreendido)},
			{"Armamento Apreendido", strconv.Itoa(rel.ArmamentoApreendido)},
			{"Munição Apreendida", strconv.Itoa(rel.MunicaoApreendida)},
			{"Bombas Apreendidas", strconv.Itoa(rel.BombasApreendidas)},
			{"Lockpik Apreendidas", strconv.Itoa(rel.LockpikApreendidas)},
		},
		Crew: rel.Crew(),
	}

	for _, t := range []struct {
		label string
		value *string
	}{
		{"Relação de Detidos / BOs", rel.RelacaoDetidosBos},
		{"Ações Realizadas", rel.AcoesRealizadas},
		{"Observações", rel.Observacoes},
	} {
		if t.value != nil && strings.TrimSpace(*t.value) != "" {
			d.Texts = append(d.Texts, Field{t.label, *t.value})
		}
	}

	return d
}
