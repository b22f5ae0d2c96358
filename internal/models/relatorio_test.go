package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRelatorios() []Relatorio {
	mk := func(id int64, nome, sobrenome, prefixo string) Relatorio {
		r := Relatorio{ID: id}
		r.EncarregadoNome = nome
		r.EncarregadoSobrenome = sobrenome
		r.ViaturaPrefixo = prefixo
		return r
	}
	return []Relatorio{
		mk(1, "Ana", "Silva", "SPIN - 3-163"),
		mk(2, "Bruno", "Costa", "TRAIL 23 HUMAITÁ - 93001"),
		mk(3, "Carla", "Spinola", "TRAIL 21 HUMAITÁ - 93100"),
	}
}

func ids(items []Relatorio) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterRelatorios_EmptyTermReturnsAll(t *testing.T) {
	items := sampleRelatorios()
	assert.Equal(t, items, FilterRelatorios(items, ""))
}

func TestFilterRelatorios_MatchesAnyFieldCaseInsensitive(t *testing.T) {
	items := sampleRelatorios()

	assert.Equal(t, []int64{1, 3}, ids(FilterRelatorios(items, "spin")))
	assert.Equal(t, []int64{2}, ids(FilterRelatorios(items, "BRUNO")))
	assert.Equal(t, []int64{1}, ids(FilterRelatorios(items, "silv")))
	assert.Equal(t, []int64{2, 3}, ids(FilterRelatorios(items, "humaitá")))
	assert.Empty(t, FilterRelatorios(items, "inexistente"))
}

func TestFilterRelatorios_Idempotent(t *testing.T) {
	items := sampleRelatorios()
	for _, term := range []string{"", "a", "spin", "93", "zzz"} {
		once := FilterRelatorios(items, term)
		twice := FilterRelatorios(once, term)
		assert.Equal(t, ids(once), ids(twice), "term %q", term)
	}
}

func TestRelatorioPatch_ColumnsOnlyProvided(t *testing.T) {
	nome := "Maria"
	total := 0
	dinheiro := 12.5
	patch := RelatorioPatch{EncarregadoNome: &nome, TotalOcorrencias: &total, DinheiroSujoApreendido: &dinheiro}

	cols := patch.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, PatchColumn{Column: "encarregado_nome", Value: "Maria"}, cols[0])
	assert.Equal(t, PatchColumn{Column: "total_ocorrencias", Value: 0}, cols[1])
	assert.Equal(t, PatchColumn{Column: "dinheiro_sujo_apreendido", Value: 12.5}, cols[2])

	assert.Empty(t, (&RelatorioPatch{}).Columns())
}

func TestRelatorioPatch_ApplyLeavesAbsentFields(t *testing.T) {
	r := sampleRelatorios()[0]
	r.TotalOcorrencias = 4
	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	r.DataInicio = start

	obs := "sem alterações"
	total := 7
	patch := RelatorioPatch{Observacoes: &obs, TotalOcorrencias: &total}
	patch.Apply(&r)

	assert.Equal(t, "Ana", r.EncarregadoNome)
	assert.Equal(t, "SPIN - 3-163", r.ViaturaPrefixo)
	assert.Equal(t, start, r.DataInicio)
	assert.Equal(t, 7, r.TotalOcorrencias)
	require.NotNil(t, r.Observacoes)
	assert.Equal(t, "sem alterações", *r.Observacoes)
	assert.Nil(t, r.AcoesRealizadas)
}

func TestCatalog_FlatAndContains(t *testing.T) {
	flat := DefaultCatalog.Flat()
	require.Len(t, flat, 26)
	assert.Equal(t, "TRAIL 23 HUMAITÁ - 93001", flat[0])
	assert.Equal(t, "SPIN - 3-351", flat[len(flat)-1])

	assert.True(t, DefaultCatalog.Contains("SPIN - 3-163"))
	assert.False(t, DefaultCatalog.Contains("SPIN - 9-999"))
	assert.False(t, DefaultCatalog.Contains("3-163"))

	flat[0] = "mutated"
	assert.Equal(t, "TRAIL 23 HUMAITÁ - 93001", DefaultCatalog.Flat()[0])
}

func TestPatentes_OrderedAndIndexed(t *testing.T) {
	require.Len(t, Patentes, 13)
	assert.Equal(t, "Tenente Coronel", Patentes[0])
	assert.Equal(t, "Soldado 2ª Classe", Patentes[12])
	_, ok := ValidPatentes["Capitão"]
	assert.True(t, ok)
}

func TestRelatorioInput_CrewOrder(t *testing.T) {
	in := RelatorioInput{ChefeBarcaNome: "A", MotoristaNome: "B", TerceiroHomemNome: "C", QuartoHomemNome: "D", QuintoHomemNome: "E"}
	crew := in.Crew()
	require.Len(t, crew, 5)
	assert.Equal(t, FuncaoChefeBarca, crew[0].Funcao)
	assert.Equal(t, "E", crew[4].Nome)
}
