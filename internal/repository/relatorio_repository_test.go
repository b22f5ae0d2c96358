package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/repository/common"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlx.NewDb(sqlDB, "sqlmock"), mock
}

func sampleInput() *models.RelatorioInput {
	inicio := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	return &models.RelatorioInput{
		EncarregadoNome:      "João",
		EncarregadoSobrenome: "Silva",
		EncarregadoPatente:   "Cabo",
		ViaturaPrefixo:       "SPIN - 3-163",
		DataInicio:           inicio,
		DataFim:              inicio.Add(8 * time.Hour),
		TotalOcorrencias:     2,
	}
}

var relatorioColumns = []string{
	"id",
	"encarregado_nome", "encarregado_sobrenome", "encarregado_patente",
	"viatura_prefixo",
	"chefe_barca_patente", "chefe_barca_nome",
	"motorista_patente", "motorista_nome",
	"terceiro_homem_patente", "terceiro_homem_nome",
	"quarto_homem_patente", "quarto_homem_nome",
	"quinto_homem_patente", "quinto_homem_nome",
	"data_inicio", "data_fim",
	"total_ocorrencias", "drogas_apreendidas", "dinheiro_sujo_apreendido",
	"armamento_apreendido", "municao_apreendida", "bombas_apreendidas", "lockpik_apreendidas",
	"relacao_detidos_bos", "acoes_realizadas", "observacoes",
	"created_at", "updated_at",
}

// storedRow строка relatorios в том виде, в каком её вернёт Postgres.
func storedRow(id int64, in *models.RelatorioInput, dinheiro string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(relatorioColumns).AddRow(
		id,
		in.EncarregadoNome, in.EncarregadoSobrenome, in.EncarregadoPatente,
		in.ViaturaPrefixo,
		in.ChefeBarcaPatente, in.ChefeBarcaNome,
		in.MotoristaPatente, in.MotoristaNome,
		in.TerceiroHomemPatente, in.TerceiroHomemNome,
		in.QuartoHomemPatente, in.QuartoHomemNome,
		in.QuintoHomemPatente, in.QuintoHomemNome,
		in.DataInicio, in.DataFim,
		in.TotalOcorrencias, in.DrogasApreendidas, dinheiro,
		in.ArmamentoApreendido, in.MunicaoApreendida, in.BombasApreendidas, in.LockpikApreendidas,
		nil, nil, nil,
		now, now,
	)
}

func TestRelatorioRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)
	now := time.Now()
	in := sampleInput()

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING *")).
		WillReturnRows(storedRow(7, in, "0.00", now))

	rel, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rel.ID)
	assert.Equal(t, "João", rel.EncarregadoNome)
	assert.Equal(t, 2, rel.TotalOcorrencias)
	assert.True(t, in.DataInicio.Equal(rel.DataInicio))
	assert.Nil(t, rel.Observacoes)
	assert.Equal(t, now, rel.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelatorioRepository_CreateReturnsStoredValues(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)
	in := sampleInput()
	in.DinheiroSujoApreendido = 10.005

	// колонка NUMERIC(14,2) хранит округлённую сумму
	mock.ExpectQuery("INSERT INTO relatorios").
		WillReturnRows(storedRow(8, in, "10.01", time.Now()))

	rel, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 10.01, rel.DinheiroSujoApreendido)
	assert.Equal(t, 10.005, in.DinheiroSujoApreendido)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelatorioRepository_CreateCheckViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)

	mock.ExpectQuery("INSERT INTO relatorios").
		WillReturnError(&pq.Error{Code: "23514", Table: "relatorios", Constraint: "relatorios_bombas_apreendidas_check"})

	_, err := repo.Create(context.Background(), sampleInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCheckViolation)

	var ce *common.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "bombas_apreendidas", ce.Column)
}

func TestRelatorioRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "encarregado_nome", "viatura_prefixo", "dinheiro_sujo_apreendido", "created_at", "updated_at"}).
		AddRow(1, "Ana", "SPIN - 3-163", "12.50", now, now).
		AddRow(2, "Bruno", "TRAIL 23 HUMAITÁ - 93001", "0", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM relatorios ORDER BY id ASC")).WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, 12.5, items[0].DinheiroSujoApreendido)
	assert.Equal(t, "Bruno", items[1].EncarregadoNome)
}

func TestRelatorioRepository_ListEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)

	mock.ExpectQuery("SELECT \\* FROM relatorios").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRelatorioRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM relatorios WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "encarregado_nome"}).AddRow(3, "Carla"))

	rel, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Carla", rel.EncarregadoNome)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM relatorios WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrRelatorioNotFound)
}

func TestRelatorioRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)

	nome := "Maria"
	drogas := 4
	patch := &models.RelatorioPatch{EncarregadoNome: &nome, DrogasApreendidas: &drogas}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE relatorios SET encarregado_nome = $2, drogas_apreendidas = $3, updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(5), "Maria", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), 5, patch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelatorioRepository_UpdateEmptyPatchTouchesTimestamp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE relatorios SET updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), 5, &models.RelatorioPatch{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelatorioRepository_UpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)

	mock.ExpectExec("UPDATE relatorios").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 404, &models.RelatorioPatch{})
	assert.ErrorIs(t, err, ErrRelatorioNotFound)
}

func TestRelatorioRepository_DeleteIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRelatorioRepository(db)

	mock.ExpectExec("DELETE FROM relatorios").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM relatorios").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
