package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rso-backend/internal/repository"
	"github.com/ignatzorin/rso-backend/internal/repository/common"
	"github.com/ignatzorin/rso-backend/internal/validation"
)

// mockRelatorioRepository хранит отчёты в памяти.
type mockRelatorioRepository struct {
	items   map[int64]*models.Relatorio
	nextID  int64
	failErr error
}

func newMockRelatorioRepository() *mockRelatorioRepository {
	return &mockRelatorioRepository{items: make(map[int64]*models.Relatorio)}
}

func (m *mockRelatorioRepository) Create(ctx context.Context, in *models.RelatorioInput) (*models.Relatorio, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	m.nextID++
	now := time.Now()
	rel := &models.Relatorio{ID: m.nextID, RelatorioInput: *in, CreatedAt: now, UpdatedAt: now}
	m.items[rel.ID] = rel
	copied := *rel
	return &copied, nil
}

func (m *mockRelatorioRepository) List(ctx context.Context) ([]models.Relatorio, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	out := make([]models.Relatorio, 0, len(m.items))
	for _, rel := range m.items {
		out = append(out, *rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRelatorioRepository) GetByID(ctx context.Context, id int64) (*models.Relatorio, error) {
	rel, ok := m.items[id]
	if !ok {
		return nil, repository.ErrRelatorioNotFound
	}
	copied := *rel
	return &copied, nil
}

func (m *mockRelatorioRepository) Update(ctx context.Context, id int64, patch *models.RelatorioPatch) error {
	rel, ok := m.items[id]
	if !ok {
		return repository.ErrRelatorioNotFound
	}
	patch.Apply(rel)
	rel.UpdatedAt = time.Now()
	return nil
}

func (m *mockRelatorioRepository) Delete(ctx context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Broadcast(event string, payload interface{}) {
	m.Called(event, payload)
}

func anaSilva() *models.RelatorioInput {
	loc := time.FixedZone("BRT", -3*3600)
	return &models.RelatorioInput{
		EncarregadoNome:      "Ana",
		EncarregadoSobrenome: "Silva",
		EncarregadoPatente:   "Capitão",
		ViaturaPrefixo:       "SPIN - 3-163",
		ChefeBarcaPatente:    "1º Sargento",
		ChefeBarcaNome:       "Rocha",
		MotoristaPatente:     "Cabo",
		MotoristaNome:        "Mendes",
		TerceiroHomemPatente: "Soldado 1ª Classe",
		TerceiroHomemNome:    "Teixeira",
		QuartoHomemPatente:   "Soldado 1ª Classe",
		QuartoHomemNome:      "Barros",
		QuintoHomemPatente:   "Soldado 2ª Classe",
		QuintoHomemNome:      "Nunes",
		DataInicio:           time.Date(2025, 1, 10, 8, 0, 0, 0, loc),
		DataFim:              time.Date(2025, 1, 10, 20, 0, 0, 0, loc),
	}
}

func TestRelatorioService_CreateRoundTrip(t *testing.T) {
	repo := newMockRelatorioRepository()
	notifier := &mockNotifier{}
	notifier.On("Broadcast", EventRelatorioCreated, mock.AnythingOfType("*models.Relatorio")).Return()
	svc := NewRelatorioService(repo, validation.Options{}, notifier)

	in := anaSilva()
	obs := "sem alterações"
	in.Observacoes = &obs
	in.DinheiroSujoApreendido = 150.75

	rel, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rel.ID)
	assert.Equal(t, *in, rel.RelatorioInput)
	notifier.AssertNumberOfCalls(t, "Broadcast", 1)

	second, err := svc.Create(context.Background(), anaSilva())
	require.NoError(t, err)
	assert.NotEqual(t, rel.ID, second.ID)
	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "Broadcast", 2)
}

func TestRelatorioService_CreateRejectsNegativeCounters(t *testing.T) {
	repo := newMockRelatorioRepository()
	svc := NewRelatorioService(repo, validation.Options{}, nil)

	setters := map[string]func(in *models.RelatorioInput){
		"totalOcorrencias":       func(in *models.RelatorioInput) { in.TotalOcorrencias = -1 },
		"drogasApreendidas":      func(in *models.RelatorioInput) { in.DrogasApreendidas = -1 },
		"dinheiroSujoApreendido": func(in *models.RelatorioInput) { in.DinheiroSujoApreendido = -0.01 },
		"armamentoApreendido":    func(in *models.RelatorioInput) { in.ArmamentoApreendido = -1 },
		"municaoApreendida":      func(in *models.RelatorioInput) { in.MunicaoApreendida = -1 },
		"bombasApreendidas":      func(in *models.RelatorioInput) { in.BombasApreendidas = -1 },
		"lockpikApreendidas":     func(in *models.RelatorioInput) { in.LockpikApreendidas = -1 },
	}

	for field, set := range setters {
		t.Run(field, func(t *testing.T) {
			in := anaSilva()
			set(in)
			_, err := svc.Create(context.Background(), in)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))

			var errs validation.Errors
			require.True(t, errors.As(err, &errs))
			assert.Contains(t, errs, field)
		})
	}
	assert.Empty(t, repo.items)
}

func TestRelatorioService_StrictMode(t *testing.T) {
	in := anaSilva()
	in.ViaturaPrefixo = "VIATURA DESCONHECIDA"

	lenient := NewRelatorioService(newMockRelatorioRepository(), validation.Options{}, nil)
	_, err := lenient.Create(context.Background(), in)
	assert.NoError(t, err)

	strict := NewRelatorioService(newMockRelatorioRepository(), validation.Options{Strict: true}, nil)
	_, err = strict.Create(context.Background(), in)
	assert.True(t, apperror.IsValidation(err))
}

func TestRelatorioService_CheckViolationBecomesValidation(t *testing.T) {
	repo := newMockRelatorioRepository()
	repo.failErr = common.MapPQError(&pq.Error{Code: "23514", Table: "relatorios", Constraint: "relatorios_municao_apreendida_check"})
	svc := NewRelatorioService(repo, validation.Options{}, nil)

	_, err := svc.Create(context.Background(), anaSilva())
	require.True(t, apperror.IsValidation(err))

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "municaoApreendida")
}

func TestRelatorioService_ListFailureSurfaced(t *testing.T) {
	repo := newMockRelatorioRepository()
	repo.failErr = errors.New("connection refused")
	svc := NewRelatorioService(repo, validation.Options{}, nil)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, 500, apperror.StatusOf(err))
}

func TestRelatorioService_UpdatePartial(t *testing.T) {
	repo := newMockRelatorioRepository()
	svc := NewRelatorioService(repo, validation.Options{}, nil)
	ctx := context.Background()

	rel, err := svc.Create(ctx, anaSilva())
	require.NoError(t, err)

	drogas := 3
	require.NoError(t, svc.Update(ctx, rel.ID, &models.RelatorioPatch{DrogasApreendidas: &drogas}))

	got, err := svc.GetByID(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DrogasApreendidas)
	assert.Equal(t, "Ana", got.EncarregadoNome)
	assert.Equal(t, rel.DataFim, got.DataFim)
}

func TestRelatorioService_UpdateNonExistent(t *testing.T) {
	svc := NewRelatorioService(newMockRelatorioRepository(), validation.Options{}, nil)
	nome := "Beatriz"

	err := svc.Update(context.Background(), 999, &models.RelatorioPatch{EncarregadoNome: &nome})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// одна дата требует чтения записи и тоже даёт not found
	fim := time.Now()
	err = svc.Update(context.Background(), 999, &models.RelatorioPatch{DataFim: &fim})
	assert.True(t, apperror.IsNotFound(err))
}

func TestRelatorioService_UpdateStrictWindowAgainstStored(t *testing.T) {
	repo := newMockRelatorioRepository()
	ctx := context.Background()
	strict := NewRelatorioService(repo, validation.Options{Strict: true}, nil)

	rel, err := strict.Create(ctx, anaSilva())
	require.NoError(t, err)

	antes := rel.DataInicio.Add(-time.Hour)
	err = strict.Update(ctx, rel.ID, &models.RelatorioPatch{DataFim: &antes})
	assert.True(t, apperror.IsValidation(err))

	lenient := NewRelatorioService(repo, validation.Options{}, nil)
	assert.NoError(t, lenient.Update(ctx, rel.ID, &models.RelatorioPatch{DataFim: &antes}))
}

func TestRelatorioService_DeleteIdempotent(t *testing.T) {
	repo := newMockRelatorioRepository()
	svc := NewRelatorioService(repo, validation.Options{}, nil)
	ctx := context.Background()

	rel, err := svc.Create(ctx, anaSilva())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rel.ID))
	require.NoError(t, svc.Delete(ctx, rel.ID))

	_, err = svc.GetByID(ctx, rel.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRelatorioService_Search(t *testing.T) {
	repo := newMockRelatorioRepository()
	svc := NewRelatorioService(repo, validation.Options{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, anaSilva())
	require.NoError(t, err)
	other := anaSilva()
	other.EncarregadoNome = "Bruno"
	other.EncarregadoSobrenome = "Costa"
	other.ViaturaPrefixo = "TRAIL 23 HUMAITÁ - 93001"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.Search(ctx, "humaitá")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bruno", found[0].EncarregadoNome)
}

func TestScenario_SubmitThenAdminLists(t *testing.T) {
	ctx := context.Background()
	relSvc := NewRelatorioService(newMockRelatorioRepository(), validation.Options{Strict: true}, nil)
	authSvc, _ := newTestAuthService(t)

	_, err := relSvc.Create(ctx, anaSilva())
	require.NoError(t, err)

	res, err := authSvc.Login(ctx, LoginInput{Username: "Admin", Password: "24032005"}, SessionMeta{})
	require.NoError(t, err)
	_, err = authSvc.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	items, err := relSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotZero(t, items[0].ID)
	assert.Equal(t, 0, items[0].TotalOcorrencias)
	assert.Equal(t, "Ana Silva", items[0].NomeCompleto())
}
