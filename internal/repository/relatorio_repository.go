package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/repository/common"
)

// ErrRelatorioNotFound возвращается, когда отчёт с таким id отсутствует.
var ErrRelatorioNotFound = errors.New("relatorio not found")

const relatoriosTable = "relatorios"

// RelatorioRepository работает с таблицей relatorios.
type RelatorioRepository struct {
	db *sqlx.DB
}

// NewRelatorioRepository создаёт экземпляр репозитория.
func NewRelatorioRepository(db *sqlx.DB) *RelatorioRepository {
	return &RelatorioRepository{db: db}
}

// Create вставляет отчёт и возвращает строку в том виде, в каком она сохранена.
func (r *RelatorioRepository) Create(ctx context.Context, in *models.RelatorioInput) (*models.Relatorio, error) {
	query := `
		INSERT INTO relatorios (
			encarregado_nome, encarregado_sobrenome, encarregado_patente,
			viatura_prefixo,
			chefe_barca_patente, chefe_barca_nome,
			motorista_patente, motorista_nome,
			terceiro_homem_patente, terceiro_homem_nome,
			quarto_homem_patente, quarto_homem_nome,
			quinto_homem_patente, quinto_homem_nome,
			data_inicio, data_fim,
			total_ocorrencias, drogas_apreendidas, dinheiro_sujo_apreendido,
			armamento_apreendido, municao_apreendida, bombas_apreendidas, lockpik_apreendidas,
			relacao_detidos_bos, acoes_realizadas, observacoes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING *
	`

	var rel models.Relatorio
	if err := r.db.QueryRowxContext(
		ctx, query,
		in.EncarregadoNome, in.EncarregadoSobrenome, in.EncarregadoPatente,
		in.ViaturaPrefixo,
		in.ChefeBarcaPatente, in.ChefeBarcaNome,
		in.MotoristaPatente, in.MotoristaNome,
		in.TerceiroHomemPatente, in.TerceiroHomemNome,
		in.QuartoHomemPatente, in.QuartoHomemNome,
		in.QuintoHomemPatente, in.QuintoHomemNome,
		in.DataInicio, in.DataFim,
		in.TotalOcorrencias, in.DrogasApreendidas, in.DinheiroSujoApreendido,
		in.ArmamentoApreendido, in.MunicaoApreendida, in.BombasApreendidas, in.LockpikApreendidas,
		in.RelacaoDetidosBos, in.AcoesRealizadas, in.Observacoes,
	).StructScan(&rel); err != nil {
		return nil, fmt.Errorf("relatorio repository: create %w", common.MapPQError(err))
	}

	return &rel, nil
}

// List возвращает все отчёты по возрастанию id.
func (r *RelatorioRepository) List(ctx context.Context) ([]models.Relatorio, error) {
	items := make([]models.Relatorio, 0)
	if err := r.db.SelectContext(ctx, &items, `SELECT * FROM relatorios ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("relatorio repository: list %w", err)
	}
	return items, nil
}

// GetByID возвращает отчёт по идентификатору.
func (r *RelatorioRepository) GetByID(ctx context.Context, id int64) (*models.Relatorio, error) {
	rel, err := common.GetByID[models.Relatorio](ctx, r.db, relatoriosTable, id, ErrRelatorioNotFound)
	if err != nil {
		if errors.Is(err, ErrRelatorioNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("relatorio repository: %w", err)
	}
	return rel, nil
}

// Update применяет заданные поля патча и обновляет updated_at.
// Пустой патч только обновляет updated_at.
func (r *RelatorioRepository) Update(ctx context.Context, id int64, patch *models.RelatorioPatch) error {
	cols := patch.Columns()

	names := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	args = append(args, id)
	for _, c := range cols {
		names = append(names, c.Column)
		args = append(args, c.Value)
	}

	set := "updated_at = NOW()"
	if len(names) > 0 {
		set = common.SetClause(names, 2) + ", " + set
	}
	query := fmt.Sprintf(`UPDATE relatorios SET %s WHERE id = $1`, set)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("relatorio repository: update %w", common.MapPQError(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("relatorio repository: update rows affected %w", err)
	}
	if affected == 0 {
		return ErrRelatorioNotFound
	}

	return nil
}

// Delete удаляет отчёт. Отсутствие записи ошибкой не считается.
func (r *RelatorioRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM relatorios WHERE id = $1`, id); err != nil {
		return fmt.Errorf("relatorio repository: delete %w", err)
	}
	return nil
}
