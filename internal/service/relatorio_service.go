package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rso-backend/internal/repository"
	"github.com/ignatzorin/rso-backend/internal/repository/common"
	"github.com/ignatzorin/rso-backend/internal/validation"
)

// EventRelatorioCreated событие, которое получают подключённые панели администратора.
const EventRelatorioCreated = "relatorio.created"

// RelatorioRepository описывает зависимости RelatorioService от слоя хранилища.
type RelatorioRepository interface {
	Create(ctx context.Context, in *models.RelatorioInput) (*models.Relatorio, error)
	List(ctx context.Context) ([]models.Relatorio, error)
	GetByID(ctx context.Context, id int64) (*models.Relatorio, error)
	Update(ctx context.Context, id int64, patch *models.RelatorioPatch) error
	Delete(ctx context.Context, id int64) error
}

// Notifier рассылает события. Реализуется ws.Hub.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

// RelatorioService бизнес-логика отчётов RSO.
type RelatorioService struct {
	repo     RelatorioRepository
	opts     validation.Options
	notifier Notifier
}

// NewRelatorioService создаёт сервис. notifier может быть nil.
func NewRelatorioService(repo RelatorioRepository, opts validation.Options, notifier Notifier) *RelatorioService {
	if opts.Catalog == nil {
		opts.Catalog = models.DefaultCatalog
	}
	return &RelatorioService{repo: repo, opts: opts, notifier: notifier}
}

// Create проверяет и сохраняет новый отчёт.
func (s *RelatorioService) Create(ctx context.Context, in *models.RelatorioInput) (*models.Relatorio, error) {
	if err := validation.ValidateRelatorio(in, s.opts); err != nil {
		return nil, invalid(err)
	}

	if !s.opts.Strict {
		s.flag(validation.CatalogIssues(in, s.opts.Catalog), logrus.Fields{"op": "create"})
	}

	rel, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, storeError(err, "falha ao salvar relatório")
	}

	logger.Log.WithFields(logrus.Fields{
		"relatorio_id": rel.ID,
		"viatura":      rel.ViaturaPrefixo,
	}).Info("relatório criado")

	if s.notifier != nil {
		s.notifier.Broadcast(EventRelatorioCreated, rel)
	}

	return rel, nil
}

// List возвращает все отчёты без фильтрации.
func (s *RelatorioService) List(ctx context.Context) ([]models.Relatorio, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao carregar relatórios")
	}
	return items, nil
}

// Search возвращает отчёты, отфильтрованные по имени, фамилии или префиксу.
func (s *RelatorioService) Search(ctx context.Context, term string) ([]models.Relatorio, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.FilterRelatorios(items, term), nil
}

// GetByID возвращает отчёт или ErrRelatorioNotFound.
func (s *RelatorioService) GetByID(ctx context.Context, id int64) (*models.Relatorio, error) {
	rel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRelatorioNotFound) {
			return nil, apperror.ErrRelatorioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao carregar relatório")
	}
	return rel, nil
}

// Update применяет частичное обновление.
func (s *RelatorioService) Update(ctx context.Context, id int64, patch *models.RelatorioPatch) error {
	if err := validation.ValidatePatch(patch, s.opts); err != nil {
		return invalid(err)
	}

	// одна дата из пары сверяется с сохранённой второй
	if (patch.DataInicio == nil) != (patch.DataFim == nil) {
		current, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		merged := *current
		patch.Apply(&merged)
		issues := validation.CheckWindow(merged.DataInicio, merged.DataFim)
		if s.opts.Strict {
			if err := issues.Err(); err != nil {
				return invalid(err)
			}
		} else {
			s.flag(issues, logrus.Fields{"op": "update", "relatorio_id": id})
		}
	}

	if !s.opts.Strict {
		s.flag(validation.PatchCatalogIssues(patch, s.opts.Catalog), logrus.Fields{"op": "update", "relatorio_id": id})
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrRelatorioNotFound) {
			return apperror.ErrRelatorioNotFound
		}
		return storeError(err, "falha ao atualizar relatório")
	}

	logger.Log.WithField("relatorio_id", id).Info("relatório atualizado")
	return nil
}

// Delete удаляет отчёт. Повторное удаление успешно.
func (s *RelatorioService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao excluir relatório")
	}
	logger.Log.WithField("relatorio_id", id).Info("relatório excluído")
	return nil
}

// flag журналирует отклонения от справочников, принятые в нестрогом режиме.
func (s *RelatorioService) flag(issues validation.Errors, fields logrus.Fields) {
	if len(issues) == 0 {
		return
	}
	entry := logger.Log.WithFields(fields)
	for field, msg := range issues {
		entry.WithField("field", field).Warn("relatório aceito fora do padrão: " + msg)
	}
}

func invalid(err error) error {
	return apperror.Wrap(err, apperror.ErrCodeValidation, "dados do relatório inválidos")
}

// storeError переводит нарушения CHECK в ошибку валидации поля.
func storeError(err error, message string) error {
	var ce *common.ConstraintError
	if errors.As(err, &ce) && errors.Is(err, common.ErrCheckViolation) {
		return invalid(validation.Errors{snakeToCamel(ce.Column): "não pode ser negativo"})
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}

func snakeToCamel(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
