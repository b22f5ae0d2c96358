// Package wizard пошаговое заполнение и отправка RSO.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/validation"
)

// ReturnDelay сколько показывается экран успеха перед возвратом.
const ReturnDelay = 3 * time.Second

// State шаг мастера.
type State int

const (
	Step1 State = iota + 1
	Step2
	Step3
	Step4
	Submitting
	Success
)

func (s State) String() string {
	switch s {
	case Step1:
		return "Identificação"
	case Step2:
		return "Viatura e equipe"
	case Step3:
		return "Horário"
	case Step4:
		return "Resultados"
	case Submitting:
		return "Enviando"
	case Success:
		return "Enviado"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrBusy отправка уже идёт или мастер показывает успех.
	ErrBusy = errors.New("wizard: envio em andamento")

	// ErrUnknownField поля нет в форме.
	ErrUnknownField = errors.New("wizard: campo desconhecido")
)

// Submitter создаёт отчёт. Реализуется client.Client.
type Submitter interface {
	Create(ctx context.Context, in *models.RelatorioInput) (*models.Relatorio, error)
}

// Wizard конечный автомат формы RSO.
type Wizard struct {
	mu        sync.Mutex
	state     State
	form      Form
	errs      validation.Errors
	submitter Submitter
	loc       *time.Location
	delay     time.Duration
	onReturn  func()
	onNotice  func(msg string)
	timer     *time.Timer
	log       *logrus.Entry
}

// Option настраивает Wizard.
type Option func(*Wizard)

// WithLocation часовой пояс, в котором вводятся дата и время.
func WithLocation(loc *time.Location) Option {
	return func(w *Wizard) { w.loc = loc }
}

// WithReturnDelay меняет задержку экрана успеха.
func WithReturnDelay(d time.Duration) Option {
	return func(w *Wizard) { w.delay = d }
}

// OnReturn вызывается после экрана успеха.
func OnReturn(fn func()) Option {
	return func(w *Wizard) { w.onReturn = fn }
}

// OnNotice получает короткие уведомления (успех или ошибка отправки).
func OnNotice(fn func(msg string)) Option {
	return func(w *Wizard) { w.onNotice = fn }
}

// New создаёт мастер на первом шаге.
func New(submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{
		state:     Step1,
		form:      NewForm(),
		errs:      validation.Errors{},
		submitter: submitter,
		loc:       time.Local,
		delay:     ReturnDelay,
		log:       logger.Component("wizard"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State текущий шаг.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Form копия введённых данных.
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.clone()
}

// Errors ошибки последней проверки по полям.
func (w *Wizard) Errors() validation.Errors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := validation.Errors{}
	out.Merge(w.errs)
	return out
}

// Set меняет значение поля. Ошибка поля снимается до следующей проверки.
func (w *Wizard) Set(key, value string) error {
	if !KnownField(key) {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Submitting {
		return ErrBusy
	}
	w.form.values[key] = value
	delete(w.errs, key)
	return nil
}

// Previous возвращает на шаг назад, данные сохраняются.
func (w *Wizard) Previous() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state > Step1 && w.state <= Step4 {
		w.state--
	}
	return w.state
}

// Next проверяет поля шагов с первого по текущий и переходит дальше.
// На четвёртом шаге отправляет отчёт.
func (w *Wizard) Next(ctx context.Context) (State, error) {
	w.mu.Lock()
	if w.state == Submitting || w.state == Success {
		state := w.state
		w.mu.Unlock()
		return state, ErrBusy
	}

	errs := w.form.validateUpTo(w.state)
	w.errs = errs
	if len(errs) > 0 {
		state := w.state
		w.mu.Unlock()
		return state, errs
	}

	if w.state < Step4 {
		w.state++
		state := w.state
		w.mu.Unlock()
		return state, nil
	}

	in, err := w.form.Build(w.loc)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			w.errs = fieldErrs
		}
		w.mu.Unlock()
		return Step4, err
	}
	w.state = Submitting
	w.mu.Unlock()

	rel, err := w.submitter.Create(ctx, in)

	w.mu.Lock()
	if err != nil {
		w.state = Step4
		w.mu.Unlock()
		w.log.WithField("error", err.Error()).Warn("falha ao enviar relatório")
		w.notice("Erro ao enviar relatório. Tente novamente.")
		return Step4, fmt.Errorf("wizard: submit: %w", err)
	}

	w.state = Success
	w.form = NewForm()
	w.errs = validation.Errors{}
	w.timer = time.AfterFunc(w.delay, w.finish)
	w.mu.Unlock()

	w.log.WithField("relatorio_id", rel.ID).Info("relatório enviado")
	w.notice("Relatório enviado com sucesso!")
	return Success, nil
}

// Reset очищает форму и возвращает на первый шаг без вызова OnReturn.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.state = Step1
	w.form = NewForm()
	w.errs = validation.Errors{}
}

func (w *Wizard) finish() {
	w.mu.Lock()
	if w.state != Success {
		w.mu.Unlock()
		return
	}
	w.state = Step1
	w.timer = nil
	w.mu.Unlock()

	if w.onReturn != nil {
		w.onReturn()
	}
}

func (w *Wizard) notice(msg string) {
	if w.onNotice != nil {
		w.onNotice(msg)
	}
}
