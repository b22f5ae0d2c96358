package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/rso-backend/internal/client"
	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/validation"
	"github.com/ignatzorin/rso-backend/internal/wizard"
)

// backKeyword возвращает мастер на предыдущий шаг.
const backKeyword = "<"

func (a *app) newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Preencher e enviar um novo relatório",
		Long: "Preenche o relatório em 4 etapas. Digite " + backKeyword +
			" em qualquer campo para voltar à etapa anterior.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.location()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			w := wizard.New(a.client(),
				wizard.WithLocation(loc),
				wizard.OnNotice(func(msg string) { fmt.Fprintln(out, msg) }),
			)
			defer w.Reset()

			fmt.Fprintf(out, "Patentes: %s\n", strings.Join(models.Patentes, ", "))

			state := wizard.Step1
			pending := wizard.StepFields(state)
			for {
				fmt.Fprintf(out, "\nEtapa %d de 4: %s\n", int(state), state)

				back := false
				for _, key := range pending {
					value, err := a.prompt(cmd, fieldLabel(key, w.Form().Get(key)))
					if err != nil {
						return err
					}
					if value == backKeyword {
						back = true
						break
					}
					if value == "" && w.Form().Get(key) != "" {
						continue
					}
					if err := w.Set(key, value); err != nil {
						return err
					}
				}
				if back {
					state = w.Previous()
					pending = wizard.StepFields(state)
					continue
				}

				ctx, cancel := withTimeout(cmd)
				next, err := w.Next(ctx)
				cancel()

				switch {
				case next == wizard.Success:
					return nil
				case err == nil:
					state, pending = next, wizard.StepFields(next)
				default:
					keys, ok := fieldErrors(out, err)
					if !ok {
						return err
					}
					state, pending = next, keys
				}
			}
		},
	}
}

// fieldLabel подпись поля; текущее значение подставляется как подсказка.
func fieldLabel(key, current string) string {
	label := wizard.Labels[key]
	if label == "" {
		label = key
	}
	if current != "" {
		label += " [" + current + "]"
	}
	return label
}

// fieldErrors печатает ошибки полей и возвращает ключи для повторного ввода.
func fieldErrors(out io.Writer, err error) ([]string, bool) {
	fields := map[string]string{}

	var errs validation.Errors
	var apiErr *client.APIError
	switch {
	case errors.As(err, &errs):
		for k, v := range errs {
			fields[k] = v
		}
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		for k, v := range apiErr.Fields {
			if wizard.KnownField(k) {
				fields[k] = v
			}
		}
	}
	if len(fields) == 0 {
		return nil, false
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return fieldOrder(keys[i]) < fieldOrder(keys[j]) })

	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %s\n", fieldLabel(k, ""), fields[k])
	}
	return keys, true
}

func fieldOrder(key string) int {
	i := 0
	for step := wizard.Step1; step <= wizard.Step4; step++ {
		for _, k := range wizard.StepFields(step) {
			if k == key {
				return i
			}
			i++
		}
	}
	return i
}
