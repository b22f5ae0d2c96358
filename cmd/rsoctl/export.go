package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/rso-backend/internal/client"
	"github.com/ignatzorin/rso-backend/internal/export"
)

func (a *app) newExportCmd() *cobra.Command {
	var (
		search string
		dir    string
		remote bool
	)

	cmd := &cobra.Command{
		Use:       "export <csv|txt|xlsx>",
		Short:     "Exportar relatórios filtrados",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "txt", "xlsx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd)
			defer cancel()

			d, api, err := a.loaded(ctx)
			if err != nil {
				return err
			}

			var path string
			if remote {
				// сервер сам фильтрует и формирует файл
				dl, err := api.Export(ctx, format, search)
				if client.IsStatus(err, http.StatusUnprocessableEntity) {
					err = export.ErrEmpty
				}
				if err == nil {
					path = filepath.Join(dir, dl.FileName)
					err = os.WriteFile(path, dl.Data, 0o644)
				}
				if err != nil {
					return exportResult(cmd, err)
				}
			} else {
				d.SetSearch(search)
				if path, err = d.ExportFile(dir, format); err != nil {
					return exportResult(cmd, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Arquivo salvo em %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filtrar por encarregado ou viatura")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "diretório de destino")
	cmd.Flags().BoolVar(&remote, "remote", false, "gerar o arquivo no servidor")
	return cmd
}

// exportResult пустой набор это уведомление, а не ошибка.
func exportResult(cmd *cobra.Command, err error) error {
	if errors.Is(err, export.ErrEmpty) {
		fmt.Fprintln(cmd.OutOrStdout(), export.ErrEmpty.Error())
		return nil
	}
	return err
}
