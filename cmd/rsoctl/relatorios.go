package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/rso-backend/internal/export"
)

func (a *app) newListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listar relatórios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			d, _, err := a.loaded(ctx)
			if err != nil {
				return err
			}
			loc, _ := a.location()

			d.SetSearch(search)
			items := d.Visible()

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tENCARREGADO\tVIATURA\tINÍCIO\tOCORRÊNCIAS")
			for i := range items {
				rel := &items[i]
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
					rel.ID, rel.NomeCompleto(), rel.ViaturaPrefixo,
					export.DateTimeBR(rel.DataInicio, loc), rel.TotalOcorrencias)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Mostrando %d de %d relatórios\n", len(items), d.Total())
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filtrar por encarregado ou viatura")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Detalhes de um relatório",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("ID inválido: %s", args[0])
			}

			ctx, cancel := withTimeout(cmd)
			defer cancel()
			d, _, err := a.loaded(ctx)
			if err != nil {
				return err
			}
			detail, err := d.Detail(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, f := range detail.Fields {
				fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nGuarnição")
			tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, m := range detail.Crew {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Funcao, m.Patente, m.Nome)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			for _, t := range detail.Texts {
				fmt.Fprintf(out, "\n%s\n%s\n", t.Label, t.Value)
			}
			return nil
		},
	}
}

func (a *app) newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Patentes e viaturas aceitas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			catalog, err := a.client().Catalog(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Patentes:")
			for _, p := range catalog.Patentes {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "Viaturas:")
			for _, m := range catalog.Viaturas {
				fmt.Fprintf(out, "  %s: %s\n", m.Modelo, strings.Join(m.Prefixos, ", "))
			}
			return nil
		},
	}
}
