package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entrar como administrador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = a.prompt(cmd, "Usuário"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.prompt(cmd, "Senha"); err != nil {
					return err
				}
			}

			loc, err := a.location()
			if err != nil {
				return err
			}
			d, _, err := a.dashboard()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			if err := d.Login(ctx, username, password); err != nil {
				return err
			}
			s := d.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Bem-vindo, %s. Sessão válida até %s.\n",
				s.Username, s.ExpiresAt.In(loc).Format("02/01/2006 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "usuário")
	cmd.Flags().StringVarP(&password, "password", "p", "", "senha")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Encerrar a sessão do administrador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := a.dashboard()
			if err != nil {
				return err
			}
			if !d.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma sessão ativa.")
				return nil
			}

			ctx, cancel := withTimeout(cmd)
			defer cancel()
			if err := d.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
			return nil
		},
	}
}
