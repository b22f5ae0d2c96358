package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ignatzorin/rso-backend/internal/client"
	"github.com/ignatzorin/rso-backend/internal/dashboard"
	"github.com/ignatzorin/rso-backend/internal/logger"
)

const (
	defaultAPIURL   = "http://localhost:8080"
	defaultTimezone = "America/Sao_Paulo"
	requestTimeout  = 30 * time.Second
)

// app общие настройки команд.
type app struct {
	v  *viper.Viper
	in *bufio.Reader
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "rsoctl",
		Short:         "Cliente de linha de comando do RSO",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.v.GetBool("verbose") {
				logger.Init("debug")
				logger.SetTextFormatter()
				logger.Log.SetOutput(cmd.ErrOrStderr())
			} else {
				logger.Discard()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "endereço da API do RSO")
	flags.String("session-file", defaultSessionFile(), "arquivo da sessão do administrador")
	flags.String("timezone", defaultTimezone, "fuso horário dos relatórios")
	flags.BoolP("verbose", "v", false, "exibir logs")

	a.v.SetEnvPrefix("RSO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newListCmd(),
		a.newShowCmd(),
		a.newExportCmd(),
		a.newSubmitCmd(),
		a.newCatalogCmd(),
	)
	return root
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "rso", "session.json")
}

func (a *app) location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido: %w", err)
	}
	return loc, nil
}

func (a *app) client() *client.Client {
	return client.New(a.v.GetString("api-url"),
		client.WithHTTPClient(&http.Client{Timeout: requestTimeout}))
}

// dashboard открывает панель с сохранённой сессией.
func (a *app) dashboard() (*dashboard.Dashboard, *client.Client, error) {
	loc, err := a.location()
	if err != nil {
		return nil, nil, err
	}
	api := a.client()
	d := dashboard.New(api, dashboard.NewFileStore(a.v.GetString("session-file")), dashboard.WithLocation(loc))
	if _, err := d.Open(); err != nil {
		return nil, nil, err
	}
	return d, api, nil
}

// loaded открывает панель и загружает список. Без сессии возвращает ErrLocked.
func (a *app) loaded(ctx context.Context) (*dashboard.Dashboard, *client.Client, error) {
	d, api, err := a.dashboard()
	if err != nil {
		return nil, nil, err
	}
	if !d.Authenticated() {
		return nil, nil, fmt.Errorf("%w: execute rsoctl login", dashboard.ErrLocked)
	}
	if err := d.Load(ctx); err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			_ = d.Logout(ctx)
			return nil, nil, fmt.Errorf("sessão expirada: execute rsoctl login")
		}
		return nil, nil, err
	}
	return d, api, nil
}

// prompt печатает подпись и читает одну строку.
func (a *app) prompt(cmd *cobra.Command, label string) (string, error) {
	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}
