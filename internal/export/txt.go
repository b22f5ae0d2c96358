package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ignatzorin/rso-backend/internal/models"
)

// WriteTXT пишет текстовый документ: шапка, затем блок на каждый отчёт.
func WriteTXT(w io.Writer, items []models.Relatorio, opts Options) error {
	bw := bufio.NewWriter(w)
	loc := opts.location()

	fmt.Fprintln(bw, TitleLine)
	fmt.Fprintln(bw, BattalionLine)
	fmt.Fprintf(bw, "Exportado em: %s\n", DateTimeBR(opts.now(), loc))
	fmt.Fprintf(bw, "%s\n\n", strings.Repeat("=", ruleWidth))

	for i := range items {
		rel := &items[i]
		fmt.Fprintf(bw, "RELATÓRIO %d\n", i+1)
		fmt.Fprintln(bw, strings.Repeat("-", ruleWidth))
		fmt.Fprintf(bw, "ID: %d\n", rel.ID)
		fmt.Fprintf(bw, "Data de Criação: %s\n", DateTimeBR(rel.CreatedAt, loc))
		fmt.Fprintf(bw, "Encarregado: %s (%s)\n", rel.NomeCompleto(), rel.EncarregadoPatente)
		fmt.Fprintf(bw, "Viatura: %s\n", rel.ViaturaPrefixo)
		fmt.Fprintf(bw, "Data de Início: %s\n", DateTimeBR(rel.DataInicio, loc))
		fmt.Fprintf(bw, "Data de Fim: %s\n", DateTimeBR(rel.DataFim, loc))
		fmt.Fprintf(bw, "Total de Ocorrências: %d\n", rel.TotalOcorrencias)
		fmt.Fprintf(bw, "Drogas Apreendidas: %d\n", rel.DrogasApreendidas)
		fmt.Fprintf(bw, "Dinheiro Apreendido: R$ %s\n", Money(rel.DinheiroSujoApreendido))
		fmt.Fprintf(bw, "Armamento Apreendido: %d\n", rel.ArmamentoApreendido)
		fmt.Fprintf(bw, "Munição Apreendida: %d\n", rel.MunicaoApreendida)
		fmt.Fprintf(bw, "Bombas Apreendidas: %d\n", rel.BombasApreendidas)
		fmt.Fprintf(bw, "Lockpik Apreendidas: %d\n", rel.LockpikApreendidas)
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}
