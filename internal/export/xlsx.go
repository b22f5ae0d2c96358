package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ignatzorin/rso-backend/internal/models"
)

// SheetName имя единственного листа книги.
const SheetName = "Relatórios"

// WriteXLSX пишет книгу с одним листом: строка заголовков и строка на отчёт.
// Числовые колонки записываются числами.
func WriteXLSX(w io.Writer, items []models.Relatorio, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("export xlsx: rename sheet %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("export xlsx: header %w", err)
	}

	loc := opts.location()
	for i := range items {
		rel := &items[i]
		row := []interface{}{
			rel.ID,
			DateBR(rel.CreatedAt, loc),
			rel.NomeCompleto(),
			rel.EncarregadoPatente,
			rel.ViaturaPrefixo,
			DateBR(rel.DataInicio, loc),
			DateBR(rel.DataFim, loc),
			rel.TotalOcorrencias,
			rel.DrogasApreendidas,
			rel.DinheiroSujoApreendido,
			rel.ArmamentoApreendido,
			rel.MunicaoApreendida,
			rel.BombasApreendidas,
			rel.LockpikApreendidas,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("export xlsx: row %d %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export xlsx: write %w", err)
	}
	return nil
}
