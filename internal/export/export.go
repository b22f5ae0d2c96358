package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ignatzorin/rso-backend/internal/models"
)

// Format формат выгрузки отчётов.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatXLSX Format = "xlsx"
)

// Formats все поддерживаемые форматы в порядке показа пользователю.
var Formats = []Format{FormatCSV, FormatTXT, FormatXLSX}

// ErrEmpty выгружать нечего: отфильтрованный набор пуст.
var ErrEmpty = errors.New("Nenhum relatório para exportar.")

// ErrUnknownFormat неизвестный формат выгрузки.
var ErrUnknownFormat = errors.New("formato de exportação desconhecido")

// Headers колонки табличных форматов (CSV и XLSX).
var Headers = []string{
	"ID",
	"Data Criação",
	"Encarregado",
	"Patente",
	"Viatura",
	"Data Início",
	"Data Fim",
	"Total Ocorrências",
	"Drogas",
	"Dinheiro",
	"Armamento",
	"Munição",
	"Bombas",
	"Lockpik",
}

const (
	TitleLine     = "RELATÓRIOS DE SERVIÇO OPERACIONAL (RSO)"
	BattalionLine = "3º Batalhão de Polícia de Choque Humaitá"
	ruleWidth     = 80
)

// ParseFormat разбирает формат без учёта регистра.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType MIME тип файла выгрузки.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FileName имя файла вида relatorios_<YYYY-MM-DD>.<ext>. Дата берётся в UTC.
func FileName(f Format, now time.Time) string {
	return "relatorios_" + now.UTC().Format("2006-01-02") + "." + string(f)
}

// Options параметры форматирования.
type Options struct {
	// Location часовой пояс для дат. nil означает UTC.
	Location *time.Location
	// Now момент выгрузки для строки "Exportado em". Нулевое значение заменяется time.Now.
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Write пишет items в w в заданном формате. Пустой набор даёт ErrEmpty.
func Write(w io.Writer, f Format, items []models.Relatorio, opts Options) error {
	if len(items) == 0 {
		return ErrEmpty
	}

	switch f {
	case FormatCSV:
		return WriteCSV(w, items, opts)
	case FormatTXT:
		return WriteTXT(w, items, opts)
	case FormatXLSX:
		return WriteXLSX(w, items, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// DateBR дата в формате dd/mm/aaaa.
func DateBR(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006")
}

// DateTimeBR дата и время в формате dd/mm/aaaa, hh:mm:ss.
func DateTimeBR(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006, 15:04:05")
}

// Money сумма без лишних нулей: 150.5, 0, 1200.
func Money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row значения одной строки табличной выгрузки в порядке Headers.
func Row(rel *models.Relatorio, loc *time.Location) []string {
	return []string{
		strconv.FormatInt(rel.ID, 10),
		DateBR(rel.CreatedAt, loc),
		rel.NomeCompleto(),
		rel.EncarregadoPatente,
		rel.ViaturaPrefixo,
		DateBR(rel.DataInicio, loc),
		DateBR(rel.DataFim, loc),
		strconv.Itoa(rel.TotalOcorrencias),
		strconv.Itoa(rel.DrogasApreendidas),
		Money(rel.DinheiroSujoApreendido),
		strconv.Itoa(rel.ArmamentoApreendido),
		strconv.Itoa(rel.MunicaoApreendida),
		strconv.Itoa(rel.BombasApreendidas),
		strconv.Itoa(rel.LockpikApreendidas),
	}
}
