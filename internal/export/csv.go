package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/ignatzorin/rso-backend/internal/models"
)

// WriteCSV пишет заголовок и по строке на отчёт. Каждая ячейка в кавычках,
// строки разделены "\n" без завершающего перевода строки.
func WriteCSV(w io.Writer, items []models.Relatorio, opts Options) error {
	bw := bufio.NewWriter(w)
	loc := opts.location()

	writeRecord(bw, Headers)
	for i := range items {
		bw.WriteByte('\n')
		writeRecord(bw, Row(&items[i], loc))
	}

	return bw.Flush()
}

func writeRecord(bw *bufio.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		bw.WriteByte('"')
	}
}
