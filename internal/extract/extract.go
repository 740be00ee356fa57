// Package extract достаёт список URL из загруженных таблиц.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat возвращается для файлов, отличных от CSV и XLSX.
var ErrUnsupportedFormat = errors.New("only CSV and Excel files are allowed")

// Supported сообщает, поддерживается ли файл с таким именем.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// FromUpload читает все непустые ячейки таблицы построчно.
func FromUpload(filename string, r io.Reader) ([]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return flatten(rows), nil
}

// Combine ставит введённый вручную URL перед URL из файла.
func Combine(manual string, fileURLs []string) []string {
	urls := make([]string, 0, len(fileURLs)+1)
	if manual = strings.TrimSpace(manual); manual != "" {
		urls = append(urls, manual)
	}
	return append(urls, fileURLs...)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return rows, nil
}

// readXLSX читает первый лист книги.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func flatten(rows [][]string) []string {
	var urls []string
	for _, row := range rows {
		for _, cell := range row {
			if cell = strings.TrimSpace(cell); cell != "" {
				urls = append(urls, cell)
			}
		}
	}
	return urls
}
