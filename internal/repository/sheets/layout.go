package sheets

import (
	"fmt"
	"strings"
)

const (
	headerTime   = "time"
	headerStatus = "status"

	// Сколько колонок пишется при бронировании начиная со status
	bookingColumns = 5
)

// columnIndex переводит букву колонки в индекс с нуля: A -> 0, AA -> 26
func columnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("empty column")
	}
	idx := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column %q", letters)
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1, nil
}

// columnLetter обратное к columnIndex
func columnLetter(idx int) string {
	var b []byte
	for idx >= 0 {
		b = append([]byte{byte('A' + idx%26)}, b...)
		idx = idx/26 - 1
	}
	return string(b)
}

// quoteSheet экранирует название листа для A1-нотации
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// rowRange диапазон одной строки, например 'Лист'!C5:G5
func rowRange(title string, fromCol, toCol, row int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", quoteSheet(title), columnLetter(fromCol), row, columnLetter(toCol), row)
}

// header индексы колонок по заголовку листа
type header struct {
	time   int
	status int
}

func parseHeader(row []any) (header, error) {
	h := header{time: -1, status: -1}
	for i, v := range row {
		switch strings.ToLower(strings.TrimSpace(cellString(v))) {
		case headerTime:
			if h.time < 0 {
				h.time = i
			}
		case headerStatus:
			if h.status < 0 {
				h.status = i
			}
		}
	}
	if h.time < 0 || h.status < 0 {
		return h, fmt.Errorf("header must contain %q and %q columns", headerTime, headerStatus)
	}
	return h, nil
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func cell(row []any, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cellString(row[idx])
}
