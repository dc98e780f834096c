package expiry

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/models"
)

const (
	// ContentType MIME-тип экспорта.
	ContentType = "text/csv"
	// ReportFileName имя файла отчета для NAFDAC.
	ReportFileName = "nafdac_expiry_report.csv"
)

// Header фиксированный порядок колонок экспорта.
var Header = []string{"product_name", "quantity", "expiry_date", "status"}

// ExportRow строка экспорта после разбора.
type ExportRow struct {
	ProductName string
	Quantity    int
	ExpiryDate  string
	Status      Status
}

// WriteCSV пишет заголовок и по одной строке на запись в переданном порядке.
// Количество дней и владелец не экспортируются.
func WriteCSV(w io.Writer, records []Classified) error {
	const op = "expiry.WriteCSV"
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, rec := range records {
		row := []string{
			rec.ProductName,
			strconv.Itoa(rec.Quantity),
			rec.ExpiryDateString(),
			string(rec.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ToTabularExport возвращает экспорт целиком в виде байтов.
func ToTabularExport(records []Classified) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseExport разбирает результат WriteCSV обратно в строки.
func ParseExport(r io.Reader) ([]ExportRow, error) {
	const op = "expiry.ParseExport"
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", op, err)
	}
	if strings.Join(header, ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("%s: unexpected header %q", op, header)
	}

	rows := make([]ExportRow, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		qty, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s: quantity %q: %w", op, rec[1], err)
		}
		if _, err := time.Parse(models.DateLayout, rec[2]); err != nil {
			return nil, fmt.Errorf("%s: expiry_date %q: %w", op, rec[2], err)
		}
		status := Status(rec[3])
		if !status.Valid() {
			return nil, fmt.Errorf("%s: unknown status %q", op, rec[3])
		}
		rows = append(rows, ExportRow{
			ProductName: rec[0],
			Quantity:    qty,
			ExpiryDate:  rec[2],
			Status:      status,
		})
	}
	return rows, nil
}
