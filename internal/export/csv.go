// Package export renders transactions as CSV files and printable reports.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/domain"
)

var csvHeader = []string{"Date", "Type", "Category", "Description", "Amount", "Payment Method"}

// CSVFilename is the attachment name for an export made at t.
func CSVFilename(t time.Time) string {
	return "transactions-" + t.UTC().Format(time.DateOnly) + ".csv"
}

// WriteCSV writes one row per transaction. The description column is always
// quoted, other columns only when they need it.
func WriteCSV(w io.Writer, txs []domain.Transaction) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, csvHeader, -1)

	for _, tx := range txs {
		category := ""
		if tx.Category != nil {
			category = tx.Category.Name
		}
		writeRow(bw, []string{
			tx.Date.UTC().Format(time.DateOnly),
			string(tx.Type),
			category,
			tx.Description,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			string(tx.PaymentMethod),
		}, 3)
	}
	return bw.Flush()
}

// writeRow follows RFC 4180; the column at forceQuote is quoted regardless.
func writeRow(w *bufio.Writer, fields []string, forceQuote int) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		if i == forceQuote || strings.ContainsAny(f, ",\"\r\n") || strings.HasPrefix(f, " ") {
			w.WriteByte('"')
			w.WriteString(strings.ReplaceAll(f, `"`, `""`))
			w.WriteByte('"')
			continue
		}
		w.WriteString(f)
	}
	w.WriteString("\r\n")
}
