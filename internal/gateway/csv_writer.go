package gateway

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"balance-ledger/internal/domain"
)

// StatementHeader is the first row written by CSVStatementWriter.
var StatementHeader = []string{"id", "date", "amount", "counterparty", "data"}

// CSVStatementWriter writes account statements as CSV.
type CSVStatementWriter struct{}

// NewCSVStatementWriter creates a new writer instance.
func NewCSVStatementWriter() *CSVStatementWriter {
	return &CSVStatementWriter{}
}

// WriteStatement writes one row per transaction in the given order.
func (w *CSVStatementWriter) WriteStatement(out io.Writer, transactions []domain.Transaction) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(StatementHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, tx := range transactions {
		counterparty := ""
		if tx.CounterpartyID != nil {
			counterparty = strconv.FormatInt(int64(*tx.CounterpartyID), 10)
		}
		data := ""
		if len(tx.Data) > 0 {
			raw, err := json.Marshal(tx.Data)
			if err != nil {
				return fmt.Errorf("could not encode data of transaction %d: %w", tx.ID, err)
			}
			data = string(raw)
		}
		record := []string{
			strconv.FormatInt(int64(tx.ID), 10),
			tx.Date.UTC().Format(time.RFC3339),
			tx.Amount.String(),
			counterparty,
			data,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %d: %w", tx.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
