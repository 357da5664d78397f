// Package csvio reads transaction streams from and writes account snapshots to CSV.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iho/txledger/internal/domain"
)

// Input column names.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

// ErrInvalidHeader is returned when the input header lacks a required column.
var ErrInvalidHeader = errors.New("invalid csv header")

// RowError describes an input row that was dropped. Reading may continue after it.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Is reports every RowError as domain.ErrMalformedInput.
func (e *RowError) Is(target error) bool {
	return target == domain.ErrMalformedInput
}

// Reader lazily decodes transactions from CSV input with a header row.
// Fields are trimmed and rows may carry fewer or more columns than the header.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Reader{csv: cr}
}

// Next returns the next transaction. It returns io.EOF at the end of input and
// a *RowError for a row that could not be decoded; any other error is fatal.
func (r *Reader) Next(ctx context.Context) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, err
	}

	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return domain.Transaction{}, err
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return domain.Transaction{}, &RowError{Line: parseErr.Line, Err: err}
		}
		return domain.Transaction{}, err
	}

	line, _ := r.csv.FieldPos(0)
	tx, err := r.decode(record)
	if err != nil {
		return domain.Transaction{}, &RowError{Line: line, Err: err}
	}
	return tx, nil
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	// Spreadsheet exports often prefix the file with a UTF-8 byte order mark.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{ColumnType, ColumnClient, ColumnTx} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("%w: missing column %q", ErrInvalidHeader, required)
		}
	}

	r.columns = columns
	return nil
}

func (r *Reader) field(record []string, column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (r *Reader) decode(record []string) (domain.Transaction, error) {
	kind, err := domain.ValidateTransactionKind(r.field(record, ColumnType))
	if err != nil {
		return domain.Transaction{}, err
	}

	clientID, err := strconv.ParseUint(r.field(record, ColumnClient), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: client: %w", domain.ErrInvalidTransaction, err)
	}

	txID, err := strconv.ParseUint(r.field(record, ColumnTx), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: tx: %w", domain.ErrInvalidTransaction, err)
	}

	var amount *domain.Amount
	if raw := r.field(record, ColumnAmount); raw != "" {
		parsed, err := domain.ParseAmount(raw)
		if err != nil {
			return domain.Transaction{}, err
		}
		amount = &parsed
	}

	return domain.NewTransaction(kind, domain.ClientID(clientID), domain.TxID(txID), amount)
}
