package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"balance-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// CSVPostingReader reads bulk postings from CSV files with the header
// account,amount,data. The account column holds an id or a filter such as
// "userId=5&kind=wallet"; data holds "key=value" pairs separated by ";".
type CSVPostingReader struct{}

// NewCSVPostingReader creates a new reader instance.
func NewCSVPostingReader() *CSVPostingReader {
	return &CSVPostingReader{}
}

// ReadPostings reads and parses the postings file at path.
func (r *CSVPostingReader) ReadPostings(ctx context.Context, path string) ([]domain.Posting, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open postings file %s: %w", path, err)
	}
	defer file.Close()

	postings, err := r.Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return postings, nil
}

// Parse reads postings from an already opened stream.
func (r *CSVPostingReader) Parse(ctx context.Context, in io.Reader) ([]domain.Posting, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var postings []domain.Posting
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", line, err)
		}
		if len(record) < 2 {
			return nil, domain.InvalidArgumentf("line %d: expected at least account and amount", line)
		}

		ref, err := ParseAccountRef(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, domain.InvalidArgumentf("line %d: could not parse amount '%s': %v", line, record[1], err)
		}
		posting := domain.Posting{Line: line, Account: ref, Amount: amount}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			data, err := ParsePayload(record[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			posting.Data = data
		}
		postings = append(postings, posting)
	}
	return postings, nil
}

// ParseAccountRef parses "42" as an id reference and "userId=5&kind=wallet" as
// a filter reference. Integer-looking filter values become int64.
func ParseAccountRef(raw string) (domain.AccountRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.AccountRef{}, domain.InvalidArgumentf("empty account reference")
	}
	if !strings.Contains(raw, "=") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.AccountRef{}, domain.InvalidArgumentf("could not parse account id '%s'", raw)
		}
		return domain.ByID(domain.AccountID(id)), nil
	}
	pairs, err := parsePairs(raw, "&")
	if err != nil {
		return domain.AccountRef{}, err
	}
	return domain.ByFilter(domain.Filter(pairs)), nil
}

// ParsePayload parses "key=value;key2=value2" into a transaction payload.
func ParsePayload(raw string) (map[string]any, error) {
	return parsePairs(raw, ";")
}

func parsePairs(raw, sep string) (map[string]any, error) {
	out := make(map[string]any)
	for _, part := range strings.Split(raw, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, domain.InvalidArgumentf("malformed pair '%s'", part)
		}
		value = strings.TrimSpace(value)
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			out[key] = n
		} else {
			out[key] = value
		}
	}
	return out, nil
}
