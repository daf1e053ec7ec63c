package goldbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Records are persisted as JSONL, one record per line, so that a ledger stays
// human-readable and git-friendly.

// DecodeJSONL decodes one record per non empty line. name is only used in
// error messages.
func DecodeJSONL[T any](name string, r io.Reader) ([]T, error) {
	list := make([]T, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse error %s:%d: %w", name, i, err)
		}
		list = append(list, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error %s: %w", name, err)
	}
	return list, nil
}

// EncodeJSONL writes one record per line.
func EncodeJSONL[T any](w io.Writer, records []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
