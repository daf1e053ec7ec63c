package goldbook

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeJSONL(t *testing.T) {
	input := `{"id":1,"customer":7,"when":"2025-03-01T10:00:00Z","received":200,"paid":0,"balance":200}

{"id":2,"customer":7,"when":"2025-03-02T10:00:00Z","received":0,"paid":"300.5","carat":21,"balance":-100.5}
`
	entries, err := DecodeJSONL[Entry]("money.jsonl", strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSONL() unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	e := entries[1]
	if !e.Paid.Equal(Q(300.5)) || !e.Persisted.Equal(Q(-100.5)) || e.Carat == nil || !e.Carat.Equal(Q(21)) {
		t.Errorf("entry 2 = %+v", e)
	}
	if !e.When.Equal(day(2)) {
		t.Errorf("When = %v, want %v", e.When, day(2))
	}

	_, err = DecodeJSONL[Entry]("money.jsonl", strings.NewReader("{\"id\":1}\n{oops\n"))
	if err == nil || !strings.Contains(err.Error(), "money.jsonl:2") {
		t.Errorf("DecodeJSONL(corrupted) error = %v, want the line number", err)
	}
}

func TestEncodeJSONL(t *testing.T) {
	var buf bytes.Buffer
	records := []Customer{{ID: 1, Name: "Alice & Bob"}, {ID: 2, Name: "Carol", Phone: "555"}}
	if err := EncodeJSONL(&buf, records); err != nil {
		t.Fatal(err)
	}
	want := `{"id":1,"name":"Alice & Bob"}
{"id":2,"name":"Carol","phone":"555"}
`
	if buf.String() != want {
		t.Errorf("EncodeJSONL() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := EncodeJSONL(&buf, []Capital{{ID: 1, USD: Q(1000.5)}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"usd":1000.5`) {
		t.Errorf("EncodeJSONL() = %q, want unquoted decimals", buf.String())
	}
}
