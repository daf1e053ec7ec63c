package goldbook

import "testing"

func TestParseUnit(t *testing.T) {
	tests := []struct {
		input   string
		want    Unit
		wantErr bool
	}{
		{"gold", Gold, false},
		{" Money ", Money, false},
		{"g", Gold, false},
		{"usd", Money, false},
		{"silver", Gold, true},
	}
	for _, tt := range tests {
		got, err := ParseUnit(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseUnit(%q) = %v, %v, want %v, error %v", tt.input, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestOrder(t *testing.T) {
	if DefaultOrder(Gold) != Ascending || DefaultOrder(Money) != Descending {
		t.Error("DefaultOrder() is not ascending gold and descending money")
	}
	for _, o := range []Order{Ascending, Descending} {
		if got, err := ParseOrder(o.String()); err != nil || got != o {
			t.Errorf("ParseOrder(%q) = %v, %v", o.String(), got, err)
		}
	}
	if _, err := ParseOrder("sideways"); err == nil {
		t.Error("ParseOrder(sideways) succeeded")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"money", FormatMoney(Q(1200), "USD"), "$1,200.00"},
		{"negative money", FormatMoney(Q(-100), "USD"), "-$100.00"},
		{"rounded money", FormatMoney(Q(0.125), ""), "$0.13"},
		{"gold", FormatGold(Q(12.5)), "12.500 g"},
		{"unit money", Money.Format(Q(950), "USD"), "$950.00"},
		{"unit gold", Gold.Format(Q(12), "USD"), "12.000 g"},
		{"signed", SignedString(Q(3), FormatGold), "+3.000 g"},
		{"signed negative", SignedString(Q(-3), FormatGold), "-3.000 g"},
		{"signed zero", SignedString(Q(0), FormatGold), "-"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("12.345")
	if err != nil || q.String() != "12.345" {
		t.Errorf("ParseQuantity(12.345) = %v, %v", q, err)
	}
	if _, err := ParseQuantity("twelve"); err == nil {
		t.Error("ParseQuantity(twelve) succeeded")
	}
	if got := Sum(Q(1), Q(2.5), Q(-0.5)); !got.Equal(Q(3)) {
		t.Errorf("Sum() = %v, want 3", got)
	}
}
