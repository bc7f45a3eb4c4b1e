package memdb

import "testing"

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Value
	}{
		{raw: "", want: String("")},
		{raw: "42", want: Int(42)},
		{raw: "-3", want: Int(-3)},
		{raw: "2.5", want: Number(2.5)},
		{raw: "1e3", want: Number(1000)},
		{raw: "Active", want: String("Active")},
		{raw: "0x10", want: String("0x10")},
		{raw: "1_000", want: String("1_000")},
		{raw: "Inf", want: String("Inf")},
		{raw: "NaN", want: String("NaN")},
		{raw: "12abc", want: String("12abc")},
	}
	for _, tc := range tests {
		got := ParseValue(tc.raw)
		if !got.Equal(tc.want) {
			t.Errorf("ParseValue(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}

func TestValueEqualIsStrict(t *testing.T) {
	t.Parallel()

	if Int(1).Equal(String("1")) {
		t.Fatal("number 1 must not equal string \"1\"")
	}
	if !Null().Equal(Value{}) {
		t.Fatal("zero value must be null")
	}
	if Null().Equal(String("")) {
		t.Fatal("null must not equal empty string")
	}
}

func TestValueString(t *testing.T) {
	t.Parallel()

	if got := Number(2.5).String(); got != "2.5" {
		t.Fatalf("Number(2.5).String() = %q", got)
	}
	if got := Int(7).String(); got != "7" {
		t.Fatalf("Int(7).String() = %q", got)
	}
	if got := Null().String(); got != "" {
		t.Fatalf("Null().String() = %q", got)
	}
	if got := Bool(true).String(); got != "1" {
		t.Fatalf("Bool(true).String() = %q", got)
	}
}

func TestNewColumnsPrefixesID(t *testing.T) {
	t.Parallel()

	cols := NewColumns([]Column{{Name: "name", Type: TypeText}, {Name: "name", Type: TypeText}})
	if got := cols.String(); got != "id|name" {
		t.Fatalf("columns = %q, want id|name", got)
	}
	if cols.Index("missing") != -1 {
		t.Fatal("expected -1 for unknown column")
	}

	cols = NewColumns([]Column{{Name: "id", Type: TypeText}, {Name: "x"}})
	if cols.At(0).Type != TypeInt {
		t.Fatalf("id type = %v, want TypeInt", cols.At(0).Type)
	}
}
