package types

import (
	"testing"

	"periphio-go/errcode"
)

func TestParseSerialFormat(t *testing.T) {
	for _, want := range []SerialFormat{Format8N1, Format8N2, Format8E1, Format8E2, Format8O1, Format8O2} {
		got, err := ParseSerialFormat(want.String())
		if err != nil || got != want {
			t.Fatalf("ParseSerialFormat(%q) = %+v, %v", want.String(), got, err)
		}
	}
	if got, _ := ParseSerialFormat("8e1"); got != Format8E1 {
		t.Fatalf("lower-case parity not accepted: %+v", got)
	}
	for _, bad := range []string{"", "8X1", "8N3", "4N1", "8N1x"} {
		if _, err := ParseSerialFormat(bad); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("ParseSerialFormat(%q) err=%v", bad, err)
		}
	}
}
