package conv

import "testing"

func TestAppendUint(t *testing.T) {
	buf := make([]byte, 0, 32)
	cases := map[uint64]string{0: "0", 7: "7", 115200: "115200", 1<<64 - 1: "18446744073709551615"}
	for n, want := range cases {
		if got := string(AppendUint(buf[:0], n)); got != want {
			t.Fatalf("AppendUint(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestAppendInt(t *testing.T) {
	buf := make([]byte, 0, 32)
	if got := string(AppendInt(buf, -42)); got != "-42" {
		t.Fatalf("got %q", got)
	}
	if got := string(AppendInt(buf, 42)); got != "42" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendHex32(t *testing.T) {
	buf := make([]byte, 0, 16)
	buf = AppendString(buf, "c=")
	if got := string(AppendHex32(buf, 0xDEAD01)); got != "c=0x00DEAD01" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendRespectsCapacity(t *testing.T) {
	var arr [4]byte
	buf := AppendString(arr[:0], "ab")
	buf = AppendUint(buf, 12345)
	if got := string(buf); got != "ab45" {
		t.Fatalf("got %q", got)
	}
	if got := string(AppendString(arr[:0], "abcdef")); got != "abcd" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendDoesNotAllocate(t *testing.T) {
	var arr [64]byte
	allocs := testing.AllocsPerRun(100, func() {
		b := AppendString(arr[:0], "FATAL ")
		b = AppendInt(b, -12)
		_ = AppendHex32(b, 0xCAFE)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v", allocs)
	}
}
