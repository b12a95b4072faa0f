package refcode

import (
	"strings"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID returned empty string")
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestReferenceCodeDeterministic(t *testing.T) {
	key := NewID()
	a := ReferenceCode("TRA", key, 8)
	b := ReferenceCode("TRA", key, 8)
	if a != b {
		t.Fatalf("same key and prefix produced %q and %q", a, b)
	}
}

func TestReferenceCodeShape(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		length int
	}{
		{"TRA", "m2k4xabc1234", 8},
		{"FAC", "m2k4xdef5678", 8},
		{"DEV", "x", 8}, // short key gets padded
		{"FAC", "m2k4xdef5678", 12},
	}
	for _, tc := range tests {
		code := ReferenceCode(tc.prefix, tc.key, tc.length)
		if !strings.HasPrefix(code, tc.prefix+"-") {
			t.Errorf("ReferenceCode(%q, %q) = %q, want prefix %q-", tc.prefix, tc.key, code, tc.prefix)
		}
		if got := len(code); got != len(tc.prefix)+1+tc.length {
			t.Errorf("ReferenceCode(%q, %q) = %q, want encoded length %d", tc.prefix, tc.key, code, tc.length)
		}
	}
}

func TestReferenceCodeDistinctKeys(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 1000; i++ {
		key := NewID()
		code := ReferenceCode("TRA", key, 8)
		if prev, ok := seen[code]; ok && prev != key {
			t.Fatalf("keys %q and %q collided on code %q", prev, key, code)
		}
		seen[code] = key
	}
}

func TestReferenceCodePrefixesDiffer(t *testing.T) {
	key := NewID()
	fac := ReferenceCode("FAC", key, 8)
	dev := ReferenceCode("DEV", key, 8)
	if fac == dev {
		t.Fatalf("FAC and DEV codes should differ, both %q", fac)
	}
	if fac[4:] != dev[4:] {
		t.Fatalf("encoded part should only depend on the key: %q vs %q", fac, dev)
	}
}
