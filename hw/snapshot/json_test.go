package snapshot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMMC5JSON(t *testing.T) {
	want := MMC5{
		Pulse1: Pulse{
			Timer:   Timer{Counter: 0x123, Time: 4000, Elapsed: 1 << 40, LastOutput: 15},
			Duty:    3,
			DutyPos: 14,
			Volume:  15,
			Gate:    true,
			Enabled: true,
			FreqLo:  0xAB,
			FreqHi:  0x0C,
		},
		MulA: 0xFE,
		MulB: 0x12,
	}
	for i := range want.ExRAM {
		want.ExRAM[i] = uint8(i * 7)
	}

	buf := Marshal(&want)

	var got MMC5
	if err := Unmarshal(buf, &got); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, buf)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"wrong chip", `{"version":1,"chip":"mmc5"}`, "not \"vrc6\""},
		{"wrong version", `{"version":99,"chip":"vrc6"}`, "unsupported snapshot version"},
		{"bad field", `{"pulse1":{"duty":"x"}}`, "snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s VRC6
			err := Unmarshal([]byte(tt.json), &s)
			if err == nil {
				t.Fatalf("Unmarshal(%s) should fail", tt.json)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Unmarshal(%s) error = %q, want it to contain %q", tt.json, err, tt.want)
			}
		})
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	var s VRC6
	err := Unmarshal([]byte(`{"version":1,"chip":"vrc6","extra":[1,2,{"a":3}],"sawtooth":{"rate":42,"future":true}}`), &s)
	if err != nil {
		t.Fatal(err)
	}
	if s.Sawtooth.Rate != 42 {
		t.Errorf("Sawtooth.Rate = %d, want 42", s.Sawtooth.Rate)
	}
}
