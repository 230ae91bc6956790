package core

import (
	"errors"
	"testing"
)

func TestParsePortSelection(t *testing.T) {
	tests := []struct {
		name    string
		mode    PortMode
		top     string
		bottom  string
		want    PortSelection
		wantErr bool
	}{
		{name: "single port", mode: PortModeSpecify, top: "8080", want: PortSelection{Port: 8080}},
		{name: "single port ignores bottom", mode: PortModeSpecify, top: " 443 ", bottom: "junk", want: PortSelection{Port: 443}},
		{name: "range", mode: PortModeRange, top: "8080", bottom: "8090", want: PortSelection{Port: 8080, UpperBound: 8090}},
		{name: "range of one port", mode: PortModeRange, top: "9000", bottom: "9000", want: PortSelection{Port: 9000}},
		{name: "empty port", mode: PortModeSpecify, top: "", wantErr: true},
		{name: "not a number", mode: PortModeSpecify, top: "http", wantErr: true},
		{name: "zero", mode: PortModeSpecify, top: "0", wantErr: true},
		{name: "too large", mode: PortModeSpecify, top: "65536", wantErr: true},
		{name: "max port", mode: PortModeSpecify, top: "65535", want: PortSelection{Port: 65535}},
		{name: "inverted range", mode: PortModeRange, top: "9000", bottom: "8000", wantErr: true},
		{name: "missing upper bound", mode: PortModeRange, top: "9000", wantErr: true},
		{name: "unknown mode", mode: PortMode(7), top: "9000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePortSelection(tt.mode, tt.top, tt.bottom)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParsePortSelectionValidationWrapsErrInvalidPort(t *testing.T) {
	_, err := ParsePortSelection(PortModeRange, "10", "5")
	if !errors.Is(err, ErrInvalidPort) {
		t.Errorf("expected ErrInvalidPort, got %v", err)
	}
}

func TestParsePortSelectionRandom(t *testing.T) {
	old := randIntn
	t.Cleanup(func() { randIntn = old })

	var gotN int
	randIntn = func(n int) int {
		gotN = n
		return n - 1
	}

	got, err := ParsePortSelection(PortModeRandom, "8000", "8009")
	if err != nil {
		t.Fatal(err)
	}
	if gotN != 10 {
		t.Errorf("expected draw over 10 ports, got %d", gotN)
	}
	if got != (PortSelection{Port: 8009}) {
		t.Errorf("expected upper bound to be reachable, got %+v", got)
	}

	randIntn = old
	for i := 0; i < 100; i++ {
		got, err := ParsePortSelection(PortModeRandom, "20000", "20005")
		if err != nil {
			t.Fatal(err)
		}
		if got.Port < 20000 || got.Port > 20005 || got.UpperBound != 0 {
			t.Fatalf("random port out of range: %+v", got)
		}
	}
}

func TestPortModeLabels(t *testing.T) {
	for _, mode := range []PortMode{PortModeSpecify, PortModeRange, PortModeRandom} {
		got, ok := PortModeFromLabel(mode.String())
		if !ok || got != mode {
			t.Errorf("label %q did not map back to %d", mode.String(), mode)
		}
	}
	if _, ok := PortModeFromLabel("nope"); ok {
		t.Error("expected unknown label to be rejected")
	}
}

func TestPortSelectionRequest(t *testing.T) {
	req := PortSelection{Port: 8080, UpperBound: 8090}.Request(true)
	if req.Port != 8080 || req.UpperBound != 8090 || !req.Encrypted || req.Body != nil {
		t.Errorf("unexpected request %+v", req)
	}
}
