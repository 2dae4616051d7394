package canon

import (
	"testing"
)

type sample struct {
	Name  string            `json:"name,omitempty"`
	Count int               `json:"count,omitempty"`
	Tags  map[string]string `json:"tags,omitempty"`
}

func TestMarshalPrunesZeroFields(t *testing.T) {
	got, err := Marshal(sample{Name: "a"})
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if string(got) != `{"name":"a"}` {
		t.Errorf("Marshal() = %s", got)
	}
}

func TestMarshalMapOrderIndependent(t *testing.T) {
	a := sample{Tags: map[string]string{"x": "1", "y": "2", "z": "3"}}
	b := sample{Tags: map[string]string{"z": "3", "y": "2", "x": "1"}}

	eq, err := Equal(a, b)
	if err != nil {
		t.Fatalf("Equal() returned error: %v", err)
	}
	if !eq {
		t.Error("insertion order must not affect the canonical form")
	}
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	got, err := Marshal(sample{Name: "a&b<c>"})
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if string(got) != `{"name":"a&b<c>"}` {
		t.Errorf("Marshal() = %s", got)
	}
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(sample{Name: "a", Count: 1})
	if err != nil {
		t.Fatalf("Fingerprint() returned error: %v", err)
	}
	same, err := Fingerprint(sample{Name: "a", Count: 1})
	if err != nil {
		t.Fatalf("Fingerprint() returned error: %v", err)
	}
	different, err := Fingerprint(sample{Name: "a", Count: 2})
	if err != nil {
		t.Fatalf("Fingerprint() returned error: %v", err)
	}

	if a != same {
		t.Error("equal values must have equal fingerprints")
	}
	if a == different {
		t.Error("different values must have different fingerprints")
	}
}

func TestFingerprintUnsupportedValue(t *testing.T) {
	if _, err := Fingerprint(func() {}); err == nil {
		t.Error("expected an error for a non-serializable value")
	}
}
