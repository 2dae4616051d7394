package reqflow

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func baseParams() Params {
	return Params{
		URL:    "http://example.com/items",
		Method: "get",
		Query:  map[string]string{"page": "1"},
		Header: map[string]string{"Accept": "application/json"},
		Tag:    "items",
	}
}

func TestExtractNormalizesMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", http.MethodGet},
		{"get", http.MethodGet},
		{" post ", http.MethodPost},
		{"DELETE", http.MethodDelete},
	}
	for _, tt := range tests {
		p := Params{URL: "http://example.com", Method: tt.in}
		if got := p.Extract().Method; got != tt.want {
			t.Errorf("Extract().Method for %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractIgnoresBehavioralFields(t *testing.T) {
	a := baseParams()
	b := baseParams()
	b.Defer = true
	b.Cache = time.Minute
	b.Hooks = Hooks{OnSuccess: func(*Response) {}}

	if !a.Extract().Equal(b.Extract()) {
		t.Error("defer, cache and hooks must not affect the extracted config")
	}
}

func TestExtractWhitelist(t *testing.T) {
	p := baseParams()
	p.Body = []byte("payload")
	p.Timeout = 5 * time.Second
	p.Auth = &BasicAuth{Username: "u", Password: "p"}
	p.ResponseType = "json"

	want := RequestConfig{
		URL:          "http://example.com/items",
		Method:       http.MethodGet,
		Header:       map[string]string{"Accept": "application/json"},
		Query:        map[string]string{"page": "1"},
		Body:         []byte("payload"),
		Timeout:      5 * time.Second,
		Auth:         &BasicAuth{Username: "u", Password: "p"},
		ResponseType: "json",
		Tag:          "items",
	}
	if diff := cmp.Diff(want, p.Extract()); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigEqualityDetectsEachField(t *testing.T) {
	mutations := map[string]func(*Params){
		"url":     func(p *Params) { p.URL = "http://example.com/other" },
		"method":  func(p *Params) { p.Method = "post" },
		"query":   func(p *Params) { p.Query = map[string]string{"page": "2"} },
		"header":  func(p *Params) { p.Header = map[string]string{"Accept": "text/plain"} },
		"body":    func(p *Params) { p.Body = []byte("x") },
		"timeout": func(p *Params) { p.Timeout = time.Second },
		"auth":    func(p *Params) { p.Auth = &BasicAuth{Username: "u"} },
		"tag":     func(p *Params) { p.Tag = "other" },
	}

	base := baseParams().Extract()
	for name, mutate := range mutations {
		p := baseParams()
		mutate(&p)
		if base.Equal(p.Extract()) {
			t.Errorf("a change to %s must be detected", name)
		}
	}
}

func TestConfigFingerprintStable(t *testing.T) {
	a, err := baseParams().Extract().Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() returned error: %v", err)
	}
	b, err := baseParams().Extract().Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() returned error: %v", err)
	}
	if a != b {
		t.Error("equal configs must have equal fingerprints")
	}
}

func TestConfigCanonicalPrunesAbsentFields(t *testing.T) {
	sparse := Params{URL: "http://example.com"}.Extract()
	canonical, err := sparse.Canonical()
	if err != nil {
		t.Fatalf("Canonical() returned error: %v", err)
	}
	want := `{"url":"http://example.com","method":"GET"}`
	if string(canonical) != want {
		t.Errorf("Canonical() = %s, want %s", canonical, want)
	}
}
