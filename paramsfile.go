package reqflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// paramsDoc is the serializable projection of Params used in parameter files.
// Hooks are code, not data, and are attached by the caller after loading.
type paramsDoc struct {
	URL            string            `yaml:"url" json:"url"`
	Method         string            `yaml:"method" json:"method"`
	Headers        map[string]string `yaml:"headers" json:"headers"`
	Query          map[string]string `yaml:"query" json:"query"`
	Body           string            `yaml:"body" json:"body"`
	Timeout        string            `yaml:"timeout" json:"timeout"`
	Auth           *BasicAuth        `yaml:"auth" json:"auth"`
	ResponseType   string            `yaml:"responseType" json:"responseType"`
	XSRFCookieName string            `yaml:"xsrfCookieName" json:"xsrfCookieName"`
	XSRFHeaderName string            `yaml:"xsrfHeaderName" json:"xsrfHeaderName"`
	Tag            string            `yaml:"tag" json:"tag"`
	Cache          string            `yaml:"cache" json:"cache"`
	Defer          bool              `yaml:"defer" json:"defer"`
}

// LoadParamsFile reads declarative request parameters from a YAML or JSON
// file. The file may contain a single request or a list of requests.
func LoadParamsFile(path string) ([]Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return parseParamsJSON(data)
	}
	return parseParamsYAML(data)
}

func parseParamsJSON(data []byte) ([]Params, error) {
	var docs []paramsDoc
	if err := json.Unmarshal(data, &docs); err == nil {
		return docsToParams(docs)
	}
	var doc paramsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return docsToParams([]paramsDoc{doc})
}

func parseParamsYAML(data []byte) ([]Params, error) {
	var docs []paramsDoc
	if err := yaml.Unmarshal(data, &docs); err == nil {
		return docsToParams(docs)
	}
	var doc paramsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return docsToParams([]paramsDoc{doc})
}

func docsToParams(docs []paramsDoc) ([]Params, error) {
	out := make([]Params, 0, len(docs))
	for i, doc := range docs {
		p, err := doc.toParams()
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (d paramsDoc) toParams() (Params, error) {
	p := Params{
		URL:            d.URL,
		Method:         d.Method,
		Header:         d.Headers,
		Query:          d.Query,
		Auth:           d.Auth,
		ResponseType:   d.ResponseType,
		XSRFCookieName: d.XSRFCookieName,
		XSRFHeaderName: d.XSRFHeaderName,
		Tag:            d.Tag,
		Defer:          d.Defer,
	}
	if d.Body != "" {
		p.Body = []byte(d.Body)
	}
	if d.Timeout != "" {
		timeout, err := time.ParseDuration(d.Timeout)
		if err != nil {
			return Params{}, fmt.Errorf("invalid timeout %q: %w", d.Timeout, err)
		}
		p.Timeout = timeout
	}
	if d.Cache != "" {
		cache, err := time.ParseDuration(d.Cache)
		if err != nil {
			return Params{}, fmt.Errorf("invalid cache duration %q: %w", d.Cache, err)
		}
		p.Cache = cache
	}
	return p, nil
}
