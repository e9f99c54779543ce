package ux

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type stringerDoc struct {
	Name string `json:"name" yaml:"name"`
}

func (d stringerDoc) String() string { return "doc " + d.Name }

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"", false},
		{"yaml", false},
		{"text", false},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := NewFormatter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	f, err := NewFormatter("json", &FormatterOptions{Writer: buf})
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	if err := f.Format(stringerDoc{Name: "alpha"}); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["name"] != "alpha" {
		t.Errorf("unexpected doc: %v", doc)
	}
}

func TestJSONCompact(t *testing.T) {
	buf := &bytes.Buffer{}
	f, _ := NewFormatter("json", &FormatterOptions{Writer: buf, Compact: true})

	if err := f.Format(stringerDoc{Name: "alpha"}); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if strings.Count(strings.TrimSpace(buf.String()), "\n") != 0 {
		t.Errorf("compact output should be one line, got: %q", buf.String())
	}
}

func TestYAMLFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	f, _ := NewFormatter("yaml", &FormatterOptions{Writer: buf})

	if err := f.Format(stringerDoc{Name: "alpha"}); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if doc["name"] != "alpha" {
		t.Errorf("unexpected doc: %v", doc)
	}
}

func TestTextFormatUsesStringer(t *testing.T) {
	buf := &bytes.Buffer{}
	f, _ := NewFormatter("text", &FormatterOptions{Writer: buf})

	if err := f.Format(stringerDoc{Name: "alpha"}); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if strings.TrimSpace(buf.String()) != "doc alpha" {
		t.Errorf("unexpected text output: %q", buf.String())
	}
}
