package cachekey

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var keyPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestForSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{name: "simple spec", spec: "https://example.com/tool:tool"},
		{name: "empty spec", spec: ""},
		{name: "unicode spec", spec: "https://example.com/wörkzeug:ツール"},
		{name: "very long spec", spec: strings.Repeat("a", 1<<16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ForSpec(tt.spec)
			assert.Regexp(t, keyPattern, key)
			assert.Equal(t, key, ForSpec(tt.spec), "keys must be deterministic")
		})
	}
}

func TestForSpec_DistinctSpecsDiffer(t *testing.T) {
	specs := []string{
		"https://example.com/a:a",
		"https://example.com/a:b",
		"https://example.com/b:a",
		"a",
		"a:",
		":a",
		"",
	}

	seen := make(map[string]string)
	for _, spec := range specs {
		key := ForSpec(spec)
		if prev, ok := seen[key]; ok {
			t.Fatalf("collision between %q and %q", prev, spec)
		}
		seen[key] = spec
	}
}

func TestForDownload(t *testing.T) {
	assert.Equal(t, ForSpec("https://example.com/tool:tool"), ForDownload("https://example.com/tool", "tool"))
}
