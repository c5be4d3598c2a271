package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercases", "Python AWS", "python aws"},
		{"Keeps plus and hash", "C++ and C# developer", "c++ and c# developer"},
		{"Dots become spaces", "node.js", "node js"},
		{"Punctuation collapses", "Python, Java; (Go)!", "python java go"},
		{"Whitespace runs collapse", "a \t\n  b\r\nc", "a b c"},
		{"Trims", "   padded   ", "padded"},
		{"Empty string", "", ""},
		{"Whitespace only", " \t\n ", ""},
		{"Punctuation only", "!!! ... ---", ""},
		{"Digits kept", "5+ years of K8s", "5+ years of k8s"},
		{"Non-ASCII letters replaced", "café résumé", "caf r sum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Senior Go/Python Engineer (Remote)", "C++, C#, F#", ""}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
