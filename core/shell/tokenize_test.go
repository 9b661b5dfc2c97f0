package shell

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsTokenizer(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{" \t\r\n\a", []string{}},
		{"ls", []string{"ls"}},
		{"ls -la /tmp", []string{"ls", "-la", "/tmp"}},
		{"  leading and trailing  ", []string{"leading", "and", "trailing"}},
		{"tab\tseparated\r\nline", []string{"tab", "separated", "line"}},
		{"bell\aseparated", []string{"bell", "separated"}},
		{`"quotes" are 'literal'`, []string{`"quotes"`, "are", `'literal'`}},
		{"$HOME *.go", []string{"$HOME", "*.go"}},
		{"a\vb", []string{"a\vb"}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.line), func(t *testing.T) {
			got, err := NewFieldsTokenizer().Split(tc.line)
			require.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFieldsTokenizer_noDelimiters(t *testing.T) {
	for _, word := range []string{"x", "exit", "/usr/bin/env", strings.Repeat("w", 5000)} {
		got, err := NewFieldsTokenizer().Split(word)
		require.Nil(t, err)
		assert.Equal(t, []string{word}, got)
	}
}

func TestFieldsTokenizer_growth(t *testing.T) {
	var words []string
	for i := 0; i < 100; i++ {
		words = append(words, fmt.Sprintf("arg%d", i))
	}

	tokenizer := &FieldsTokenizer{BufferSize: 3}
	got, err := tokenizer.Split(strings.Join(words, " "))
	require.Nil(t, err)
	assert.Equal(t, words, got)
}

func TestFieldsTokenizer_maxTokens(t *testing.T) {
	tokenizer := &FieldsTokenizer{BufferSize: 2, MaxTokens: 3}

	got, err := tokenizer.Split("a b c")
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got, err = tokenizer.Split("a b c d")
	assert.True(t, errors.Is(err, ErrResourceExhausted), "got %v", err)
	assert.Nil(t, got)
}

func TestShlexTokenizer(t *testing.T) {
	tokenizer := &ShlexTokenizer{}

	got, err := tokenizer.Split(`echo "hello world" 'single quoted' back\ slash`)
	require.Nil(t, err)
	assert.Equal(t, []string{"echo", "hello world", "single quoted", "back slash"}, got)

	got, err = tokenizer.Split("   ")
	require.Nil(t, err)
	assert.Empty(t, got)

	_, err = tokenizer.Split(`echo "unterminated`)
	var syntaxErr *SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "got %v", err)
}

func TestShlexTokenizer_maxTokens(t *testing.T) {
	tokenizer := &ShlexTokenizer{MaxTokens: 1}

	_, err := tokenizer.Split("a b")
	assert.True(t, errors.Is(err, ErrResourceExhausted), "got %v", err)
}
