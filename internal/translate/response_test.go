package translate

import (
	"strings"
	"testing"
)

func TestExtractTranslationResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"index": 0, "text": "こんにちは"},
				{"index": 1, "text": "さようなら"}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here is the translation:
			[
				{"index": 0, "text": "Bonjour"},
				{"index": 1, "text": "Au revoir"}
			]`,
			wantCount: 2,
		},
		{
			name: "valid array with trailing text",
			input: `[
				{"index": 0, "text": "Hola"}
			]
			I hope this helps!`,
			wantCount: 1,
		},
		{
			name:      "code fenced JSON",
			input:     `[{"index": 0, "text": "翻訳されたテキスト"}]`,
			wantCount: 1,
		},
		{
			name: "wrapper object with results key",
			input: `{"results": [
				{"index": 0, "text": "Translated"}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with translations key",
			input: `{"translations": [
				{"index": 0, "text": "Übersetzt"}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with data key",
			input: `{"data": [
				{"index": 0, "text": "Переведено"}
			]}`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"index": 0, "text": "incomplete"`,
			wantErr: true,
		},
		{
			name:    "array with empty text",
			input:   `[{"index": 0, "text": ""}]`,
			wantErr: true,
		},
		{
			name: "complex preamble",
			input: `I've translated the subtitles for you. Here is the JSON:

			[
				{"index": 0, "text": "First translation"},
				{"index": 1, "text": "Second translation"}
			]

			Let me know if you need anything else!`,
			wantCount: 2,
		},
		{
			name: "literal \\N escape in text",
			input: `[
				{"index": 0, "text": "Welcome to the demo!\NLet's begin."}
			]`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractTranslationResults(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"index": 0, "text": "hello"}]`,
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"index\": 0, \"text\": \"hello\"}]\n```",
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "plain code fence",
			input: "```\n[{\"index\": 0, \"text\": \"hello\"}]\n```",
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "with leading/trailing whitespace",
			input: "  \n\n```json\n[{\"index\": 0}]\n```\n\n  ",
			want:  `[{"index": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateResults(t *testing.T) {
	tests := []struct {
		name    string
		results []TranslationResult
		want    bool
	}{
		{"empty slice", []TranslationResult{}, false},
		{"nil slice", nil, false},
		{
			"result with text",
			[]TranslationResult{{Index: 0, Text: "hello"}},
			true,
		},
		{
			"result with empty text",
			[]TranslationResult{{Index: 0, Text: ""}},
			false,
		},
		{
			"multiple results one valid",
			[]TranslationResult{
				{Index: 0, Text: ""},
				{Index: 1, Text: "valid"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateResults(tt.results); got != tt.want {
				t.Errorf("validateResults() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", `{"text": "hi"}`, `{"text": "hi"}`},
		{"valid newline", `"a\nb"`, `"a\nb"`},
		{"valid quote", `"say \"hi\""`, `"say \"hi\""`},
		{"invalid N", `"a\Nb"`, `"a\\Nb"`},
		{"trailing backslash", `abc\`, `abc\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixInvalidEscapes(tt.input); got != tt.want {
				t.Errorf("fixInvalidEscapes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseResults(t *testing.T) {
	fenced := "```json\n[{\"index\": 0, \"text\": \"Hola\"}, {\"index\": 1, \"text\": \"Adios\"}]\n```"

	results, err := parseResults("Test", fenced, 2)
	if err != nil {
		t.Fatalf("parseResults() error: %v", err)
	}
	if results[0].Text != "Hola" || results[1].Text != "Adios" {
		t.Errorf("unexpected results: %+v", results)
	}

	if _, err := parseResults("Test", fenced, 3); err == nil ||
		!strings.Contains(err.Error(), "expected 3 results, got 2") {
		t.Errorf("expected count mismatch error, got %v", err)
	}

	if _, err := parseResults("Test", "", 1); err == nil ||
		!strings.Contains(err.Error(), "no text in Test response") {
		t.Errorf("expected empty response error, got %v", err)
	}

	long := strings.Repeat("x", 500)
	_, err = parseResults("Test", long, 1)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), strings.Repeat("x", 200)+"...") {
		t.Errorf("response should be truncated in error, got %v", err)
	}
}
