package recovery

import (
	"strings"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"plain fences", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"json fences", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"opening fence only", "```json\n{\"a\": 1}", "```json\n{\"a\": 1}"},
		{"multiline body", "```\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInto(t *testing.T) {
	type payload struct {
		Items []string `json:"items"`
	}

	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    []string
	}{
		{"strict json", `{"items": ["a", "b"]}`, false, []string{"a", "b"}},
		{"fenced json", "```json\n{\"items\": [\"a\"]}\n```", false, []string{"a"}},
		{"trailing comma repaired", `{"items": ["a", "b",]}`, false, []string{"a", "b"}},
		{"single quotes repaired", `{'items': ['a']}`, false, []string{"a"}},
		{"unquoted keys repaired", `{items: ["a"]}`, false, []string{"a"}},
		{"empty input", "", true, nil},
		{"whitespace only", "   \n  ", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := ParseInto(tt.input, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseInto(%q) expected error, got items %v", tt.input, got.Items)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInto(%q) returned error: %v", tt.input, err)
			}
			if len(got.Items) != len(tt.want) {
				t.Fatalf("items = %v, want %v", got.Items, tt.want)
			}
			for i := range got.Items {
				if got.Items[i] != tt.want[i] {
					t.Errorf("items[%d] = %q, want %q", i, got.Items[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseIntoTerminal(t *testing.T) {
	var v map[string]interface{}
	err := ParseInto("this is prose, not JSON at all", &v)
	if err == nil {
		t.Fatal("expected terminal error for unrepairable input")
	}
}

func TestParseObject(t *testing.T) {
	obj, err := ParseObject("```json\n{\"content_slots\": [1, 2]}\n```")
	if err != nil {
		t.Fatalf("ParseObject returned error: %v", err)
	}
	raw, ok := obj["content_slots"]
	if !ok {
		t.Fatal("content_slots key missing")
	}
	if !strings.HasPrefix(string(raw), "[") {
		t.Errorf("content_slots raw = %s, want array", raw)
	}

	if _, err := ParseObject(`[1, 2, 3]`); err == nil {
		t.Error("expected error for non-object JSON")
	}
}
