package jsonutil

import "testing"

type fencedPayload struct {
	Name string `json:"name"`
	IDs  []int  `json:"ids"`
}

func TestStripMarkdownFences_JSONFence(t *testing.T) {
	raw := "```json\n{\"name\":\"x\"}\n```"
	got := StripMarkdownFences(raw)
	if got != `{"name":"x"}` {
		t.Errorf("expected fence-stripped JSON, got %q", got)
	}
}

func TestStripMarkdownFences_NoFence(t *testing.T) {
	raw := `{"name":"x"}`
	if got := StripMarkdownFences(raw); got != raw {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw := "Here is the result:\n{\"name\":\"x\"}\nHope that helps!"
	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"name":"x"}` {
		t.Errorf("expected extracted object, got %q", got)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	if _, err := ExtractJSON("nothing to see here"); err == nil {
		t.Error("expected error for text with no JSON")
	}
}

func TestParseJSON_FencedObject(t *testing.T) {
	raw := "```json\n{\"name\":\"outfit\",\"ids\":[1,2,3]}\n```"
	got, err := ParseJSON[fencedPayload](raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "outfit" || len(got.IDs) != 3 {
		t.Errorf("unexpected parse result: %+v", got)
	}
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	if _, err := ParseJSON[fencedPayload]("{\"name\": brokn"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
