package service

import "testing"

func TestCleanModelJSONResponse_StripsFences(t *testing.T) {
	raw := "```json\n{\"routineName\": \"Full Body\"}\n```"
	got := cleanModelJSONResponse(raw)
	if got != `{"routineName": "Full Body"}` {
		t.Fatalf("unexpected cleaned output %q", got)
	}
}

func TestCleanModelJSONResponse_StripsBareFences(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	if got := cleanModelJSONResponse(raw); got != `{"a": 1}` {
		t.Fatalf("unexpected cleaned output %q", got)
	}
}

func TestCleanModelJSONResponse_PassthroughPlainJSON(t *testing.T) {
	raw := `{"a": 1}`
	if got := cleanModelJSONResponse(raw); got != raw {
		t.Fatalf("unexpected cleaned output %q", got)
	}
}

func TestExtractFirstJSONObject_IgnoresSurroundingText(t *testing.T) {
	input := `Claro, aquí tienes la rutina: {"routineName": "Push"} ¡Éxitos!`
	got := extractFirstJSONObject(input)
	if got != `{"routineName": "Push"}` {
		t.Fatalf("unexpected extraction %q", got)
	}
}

func TestExtractFirstJSONObject_BalancesNestedObjects(t *testing.T) {
	input := `{"a": {"b": {"c": 1}}, "d": 2} trailing`
	got := extractFirstJSONObject(input)
	if got != `{"a": {"b": {"c": 1}}, "d": 2}` {
		t.Fatalf("unexpected extraction %q", got)
	}
}

func TestExtractFirstJSONObject_IgnoresBracesInsideStrings(t *testing.T) {
	input := `{"text": "llaves {dentro} de string \" escapadas"}`
	got := extractFirstJSONObject(input)
	if got != input {
		t.Fatalf("unexpected extraction %q", got)
	}
}

func TestExtractFirstJSONObject_NoObject(t *testing.T) {
	if got := extractFirstJSONObject("sin json acá"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	if got := extractFirstJSONObject(`{"never": "closed"`); got != "" {
		t.Fatalf("expected empty result for unbalanced input, got %q", got)
	}
}
