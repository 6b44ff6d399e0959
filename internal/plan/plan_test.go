package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

func TestParse_Valid(t *testing.T) {
	doc := []byte(`
name: smoke
description: create and release
steps:
  - create_promise
  - print_info
  - 99
  - set_callback_off
  - RELEASE_PROMISE
  - end
`)
	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "smoke" {
		t.Errorf("unexpected name %s", p.Name)
	}

	tokens, err := p.Tokens()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.Token{
		domain.TokenCreatePromise, domain.TokenPrintInfo, domain.Token(99),
		domain.TokenSetCallbackOff, domain.TokenReleasePromise, domain.TokenEnd,
	}
	if domain.FormatTokens(tokens) != domain.FormatTokens(want) {
		t.Errorf("got %s, want %s", domain.FormatTokens(tokens), domain.FormatTokens(want))
	}

	tc, err := p.TestCase()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.Number != 0 || tc.Name != "smoke" {
		t.Errorf("unexpected case %+v", tc)
	}
}

func TestParse_DefaultName(t *testing.T) {
	p, err := Parse([]byte("steps: [end]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != DefaultName {
		t.Errorf("expected default name, got %s", p.Name)
	}
}

func TestParse_SchemaErrors(t *testing.T) {
	docs := map[string]string{
		"no steps":      "name: x",
		"empty steps":   "steps: []",
		"unknown field": "steps: [end]\nretries: 3",
		"bad item":      "steps:\n  - {op: start}",
		"negative code": "steps: [-1]",
		"not an object": "- end",
	}
	for name, doc := range docs {
		_, err := Parse([]byte(doc))
		if !errors.Is(err, ErrSchema) {
			t.Errorf("%s: expected ErrSchema, got %v", name, err)
		}
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("steps: [end")); err == nil {
		t.Error("expected yaml error")
	}
}

func TestTokens_UnknownName(t *testing.T) {
	p := &Plan{Steps: []string{"create_promise", "fly_away", "end"}}

	_, err := p.Tokens()
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Index != 1 {
		t.Errorf("expected index 1, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrEmptySteps) {
		t.Errorf("expected ErrEmptySteps, got %v", err)
	}
	err := Validate([]domain.Token{domain.TokenCreatePromise})
	if !errors.Is(err, ErrMissingEnd) {
		t.Errorf("expected ErrMissingEnd, got %v", err)
	}
	if err.Error() != "step 0: last step must be end, got create_promise" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err := Validate([]domain.Token{domain.TokenEnd}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("steps: [create_callback, end]"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(p.Steps))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
