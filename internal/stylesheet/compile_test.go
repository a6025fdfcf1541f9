package stylesheet

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/resumedj/sitegen/internal/theme"
)

func testStore(t *testing.T) *theme.Store {
	t.Helper()
	store, err := theme.NewStore(&theme.Theme{
		Name: "earthtone",
		Tokens: []theme.Token{
			{Name: "primary-text", Value: "#0a0908"},
			{Name: "navigation-background", Value: "#22333b"},
			{Name: "page-background", Value: "#f2f4f3"},
			{Name: "accent", Value: "#a9927d"},
			{Name: "secondary-text", Value: "#5e503f"},
		},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestCompileResolvesTokens(t *testing.T) {
	store := testStore(t)
	sheet := &Sheet{
		Name: "navigation",
		Rules: []Rule{
			{Selector: ".navbar", Property: "background-color", Token: "navigation-background"},
		},
	}

	compiled, err := Compile(sheet, store)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(compiled.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(compiled.Rules))
	}
	if compiled.Rules[0].Value != "#22333b" {
		t.Fatalf("expected resolved value #22333b, got %q", compiled.Rules[0].Value)
	}
	if !strings.Contains(string(compiled.CSS), "background-color: var(--navigation-background);") {
		t.Fatalf("unexpected CSS output:\n%s", compiled.CSS)
	}
}

func TestCompileDeterministic(t *testing.T) {
	store := testStore(t)
	sheet := &Sheet{
		Name: "base",
		Rules: []Rule{
			{Selector: "body", Property: "background-color", Token: "page-background"},
			{Selector: "body", Property: "color", Token: "primary-text"},
			{Selector: "a", Property: "color", Token: "accent"},
		},
	}

	first, err := Compile(sheet, store)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := Compile(sheet, store)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if !bytes.Equal(first.CSS, second.CSS) {
		t.Fatal("expected identical bytes for identical inputs")
	}
}

func TestCompileUnresolvedReference(t *testing.T) {
	store := testStore(t)
	sheet := &Sheet{
		Name: "broken",
		Rules: []Rule{
			{Selector: ".sidebar", Property: "background-color", Token: "sidebar-background"},
		},
	}

	_, err := Compile(sheet, store)
	if err == nil {
		t.Fatal("expected error for undefined token reference")
	}

	var unresolved *UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected *UnresolvedReferenceError, got %T", err)
	}
	if unresolved.Token != "sidebar-background" || unresolved.Sheet != "broken" {
		t.Fatalf("unexpected error detail: %+v", unresolved)
	}
}

func TestCompileAfterThemeSwap(t *testing.T) {
	store, err := theme.NewStore(&theme.Theme{
		Name: "bluesteel",
		Tokens: []theme.Token{
			{Name: "accent", Value: "#1588fc"},
		},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	sheet := &Sheet{
		Name: "links",
		Rules: []Rule{
			{Selector: "a", Property: "color", Token: "accent"},
			{Selector: ".btn", Property: "background-color", Token: "accent"},
		},
	}

	if err := store.ReplaceTheme(&theme.Theme{
		Name: "earthtone",
		Tokens: []theme.Token{
			{Name: "accent", Value: "#a9927d"},
		},
	}); err != nil {
		t.Fatalf("ReplaceTheme: %v", err)
	}

	compiled, err := Compile(sheet, store)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, rule := range compiled.Rules {
		if rule.Value == "#1588fc" {
			t.Fatalf("rule %s/%s still resolves to the old accent", rule.Selector, rule.Property)
		}
		if rule.Value != "#a9927d" {
			t.Fatalf("rule %s/%s resolved to %q, want #a9927d", rule.Selector, rule.Property, rule.Value)
		}
	}
}

// A theme swap racing a compile must never produce a rule set mixing two
// themes: every rule in one Compiled resolves against the same snapshot.
func TestCompileAtomicDuringThemeSwap(t *testing.T) {
	old := &theme.Theme{
		Name: "bluesteel",
		Tokens: []theme.Token{
			{Name: "accent", Value: "#1588fc"},
			{Name: "primary-text", Value: "#212529"},
		},
	}
	next := &theme.Theme{
		Name: "earthtone",
		Tokens: []theme.Token{
			{Name: "accent", Value: "#a9927d"},
			{Name: "primary-text", Value: "#0a0908"},
		},
	}

	pairs := map[string]string{
		"#1588fc": "#212529",
		"#a9927d": "#0a0908",
	}

	store, err := theme.NewStore(old)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	sheet := &Sheet{
		Name: "base",
		Rules: []Rule{
			{Selector: "a", Property: "color", Token: "accent"},
			{Selector: "body", Property: "color", Token: "primary-text"},
		},
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan error, 8)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				compiled, err := Compile(sheet, store)
				if err != nil {
					errs <- err
					return
				}
				accent := compiled.Rules[0].Value
				want, ok := pairs[accent]
				if !ok || compiled.Rules[1].Value != want {
					errs <- fmt.Errorf("compiled rule set mixes themes: accent %s, primary-text %s",
						accent, compiled.Rules[1].Value)
					return
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		swap := next
		if i%2 == 1 {
			swap = old
		}
		if err := store.ReplaceTheme(swap); err != nil {
			t.Fatalf("ReplaceTheme: %v", err)
		}
	}
	close(stop)
	wg.Wait()

	select {
	case err := <-errs:
		t.Fatal(err)
	default:
	}
}

func TestCompileTokens(t *testing.T) {
	store := testStore(t)

	first := CompileTokens(store)
	second := CompileTokens(store)
	if !bytes.Equal(first, second) {
		t.Fatal("expected deterministic token block")
	}

	css := string(first)
	if !strings.Contains(css, "--navigation-background: #22333b;") {
		t.Fatalf("missing custom property:\n%s", css)
	}
	if !strings.HasPrefix(css, "/* theme: earthtone") {
		t.Fatalf("unexpected header:\n%s", css)
	}

	// Sorted by token name: accent before page-background.
	if strings.Index(css, "--accent:") > strings.Index(css, "--page-background:") {
		t.Fatal("expected tokens sorted by name")
	}
}

func TestLoadBuiltinSheets(t *testing.T) {
	sheets, err := LoadBuiltinSheets()
	if err != nil {
		t.Fatalf("LoadBuiltinSheets: %v", err)
	}
	if len(sheets) < 3 {
		t.Fatalf("expected at least 3 builtin sheets, got %d", len(sheets))
	}

	store := testStore(t)
	// Builtins reference tokens outside the five-token test palette, so
	// compile them against the full builtin earthtone theme instead.
	builtins, err := theme.LoadBuiltinThemes()
	if err != nil {
		t.Fatalf("LoadBuiltinThemes: %v", err)
	}
	for _, builtin := range builtins {
		if builtin.Name == "earthtone" {
			if err := store.ReplaceTheme(builtin); err != nil {
				t.Fatalf("ReplaceTheme: %v", err)
			}
		}
	}

	for _, sheet := range sheets {
		if sheet.Source != "builtin" {
			t.Fatalf("expected builtin source, got %q", sheet.Source)
		}
		if _, err := Compile(sheet, store); err != nil {
			t.Fatalf("builtin sheet %q does not compile: %v", sheet.Name, err)
		}
	}
}
