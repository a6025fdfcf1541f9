package stylesheet

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/resumedj/sitegen/internal/theme"
)

// UnresolvedReferenceError reports a rule that references a token absent
// from the store. Compilation is fatal on the first such rule; there is no
// fallback value.
type UnresolvedReferenceError struct {
	Sheet    string
	Selector string
	Token    string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("sheet %q: selector %q references undefined token %q", e.Sheet, e.Selector, e.Token)
}

// TokensFileName is the artifact holding the :root custom-property block.
const TokensFileName = "theme.css"

// CompileTokens renders the full token set as CSS custom properties.
// Tokens are emitted sorted by name so the output is byte-for-byte
// deterministic for a given store state.
func CompileTokens(store *theme.Store) []byte {
	view := store.View()
	tokens := view.Tokens()
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Name < tokens[j].Name
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/* theme: %s - generated by sitegen, do not edit */\n", view.ThemeName())
	buf.WriteString(":root {\n")
	for _, token := range tokens {
		fmt.Fprintf(&buf, "  --%s: %s;\n", token.Name, token.Value)
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// Compile resolves every rule in the sheet against the store and renders the
// CSS text. Same store and sheet always yield identical bytes. It fails with
// an *UnresolvedReferenceError when a rule names a token the store does not
// define. All rules resolve against one snapshot of the store, so a theme
// swap mid-compile cannot yield a rule set mixing two themes.
func Compile(sheet *Sheet, store *theme.Store) (*Compiled, error) {
	return compile(sheet, store.View())
}

func compile(sheet *Sheet, view theme.View) (*Compiled, error) {
	if sheet == nil {
		return nil, fmt.Errorf("sheet is required")
	}
	if strings.TrimSpace(sheet.Name) == "" {
		return nil, fmt.Errorf("sheet name is required")
	}

	compiled := &Compiled{Name: sheet.Name}

	selectorOrder := make([]string, 0, len(sheet.Rules))
	bySelector := make(map[string][]CompiledRule, len(sheet.Rules))

	for _, rule := range sheet.Rules {
		if strings.TrimSpace(rule.Selector) == "" || strings.TrimSpace(rule.Property) == "" {
			return nil, fmt.Errorf("sheet %q: rule with empty selector or property", sheet.Name)
		}
		value, err := view.Resolve(rule.Token)
		if err != nil {
			return nil, &UnresolvedReferenceError{
				Sheet:    sheet.Name,
				Selector: rule.Selector,
				Token:    rule.Token,
			}
		}

		resolved := CompiledRule{
			Selector: rule.Selector,
			Property: rule.Property,
			Token:    rule.Token,
			Value:    value,
		}
		compiled.Rules = append(compiled.Rules, resolved)

		if _, seen := bySelector[rule.Selector]; !seen {
			selectorOrder = append(selectorOrder, rule.Selector)
		}
		bySelector[rule.Selector] = append(bySelector[rule.Selector], resolved)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/* %s - generated by sitegen, do not edit */\n", sheet.FileName())
	for _, selector := range selectorOrder {
		fmt.Fprintf(&buf, "%s {\n", selector)
		for _, rule := range bySelector[selector] {
			fmt.Fprintf(&buf, "  %s: var(--%s);\n", rule.Property, rule.Token)
		}
		buf.WriteString("}\n")
	}
	compiled.CSS = buf.Bytes()

	return compiled, nil
}

// CompileAll compiles each sheet in order, failing on the first error. One
// snapshot covers every sheet, so the whole set resolves against a single
// theme.
func CompileAll(sheets []*Sheet, store *theme.Store) ([]*Compiled, error) {
	view := store.View()
	out := make([]*Compiled, 0, len(sheets))
	for _, sheet := range sheets {
		compiled, err := compile(sheet, view)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled)
	}
	return out, nil
}
