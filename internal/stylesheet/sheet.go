// Package stylesheet compiles token-referencing style rules into shared CSS.
package stylesheet

// Rule binds one CSS property on one selector to a theme token.
type Rule struct {
	Selector string `yaml:"selector"`
	Property string `yaml:"property"`
	Token    string `yaml:"token"`
}

// Sheet is a shared stylesheet definition: an ordered list of rules that
// resolve against the theme token store at compile time.
type Sheet struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Rules       []Rule `yaml:"rules"`
	Source      string // file path or "builtin"
}

// CompiledRule is a rule whose token reference has been resolved.
type CompiledRule struct {
	Selector string
	Property string
	Token    string
	Value    string
}

// Compiled is the result of compiling a sheet against a token store.
type Compiled struct {
	Name  string
	Rules []CompiledRule
	CSS   []byte
}

// FileName returns the artifact name the sheet compiles to.
func (s *Sheet) FileName() string {
	return s.Name + ".css"
}
