package styles

// ThemeTokens defines the semantic color roles for the terminal UI.
type ThemeTokens struct {
	Text      string
	TextMuted string
	Border    string
	Accent    string
	Focus     string
	Success   string
	Error     string
}

// Theme bundles a palette with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// DefaultTheme is the palette used by sitegen's own terminal output.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Text:      "#e6e6e6",
		TextMuted: "#8a8a8a",
		Border:    "#444444",
		Accent:    "#a9927d",
		Focus:     "#f2f4f3",
		Success:   "#7fb069",
		Error:     "#d95d5d",
	},
}
