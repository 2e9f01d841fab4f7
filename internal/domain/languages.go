package domain

// Language maps a human label to the code sent to translation backends.
type Language struct {
	Label string `json:"label" yaml:"label"`
	Code  string `json:"code" yaml:"code"`
}

// DefaultLanguages is the built-in target language menu.
func DefaultLanguages() []Language {
	return []Language{
		{Label: "English", Code: "en"},
		{Label: "Japanese", Code: "ja"},
		{Label: "German", Code: "de"},
		{Label: "French", Code: "fr"},
		{Label: "Chinese (Simplified)", Code: "zh-cn"},
	}
}
