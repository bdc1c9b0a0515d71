package grammar

import (
	"sort"
	"strings"
)

// Language identifies one supported grammar
type Language string

const (
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageCSharp     Language = "csharp"
	LanguageCpp        Language = "cpp"
	LanguagePHP        Language = "php"
	LanguageRuby       Language = "ruby"
	LanguageZig        Language = "zig"
)

// languageInfo carries the tag aliases and file extensions for one language
type languageInfo struct {
	aliases    []string
	extensions []string
}

var languages = map[Language]languageInfo{
	LanguageGo:         {aliases: []string{"golang"}, extensions: []string{".go"}},
	LanguagePython:     {aliases: []string{"py"}, extensions: []string{".py"}},
	LanguageJavaScript: {aliases: []string{"js", "jsx"}, extensions: []string{".js", ".jsx", ".mjs"}},
	LanguageTypeScript: {aliases: []string{"ts"}, extensions: []string{".ts", ".tsx"}},
	LanguageRust:       {aliases: []string{"rs"}, extensions: []string{".rs"}},
	LanguageJava:       {aliases: nil, extensions: []string{".java"}},
	LanguageCSharp:     {aliases: []string{"c#", "cs"}, extensions: []string{".cs"}},
	LanguageCpp:        {aliases: []string{"c++", "c"}, extensions: []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"}},
	LanguagePHP:        {aliases: nil, extensions: []string{".php", ".phtml"}},
	LanguageRuby:       {aliases: []string{"rb"}, extensions: []string{".rb"}},
	LanguageZig:        {aliases: nil, extensions: []string{".zig"}},
}

// Supported returns all supported language tags, sorted, for error messages
// and the languages listing.
func Supported() []string {
	tags := make([]string, 0, len(languages))
	for lang := range languages {
		tags = append(tags, string(lang))
	}
	sort.Strings(tags)
	return tags
}

// Aliases returns the accepted alternate tags for a language
func Aliases(lang Language) []string {
	return languages[lang].aliases
}

// Info describes one supported language for the listing surfaces.
type Info struct {
	Tag        string   `json:"tag"`
	Aliases    []string `json:"aliases,omitempty"`
	Extensions []string `json:"extensions"`
}

// Catalog lists every supported language, sorted by tag.
func Catalog() []Info {
	out := make([]Info, 0, len(languages))
	for lang, info := range languages {
		out = append(out, Info{Tag: string(lang), Aliases: info.aliases, Extensions: info.extensions})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Extensions returns the file extensions mapped to a language
func Extensions(lang Language) []string {
	return languages[lang].extensions
}

// Normalize resolves a raw tag (any case, surrounding space, alias) to a
// supported Language. The boolean is false for unknown tags.
func Normalize(tag string) (Language, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return "", false
	}
	if _, ok := languages[Language(t)]; ok {
		return Language(t), true
	}
	for lang, info := range languages {
		for _, alias := range info.aliases {
			if t == alias {
				return lang, true
			}
		}
	}
	return "", false
}

// FromExtension maps a file extension (with leading dot, any case) to a
// language. Used by the scan and watch surfaces; queries always pass tags.
func FromExtension(ext string) (Language, bool) {
	e := strings.ToLower(ext)
	for lang, info := range languages {
		for _, known := range info.extensions {
			if e == known {
				return lang, true
			}
		}
	}
	return "", false
}
