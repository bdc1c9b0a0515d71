// Package lang holds one static adapter table per supported language. The
// tables map abstract navigation concepts (function-like node, comment node,
// visibility marker, name child) onto each grammar's concrete node-kind
// vocabulary, so the locate/extract/resolve algorithms are written once.
package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/grammar"
)

// TypeKind categorizes a type-like declaration in a TypeRecord
type TypeKind string

const (
	TypeStruct    TypeKind = "struct"
	TypeClass     TypeKind = "class"
	TypeInterface TypeKind = "interface"
	TypeEnum      TypeKind = "enum"
	TypeTrait     TypeKind = "trait"
	TypeAlias     TypeKind = "type-alias"
	TypeModule    TypeKind = "module"

	// TypeFromValue marks kinds whose category comes from a child node,
	// resolved through TypeValueField/TypeValueCategories (Go type_spec).
	TypeFromValue TypeKind = ""
)

// DocstringStyle selects where a definition's documentation lives
type DocstringStyle int

const (
	// DocPrecedingComments reads the comment chain directly above the node
	DocPrecedingComments DocstringStyle = iota
	// DocLeadingBodyString reads the first body statement when it is a
	// bare string literal (Python)
	DocLeadingBodyString
)

// VisibilityStyle selects the rule that decides is-public
type VisibilityStyle int

const (
	// VisibilityKeyword looks for modifier tokens on the declaration
	VisibilityKeyword VisibilityStyle = iota
	// VisibilityCapitalized reads the identifier's first rune (Go)
	VisibilityCapitalized
	// VisibilityUnderscore reads leading underscores (Python)
	VisibilityUnderscore
	// VisibilityExported requires an export-statement ancestor at top level
	// and treats class members as public unless marked otherwise (JS/TS)
	VisibilityExported
	// VisibilitySections reads the nearest preceding access marker in the
	// enclosing container (C++ access specifiers, Ruby marker calls)
	VisibilitySections
)

// MethodScope selects how a function is attributed to an enclosing type
type MethodScope int

const (
	// ScopeContainer attributes by the nearest type-like ancestor node
	ScopeContainer MethodScope = iota
	// ScopeReceiver attributes through a receiver or impl block (Go, Rust)
	ScopeReceiver
)

// ParamRule describes how parameter entries look inside the parameter list
type ParamRule struct {
	Kinds     map[string]bool // parameter node kinds inside the list
	NameField string          // field holding the name node
	NameKinds []string        // fallback kinds when the field is absent
	TextKinds map[string]bool // kinds whose whole text is the name (patterns, splats)
	TypeField string          // field holding the type; "" for untyped languages
	// TypeLastChild reads the trailing named child as the type when the
	// grammar has no type field (Zig parameters).
	TypeLastChild bool
	// MultiNames expands one entry sharing a type over several names
	// (Go's "a, b int") into one parameter per name.
	MultiNames bool
	SelfKinds  map[string]bool // receiver-ish entries reported without a type
}

// DocRule is the docstring policy plus the comment strip markers
type DocRule struct {
	Style      DocstringStyle
	LineStrips []string // line-comment openers, longest first ("///", "//")
	BlockOpen  []string // block openers ("/**", "/*", "=begin")
	BlockClose []string // block closers ("*/", "=end")
	PadStrip   string   // continuation-line padding inside blocks ("*")
}

// VisibilityRule is the per-language is-public policy as data
type VisibilityRule struct {
	Style             VisibilityStyle
	PublicTokens      map[string]bool // token kinds/texts that force public
	PrivateTokens     map[string]bool // token kinds/texts that force private
	WrapperKinds      map[string]bool // child kinds wrapping visibility tokens
	DefaultPublic     bool            // verdict when no token decides
	ContainerDefaults map[string]bool // container kind -> verdict when no token decides
	SectionKinds      map[string]bool // marker kinds for section-based rules
	SectionDefaults   map[string]bool // container kind -> default verdict
}

// HierarchyRule describes where a type's base/implements list lives
type HierarchyRule struct {
	Fields      []string        // fields on the type node carrying base lists
	ChildKinds  []string        // child kinds carrying base lists
	ItemKinds   map[string]bool // name-ish kinds inside those lists
	GoEmbedding bool            // embedded struct fields / interface elements
	RustImpls   bool            // scan impl blocks for implemented traits
	RubyMixins  bool            // include/extend/prepend calls in the body
}

// CallRule describes the call-expression shape. The full callee text is the
// source slice from the call start to its argument list, which keeps the
// qualifier chain (obj.method, Stack::push, $this->run) without per-language
// string assembly; the fields below only matter when that slice is empty.
type CallRule struct {
	CalleeField    string            // fallback field holding the callee; default "function"
	CalleeFields   map[string]string // per call-kind override of CalleeField
	ArgumentsField string            // field holding the argument list; default "arguments"
	CountNested    bool              // keep counting inside nested closures
}

// Adapter is the static table for one language. Hook fields cover the few
// grammar corners a flat table cannot express; everything else is data.
type Adapter struct {
	Language grammar.Language

	FunctionKinds map[string]bool
	TypeKinds     map[string]TypeKind
	CommentKinds  map[string]bool
	CallKinds     map[string]bool

	// Name resolution
	NameField   string
	NameKinds   []string
	ResolveName func(node *sitter.Node, src []byte) string // nil: field/kind lookup
	// QualifiedNameSep splits definition names like C++ "Stack::push" into
	// an enclosing-type qualifier and an unqualified name.
	QualifiedNameSep string

	// Body and signature
	BodyField string
	BodyKinds []string

	// Declarator-bound definitions (const f = () => {}, const T = struct {})
	DeclaratorKinds          map[string]bool
	DeclaratorValueField     string
	DeclaratorFunctionValues map[string]bool
	DeclaratorTypeValues     map[string]TypeKind

	// Go type_spec style category-from-child resolution
	TypeValueField      string
	TypeValueCategories map[string]TypeKind

	// TypeBodyRequired lists type kinds that only count as declarations when
	// a body child is present. C++ reuses class_specifier/struct_specifier
	// for bare type references.
	TypeBodyRequired map[string]bool

	Params          ParamRule
	ParamsListField string   // field holding the parameter list; default "parameters"
	ParamsListKinds []string // fallback kinds when the field is absent
	// ParamsList overrides the list lookup for grammars that bury the
	// parameters inside a declarator chain (C++ function_declarator).
	ParamsList func(def *sitter.Node) *sitter.Node

	ReturnTypeField      string
	ReturnTypeFromHeader bool // take the header text between params and body instead

	AsyncDetect bool // look for an "async" token on the declaration

	DecoratorKinds          map[string]bool
	DecoratorContainerKinds map[string]bool // children holding decorators (java modifiers)
	DecoratorParentKinds    map[string]bool // wrappers holding them (python decorated_definition)
	DecoratorsPrecede       bool            // decorators sit as preceding siblings (rust attributes)

	Doc        DocRule
	Visibility VisibilityRule

	MethodScope  MethodScope
	ReceiverType func(fn *sitter.Node, src []byte) string // ScopeReceiver languages

	// ExtraMethodKinds are container children that count as method names
	// without being function declarations (Go interface method elements).
	ExtraMethodKinds map[string]bool

	Hierarchy HierarchyRule
	Calls     CallRule

	// NestedFunctionKinds start a nested scope that call collection prunes
	// (unless Calls.CountNested is set); includes anonymous function kinds.
	NestedFunctionKinds map[string]bool

	EntryPointNames map[string]bool
	PythonMainGuard bool
}

var registry = map[grammar.Language]*Adapter{
	grammar.LanguageGo:         goAdapter,
	grammar.LanguagePython:     pythonAdapter,
	grammar.LanguageJavaScript: javascriptAdapter,
	grammar.LanguageTypeScript: typescriptAdapter,
	grammar.LanguageRust:       rustAdapter,
	grammar.LanguageJava:       javaAdapter,
	grammar.LanguageCSharp:     csharpAdapter,
	grammar.LanguageCpp:        cppAdapter,
	grammar.LanguagePHP:        phpAdapter,
	grammar.LanguageRuby:       rubyAdapter,
	grammar.LanguageZig:        zigAdapter,
}

// ForLanguage returns the adapter table for a language
func ForLanguage(lang grammar.Language) (*Adapter, bool) {
	a, ok := registry[lang]
	return a, ok
}

// Registered returns every language that has an adapter
func Registered() []grammar.Language {
	langs := make([]grammar.Language, 0, len(registry))
	for lang := range registry {
		langs = append(langs, lang)
	}
	return langs
}

func set(kinds ...string) map[string]bool {
	s := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}
