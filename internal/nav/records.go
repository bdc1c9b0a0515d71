// Package nav implements the locate, extract, and visibility algorithms once,
// parameterized by the per-language adapter tables. Nothing here switches on
// a language name; grammar differences arrive exclusively through the table.
package nav

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/lang"
)

// Unit is one parsed snippet under its language adapter. All locator and
// extractor calls hang off it; a Unit lives for a single query.
type Unit struct {
	Root    *sitter.Node
	Src     []byte
	Adapter *lang.Adapter
}

// Located pairs a definition with the node carrying its header. For plain
// declarations Node and Def coincide; for declarator-bound definitions
// (const f = () => {}) Node is the declarator and Def the bound value.
type Located struct {
	Node  *sitter.Node
	Def   *sitter.Node
	Name  string
	Owner string
	Kind  lang.TypeKind
}

// Param is one parameter of a function-like definition.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// FunctionRecord is the normalized shape for one function or method.
type FunctionRecord struct {
	Name          string   `json:"name"`
	EnclosingType string   `json:"enclosing_type,omitempty"`
	Parameters    []Param  `json:"parameters"`
	ReturnType    string   `json:"return_type,omitempty"`
	IsPublic      bool     `json:"is_public"`
	IsAsync       bool     `json:"is_async"`
	Decorators    []string `json:"decorators,omitempty"`
	StartLine     int      `json:"start_line"`
	EndLine       int      `json:"end_line"`
	Docstring     string   `json:"docstring,omitempty"`
	HasDocstring  bool     `json:"has_docstring"`
	Signature     string   `json:"signature"`
}

// TypeRecord is the normalized shape for one type-like definition.
type TypeRecord struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Bases        []string `json:"bases,omitempty"`
	Methods      []string `json:"methods,omitempty"`
	IsPublic     bool     `json:"is_public"`
	Docstring    string   `json:"docstring,omitempty"`
	HasDocstring bool     `json:"has_docstring"`
	StartLine    int      `json:"start_line"`
	EndLine      int      `json:"end_line"`
}

// CallSite is one call expression. Callee keeps the qualifier chain as
// written (receiver.method, Stack::push); Base is the unqualified segment
// usage matching compares against.
type CallSite struct {
	Callee string `json:"callee"`
	Base   string `json:"-"`
	Line   int    `json:"line"`
	Caller string `json:"caller,omitempty"`
}

// slice returns the bounds-checked source text between two byte offsets.
func slice(src []byte, start, end uint) string {
	if start > end || end > uint(len(src)) {
		return ""
	}
	return string(src[start:end])
}

// splitQualified separates a definition name written with an explicit
// qualifier (Stack::push) into its owner and base segments.
func splitQualified(name, sep string) (owner, base string) {
	if sep == "" {
		return "", name
	}
	if i := strings.LastIndex(name, sep); i >= 0 {
		return name[:i], name[i+len(sep):]
	}
	return "", name
}

// calleeBase strips every qualifier convention a callee chain can carry.
func calleeBase(full string) string {
	base := full
	for _, sep := range []string{"::", "->", "&.", "?.", "."} {
		if i := strings.LastIndex(base, sep); i >= 0 {
			base = base[i+len(sep):]
		}
	}
	return strings.TrimSpace(base)
}
