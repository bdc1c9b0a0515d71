package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/grammar"
	"github.com/open-agent-tools/codenav/internal/walk"
)

// cppFunctionDeclarator chases pointer/reference declarator wrappers down to
// the function_declarator carrying the name and parameter list.
func cppFunctionDeclarator(node *sitter.Node) *sitter.Node {
	d := node.ChildByFieldName("declarator")
	for d != nil && d.Kind() != "function_declarator" {
		next := d.ChildByFieldName("declarator")
		if next == nil {
			return nil
		}
		d = next
	}
	return d
}

// cppResolveName reads the declarator chain. Out-of-class definitions keep
// their qualified_identifier text (Stack::push) so the enclosing type can be
// recovered from the name itself. Returns "" for data members.
func cppResolveName(node *sitter.Node, src []byte) string {
	switch node.Kind() {
	case "function_definition", "field_declaration", "declaration":
		fd := cppFunctionDeclarator(node)
		if fd == nil {
			return ""
		}
		return walk.Text(fd.ChildByFieldName("declarator"), src)
	case "type_definition":
		return walk.Text(node.ChildByFieldName("declarator"), src)
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return walk.Text(name, src)
	}
	return walk.Text(walk.First(node, walk.KindSet("type_identifier")), src)
}

func cppParamsList(def *sitter.Node) *sitter.Node {
	fd := cppFunctionDeclarator(def)
	if fd == nil {
		return nil
	}
	return fd.ChildByFieldName("parameters")
}

var cppAdapter = &Adapter{
	Language: grammar.LanguageCpp,

	FunctionKinds: set("function_definition"),
	TypeKinds: map[string]TypeKind{
		"class_specifier":   TypeClass,
		"struct_specifier":  TypeStruct,
		"union_specifier":   TypeStruct,
		"enum_specifier":    TypeEnum,
		"alias_declaration": TypeAlias,
		"type_definition":   TypeAlias,
	},
	TypeBodyRequired: set(
		"class_specifier",
		"struct_specifier",
		"union_specifier",
		"enum_specifier",
	),
	CommentKinds: set("comment"),
	CallKinds:    set("call_expression"),

	NameField:        "name",
	NameKinds:        []string{"identifier", "field_identifier", "type_identifier"},
	ResolveName:      cppResolveName,
	QualifiedNameSep: "::",

	BodyField: "body",
	BodyKinds: []string{"compound_statement", "field_declaration_list", "enumerator_list", "declaration_list"},

	Params: ParamRule{
		Kinds: set(
			"parameter_declaration",
			"optional_parameter_declaration",
			"variadic_parameter_declaration",
		),
		NameField: "declarator",
		NameKinds: []string{"identifier"},
		TypeField: "type",
	},
	ParamsList:      cppParamsList,
	ReturnTypeField: "type",

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"///", "//!", "//"},
		BlockOpen:  []string{"/**", "/*"},
		BlockClose: []string{"*/"},
		PadStrip:   "*",
	},

	Visibility: VisibilityRule{
		Style:         VisibilitySections,
		PublicTokens:  set("public"),
		PrivateTokens: set("private", "protected", "static"),
		DefaultPublic: true,
		SectionKinds:  set("access_specifier"),
		SectionDefaults: map[string]bool{
			"class_specifier":  false,
			"struct_specifier": true,
			"union_specifier":  true,
		},
	},

	MethodScope:      ScopeContainer,
	ExtraMethodKinds: set("field_declaration"),

	Hierarchy: HierarchyRule{
		ChildKinds: []string{"base_class_clause"},
		ItemKinds:  set("type_identifier", "qualified_identifier"),
	},

	Calls: CallRule{},

	NestedFunctionKinds: set("function_definition", "lambda_expression"),

	EntryPointNames: set("main"),
}
