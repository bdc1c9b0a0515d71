package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

// Zig containers are expressions bound through const declarations, so every
// type-like definition arrives through the declarator path.
var zigAdapter = &Adapter{
	Language: grammar.LanguageZig,

	FunctionKinds: set("function_declaration"),
	TypeKinds:     map[string]TypeKind{},
	CommentKinds:  set("comment", "doc_comment", "container_doc_comment"),
	CallKinds:     set("call_expression"),

	NameField: "name",
	NameKinds: []string{"identifier"},

	BodyField: "body",
	BodyKinds: []string{"block"},

	DeclaratorKinds:      set("variable_declaration"),
	DeclaratorValueField: "value",
	DeclaratorTypeValues: map[string]TypeKind{
		"struct_declaration": TypeStruct,
		"union_declaration":  TypeStruct,
		"enum_declaration":   TypeEnum,
		"opaque_declaration": TypeStruct,
	},

	Params: ParamRule{
		Kinds:         set("parameter"),
		NameKinds:     []string{"identifier"},
		TypeLastChild: true,
	},
	ParamsListKinds:      []string{"parameters"},
	ReturnTypeFromHeader: true,

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"//!", "///", "//"},
	},

	Visibility: VisibilityRule{
		Style:        VisibilityKeyword,
		PublicTokens: set("pub"),
	},

	MethodScope: ScopeContainer,

	Calls: CallRule{},

	NestedFunctionKinds: set("function_declaration"),

	EntryPointNames: set("main"),
}
