package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

var csharpAdapter = &Adapter{
	Language: grammar.LanguageCSharp,

	FunctionKinds: set(
		"method_declaration",
		"constructor_declaration",
		"destructor_declaration",
		"local_function_statement",
	),
	TypeKinds: map[string]TypeKind{
		"class_declaration":     TypeClass,
		"record_declaration":    TypeClass,
		"interface_declaration": TypeInterface,
		"struct_declaration":    TypeStruct,
		"enum_declaration":      TypeEnum,
		"delegate_declaration":  TypeAlias,
	},
	CommentKinds: set("comment"),
	CallKinds:    set("invocation_expression"),

	NameField: "name",
	NameKinds: []string{"identifier"},

	BodyField: "body",
	BodyKinds: []string{"block", "declaration_list", "enum_member_declaration_list", "arrow_expression_clause"},

	Params: ParamRule{
		Kinds:     set("parameter"),
		NameField: "name",
		NameKinds: []string{"identifier"},
		TypeField: "type",
	},
	ReturnTypeField: "returns",
	AsyncDetect:     true,

	DecoratorKinds: set("attribute_list"),

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"///", "//"},
		BlockOpen:  []string{"/**", "/*"},
		BlockClose: []string{"*/"},
		PadStrip:   "*",
	},

	Visibility: VisibilityRule{
		Style:         VisibilityKeyword,
		PublicTokens:  set("public"),
		PrivateTokens: set("private", "protected", "internal"),
		WrapperKinds:  set("modifier"),
		ContainerDefaults: map[string]bool{
			"interface_declaration": true,
			"enum_declaration":      true,
		},
	},

	MethodScope: ScopeContainer,

	Hierarchy: HierarchyRule{
		ChildKinds: []string{"base_list"},
		ItemKinds:  set("identifier", "qualified_name", "generic_name"),
	},

	Calls: CallRule{},

	NestedFunctionKinds: set(
		"method_declaration",
		"constructor_declaration",
		"local_function_statement",
		"lambda_expression",
		"anonymous_method_expression",
	),

	EntryPointNames: set("Main"),
}
