package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

var phpAdapter = &Adapter{
	Language: grammar.LanguagePHP,

	FunctionKinds: set("function_definition", "method_declaration"),
	TypeKinds: map[string]TypeKind{
		"class_declaration":     TypeClass,
		"interface_declaration": TypeInterface,
		"trait_declaration":     TypeTrait,
		"enum_declaration":      TypeEnum,
	},
	CommentKinds: set("comment"),
	CallKinds: set(
		"function_call_expression",
		"member_call_expression",
		"nullsafe_member_call_expression",
		"scoped_call_expression",
	),

	NameField: "name",
	NameKinds: []string{"name"},

	BodyField: "body",
	BodyKinds: []string{"compound_statement", "declaration_list", "enum_declaration_list"},

	Params: ParamRule{
		Kinds: set(
			"simple_parameter",
			"variadic_parameter",
			"property_promotion_parameter",
		),
		NameField: "name",
		NameKinds: []string{"variable_name"},
		TypeField: "type",
	},
	ReturnTypeField: "return_type",

	DecoratorKinds: set("attribute_list"),

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"//", "#"},
		BlockOpen:  []string{"/**", "/*"},
		BlockClose: []string{"*/"},
		PadStrip:   "*",
	},

	Visibility: VisibilityRule{
		Style:         VisibilityKeyword,
		PublicTokens:  set("public"),
		PrivateTokens: set("private", "protected"),
		WrapperKinds:  set("visibility_modifier"),
		DefaultPublic: true,
	},

	MethodScope: ScopeContainer,

	Hierarchy: HierarchyRule{
		ChildKinds: []string{"base_clause", "class_interface_clause"},
		ItemKinds:  set("name", "qualified_name"),
	},

	Calls: CallRule{
		CalleeFields: map[string]string{
			"function_call_expression":        "function",
			"member_call_expression":          "name",
			"nullsafe_member_call_expression": "name",
			"scoped_call_expression":          "name",
		},
	},

	NestedFunctionKinds: set(
		"function_definition",
		"method_declaration",
		"anonymous_function",
		"anonymous_function_creation_expression",
		"arrow_function",
	),
}
