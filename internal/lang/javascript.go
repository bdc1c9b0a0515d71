package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

var javascriptAdapter = &Adapter{
	Language: grammar.LanguageJavaScript,

	FunctionKinds: set(
		"function_declaration",
		"generator_function_declaration",
		"method_definition",
	),
	TypeKinds: map[string]TypeKind{
		"class_declaration": TypeClass,
	},
	CommentKinds: set("comment"),
	CallKinds:    set("call_expression"),

	NameField: "name",
	NameKinds: []string{"identifier", "property_identifier", "private_property_identifier"},

	BodyField: "body",
	BodyKinds: []string{"statement_block", "class_body"},

	DeclaratorKinds:      set("variable_declarator", "field_definition"),
	DeclaratorValueField: "value",
	DeclaratorFunctionValues: set(
		"arrow_function",
		"function_expression",
		"generator_function",
	),

	Params: ParamRule{
		Kinds: set(
			"identifier",
			"assignment_pattern",
			"rest_pattern",
			"object_pattern",
			"array_pattern",
		),
		NameKinds: []string{"identifier"},
		TextKinds: set("rest_pattern", "object_pattern", "array_pattern"),
	},
	AsyncDetect: true,

	DecoratorKinds: set("decorator"),

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"//"},
		BlockOpen:  []string{"/**", "/*"},
		BlockClose: []string{"*/"},
		PadStrip:   "*",
	},

	Visibility: VisibilityRule{
		Style: VisibilityExported,
	},

	MethodScope: ScopeContainer,

	Hierarchy: HierarchyRule{
		ChildKinds: []string{"class_heritage"},
		ItemKinds:  set("identifier", "member_expression"),
	},

	Calls: CallRule{CountNested: true},

	NestedFunctionKinds: set(
		"function_declaration",
		"generator_function_declaration",
		"method_definition",
		"arrow_function",
		"function_expression",
		"generator_function",
	),
}
