package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

var typescriptAdapter = &Adapter{
	Language: grammar.LanguageTypeScript,

	FunctionKinds: set(
		"function_declaration",
		"generator_function_declaration",
		"method_definition",
		"function_signature",
		"method_signature",
		"abstract_method_signature",
	),
	TypeKinds: map[string]TypeKind{
		"class_declaration":          TypeClass,
		"abstract_class_declaration": TypeClass,
		"interface_declaration":      TypeInterface,
		"type_alias_declaration":     TypeAlias,
		"enum_declaration":           TypeEnum,
	},
	CommentKinds: set("comment"),
	CallKinds:    set("call_expression"),

	NameField: "name",
	NameKinds: []string{
		"identifier",
		"property_identifier",
		"private_property_identifier",
		"type_identifier",
	},

	BodyField: "body",
	BodyKinds: []string{"statement_block", "class_body", "interface_body", "object_type", "enum_body"},

	DeclaratorKinds:      set("variable_declarator", "public_field_definition"),
	DeclaratorValueField: "value",
	DeclaratorFunctionValues: set(
		"arrow_function",
		"function_expression",
		"generator_function",
	),

	Params: ParamRule{
		Kinds:     set("required_parameter", "optional_parameter"),
		NameField: "pattern",
		NameKinds: []string{"identifier", "this"},
		TextKinds: set("rest_pattern", "object_pattern", "array_pattern"),
		TypeField: "type",
	},
	ReturnTypeField: "return_type",
	AsyncDetect:     true,

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
		ChildKinds: []string{"class_heritage", "extends_type_clause"},
		ItemKinds: set(
			"identifier",
			"type_identifier",
			"nested_type_identifier",
			"generic_type",
			"member_expression",
		),
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
