package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

var javaAdapter = &Adapter{
	Language: grammar.LanguageJava,

	FunctionKinds: set(
		"method_declaration",
		"constructor_declaration",
		"compact_constructor_declaration",
	),
	TypeKinds: map[string]TypeKind{
		"class_declaration":           TypeClass,
		"record_declaration":          TypeClass,
		"interface_declaration":       TypeInterface,
		"annotation_type_declaration": TypeInterface,
		"enum_declaration":            TypeEnum,
	},
	CommentKinds: set("line_comment", "block_comment"),
	CallKinds:    set("method_invocation"),

	NameField: "name",
	NameKinds: []string{"identifier"},

	BodyField: "body",
	BodyKinds: []string{"block", "class_body", "interface_body", "enum_body", "annotation_type_body"},

	Params: ParamRule{
		Kinds:     set("formal_parameter", "spread_parameter", "receiver_parameter"),
		NameField: "name",
		NameKinds: []string{"identifier"},
		TypeField: "type",
	},
	ReturnTypeField: "type",

	DecoratorKinds:          set("annotation", "marker_annotation"),
	DecoratorContainerKinds: set("modifiers"),

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"//"},
		BlockOpen:  []string{"/**", "/*"},
		BlockClose: []string{"*/"},
		PadStrip:   "*",
	},

	Visibility: VisibilityRule{
		Style:         VisibilityKeyword,
		PublicTokens:  set("public"),
		PrivateTokens: set("private", "protected"),
		WrapperKinds:  set("modifiers"),
		ContainerDefaults: map[string]bool{
			"interface_declaration":       true,
			"annotation_type_declaration": true,
		},
	},

	MethodScope: ScopeContainer,

	Hierarchy: HierarchyRule{
		Fields:     []string{"superclass", "interfaces"},
		ChildKinds: []string{"extends_interfaces"},
		ItemKinds:  set("type_identifier", "scoped_type_identifier", "generic_type"),
	},

	Calls: CallRule{
		CalleeFields: map[string]string{"method_invocation": "name"},
	},

	NestedFunctionKinds: set(
		"method_declaration",
		"constructor_declaration",
		"lambda_expression",
	),

	EntryPointNames: set("main"),
}
