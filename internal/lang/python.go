package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

var pythonAdapter = &Adapter{
	Language: grammar.LanguagePython,

	FunctionKinds: set("function_definition"),
	TypeKinds: map[string]TypeKind{
		"class_definition": TypeClass,
	},
	CommentKinds: set("comment"),
	CallKinds:    set("call"),

	NameField: "name",
	NameKinds: []string{"identifier"},

	BodyField: "body",
	BodyKinds: []string{"block"},

	Params: ParamRule{
		Kinds: set(
			"identifier",
			"typed_parameter",
			"default_parameter",
			"typed_default_parameter",
			"list_splat_pattern",
			"dictionary_splat_pattern",
		),
		NameField: "name",
		NameKinds: []string{"identifier"},
		TextKinds: set("list_splat_pattern", "dictionary_splat_pattern"),
		TypeField: "type",
	},
	ReturnTypeField: "return_type",
	AsyncDetect:     true,

	DecoratorKinds:       set("decorator"),
	DecoratorParentKinds: set("decorated_definition"),

	Doc: DocRule{
		Style:      DocLeadingBodyString,
		LineStrips: []string{"#"},
	},

	Visibility: VisibilityRule{
		Style: VisibilityUnderscore,
	},

	MethodScope: ScopeContainer,

	Hierarchy: HierarchyRule{
		Fields:    []string{"superclasses"},
		ItemKinds: set("identifier", "attribute", "subscript"),
	},

	Calls: CallRule{},

	NestedFunctionKinds: set("function_definition", "lambda"),

	EntryPointNames: set("main"),
	PythonMainGuard: true,
}
