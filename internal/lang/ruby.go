package lang

import "github.com/open-agent-tools/codenav/internal/grammar"

var rubyAdapter = &Adapter{
	Language: grammar.LanguageRuby,

	FunctionKinds: set("method", "singleton_method"),
	TypeKinds: map[string]TypeKind{
		"class":  TypeClass,
		"module": TypeModule,
	},
	CommentKinds: set("comment"),
	CallKinds:    set("call"),

	NameField: "name",
	NameKinds: []string{"identifier", "constant"},

	BodyField: "body",
	BodyKinds: []string{"body_statement"},

	Params: ParamRule{
		Kinds: set(
			"identifier",
			"optional_parameter",
			"keyword_parameter",
			"splat_parameter",
			"hash_splat_parameter",
			"block_parameter",
		),
		NameField: "name",
		NameKinds: []string{"identifier"},
		TextKinds: set("splat_parameter", "hash_splat_parameter", "block_parameter"),
	},

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"#"},
		BlockOpen:  []string{"=begin"},
		BlockClose: []string{"=end"},
	},

	Visibility: VisibilityRule{
		Style:         VisibilitySections,
		PublicTokens:  set("public"),
		PrivateTokens: set("private", "protected"),
		DefaultPublic: true,
		SectionKinds:  set("identifier", "call"),
		SectionDefaults: map[string]bool{
			"class":  true,
			"module": true,
		},
	},

	MethodScope: ScopeContainer,

	Hierarchy: HierarchyRule{
		Fields:     []string{"superclass"},
		ItemKinds:  set("constant", "scope_resolution"),
		RubyMixins: true,
	},

	Calls: CallRule{
		CalleeFields: map[string]string{"call": "method"},
	},

	NestedFunctionKinds: set("method", "singleton_method", "lambda"),
}
