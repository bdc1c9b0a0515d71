package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/grammar"
	"github.com/open-agent-tools/codenav/internal/walk"
)

// goReceiverType resolves the base type name of a method receiver,
// looking through pointer and generic receivers: (t *Tree[K]) -> Tree.
func goReceiverType(fn *sitter.Node, src []byte) string {
	recv := fn.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	base := walk.First(recv, walk.KindSet("type_identifier"))
	return walk.Text(base, src)
}

var goAdapter = &Adapter{
	Language: grammar.LanguageGo,

	FunctionKinds: set("function_declaration", "method_declaration"),
	TypeKinds: map[string]TypeKind{
		"type_spec": TypeFromValue,
	},
	TypeValueField: "type",
	TypeValueCategories: map[string]TypeKind{
		"struct_type":    TypeStruct,
		"interface_type": TypeInterface,
	},
	CommentKinds: set("comment"),
	CallKinds:    set("call_expression"),

	NameField: "name",
	NameKinds: []string{"identifier", "field_identifier", "type_identifier"},

	BodyField: "body",
	BodyKinds: []string{"block"},

	Params: ParamRule{
		Kinds:      set("parameter_declaration", "variadic_parameter_declaration"),
		NameField:  "name",
		NameKinds:  []string{"identifier"},
		TypeField:  "type",
		MultiNames: true,
	},
	ReturnTypeField: "result",

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"//"},
		BlockOpen:  []string{"/*"},
		BlockClose: []string{"*/"},
	},

	Visibility: VisibilityRule{
		Style: VisibilityCapitalized,
	},

	MethodScope:      ScopeReceiver,
	ReceiverType:     goReceiverType,
	ExtraMethodKinds: set("method_elem"),

	Hierarchy: HierarchyRule{
		GoEmbedding: true,
	},

	Calls: CallRule{},

	NestedFunctionKinds: set("function_declaration", "method_declaration", "func_literal"),

	EntryPointNames: set("main"),
}
