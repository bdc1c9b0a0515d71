package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/grammar"
	"github.com/open-agent-tools/codenav/internal/walk"
)

// rustReceiverType attributes a function to the impl or trait block it sits
// in. Generic impl targets (impl<T> Stack<T>) resolve to the bare type name.
func rustReceiverType(fn *sitter.Node, src []byte) string {
	owner := walk.NearestAncestor(fn, set("impl_item", "trait_item"))
	if owner == nil {
		return ""
	}
	if owner.Kind() == "trait_item" {
		return walk.Text(owner.ChildByFieldName("name"), src)
	}
	target := owner.ChildByFieldName("type")
	if target == nil {
		return ""
	}
	if target.Kind() == "generic_type" {
		if base := walk.First(target, walk.KindSet("type_identifier")); base != nil {
			return walk.Text(base, src)
		}
	}
	return walk.Text(target, src)
}

var rustAdapter = &Adapter{
	Language: grammar.LanguageRust,

	FunctionKinds: set("function_item", "function_signature_item"),
	TypeKinds: map[string]TypeKind{
		"struct_item": TypeStruct,
		"union_item":  TypeStruct,
		"enum_item":   TypeEnum,
		"trait_item":  TypeTrait,
		"type_item":   TypeAlias,
		"mod_item":    TypeModule,
	},
	CommentKinds: set("line_comment", "block_comment"),
	CallKinds:    set("call_expression"),

	NameField: "name",
	NameKinds: []string{"identifier", "type_identifier"},

	BodyField: "body",
	BodyKinds: []string{"block", "field_declaration_list", "enum_variant_list", "declaration_list"},

	Params: ParamRule{
		Kinds:     set("parameter", "self_parameter"),
		NameField: "pattern",
		NameKinds: []string{"identifier"},
		TextKinds: set("self_parameter"),
		TypeField: "type",
		SelfKinds: set("self_parameter"),
	},
	ReturnTypeField: "return_type",
	AsyncDetect:     true,

	DecoratorKinds:    set("attribute_item"),
	DecoratorsPrecede: true,

	Doc: DocRule{
		Style:      DocPrecedingComments,
		LineStrips: []string{"///", "//!", "//"},
		BlockOpen:  []string{"/**", "/*"},
		BlockClose: []string{"*/"},
		PadStrip:   "*",
	},

	Visibility: VisibilityRule{
		Style:             VisibilityKeyword,
		PublicTokens:      set("pub"),
		WrapperKinds:      set("visibility_modifier"),
		ContainerDefaults: map[string]bool{"trait_item": true},
	},

	MethodScope:  ScopeReceiver,
	ReceiverType: rustReceiverType,

	Hierarchy: HierarchyRule{
		Fields:    []string{"bounds"},
		ItemKinds: set("type_identifier", "scoped_type_identifier", "generic_type"),
		RustImpls: true,
	},

	Calls: CallRule{},

	NestedFunctionKinds: set("function_item", "closure_expression"),

	EntryPointNames: set("main"),
}
