package nav

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/errors"
	"github.com/open-agent-tools/codenav/internal/lang"
	"github.com/open-agent-tools/codenav/internal/walk"
)

// resolveName reads a definition's identifier through the adapter's name
// field, its fallback kinds, or the per-language hook.
func (u *Unit) resolveName(n *sitter.Node) string {
	a := u.Adapter
	if a.ResolveName != nil {
		return a.ResolveName(n, u.Src)
	}
	if a.NameField != "" {
		if f := n.ChildByFieldName(a.NameField); f != nil {
			return walk.Text(f, u.Src)
		}
	}
	for _, kind := range a.NameKinds {
		if c := walk.FindChild(n, kind); c != nil {
			return walk.Text(c, u.Src)
		}
	}
	return ""
}

// declaratorValue returns the initializer a declarator binds, through the
// value field or the trailing named child when the grammar has no field.
func (u *Unit) declaratorValue(n *sitter.Node) *sitter.Node {
	if f := u.Adapter.DeclaratorValueField; f != "" {
		if v := n.ChildByFieldName(f); v != nil {
			return v
		}
	}
	count := n.NamedChildCount()
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

func (u *Unit) functionAt(n *sitter.Node) (Located, bool) {
	name := u.resolveName(n)
	if name == "" {
		return Located{}, false
	}
	qualifier, base := splitQualified(name, u.Adapter.QualifiedNameSep)
	loc := Located{Node: n, Def: n, Name: base}
	loc.Owner = u.ownerOf(n, qualifier)
	return loc, true
}

func (u *Unit) declaratorFunction(n *sitter.Node) (Located, bool) {
	value := u.declaratorValue(n)
	if value == nil || !u.Adapter.DeclaratorFunctionValues[value.Kind()] {
		return Located{}, false
	}
	name := u.resolveName(n)
	if name == "" {
		return Located{}, false
	}
	loc := Located{Node: n, Def: value, Name: name}
	loc.Owner = u.ownerOf(n, "")
	return loc, true
}

func (u *Unit) declaratorType(n *sitter.Node) (Located, bool) {
	value := u.declaratorValue(n)
	if value == nil {
		return Located{}, false
	}
	category, ok := u.Adapter.DeclaratorTypeValues[value.Kind()]
	if !ok {
		return Located{}, false
	}
	name := u.resolveName(n)
	if name == "" {
		return Located{}, false
	}
	return Located{Node: n, Def: value, Name: name, Kind: category}, true
}

func (u *Unit) typeAt(n *sitter.Node) (Located, bool) {
	a := u.Adapter
	category, ok := a.TypeKinds[n.Kind()]
	if !ok {
		return Located{}, false
	}
	if a.TypeBodyRequired[n.Kind()] && walk.FieldOrChild(n, a.BodyField, a.BodyKinds...) == nil {
		return Located{}, false
	}
	if category == lang.TypeFromValue {
		category = lang.TypeAlias
		if value := n.ChildByFieldName(a.TypeValueField); value != nil {
			if mapped, ok := a.TypeValueCategories[value.Kind()]; ok {
				category = mapped
			}
		}
	}
	name := u.resolveName(n)
	if name == "" {
		return Located{}, false
	}
	_, base := splitQualified(name, a.QualifiedNameSep)
	return Located{Node: n, Def: n, Name: base, Kind: category}, true
}

// ownerOf attributes a function to its enclosing type: receiver hook first,
// then an explicit name qualifier, then the nearest type-like ancestor.
func (u *Unit) ownerOf(n *sitter.Node, qualifier string) string {
	a := u.Adapter
	if a.MethodScope == lang.ScopeReceiver && a.ReceiverType != nil {
		if t := a.ReceiverType(n, u.Src); t != "" {
			return strings.TrimPrefix(t, "*")
		}
	}
	if qualifier != "" {
		return qualifier
	}
	if owner, ok := u.enclosingType(n); ok {
		return owner.Name
	}
	return ""
}

// enclosingType climbs to the nearest ancestor that defines a type, looking
// through declarator bindings for languages whose containers are values.
func (u *Unit) enclosingType(n *sitter.Node) (Located, bool) {
	a := u.Adapter
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := a.TypeKinds[p.Kind()]; ok {
			if loc, ok := u.typeAt(p); ok {
				return loc, true
			}
		}
		if a.DeclaratorKinds[p.Kind()] {
			if loc, ok := u.declaratorType(p); ok {
				return loc, true
			}
		}
	}
	return Located{}, false
}

// Functions returns every function-like definition in source order,
// including nested ones and declarator-bound ones.
func (u *Unit) Functions() []Located {
	var out []Located
	walk.Walk(u.Root, func(n *sitter.Node, _ int) bool {
		switch {
		case u.Adapter.FunctionKinds[n.Kind()]:
			if loc, ok := u.functionAt(n); ok {
				out = append(out, loc)
			}
		case u.Adapter.DeclaratorKinds[n.Kind()]:
			if loc, ok := u.declaratorFunction(n); ok {
				out = append(out, loc)
			}
		}
		return true
	})
	return out
}

// Types returns every type-like definition in source order.
func (u *Unit) Types() []Located {
	var out []Located
	walk.Walk(u.Root, func(n *sitter.Node, _ int) bool {
		if _, ok := u.Adapter.TypeKinds[n.Kind()]; ok {
			if loc, ok := u.typeAt(n); ok {
				out = append(out, loc)
			}
			return true
		}
		if u.Adapter.DeclaratorKinds[n.Kind()] {
			if loc, ok := u.declaratorType(n); ok {
				out = append(out, loc)
			}
		}
		return true
	})
	return out
}

// FindType returns the first type definition with the given name.
func (u *Unit) FindType(name string) (Located, error) {
	for _, t := range u.Types() {
		if t.Name == name {
			return t, nil
		}
	}
	return Located{}, errors.NewNotFoundError("type", name)
}

// FindFunction returns the first function with the given name in source
// order. A non-empty typeScope narrows candidates to that type's members
// and requires the type itself to exist.
func (u *Unit) FindFunction(name, typeScope string) (Located, error) {
	return u.findCallable("function", name, typeScope)
}

// FindMethod is FindFunction scoped to a required enclosing type.
func (u *Unit) FindMethod(typeName, method string) (Located, error) {
	return u.findCallable("method", method, typeName)
}

func (u *Unit) findCallable(kind, name, typeScope string) (Located, error) {
	var typeLoc Located
	if typeScope != "" {
		var err error
		typeLoc, err = u.FindType(typeScope)
		if err != nil {
			return Located{}, err
		}
	}
	for _, fn := range u.Functions() {
		if fn.Name != name {
			continue
		}
		if typeScope != "" && fn.Owner != typeScope {
			continue
		}
		return fn, nil
	}
	if typeScope != "" {
		for _, fn := range u.memberDeclarations(typeLoc) {
			if fn.Name == name {
				return fn, nil
			}
		}
		return Located{}, errors.NewNotFoundError(kind, name).WithScope(typeScope)
	}
	return Located{}, errors.NewNotFoundError(kind, name)
}

// memberDeclarations collects the bodyless member kinds of one type
// (interface method elements, class method prototypes).
func (u *Unit) memberDeclarations(t Located) []Located {
	a := u.Adapter
	if len(a.ExtraMethodKinds) == 0 {
		return nil
	}
	var out []Located
	walk.Walk(t.Def, func(n *sitter.Node, _ int) bool {
		if !a.ExtraMethodKinds[n.Kind()] {
			return true
		}
		if name := u.resolveName(n); name != "" {
			out = append(out, Located{Node: n, Def: n, Name: name, Owner: t.Name})
		}
		return false
	})
	return out
}

// MethodsOf lists the method definitions of one named type in source order.
func (u *Unit) MethodsOf(typeName string) ([]Located, error) {
	t, err := u.FindType(typeName)
	if err != nil {
		return nil, err
	}
	return u.methodsFor(t), nil
}

func sortByPosition(locs []Located) {
	sort.SliceStable(locs, func(i, j int) bool {
		return locs[i].Node.StartByte() < locs[j].Node.StartByte()
	})
}

// CallsWithin collects the call expressions lexically inside a function
// body. Nested function scopes are skipped unless the adapter counts them.
func (u *Unit) CallsWithin(fn Located) []CallSite {
	body := u.bodyNode(fn)
	if body == nil {
		return nil
	}
	var out []CallSite
	walk.Walk(body, func(n *sitter.Node, depth int) bool {
		if depth > 0 && !u.Adapter.Calls.CountNested && u.Adapter.NestedFunctionKinds[n.Kind()] {
			return false
		}
		if u.Adapter.CallKinds[n.Kind()] {
			out = append(out, u.callSiteAt(n, fn.Name))
		}
		return true
	})
	return out
}

// Usages scans every call expression in the unit for callees whose
// unqualified segment equals name. Matching is structural, not semantic.
func (u *Unit) Usages(name string) []CallSite {
	var out []CallSite
	walk.Walk(u.Root, func(n *sitter.Node, _ int) bool {
		if !u.Adapter.CallKinds[n.Kind()] {
			return true
		}
		site := u.callSiteAt(n, "")
		if site.Base == name {
			site.Caller = u.enclosingFunctionName(n)
			out = append(out, site)
		}
		return true
	})
	return out
}

func (u *Unit) callSiteAt(call *sitter.Node, caller string) CallSite {
	rule := u.Adapter.Calls
	argsField := rule.ArgumentsField
	if argsField == "" {
		argsField = "arguments"
	}
	calleeField := rule.CalleeFields[call.Kind()]
	if calleeField == "" {
		calleeField = rule.CalleeField
	}
	if calleeField == "" {
		calleeField = "function"
	}
	callee := call.ChildByFieldName(calleeField)
	args := call.ChildByFieldName(argsField)

	var full string
	switch {
	case args != nil && args.StartByte() > call.StartByte():
		full = slice(u.Src, call.StartByte(), args.StartByte())
	case callee != nil:
		full = slice(u.Src, call.StartByte(), callee.EndByte())
	default:
		full = walk.Text(call, u.Src)
	}
	full = strings.TrimSpace(full)
	if i := strings.IndexByte(full, '('); i >= 0 {
		full = full[:i]
	}
	if i := strings.IndexByte(full, '<'); i > 0 && strings.HasSuffix(full, ">") {
		full = full[:i]
	}
	full = strings.TrimSpace(full)

	line, _ := walk.LineRange(call)
	return CallSite{Callee: full, Base: calleeBase(full), Line: line, Caller: caller}
}

func (u *Unit) enclosingFunctionName(n *sitter.Node) string {
	a := u.Adapter
	for p := n.Parent(); p != nil; p = p.Parent() {
		if a.FunctionKinds[p.Kind()] {
			if name := u.resolveName(p); name != "" {
				_, base := splitQualified(name, a.QualifiedNameSep)
				return base
			}
		}
		if a.DeclaratorKinds[p.Kind()] {
			if loc, ok := u.declaratorFunction(p); ok {
				return loc.Name
			}
		}
	}
	return ""
}

// HasEntryPoint reports whether the unit defines the language's program
// entry: a function named per the adapter, or Python's __main__ guard.
func (u *Unit) HasEntryPoint() bool {
	a := u.Adapter
	if len(a.EntryPointNames) > 0 {
		for _, fn := range u.Functions() {
			if a.EntryPointNames[fn.Name] {
				return true
			}
		}
	}
	if a.PythonMainGuard {
		found := false
		walk.Walk(u.Root, func(n *sitter.Node, _ int) bool {
			if found {
				return false
			}
			if n.Kind() != "if_statement" {
				return true
			}
			if cond := n.ChildByFieldName("condition"); cond != nil {
				text := walk.Text(cond, u.Src)
				if strings.Contains(text, "__name__") && strings.Contains(text, "__main__") {
					found = true
					return false
				}
			}
			return true
		})
		return found
	}
	return false
}
