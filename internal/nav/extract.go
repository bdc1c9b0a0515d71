package nav

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/lang"
	"github.com/open-agent-tools/codenav/internal/walk"
)

func (u *Unit) bodyNode(fn Located) *sitter.Node {
	return walk.FieldOrChild(fn.Def, u.Adapter.BodyField, u.Adapter.BodyKinds...)
}

// Signature returns the header slice of a definition: everything from its
// start up to the body, or the whole node for bodyless declarations, with
// the trailing block opener trimmed.
func (u *Unit) Signature(fn Located) string {
	var sig string
	if body := u.bodyNode(fn); body != nil && body.StartByte() > fn.Node.StartByte() {
		sig = slice(u.Src, fn.Node.StartByte(), body.StartByte())
	} else {
		sig = walk.Text(fn.Node, u.Src)
	}
	sig = strings.TrimSpace(sig)
	sig = strings.TrimRight(sig, "{:;")
	sig = strings.TrimSuffix(strings.TrimSpace(sig), "=>")
	return strings.TrimSpace(sig)
}

// Body returns the body text and its 1-indexed line range. Bodyless
// declarations report an empty body over the declaration's own range.
func (u *Unit) Body(fn Located) (string, int, int) {
	body := u.bodyNode(fn)
	if body == nil {
		start, end := walk.LineRange(fn.Node)
		return "", start, end
	}
	start, end := walk.LineRange(body)
	return walk.Text(body, u.Src), start, end
}

func (u *Unit) paramsList(def *sitter.Node) *sitter.Node {
	a := u.Adapter
	if a.ParamsList != nil {
		return a.ParamsList(def)
	}
	field := a.ParamsListField
	if field == "" {
		field = "parameters"
	}
	return walk.FieldOrChild(def, field, a.ParamsListKinds...)
}

// Params reads the ordered parameter list of a definition.
func (u *Unit) Params(fn Located) []Param {
	list := u.paramsList(fn.Def)
	if list == nil {
		// single unparenthesized parameter (x => x + 1)
		if single := fn.Def.ChildByFieldName("parameter"); single != nil {
			return u.paramsAt(single)
		}
		return nil
	}
	rule := u.Adapter.Params
	var out []Param
	for i := uint(0); i < list.NamedChildCount(); i++ {
		p := list.NamedChild(i)
		if p == nil || !rule.Kinds[p.Kind()] {
			continue
		}
		out = append(out, u.paramsAt(p)...)
	}
	return out
}

func (u *Unit) paramsAt(p *sitter.Node) []Param {
	rule := u.Adapter.Params

	typeText := ""
	if rule.TypeField != "" {
		if t := p.ChildByFieldName(rule.TypeField); t != nil {
			typeText = cleanTypeText(walk.Text(t, u.Src))
		}
	}
	if rule.SelfKinds[p.Kind()] {
		typeText = ""
	}
	if rule.TextKinds[p.Kind()] {
		return []Param{{Name: walk.Text(p, u.Src), Type: typeText}}
	}

	if rule.MultiNames {
		var multi []Param
		for i := uint(0); i < p.NamedChildCount(); i++ {
			c := p.NamedChild(i)
			if c == nil || !kindIn(c.Kind(), rule.NameKinds) {
				break
			}
			multi = append(multi, Param{Name: walk.Text(c, u.Src), Type: typeText})
		}
		if len(multi) > 0 {
			return multi
		}
	}

	nameNode := p
	if rule.NameField != "" {
		if f := p.ChildByFieldName(rule.NameField); f != nil {
			nameNode = f
		}
	}
	name := ""
	switch {
	case rule.TextKinds[nameNode.Kind()]:
		name = walk.Text(nameNode, u.Src)
	case kindIn(nameNode.Kind(), rule.NameKinds):
		name = walk.Text(nameNode, u.Src)
	default:
		if deep := walk.First(nameNode, walk.KindSet(rule.NameKinds...)); deep != nil {
			nameNode = deep
			name = walk.Text(deep, u.Src)
		}
	}

	if typeText == "" && rule.TypeLastChild {
		if count := p.NamedChildCount(); count > 0 {
			if last := p.NamedChild(count - 1); last != nil && last.Id() != nameNode.Id() {
				typeText = cleanTypeText(walk.Text(last, u.Src))
			}
		}
	}
	return []Param{{Name: name, Type: typeText}}
}

// ReturnType reads the declared return type, or the header text between the
// parameter list and the body for grammars without a return-type field.
func (u *Unit) ReturnType(fn Located) string {
	a := u.Adapter
	if a.ReturnTypeFromHeader {
		list := u.paramsList(fn.Def)
		body := u.bodyNode(fn)
		if list != nil && body != nil && body.StartByte() > list.EndByte() {
			return strings.TrimSpace(slice(u.Src, list.EndByte(), body.StartByte()))
		}
		return ""
	}
	if a.ReturnTypeField == "" {
		return ""
	}
	t := fn.Def.ChildByFieldName(a.ReturnTypeField)
	if t == nil {
		return ""
	}
	return cleanTypeText(walk.Text(t, u.Src))
}

// IsAsync reports an async marker on the definition header.
func (u *Unit) IsAsync(fn Located) bool {
	if !u.Adapter.AsyncDetect {
		return false
	}
	if u.hasAsyncToken(fn.Def) {
		return true
	}
	return fn.Def.Id() != fn.Node.Id() && u.hasAsyncToken(fn.Node)
}

func (u *Unit) hasAsyncToken(n *sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Kind() == "async" {
			return true
		}
		// modifier wrappers: C# modifier nodes, Rust function_modifiers
		wrapper := u.Adapter.Visibility.WrapperKinds[c.Kind()] || strings.HasSuffix(c.Kind(), "modifiers")
		if !wrapper {
			continue
		}
		if strings.TrimSpace(walk.Text(c, u.Src)) == "async" {
			return true
		}
		for j := uint(0); j < c.ChildCount(); j++ {
			if gc := c.Child(j); gc != nil && gc.Kind() == "async" {
				return true
			}
		}
	}
	return false
}

// Decorators collects the decorator/annotation/attribute texts attached to
// a definition, in source order.
func (u *Unit) Decorators(fn Located) []string {
	a := u.Adapter
	if len(a.DecoratorKinds) == 0 {
		return nil
	}
	var out []string
	if p := fn.Node.Parent(); p != nil && a.DecoratorParentKinds[p.Kind()] {
		for i := uint(0); i < p.NamedChildCount(); i++ {
			c := p.NamedChild(i)
			if c != nil && a.DecoratorKinds[c.Kind()] {
				out = append(out, walk.Text(c, u.Src))
			}
		}
		return out
	}
	for i := uint(0); i < fn.Node.NamedChildCount(); i++ {
		c := fn.Node.NamedChild(i)
		if c == nil {
			continue
		}
		switch {
		case a.DecoratorKinds[c.Kind()]:
			out = append(out, walk.Text(c, u.Src))
		case a.DecoratorContainerKinds[c.Kind()]:
			for j := uint(0); j < c.NamedChildCount(); j++ {
				inner := c.NamedChild(j)
				if inner != nil && a.DecoratorKinds[inner.Kind()] {
					out = append(out, walk.Text(inner, u.Src))
				}
			}
		}
	}
	if len(out) > 0 || !a.DecoratorsPrecede {
		return out
	}
	for sib := fn.Node.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		if a.DecoratorKinds[sib.Kind()] {
			out = append(out, walk.Text(sib, u.Src))
			continue
		}
		if a.CommentKinds[sib.Kind()] {
			continue
		}
		break
	}
	reverse(out)
	return out
}

// Docstring resolves the documentation attached to a definition per the
// adapter policy. An empty docstring counts as absent.
func (u *Unit) Docstring(loc Located) (string, bool) {
	a := u.Adapter
	if a.Doc.Style == lang.DocLeadingBodyString {
		text := u.leadingBodyString(loc)
		return text, text != ""
	}
	anchor := u.docAnchor(loc.Node)
	comments := walk.PrecedingComments(anchor, a.CommentKinds)
	if len(comments) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(comments))
	for _, c := range comments {
		if cleaned := cleanComment(walk.Text(c, u.Src), a.Doc); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	return text, text != ""
}

// docAnchor climbs from the definition to the statement its documentation
// precedes: decorator wrappers, same-line declaration parents (export
// statements, const bindings), and any preceding attribute siblings.
func (u *Unit) docAnchor(node *sitter.Node) *sitter.Node {
	a := u.Adapter
	anchor := node
	for {
		p := anchor.Parent()
		if p == nil || p.Id() == u.Root.Id() {
			break
		}
		if a.DecoratorParentKinds[p.Kind()] || p.StartPosition().Row == anchor.StartPosition().Row {
			anchor = p
			continue
		}
		break
	}
	if a.DecoratorsPrecede {
		for sib := anchor.PrevSibling(); sib != nil && a.DecoratorKinds[sib.Kind()]; sib = anchor.PrevSibling() {
			anchor = sib
		}
	}
	return anchor
}

func (u *Unit) leadingBodyString(loc Located) string {
	body := u.bodyNode(loc)
	if body == nil {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := first.NamedChild(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	return cleanStringLiteral(walk.Text(str, u.Src))
}

// Hierarchy lists a type's bases, implemented interfaces/traits, embedded
// types, or mixins, in source order.
func (u *Unit) Hierarchy(t Located) []string {
	h := u.Adapter.Hierarchy
	var out []string
	add := func(container *sitter.Node) {
		walk.Walk(container, func(n *sitter.Node, depth int) bool {
			if depth == 0 {
				return true
			}
			// metaclass=... and friends are not bases
			if n.Kind() == "keyword_argument" {
				return false
			}
			if h.ItemKinds[n.Kind()] {
				out = append(out, u.baseItemName(n))
				return false
			}
			return true
		})
	}
	for _, field := range h.Fields {
		if c := t.Node.ChildByFieldName(field); c != nil {
			add(c)
		}
	}
	for _, kind := range h.ChildKinds {
		for _, c := range walk.FindChildren(t.Node, kind) {
			add(c)
		}
	}
	if h.GoEmbedding {
		out = append(out, u.goEmbedded(t)...)
	}
	if h.RustImpls {
		out = append(out, u.rustTraitImpls(t.Name)...)
	}
	if h.RubyMixins {
		out = append(out, u.rubyMixins(t)...)
	}
	return out
}

// baseItemName prefers a name field so generic bases report their bare name.
func (u *Unit) baseItemName(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return walk.Text(name, u.Src)
	}
	return walk.Text(n, u.Src)
}

func (u *Unit) goEmbedded(t Located) []string {
	value := t.Node.ChildByFieldName(u.Adapter.TypeValueField)
	if value == nil {
		return nil
	}
	var out []string
	switch value.Kind() {
	case "struct_type":
		fields := walk.First(value, walk.KindSet("field_declaration_list"))
		if fields == nil {
			return nil
		}
		for _, field := range walk.FindChildren(fields, "field_declaration") {
			if field.ChildByFieldName("name") != nil {
				continue
			}
			if typ := field.ChildByFieldName("type"); typ != nil {
				out = append(out, strings.TrimPrefix(walk.Text(typ, u.Src), "*"))
			}
		}
	case "interface_type":
		for _, elem := range walk.FindChildren(value, "type_elem") {
			out = append(out, walk.Text(elem, u.Src))
		}
	}
	return out
}

func (u *Unit) rustTraitImpls(typeName string) []string {
	var out []string
	walk.Walk(u.Root, func(n *sitter.Node, _ int) bool {
		if n.Kind() != "impl_item" {
			return true
		}
		trait := n.ChildByFieldName("trait")
		target := n.ChildByFieldName("type")
		if trait == nil || target == nil {
			return true
		}
		targetName := walk.Text(target, u.Src)
		if base := walk.First(target, walk.KindSet("type_identifier")); base != nil {
			targetName = walk.Text(base, u.Src)
		}
		if targetName == typeName {
			out = append(out, u.baseItemName(trait))
		}
		return true
	})
	return out
}

func (u *Unit) rubyMixins(t Located) []string {
	body := u.bodyNode(t)
	if body == nil {
		return nil
	}
	var out []string
	walk.Walk(body, func(n *sitter.Node, depth int) bool {
		if depth > 0 {
			if _, isType := u.Adapter.TypeKinds[n.Kind()]; isType {
				return false
			}
		}
		if n.Kind() != "call" {
			return true
		}
		method := n.ChildByFieldName("method")
		if method == nil {
			return true
		}
		switch walk.Text(method, u.Src) {
		case "include", "extend", "prepend":
			if args := n.ChildByFieldName("arguments"); args != nil {
				for _, c := range walk.FindChildren(args, "constant") {
					out = append(out, walk.Text(c, u.Src))
				}
				for _, c := range walk.FindChildren(args, "scope_resolution") {
					out = append(out, walk.Text(c, u.Src))
				}
			}
		}
		return true
	})
	return out
}

// methodsFor lists one type's methods without re-locating it by name.
func (u *Unit) methodsFor(t Located) []Located {
	var methods []Located
	for _, fn := range u.Functions() {
		if fn.Owner == t.Name {
			methods = append(methods, fn)
		}
	}
	methods = append(methods, u.memberDeclarations(t)...)
	sortByPosition(methods)
	return methods
}

// MethodNames lists a type's method names in source order. A method that
// appears more than once, as a declaration plus an out-of-class definition,
// is reported at its first occurrence only.
func (u *Unit) MethodNames(t Located) []string {
	methods := u.methodsFor(t)
	seen := make(map[string]bool, len(methods))
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return names
}

// FunctionRecordOf assembles the full normalized record for one function.
func (u *Unit) FunctionRecordOf(fn Located) FunctionRecord {
	start, end := walk.LineRange(fn.Node)
	doc, hasDoc := u.Docstring(fn)
	rec := FunctionRecord{
		Name:          fn.Name,
		EnclosingType: fn.Owner,
		Parameters:    u.Params(fn),
		ReturnType:    u.ReturnType(fn),
		IsPublic:      u.IsPublic(fn),
		IsAsync:       u.IsAsync(fn),
		Decorators:    u.Decorators(fn),
		StartLine:     start,
		EndLine:       end,
		Docstring:     doc,
		HasDocstring:  hasDoc,
		Signature:     u.Signature(fn),
	}
	if rec.Parameters == nil {
		rec.Parameters = []Param{}
	}
	return rec
}

// TypeRecordOf assembles the full normalized record for one type.
func (u *Unit) TypeRecordOf(t Located) TypeRecord {
	start, end := walk.LineRange(t.Node)
	doc, hasDoc := u.Docstring(t)
	return TypeRecord{
		Name:         t.Name,
		Kind:         string(t.Kind),
		Bases:        u.Hierarchy(t),
		Methods:      u.MethodNames(t),
		IsPublic:     u.IsPublic(t),
		Docstring:    doc,
		HasDocstring: hasDoc,
		StartLine:    start,
		EndLine:      end,
	}
}

func cleanTypeText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ":")
	return strings.TrimSpace(s)
}

// cleanComment strips one comment's markers per the adapter's rules.
func cleanComment(raw string, rule lang.DocRule) string {
	s := strings.TrimSpace(raw)
	for i, open := range rule.BlockOpen {
		if !strings.HasPrefix(s, open) {
			continue
		}
		s = strings.TrimPrefix(s, open)
		if len(rule.BlockClose) > 0 {
			closeIdx := i
			if closeIdx >= len(rule.BlockClose) {
				closeIdx = len(rule.BlockClose) - 1
			}
			s = strings.TrimSuffix(strings.TrimSpace(s), rule.BlockClose[closeIdx])
		}
		lines := strings.Split(s, "\n")
		for j, line := range lines {
			line = strings.TrimSpace(line)
			if rule.PadStrip != "" && strings.HasPrefix(line, rule.PadStrip) {
				line = strings.TrimSpace(strings.TrimPrefix(line, rule.PadStrip))
			}
			lines[j] = line
		}
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	for _, strip := range rule.LineStrips {
		if strings.HasPrefix(s, strip) {
			return strings.TrimSpace(strings.TrimPrefix(s, strip))
		}
	}
	return s
}

// cleanStringLiteral unwraps a Python string literal used as a docstring.
func cleanStringLiteral(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, quote := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) && len(s) >= 2*len(quote) {
			s = s[len(quote) : len(s)-len(quote)]
			break
		}
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func kindIn(kind string, kinds []string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
