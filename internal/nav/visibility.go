package nav

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/open-agent-tools/codenav/internal/lang"
	"github.com/open-agent-tools/codenav/internal/walk"
)

// IsPublic resolves a definition's visibility per the adapter rule.
// Total: every definition gets a boolean, never an error.
func (u *Unit) IsPublic(loc Located) bool {
	switch u.Adapter.Visibility.Style {
	case lang.VisibilityCapitalized:
		r, _ := utf8.DecodeRuneInString(loc.Name)
		return unicode.IsUpper(r)
	case lang.VisibilityUnderscore:
		// dunder names (__init__) stay public
		if strings.HasPrefix(loc.Name, "__") && strings.HasSuffix(loc.Name, "__") {
			return true
		}
		return !strings.HasPrefix(loc.Name, "_")
	case lang.VisibilityExported:
		return u.exportedVisibility(loc)
	case lang.VisibilitySections:
		return u.sectionVisibility(loc)
	default:
		return u.keywordVisibility(loc)
	}
}

func (u *Unit) keywordVisibility(loc Located) bool {
	rule := u.Adapter.Visibility
	for i := uint(0); i < loc.Node.ChildCount(); i++ {
		c := loc.Node.Child(i)
		if c == nil {
			continue
		}
		if rule.WrapperKinds[c.Kind()] {
			if v, ok := matchVisibilityToken(walk.Text(c, u.Src), rule); ok {
				return v
			}
			continue
		}
		if v, ok := matchVisibilityToken(c.Kind(), rule); ok {
			return v
		}
	}
	for p := loc.Node.Parent(); p != nil; p = p.Parent() {
		if v, ok := rule.ContainerDefaults[p.Kind()]; ok {
			return v
		}
	}
	return rule.DefaultPublic
}

// matchVisibilityToken scans the words of a modifier text. Restricted forms
// like pub(crate) match their bare keyword: visibility stays a boolean.
func matchVisibilityToken(text string, rule lang.VisibilityRule) (verdict, ok bool) {
	for _, word := range strings.Fields(text) {
		if i := strings.IndexByte(word, '('); i > 0 {
			word = word[:i]
		}
		if rule.PublicTokens[word] {
			return true, true
		}
		if rule.PrivateTokens[word] {
			return false, true
		}
	}
	return false, false
}

func (u *Unit) exportedVisibility(loc Located) bool {
	if strings.HasPrefix(loc.Name, "#") {
		return false
	}
	for i := uint(0); i < loc.Node.ChildCount(); i++ {
		c := loc.Node.Child(i)
		if c != nil && c.Kind() == "accessibility_modifier" {
			return walk.Text(c, u.Src) == "public"
		}
	}
	if walk.NearestAncestor(loc.Node, walk.KindSet("class_body", "interface_body", "object_type", "enum_body")) != nil {
		return true
	}
	return walk.NearestAncestor(loc.Node, walk.KindSet("export_statement")) != nil
}

func (u *Unit) sectionVisibility(loc Located) bool {
	rule := u.Adapter.Visibility

	// `private def helper` binds the definition inside the marker call
	for p := loc.Node.Parent(); p != nil; p = p.Parent() {
		if !u.Adapter.CallKinds[p.Kind()] {
			continue
		}
		if m := p.ChildByFieldName("method"); m != nil {
			word := walk.Text(m, u.Src)
			if rule.PrivateTokens[word] {
				return false
			}
			if rule.PublicTokens[word] {
				return true
			}
		}
	}

	container, member := u.sectionContainer(loc.Node)
	if container == nil {
		for i := uint(0); i < loc.Node.ChildCount(); i++ {
			c := loc.Node.Child(i)
			if c == nil {
				continue
			}
			text := c.Kind()
			if c.Kind() == "storage_class_specifier" {
				text = walk.Text(c, u.Src)
			}
			if v, ok := matchVisibilityToken(text, rule); ok {
				return v
			}
		}
		return rule.DefaultPublic
	}

	verdict := rule.DefaultPublic
	if v, ok := rule.SectionDefaults[container.Kind()]; ok {
		verdict = v
	}

	// `private :name` names members after their definition and overrides
	// whatever section the definition sits in
	for sib := member.NextSibling(); sib != nil; sib = sib.NextSibling() {
		if !rule.SectionKinds[sib.Kind()] {
			continue
		}
		word, args := u.markerParts(sib)
		if args == "" || !strings.Contains(args, ":"+loc.Name) {
			continue
		}
		if rule.PrivateTokens[word] {
			return false
		}
		if rule.PublicTokens[word] {
			return true
		}
	}

	for sib := member.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		if !rule.SectionKinds[sib.Kind()] {
			continue
		}
		word, args := u.markerParts(sib)
		// a targeted marker above does not open a section
		if args != "" && !strings.Contains(args, ":"+loc.Name) {
			continue
		}
		if rule.PrivateTokens[word] {
			return false
		}
		if rule.PublicTokens[word] {
			return true
		}
	}
	return verdict
}

// sectionContainer climbs to the nearest access-section container and the
// member node whose siblings carry the section markers.
func (u *Unit) sectionContainer(node *sitter.Node) (container, member *sitter.Node) {
	child := node
	grandchild := node
	for p := node.Parent(); p != nil; p = p.Parent() {
		if _, ok := u.Adapter.Visibility.SectionDefaults[p.Kind()]; ok {
			return p, grandchild
		}
		grandchild = child
		child = p
	}
	return nil, nil
}

func (u *Unit) markerParts(sib *sitter.Node) (word, args string) {
	if m := sib.ChildByFieldName("method"); m != nil {
		if a := sib.ChildByFieldName("arguments"); a != nil {
			args = walk.Text(a, u.Src)
		}
		return walk.Text(m, u.Src), args
	}
	fields := strings.Fields(strings.TrimSpace(walk.Text(sib, u.Src)))
	if len(fields) == 0 {
		return "", ""
	}
	return strings.TrimSuffix(fields[0], ":"), ""
}
