package config

import (
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// parseKDL merges a .codenav.kdl document into cfg. Nodes may appear in
// any order; repeated include/exclude nodes accumulate, and a present
// include or exclude replaces the default patterns rather than extending
// them.
func parseKDL(content string, cfg *Config) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("parse kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "max-source-bytes":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxSourceBytes = v
			}
		case "default-language":
			if s, ok := firstStringArg(n); ok {
				cfg.DefaultLanguage = s
			}
		case "suggestions":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Suggestions.Enabled = b
					}
				case "threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Suggestions.Threshold = v
					}
				case "max":
					if v, ok := firstIntArg(cn); ok {
						cfg.Suggestions.Max = v
					}
				}
			}
		case "scan":
			var include, exclude []string
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.Workers = v
					}
				case "include":
					include = append(include, collectStringArgs(cn)...)
				case "exclude":
					exclude = append(exclude, collectStringArgs(cn)...)
				}
			}
			if len(include) > 0 {
				cfg.Scan.Include = include
			}
			if len(exclude) > 0 {
				cfg.Scan.Exclude = exclude
			}
		}
	}
	return nil
}

// Helpers over the kdl-go document model.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// collectStringArgs reads inline arguments, falling back to block children
// for the `exclude { "a"; "b" }` form where each child's name is the value.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
