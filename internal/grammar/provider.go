package grammar

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/open-agent-tools/codenav/internal/debug"
	"github.com/open-agent-tools/codenav/internal/errors"
)

// DefaultMaxSourceBytes bounds snippet size before any parsing happens.
// Pathological inputs are a hardening concern, not a correctness one.
const DefaultMaxSourceBytes = 2_000_000

// sitterLanguage returns the tree-sitter language object for a tag.
// Language objects are immutable and safe to share; parsers are not.
func sitterLanguage(lang Language) *sitter.Language {
	switch lang {
	case LanguageGo:
		return sitter.NewLanguage(tree_sitter_go.Language())
	case LanguagePython:
		return sitter.NewLanguage(tree_sitter_python.Language())
	case LanguageJavaScript:
		return sitter.NewLanguage(tree_sitter_javascript.Language())
	case LanguageTypeScript:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case LanguageRust:
		return sitter.NewLanguage(tree_sitter_rust.Language())
	case LanguageJava:
		return sitter.NewLanguage(tree_sitter_java.Language())
	case LanguageCSharp:
		return sitter.NewLanguage(tree_sitter_csharp.Language())
	case LanguageCpp:
		return sitter.NewLanguage(tree_sitter_cpp.Language())
	case LanguagePHP:
		return sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	case LanguageRuby:
		return sitter.NewLanguage(tree_sitter_ruby.Language())
	case LanguageZig:
		return sitter.NewLanguage(tree_sitter_zig.Language())
	default:
		return nil
	}
}

// parserPoolData encapsulates the pool and initialization for a language
type parserPoolData struct {
	pool sync.Pool
	once sync.Once
}

// Language-specific parser pools. Parser instances may not be shared across
// concurrent calls, so every Parse acquires its own from the pool.
var parserPools = map[Language]*parserPoolData{
	LanguageGo:         {},
	LanguagePython:     {},
	LanguageJavaScript: {},
	LanguageTypeScript: {},
	LanguageRust:       {},
	LanguageJava:       {},
	LanguageCSharp:     {},
	LanguageCpp:        {},
	LanguagePHP:        {},
	LanguageRuby:       {},
	LanguageZig:        {},
}

// acquireParser returns a ready parser for the language from its pool
func acquireParser(lang Language) (*sitter.Parser, error) {
	data, exists := parserPools[lang]
	if !exists {
		return nil, errors.NewUnsupportedLanguageError(string(lang), Supported())
	}

	data.once.Do(func() {
		data.pool.New = func() any {
			p := sitter.NewParser()
			if err := p.SetLanguage(sitterLanguage(lang)); err != nil {
				p.Close()
				return (*sitter.Parser)(nil)
			}
			return p
		}
	})

	p := data.pool.Get().(*sitter.Parser)
	if p == nil {
		return nil, errors.NewInternalError("grammar load", fmt.Errorf("language %s rejected by parser", lang))
	}
	return p, nil
}

// releaseParser returns a parser to its language pool for reuse
func releaseParser(lang Language, p *sitter.Parser) {
	if p == nil {
		return
	}
	if data, exists := parserPools[lang]; exists {
		data.pool.Put(p)
		return
	}
	p.Close()
}

// ParseResult owns one parsed tree plus the source it was parsed from.
// Everything here is scoped to a single query call; Close releases the tree.
type ParseResult struct {
	Language    Language
	Source      []byte
	Fingerprint uint64

	tree *sitter.Tree
}

// Root returns the root node of the parse tree
func (r *ParseResult) Root() *sitter.Node {
	return r.tree.RootNode()
}

// Close releases the underlying tree. The result is unusable afterwards.
func (r *ParseResult) Close() {
	if r.tree != nil {
		r.tree.Close()
		r.tree = nil
	}
}

// LineCount returns the number of lines in the source (1 for non-empty
// sources without a trailing newline).
func (r *ParseResult) LineCount() int {
	if len(r.Source) == 0 {
		return 0
	}
	n := bytes.Count(r.Source, []byte{'\n'}) + 1
	if r.Source[len(r.Source)-1] == '\n' {
		n--
	}
	return n
}

// Parse parses one source snippet with the default size bound.
func Parse(source []byte, lang Language) (*ParseResult, error) {
	return ParseBounded(source, lang, DefaultMaxSourceBytes)
}

// ParseBounded parses one source snippet, enforcing the size limit before
// parsing. Malformed regions become error nodes inside an otherwise usable
// tree; only a parser that produces no tree at all is an error here.
func ParseBounded(source []byte, lang Language, maxBytes int) (*ParseResult, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, errors.NewInputError("source_code", "must be non-empty")
	}
	if maxBytes > 0 && len(source) > maxBytes {
		return nil, errors.NewInputError("source_code",
			fmt.Sprintf("exceeds %d byte limit (%d bytes)", maxBytes, len(source)))
	}

	if _, ok := languages[lang]; !ok {
		return nil, errors.NewUnsupportedLanguageError(string(lang), Supported())
	}

	parser, err := acquireParser(lang)
	if err != nil {
		return nil, err
	}
	defer releaseParser(lang, parser)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.NewInternalError("parse", fmt.Errorf("no tree produced for %s source", lang))
	}

	root := tree.RootNode()
	if root.HasError() {
		debug.Log("GRAMMAR", "parse of %d bytes of %s produced error nodes (tolerated)\n", len(source), lang)
	}

	return &ParseResult{
		Language:    lang,
		Source:      source,
		Fingerprint: xxhash.Sum64(source),
		tree:        tree,
	}, nil
}
