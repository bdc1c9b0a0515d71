// Package scan runs module overviews across file trees: doublestar globs
// select the files, an errgroup fans the parses out, and the per-file
// records fold into one aggregate.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/open-agent-tools/codenav/internal/config"
	"github.com/open-agent-tools/codenav/internal/debug"
	"github.com/open-agent-tools/codenav/internal/errors"
	"github.com/open-agent-tools/codenav/internal/grammar"
	"github.com/open-agent-tools/codenav/internal/query"
)

// FileOverview is one file's module_overview record. A failure lands in Err
// instead of sinking the whole batch.
type FileOverview struct {
	Path     string       `json:"path"`
	Language string       `json:"language,omitempty"`
	Record   query.Record `json:"record,omitempty"`
	Err      string       `json:"error,omitempty"`
}

// Summary folds the per-file overviews; its counts are exactly the column
// sums of the successful records.
type Summary struct {
	Files      int            `json:"files"`
	Failed     int            `json:"failed"`
	Functions  int            `json:"functions"`
	Types      int            `json:"types"`
	Lines      int            `json:"lines"`
	ByLanguage map[string]int `json:"by_language"`
}

// Report is the outcome of one scan.
type Report struct {
	Files   []FileOverview `json:"files"`
	Summary Summary        `json:"summary"`
}

// Scanner selects eligible files and runs overviews on them. It holds no
// state between runs.
type Scanner struct {
	cfg    *config.Config
	engine *query.Engine
}

func New(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg, engine: query.FromConfig(cfg)}
}

// Run walks each root, selects supported files through the include/exclude
// globs, and produces one overview per file plus the aggregate. File order
// follows the walk; results keep it regardless of which worker finishes
// first.
func (s *Scanner) Run(ctx context.Context, roots []string) (*Report, error) {
	paths, err := s.collect(roots)
	if err != nil {
		return nil, err
	}
	debug.LogScan("scanning %d files across %d roots\n", len(paths), len(roots))

	files := make([]FileOverview, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Scan.Workers)
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			files[i] = s.overviewFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Files: files, Summary: summarize(files)}, nil
}

// collect enumerates the files a scan will touch. Roots may be files or
// directories; walk errors under a directory are skipped, a missing root is
// not.
func (s *Scanner) collect(roots []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.NewInputError("path", err.Error())
		}
		if !info.IsDir() {
			if _, ok := s.eligible(filepath.Base(root)); ok {
				add(root)
			}
			continue
		}
		walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				debug.LogScan("skip %s: %v\n", path, err)
				return nil
			}
			rel := relSlash(root, path)
			if info.IsDir() {
				if path != root && s.excludedDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := s.eligible(rel); ok {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	return out, nil
}

// eligible reports whether rel passes the include/exclude globs and maps to
// a supported language.
func (s *Scanner) eligible(rel string) (grammar.Language, bool) {
	if s.excluded(rel) || !s.included(rel) {
		return "", false
	}
	return grammar.FromExtension(filepath.Ext(rel))
}

func (s *Scanner) included(rel string) bool {
	for _, pattern := range s.cfg.Scan.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.cfg.Scan.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// excludedDir prunes directories whose subtree no include could readmit.
// A `**/x/**` pattern excludes the directory x itself once the `/**` tail
// is stripped.
func (s *Scanner) excludedDir(rel string) bool {
	for _, pattern := range s.cfg.Scan.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if trimmed := strings.TrimSuffix(pattern, "/**"); trimmed != pattern {
			if ok, _ := doublestar.Match(trimmed, rel); ok {
				return true
			}
		}
	}
	return false
}

func (s *Scanner) overviewFile(path string) FileOverview {
	ov := FileOverview{Path: path}
	lang, ok := grammar.FromExtension(filepath.Ext(path))
	if !ok {
		ov.Err = fmt.Sprintf("unsupported extension %q", filepath.Ext(path))
		return ov
	}
	ov.Language = string(lang)

	data, err := os.ReadFile(path)
	if err != nil {
		ov.Err = err.Error()
		return ov
	}
	rec, err := s.engine.Do(query.Request{
		Operation: "module_overview",
		Source:    string(data),
		Language:  string(lang),
	})
	if err != nil {
		ov.Err = err.Error()
		return ov
	}
	ov.Record = rec
	return ov
}

func summarize(files []FileOverview) Summary {
	sum := Summary{Files: len(files), ByLanguage: make(map[string]int)}
	for _, f := range files {
		if f.Err != "" {
			sum.Failed++
			continue
		}
		sum.ByLanguage[f.Language]++
		sum.Functions += recordInt(f.Record, "function_count")
		sum.Types += recordInt(f.Record, "type_count")
		sum.Lines += recordInt(f.Record, "line_count")
	}
	return sum
}

func recordInt(rec query.Record, key string) int {
	n, _ := strconv.Atoi(rec[key])
	return n
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
