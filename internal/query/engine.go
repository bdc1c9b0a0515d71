// Package query dispatches the operation catalog: each request runs against
// a freshly parsed unit and leaves as a flat string record. Input-contract
// violations are reported before anything is parsed.
package query

import (
	"fmt"
	"sort"

	"github.com/open-agent-tools/codenav/internal/config"
	"github.com/open-agent-tools/codenav/internal/debug"
	"github.com/open-agent-tools/codenav/internal/errors"
	"github.com/open-agent-tools/codenav/internal/grammar"
	"github.com/open-agent-tools/codenav/internal/lang"
	"github.com/open-agent-tools/codenav/internal/nav"
	"github.com/open-agent-tools/codenav/internal/semantic"
	"github.com/open-agent-tools/codenav/internal/walk"
)

// Request carries one operation call. Operation, Source, and Language are
// always required; the identifying arguments depend on the operation.
type Request struct {
	Operation string
	Source    string
	Language  string
	Function  string
	Type      string
	Method    string
	Pattern   string
	Stem      bool
}

// Engine runs operations. Every call parses its own source and releases the
// tree before returning; the engine itself holds no per-query state.
type Engine struct {
	MaxSourceBytes int
	Suggester      *semantic.Suggester
}

// NewEngine returns an engine with the default parse bound and suggester.
func NewEngine() *Engine {
	return &Engine{
		MaxSourceBytes: grammar.DefaultMaxSourceBytes,
		Suggester:      semantic.NewSuggester(0, 0),
	}
}

// FromConfig builds an engine honoring the loaded configuration.
func FromConfig(cfg *config.Config) *Engine {
	e := NewEngine()
	e.MaxSourceBytes = cfg.MaxSourceBytes
	if cfg.Suggestions.Enabled {
		e.Suggester = semantic.NewSuggester(cfg.Suggestions.Threshold, cfg.Suggestions.Max)
	} else {
		e.Suggester = nil
	}
	return e
}

type operation struct {
	needsFunction bool
	needsType     bool
	needsMethod   bool
	needsPattern  bool
	run           func(*Engine, *nav.Unit, *grammar.ParseResult, Request) (Record, error)
}

var operations = map[string]operation{
	"locate_function":    {needsFunction: true, run: (*Engine).locateFunction},
	"locate_type":        {needsType: true, run: (*Engine).locateType},
	"locate_method":      {needsType: true, needsMethod: true, run: (*Engine).locateMethod},
	"module_overview":    {run: (*Engine).moduleOverview},
	"list_functions":     {run: (*Engine).listFunctions},
	"list_types":         {run: (*Engine).listTypes},
	"get_signature":      {needsFunction: true, run: (*Engine).getSignature},
	"get_docstring":      {needsFunction: true, run: (*Engine).getDocstring},
	"get_type_docstring": {needsType: true, run: (*Engine).getTypeDocstring},
	"list_methods":       {needsType: true, run: (*Engine).listMethods},
	"public_api":         {run: (*Engine).publicAPI},
	"function_details":   {needsFunction: true, run: (*Engine).functionDetails},
	"get_body":           {needsFunction: true, run: (*Engine).getBody},
	"list_calls":         {needsFunction: true, run: (*Engine).listCalls},
	"find_usages":        {needsFunction: true, run: (*Engine).findUsages},
	"type_hierarchy":     {needsType: true, run: (*Engine).typeHierarchy},
	"search_docstrings":  {needsPattern: true, run: (*Engine).searchDocstrings},
}

// Operations lists the catalog, sorted, for the CLI and MCP listings.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spec describes one operation's argument contract so outer surfaces can
// declare their own input schemas from it.
type Spec struct {
	Name          string
	NeedsFunction bool
	NeedsType     bool
	NeedsMethod   bool
	NeedsPattern  bool
}

// Specs lists every operation's contract, sorted by name.
func Specs() []Spec {
	out := make([]Spec, 0, len(operations))
	for name, op := range operations {
		out = append(out, Spec{
			Name:          name,
			NeedsFunction: op.needsFunction,
			NeedsType:     op.needsType,
			NeedsMethod:   op.needsMethod,
			NeedsPattern:  op.needsPattern,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Do validates the request contract, parses the source, and dispatches.
func (e *Engine) Do(req Request) (Record, error) {
	op, ok := operations[req.Operation]
	if !ok {
		return nil, errors.NewInputError("operation", fmt.Sprintf("unknown operation %q", req.Operation))
	}
	if req.Language == "" {
		return nil, errors.NewInputError("language", "must be non-empty")
	}
	tag, ok := grammar.Normalize(req.Language)
	if !ok {
		return nil, errors.NewUnsupportedLanguageError(req.Language, grammar.Supported())
	}
	if op.needsFunction && req.Function == "" {
		return nil, errors.NewInputError("function_name", "must be non-empty")
	}
	if op.needsType && req.Type == "" {
		return nil, errors.NewInputError("type_name", "must be non-empty")
	}
	if op.needsMethod && req.Method == "" {
		return nil, errors.NewInputError("method_name", "must be non-empty")
	}
	if op.needsPattern && req.Pattern == "" {
		return nil, errors.NewInputError("pattern", "must be non-empty")
	}

	res, err := grammar.ParseBounded([]byte(req.Source), tag, e.MaxSourceBytes)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	adapter, ok := lang.ForLanguage(tag)
	if !ok {
		return nil, errors.NewUnsupportedLanguageError(string(tag), grammar.Supported())
	}
	unit := &nav.Unit{Root: res.Root(), Src: res.Source, Adapter: adapter}

	debug.LogQuery("%s lang=%s bytes=%d\n", req.Operation, tag, len(req.Source))

	rec, err := op.run(e, unit, res, req)
	if err != nil {
		return nil, e.withSuggestions(unit, err)
	}
	rec["language"] = string(tag)
	return rec, nil
}

// withSuggestions decorates a not-found failure with near-miss identifiers
// from the same unit: type names for a missing type, the scope's method
// names for a scoped miss, function names otherwise.
func (e *Engine) withSuggestions(u *nav.Unit, err error) error {
	nfe, ok := err.(*errors.NotFoundError)
	if !ok || e.Suggester == nil || len(nfe.Suggestions) > 0 {
		return err
	}

	var candidates []string
	switch {
	case nfe.Kind == "type":
		for _, t := range u.Types() {
			candidates = append(candidates, t.Name)
		}
	case nfe.Scope != "":
		if methods, merr := u.MethodsOf(nfe.Scope); merr == nil {
			for _, m := range methods {
				candidates = append(candidates, m.Name)
			}
		}
	default:
		for _, fn := range u.Functions() {
			candidates = append(candidates, fn.Name)
		}
	}
	if s := e.Suggester.Suggest(nfe.Name, candidates); len(s) > 0 {
		nfe.WithSuggestions(s)
	}
	return nfe
}

func (e *Engine) locateFunction(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	fn, err := u.FindFunction(req.Function, req.Type)
	if err != nil {
		return nil, err
	}
	return locationFields(u.FunctionRecordOf(fn)), nil
}

func (e *Engine) locateType(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	t, err := u.FindType(req.Type)
	if err != nil {
		return nil, err
	}
	return typeLocationFields(u.TypeRecordOf(t)), nil
}

func (e *Engine) locateMethod(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	fn, err := u.FindMethod(req.Type, req.Method)
	if err != nil {
		return nil, err
	}
	return locationFields(u.FunctionRecordOf(fn)), nil
}

func (e *Engine) moduleOverview(u *nav.Unit, res *grammar.ParseResult, _ Request) (Record, error) {
	fns := u.Functions()
	types := u.Types()

	fnNames := make([]string, 0, len(fns))
	for _, fn := range fns {
		fnNames = append(fnNames, fn.Name)
	}
	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, t.Name)
	}

	rec := Record{"source_hash": fmt.Sprintf("%016x", res.Fingerprint)}
	rec.putInt("line_count", res.LineCount())
	rec.putInt("function_count", len(fns))
	rec.putInt("type_count", len(types))
	rec.putJSON("functions", fnNames)
	rec.putJSON("types", typeNames)
	rec.putBool("has_entry_point", u.HasEntryPoint())
	return rec, nil
}

func (e *Engine) listFunctions(u *nav.Unit, _ *grammar.ParseResult, _ Request) (Record, error) {
	fns := u.Functions()
	records := make([]nav.FunctionRecord, 0, len(fns))
	for _, fn := range fns {
		records = append(records, u.FunctionRecordOf(fn))
	}

	rec := Record{}
	rec.putInt("count", len(records))
	rec.putJSON("functions", records)
	return rec, nil
}

func (e *Engine) listTypes(u *nav.Unit, _ *grammar.ParseResult, _ Request) (Record, error) {
	types := u.Types()
	records := make([]nav.TypeRecord, 0, len(types))
	for _, t := range types {
		records = append(records, u.TypeRecordOf(t))
	}

	rec := Record{}
	rec.putInt("count", len(records))
	rec.putJSON("types", records)
	return rec, nil
}

func (e *Engine) getSignature(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	fn, err := u.FindFunction(req.Function, req.Type)
	if err != nil {
		return nil, err
	}
	params := u.Params(fn)
	if params == nil {
		params = []nav.Param{}
	}

	rec := Record{
		"signature":   u.Signature(fn),
		"return_type": u.ReturnType(fn),
	}
	rec.putJSON("parameters", params)
	rec.putBool("is_async", u.IsAsync(fn))
	return rec, nil
}

func (e *Engine) getDocstring(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	fn, err := u.FindFunction(req.Function, req.Type)
	if err != nil {
		return nil, err
	}
	doc, has := u.Docstring(fn)

	rec := Record{"docstring": doc}
	rec.putBool("has_docstring", has)
	return rec, nil
}

func (e *Engine) getTypeDocstring(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	t, err := u.FindType(req.Type)
	if err != nil {
		return nil, err
	}
	doc, has := u.Docstring(t)

	rec := Record{"docstring": doc}
	rec.putBool("has_docstring", has)
	return rec, nil
}

func (e *Engine) listMethods(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	t, err := u.FindType(req.Type)
	if err != nil {
		return nil, err
	}
	names := u.MethodNames(t)

	rec := Record{"type": t.Name}
	rec.putInt("count", len(names))
	rec.putJSON("methods", emptyIfNil(names))
	return rec, nil
}

// publicAPI lists the definitions whose own visibility verdict is public.
// The verdict is structural, not transitive: a public method of a private
// type still lists.
func (e *Engine) publicAPI(u *nav.Unit, _ *grammar.ParseResult, _ Request) (Record, error) {
	var fnNames, typeNames []string
	for _, fn := range u.Functions() {
		if u.IsPublic(fn) {
			fnNames = append(fnNames, fn.Name)
		}
	}
	for _, t := range u.Types() {
		if u.IsPublic(t) {
			typeNames = append(typeNames, t.Name)
		}
	}

	rec := Record{}
	rec.putJSON("functions", emptyIfNil(fnNames))
	rec.putJSON("types", emptyIfNil(typeNames))
	rec.putInt("function_count", len(fnNames))
	rec.putInt("type_count", len(typeNames))
	return rec, nil
}

func (e *Engine) functionDetails(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	fn, err := u.FindFunction(req.Function, req.Type)
	if err != nil {
		return nil, err
	}
	return functionFields(u.FunctionRecordOf(fn)), nil
}

func (e *Engine) getBody(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	fn, err := u.FindFunction(req.Function, req.Type)
	if err != nil {
		return nil, err
	}
	body, start, end := u.Body(fn)

	rec := Record{"body": body}
	rec.putInt("start_line", start)
	rec.putInt("end_line", end)
	return rec, nil
}

func (e *Engine) listCalls(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	fn, err := u.FindFunction(req.Function, req.Type)
	if err != nil {
		return nil, err
	}
	calls := u.CallsWithin(fn)
	if calls == nil {
		calls = []nav.CallSite{}
	}

	rec := Record{"function": fn.Name}
	rec.putInt("count", len(calls))
	rec.putJSON("calls", calls)
	return rec, nil
}

// findUsages matches call sites structurally; an unknown name yields zero
// usages, not a failure.
func (e *Engine) findUsages(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	sites := u.Usages(req.Function)
	if sites == nil {
		sites = []nav.CallSite{}
	}

	rec := Record{"name": req.Function}
	rec.putInt("count", len(sites))
	rec.putJSON("usages", sites)
	return rec, nil
}

func (e *Engine) typeHierarchy(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	t, err := u.FindType(req.Type)
	if err != nil {
		return nil, err
	}
	bases := u.Hierarchy(t)

	rec := Record{"name": t.Name, "kind": string(t.Kind)}
	rec.putJSON("bases", emptyIfNil(bases))
	rec.putInt("base_count", len(bases))
	return rec, nil
}

// docMatch is one search hit: a definition whose docstring matched.
type docMatch struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Line int    `json:"line"`
}

func (e *Engine) searchDocstrings(u *nav.Unit, _ *grammar.ParseResult, req Request) (Record, error) {
	matches := []docMatch{}
	for _, fn := range u.Functions() {
		if doc, has := u.Docstring(fn); has && semantic.Matches(req.Pattern, doc, req.Stem) {
			line, _ := walk.LineRange(fn.Node)
			matches = append(matches, docMatch{Name: fn.Name, Kind: "function", Line: line})
		}
	}
	for _, t := range u.Types() {
		if doc, has := u.Docstring(t); has && semantic.Matches(req.Pattern, doc, req.Stem) {
			line, _ := walk.LineRange(t.Node)
			matches = append(matches, docMatch{Name: t.Name, Kind: string(t.Kind), Line: line})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Line < matches[j].Line })

	rec := Record{"pattern": req.Pattern}
	rec.putInt("count", len(matches))
	rec.putJSON("matches", matches)
	return rec, nil
}
