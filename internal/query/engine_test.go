package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/open-agent-tools/codenav/internal/errors"
	"github.com/open-agent-tools/codenav/internal/nav"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const goSource = `package calc

// Add sums two operands.
func Add(a, b int) int {
	return a + b
}

func helper() int {
	return Add(1, 2)
}

// Stack is a LIFO container.
type Stack struct {
	items []int
}

// Push appends one value.
func (s *Stack) Push(v int) {
	s.items = append(s.items, v)
	grow()
}

func (s *Stack) pop() int {
	return 0
}

func grow() {}

func main() {
	Add(1, 2)
}
`

func do(t *testing.T, req Request) Record {
	t.Helper()
	rec, err := NewEngine().Do(req)
	require.NoError(t, err)
	return rec
}

func goReq(operation string) Request {
	return Request{Operation: operation, Source: goSource, Language: "go"}
}

func TestLocateFunction(t *testing.T) {
	req := goReq("locate_function")
	req.Function = "Add"
	rec := do(t, req)

	assert.Equal(t, "Add", rec["name"])
	assert.Equal(t, "", rec["enclosing_type"])
	assert.Equal(t, "4", rec["start_line"])
	assert.Equal(t, "6", rec["end_line"])
	assert.Equal(t, "true", rec["is_public"])
	assert.Equal(t, "false", rec["is_async"])
	assert.Equal(t, "go", rec["language"])
}

func TestLocateFunctionScopedByType(t *testing.T) {
	req := goReq("locate_function")
	req.Function = "Push"
	req.Type = "Stack"
	rec := do(t, req)

	assert.Equal(t, "Stack", rec["enclosing_type"])
	assert.Equal(t, "18", rec["start_line"])
}

func TestLocateMethod(t *testing.T) {
	req := goReq("locate_method")
	req.Type = "Stack"
	req.Method = "pop"
	rec := do(t, req)

	assert.Equal(t, "pop", rec["name"])
	assert.Equal(t, "23", rec["start_line"])
	assert.Equal(t, "false", rec["is_public"])
}

func TestLocateType(t *testing.T) {
	req := goReq("locate_type")
	req.Type = "Stack"
	rec := do(t, req)

	assert.Equal(t, "Stack", rec["name"])
	assert.Equal(t, "struct", rec["kind"])
	assert.Equal(t, "13", rec["start_line"])
	assert.Equal(t, "15", rec["end_line"])
	assert.Equal(t, "true", rec["is_public"])
}

func TestModuleOverview(t *testing.T) {
	rec := do(t, goReq("module_overview"))

	assert.Equal(t, "31", rec["line_count"])
	assert.Equal(t, "6", rec["function_count"])
	assert.Equal(t, "1", rec["type_count"])
	assert.Equal(t, "true", rec["has_entry_point"])
	assert.Len(t, rec["source_hash"], 16)

	var fns []string
	require.NoError(t, json.Unmarshal([]byte(rec["functions"]), &fns))
	assert.Equal(t, []string{"Add", "helper", "Push", "pop", "grow", "main"}, fns)

	var types []string
	require.NoError(t, json.Unmarshal([]byte(rec["types"]), &types))
	assert.Equal(t, []string{"Stack"}, types)
}

func TestModuleOverviewIsDeterministic(t *testing.T) {
	first := do(t, goReq("module_overview"))
	second := do(t, goReq("module_overview"))
	assert.Equal(t, first, second)
}

func TestListFunctions(t *testing.T) {
	rec := do(t, goReq("list_functions"))
	assert.Equal(t, "6", rec["count"])

	var records []nav.FunctionRecord
	require.NoError(t, json.Unmarshal([]byte(rec["functions"]), &records))
	require.Len(t, records, 6)
	assert.Equal(t, "Add", records[0].Name)
	assert.Equal(t, 4, records[0].StartLine)
	assert.Equal(t, "Stack", records[2].EnclosingType)

	// repeated calls serialize byte-identically
	assert.Equal(t, rec["functions"], do(t, goReq("list_functions"))["functions"])
}

func TestListTypes(t *testing.T) {
	rec := do(t, goReq("list_types"))
	assert.Equal(t, "1", rec["count"])

	var records []nav.TypeRecord
	require.NoError(t, json.Unmarshal([]byte(rec["types"]), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Stack", records[0].Name)
	assert.Equal(t, "struct", records[0].Kind)
	assert.Equal(t, []string{"Push", "pop"}, records[0].Methods)
}

func TestGetSignature(t *testing.T) {
	req := goReq("get_signature")
	req.Function = "Add"
	rec := do(t, req)

	assert.Equal(t, "func Add(a, b int) int", rec["signature"])
	assert.Equal(t, "int", rec["return_type"])
	assert.Equal(t, "false", rec["is_async"])
	assert.Equal(t, `[{"name":"a","type":"int"},{"name":"b","type":"int"}]`, rec["parameters"])
}

func TestGetDocstring(t *testing.T) {
	req := goReq("get_docstring")
	req.Function = "Add"
	rec := do(t, req)
	assert.Equal(t, "Add sums two operands.", rec["docstring"])
	assert.Equal(t, "true", rec["has_docstring"])

	req.Function = "grow"
	rec = do(t, req)
	assert.Equal(t, "", rec["docstring"])
	assert.Equal(t, "false", rec["has_docstring"])
}

func TestGetTypeDocstring(t *testing.T) {
	req := goReq("get_type_docstring")
	req.Type = "Stack"
	rec := do(t, req)

	assert.Equal(t, "Stack is a LIFO container.", rec["docstring"])
	assert.Equal(t, "true", rec["has_docstring"])
}

func TestListMethods(t *testing.T) {
	req := goReq("list_methods")
	req.Type = "Stack"
	rec := do(t, req)

	assert.Equal(t, "Stack", rec["type"])
	assert.Equal(t, "2", rec["count"])
	assert.Equal(t, `["Push","pop"]`, rec["methods"])
}

func TestPublicAPI(t *testing.T) {
	rec := do(t, goReq("public_api"))

	assert.Equal(t, `["Add","Push"]`, rec["functions"])
	assert.Equal(t, `["Stack"]`, rec["types"])
	assert.Equal(t, "2", rec["function_count"])
	assert.Equal(t, "1", rec["type_count"])
}

func TestFunctionDetails(t *testing.T) {
	req := goReq("function_details")
	req.Function = "Push"
	rec := do(t, req)

	assert.Equal(t, "Push", rec["name"])
	assert.Equal(t, "Stack", rec["enclosing_type"])
	assert.Equal(t, "func (s *Stack) Push(v int)", rec["signature"])
	assert.Equal(t, `[{"name":"v","type":"int"}]`, rec["parameters"])
	assert.Equal(t, "[]", rec["decorators"])
	assert.Equal(t, "", rec["return_type"])
	assert.Equal(t, "Push appends one value.", rec["docstring"])
	assert.Equal(t, "true", rec["has_docstring"])
	assert.Equal(t, "true", rec["is_public"])
	assert.Equal(t, "false", rec["is_async"])
	assert.Equal(t, "18", rec["start_line"])
	assert.Equal(t, "21", rec["end_line"])
}

func TestGetBody(t *testing.T) {
	req := goReq("get_body")
	req.Function = "grow"
	rec := do(t, req)

	assert.Equal(t, "{}", rec["body"])
	assert.Equal(t, "27", rec["start_line"])
	assert.Equal(t, "27", rec["end_line"])
}

func TestListCalls(t *testing.T) {
	req := goReq("list_calls")
	req.Function = "Push"
	rec := do(t, req)

	assert.Equal(t, "Push", rec["function"])
	assert.Equal(t, "2", rec["count"])

	var calls []nav.CallSite
	require.NoError(t, json.Unmarshal([]byte(rec["calls"]), &calls))
	require.Len(t, calls, 2)
	assert.Equal(t, "append", calls[0].Callee)
	assert.Equal(t, 19, calls[0].Line)
	assert.Equal(t, "grow", calls[1].Callee)
	assert.Equal(t, 20, calls[1].Line)
}

func TestFindUsages(t *testing.T) {
	req := goReq("find_usages")
	req.Function = "Add"
	rec := do(t, req)

	assert.Equal(t, "Add", rec["name"])
	assert.Equal(t, "2", rec["count"])

	var sites []nav.CallSite
	require.NoError(t, json.Unmarshal([]byte(rec["usages"]), &sites))
	require.Len(t, sites, 2)
	assert.Equal(t, 9, sites[0].Line)
	assert.Equal(t, "helper", sites[0].Caller)
	assert.Equal(t, 30, sites[1].Line)
	assert.Equal(t, "main", sites[1].Caller)
}

func TestFindUsagesUnknownNameIsEmpty(t *testing.T) {
	req := goReq("find_usages")
	req.Function = "nobody"
	rec := do(t, req)

	assert.Equal(t, "0", rec["count"])
	assert.Equal(t, "[]", rec["usages"])
}

func TestTypeHierarchy(t *testing.T) {
	rec := do(t, Request{
		Operation: "type_hierarchy",
		Language:  "python",
		Source:    "class Base:\n    pass\n\nclass C(Base):\n    pass\n",
		Type:      "C",
	})

	assert.Equal(t, "C", rec["name"])
	assert.Equal(t, "class", rec["kind"])
	assert.Equal(t, `["Base"]`, rec["bases"])
	assert.Equal(t, "1", rec["base_count"])
}

func TestTypeHierarchyEmptyBases(t *testing.T) {
	req := goReq("type_hierarchy")
	req.Type = "Stack"
	rec := do(t, req)

	assert.Equal(t, "[]", rec["bases"])
	assert.Equal(t, "0", rec["base_count"])
}

func TestSearchDocstrings(t *testing.T) {
	req := goReq("search_docstrings")
	req.Pattern = "LIFO"
	rec := do(t, req)

	assert.Equal(t, "LIFO", rec["pattern"])
	assert.Equal(t, "1", rec["count"])
	assert.Equal(t, `[{"name":"Stack","kind":"struct","line":13}]`, rec["matches"])
}

func TestSearchDocstringsStemmed(t *testing.T) {
	req := goReq("search_docstrings")
	req.Pattern = "summing"

	rec := do(t, req)
	assert.Equal(t, "0", rec["count"], "no literal substring match")

	req.Stem = true
	rec = do(t, req)
	assert.Equal(t, "1", rec["count"])
	assert.Equal(t, `[{"name":"Add","kind":"function","line":4}]`, rec["matches"])
}

func TestEveryRecordCarriesLanguage(t *testing.T) {
	for _, op := range []string{"module_overview", "list_functions", "list_types", "public_api"} {
		rec := do(t, goReq(op))
		assert.Equal(t, "go", rec["language"], op)
	}
}

func TestUnknownOperation(t *testing.T) {
	_, err := NewEngine().Do(Request{Operation: "explode", Source: goSource, Language: "go"})
	require.Error(t, err)
	assert.True(t, errors.IsInput(err))
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestEmptySourceRejectedBeforeParsing(t *testing.T) {
	_, err := NewEngine().Do(Request{Operation: "list_functions", Source: "  \n", Language: "go"})
	require.Error(t, err)
	assert.True(t, errors.IsInput(err))
	assert.Contains(t, err.Error(), "source_code")
}

func TestMissingRequiredArgument(t *testing.T) {
	_, err := NewEngine().Do(Request{Operation: "locate_function", Source: goSource, Language: "go"})
	require.Error(t, err)
	assert.True(t, errors.IsInput(err))
	assert.Contains(t, err.Error(), "function_name")
}

func TestUnsupportedLanguage(t *testing.T) {
	_, err := NewEngine().Do(Request{Operation: "list_functions", Source: "x", Language: "cobol"})
	require.Error(t, err)
	assert.True(t, errors.IsInput(err))
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestEmptyLanguageRejected(t *testing.T) {
	_, err := NewEngine().Do(Request{Operation: "list_functions", Source: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsInput(err))
}

func TestLanguageAliasNormalized(t *testing.T) {
	rec := do(t, Request{
		Operation: "module_overview",
		Language:  "py",
		Source:    "def f():\n    pass\n",
	})
	assert.Equal(t, "python", rec["language"])
}

func TestSourceSizeLimit(t *testing.T) {
	e := NewEngine()
	e.MaxSourceBytes = 10

	_, err := e.Do(Request{Operation: "list_functions", Source: goSource, Language: "go"})
	require.Error(t, err)
	assert.True(t, errors.IsInput(err))
	assert.Contains(t, err.Error(), "exceeds")
}

func TestNotFoundCarriesSuggestions(t *testing.T) {
	req := goReq("locate_function")
	req.Function = "Addd"

	_, err := NewEngine().Do(req)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	nfe, ok := err.(*errors.NotFoundError)
	require.True(t, ok)
	assert.Contains(t, nfe.Suggestions, "Add")
	assert.Contains(t, err.Error(), `function "Addd" not found`)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestMethodNotFoundSuggestsScopeMethods(t *testing.T) {
	req := goReq("locate_method")
	req.Type = "Stack"
	req.Method = "Psh"

	_, err := NewEngine().Do(req)
	require.Error(t, err)
	nfe, ok := err.(*errors.NotFoundError)
	require.True(t, ok)
	assert.Equal(t, []string{"Push"}, nfe.Suggestions)
}

func TestTypeNotFoundSuggestions(t *testing.T) {
	req := goReq("locate_type")
	req.Type = "Stak"

	_, err := NewEngine().Do(req)
	require.Error(t, err)
	nfe, ok := err.(*errors.NotFoundError)
	require.True(t, ok)
	assert.Equal(t, []string{"Stack"}, nfe.Suggestions)
	assert.Contains(t, err.Error(), `type "Stak" not found`)
}

func TestFarNamesGetNoSuggestions(t *testing.T) {
	req := goReq("locate_function")
	req.Function = "zzzzzz"

	_, err := NewEngine().Do(req)
	require.Error(t, err)
	nfe, ok := err.(*errors.NotFoundError)
	require.True(t, ok)
	assert.Empty(t, nfe.Suggestions)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestModuleOverviewAcrossLanguages(t *testing.T) {
	cases := []struct {
		language string
		source   string
	}{
		{"go", "package p\n\nfunc f() {}\n"},
		{"python", "def f():\n    pass\n"},
		{"javascript", "function f() {}\n"},
		{"typescript", "function f(): void {}\n"},
		{"rust", "fn f() {}\n"},
		{"java", "class C {\n    void f() {}\n}\n"},
		{"csharp", "class C {\n    void F() {}\n}\n"},
		{"cpp", "void f() {}\n"},
		{"php", "<?php\nfunction f() {}\n"},
		{"ruby", "def f\nend\n"},
		{"zig", "fn f() void {}\n"},
	}

	for _, tc := range cases {
		t.Run(tc.language, func(t *testing.T) {
			rec := do(t, Request{Operation: "module_overview", Language: tc.language, Source: tc.source})
			assert.Equal(t, "1", rec["function_count"])
			assert.Equal(t, tc.language, rec["language"])
			assert.NotEmpty(t, rec["source_hash"])
		})
	}
}

func TestMalformedSourceStillAnswers(t *testing.T) {
	rec := do(t, Request{
		Operation: "list_functions",
		Language:  "go",
		Source:    "package p\n\nfunc ok() {}\n\nfunc broken( {\n",
	})

	var records []nav.FunctionRecord
	require.NoError(t, json.Unmarshal([]byte(rec["functions"]), &records))
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "ok")
}
