package query

import (
	"encoding/json"
	"strconv"

	"github.com/open-agent-tools/codenav/internal/nav"
)

// Record is the flat result shape every operation returns: string keys and
// string values only. Numbers are decimal text, booleans are "true"/"false",
// and list-valued fields carry compact JSON text in a single key.
type Record map[string]string

func (r Record) putInt(key string, v int) {
	r[key] = strconv.Itoa(v)
}

func (r Record) putBool(key string, v bool) {
	r[key] = strconv.FormatBool(v)
}

// putJSON stores v as compact JSON text produced by the standard encoder,
// so repeated calls over the same unit are byte-identical.
func (r Record) putJSON(key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		r[key] = "[]"
		return
	}
	r[key] = string(b)
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// functionFields flattens every FunctionRecord field into result keys.
func functionFields(rec nav.FunctionRecord) Record {
	r := Record{
		"name":           rec.Name,
		"enclosing_type": rec.EnclosingType,
		"signature":      rec.Signature,
		"return_type":    rec.ReturnType,
		"docstring":      rec.Docstring,
	}
	r.putJSON("parameters", rec.Parameters)
	r.putJSON("decorators", emptyIfNil(rec.Decorators))
	r.putBool("is_public", rec.IsPublic)
	r.putBool("is_async", rec.IsAsync)
	r.putBool("has_docstring", rec.HasDocstring)
	r.putInt("start_line", rec.StartLine)
	r.putInt("end_line", rec.EndLine)
	return r
}

// locationFields keeps the locate-oriented subset of a function record.
func locationFields(rec nav.FunctionRecord) Record {
	r := Record{
		"name":           rec.Name,
		"enclosing_type": rec.EnclosingType,
	}
	r.putBool("is_public", rec.IsPublic)
	r.putBool("is_async", rec.IsAsync)
	r.putInt("start_line", rec.StartLine)
	r.putInt("end_line", rec.EndLine)
	return r
}

// typeLocationFields keeps the locate-oriented subset of a type record.
func typeLocationFields(rec nav.TypeRecord) Record {
	r := Record{
		"name": rec.Name,
		"kind": rec.Kind,
	}
	r.putBool("is_public", rec.IsPublic)
	r.putInt("start_line", rec.StartLine)
	r.putInt("end_line", rec.EndLine)
	return r
}
