// Package query translates HTTP query parameters into a structured Mongo
// query descriptor: filter predicate, sort order, field projection and page
// window. It is a pure function of its inputs and holds no per-request
// state.
package query

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// Reserved parameter names stripped from the filter set before the
// predicate is built.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Comparison operator tokens that map to Mongo operators. Tokens outside
// this set pass through literally as sub-document keys.
var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// Descriptor is the structured query produced from request parameters.
type Descriptor struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Page       int
	Limit      int
}

// Field names a filterable field. String fields keep their raw parameter
// values; other fields coerce numeric- and boolean-looking values to match
// how the document schema types them.
type Field struct {
	Name   string
	String bool
}

// Translate builds a Descriptor from raw string parameters. Keys of the
// form field[op] become comparison predicates; plain keys become equality
// predicates. When both arrive for one field the operator predicate wins.
// Only fields named in allowed may filter; others are dropped. A nil
// allowed list permits every field, coerced.
func Translate(params map[string][]string, allowed []Field) *Descriptor {
	d := &Descriptor{
		Filter: bson.M{},
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	allowSet := map[string]bool{}
	rawString := map[string]bool{}
	for _, f := range allowed {
		allowSet[f.Name] = true
		if f.String {
			rawString[f.Name] = true
		}
	}
	fieldAllowed := func(f string) bool {
		return allowed == nil || allowSet[f]
	}
	coerceFor := func(field, value string) interface{} {
		if rawString[field] {
			return value
		}
		return coerce(value)
	}

	for key, values := range params {
		if len(values) == 0 || reserved[key] {
			continue
		}
		value := values[0]

		field, op := splitOperator(key)
		if !fieldAllowed(field) {
			continue
		}

		if op == "" {
			// An operator predicate already placed on this field wins.
			if _, hasOp := d.Filter[field].(bson.M); !hasOp {
				d.Filter[field] = coerceFor(field, value)
			}
			continue
		}

		sub, ok := d.Filter[field].(bson.M)
		if !ok {
			sub = bson.M{}
			d.Filter[field] = sub
		}
		if mongoOp, known := operators[op]; known {
			if mongoOp == "$in" {
				sub[mongoOp] = coerceList(field, value, rawString)
			} else {
				sub[mongoOp] = coerceFor(field, value)
			}
		} else {
			// Unrecognized token is passed through untranslated.
			sub[op] = coerceFor(field, value)
		}
	}

	d.Sort = parseSort(first(params["sort"]))
	d.Projection = parseSelect(first(params["select"]))
	d.Page = parsePositive(first(params["page"]), DefaultPage)
	d.Limit = parsePositive(first(params["limit"]), DefaultLimit)

	return d
}

// splitOperator breaks "averageCost[lte]" into ("averageCost", "lte").
// A key without brackets returns an empty operator.
func splitOperator(key string) (field, op string) {
	open := strings.Index(key, "[")
	if open < 1 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

// coerce interprets a raw parameter value as a number or boolean where it
// looks like one, matching how the document schema types these fields.
func coerce(value string) interface{} {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

func coerceList(field, value string, rawString map[string]bool) []interface{} {
	parts := strings.Split(value, ",")
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if rawString[field] {
			out = append(out, p)
		} else {
			out = append(out, coerce(p))
		}
	}
	return out
}

// parseSort turns "a,-b" into an ordered sort spec; a leading '-' denotes
// descending. Absent sort defaults to newest first.
func parseSort(raw string) bson.D {
	if strings.TrimSpace(raw) == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	var sort bson.D
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(f, "-") {
			order = -1
			f = f[1:]
		}
		sort = append(sort, bson.E{Key: f, Value: order})
	}
	if len(sort) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return sort
}

// parseSelect turns "a,b c" into a projection, splitting on commas and
// whitespace alike.
func parseSelect(raw string) bson.M {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 1
	}
	return projection
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
