package attio

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Sort orders query results by an attribute.
type Sort struct {
	// Attribute is the slug of the attribute to sort by.
	Attribute string `json:"attribute" yaml:"attribute"`
	// Field optionally selects a payload key of composite attributes.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Direction is "asc" or "desc".
	Direction string `json:"direction" yaml:"direction"`
}

// QueryParams represents query parameters for list and query endpoints.
type QueryParams struct {
	// Limit caps the number of results per page.
	Limit int
	// Offset skips results from the start of the set.
	Offset int
	// Cursor resumes iteration from a server-issued position.
	Cursor string
	// Filter is a nested filter expression keyed by attribute slug.
	Filter map[string]interface{}
	// Sorts orders the results.
	Sorts []Sort
	// Extra carries endpoint-specific scalar parameters.
	Extra map[string]string
}

// NewQueryParams creates a new QueryParams instance.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filter: make(map[string]interface{}),
		Extra:  make(map[string]string),
	}
}

// Clone returns a copy of the parameters that can be mutated independently.
// Filter expressions are shared, not deep-copied.
func (p *QueryParams) Clone() *QueryParams {
	if p == nil {
		return NewQueryParams()
	}

	cloned := &QueryParams{
		Limit:  p.Limit,
		Offset: p.Offset,
		Cursor: p.Cursor,
		Filter: make(map[string]interface{}, len(p.Filter)),
		Sorts:  append([]Sort(nil), p.Sorts...),
		Extra:  make(map[string]string, len(p.Extra)),
	}

	for key, value := range p.Filter {
		cloned.Filter[key] = value
	}

	for key, value := range p.Extra {
		cloned.Extra[key] = value
	}

	return cloned
}

// WithLimit sets the page size.
func (p *QueryParams) WithLimit(limit int) *QueryParams {
	p.Limit = limit

	return p
}

// WithOffset sets the result offset.
func (p *QueryParams) WithOffset(offset int) *QueryParams {
	p.Offset = offset

	return p
}

// WithCursor sets the pagination cursor.
func (p *QueryParams) WithCursor(cursor string) *QueryParams {
	p.Cursor = cursor

	return p
}

// WithFilter sets a filter expression for an attribute, replacing any
// previous expression for the same attribute.
func (p *QueryParams) WithFilter(attribute string, expression interface{}) *QueryParams {
	if p.Filter == nil {
		p.Filter = make(map[string]interface{})
	}

	p.Filter[attribute] = expression

	return p
}

// WithSort appends a sort on an attribute.
func (p *QueryParams) WithSort(attribute, direction string) *QueryParams {
	p.Sorts = append(p.Sorts, Sort{Attribute: attribute, Direction: direction})

	return p
}

// WithParam sets an endpoint-specific scalar parameter.
func (p *QueryParams) WithParam(key, value string) *QueryParams {
	if p.Extra == nil {
		p.Extra = make(map[string]string)
	}

	p.Extra[key] = value

	return p
}

// ToValues converts the parameters to a query string representation.
// Nested filters and sorts are flattened into bracketed key paths.
func (p *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}

	if p.Offset > 0 {
		values.Set("offset", strconv.Itoa(p.Offset))
	}

	if p.Cursor != "" {
		values.Set("cursor", p.Cursor)
	}

	if len(p.Filter) > 0 {
		flattenInto(values, "filter", mapAsInterface(p.Filter))
	}

	if len(p.Sorts) > 0 {
		flattenInto(values, "sorts", sortsAsInterface(p.Sorts))
	}

	for key, value := range p.Extra {
		values.Set(key, value)
	}

	return values
}

// ToBody converts the parameters to the JSON body shape used by POST query
// endpoints.
func (p *QueryParams) ToBody() map[string]interface{} {
	body := map[string]interface{}{}
	if p == nil {
		return body
	}

	if len(p.Filter) > 0 {
		body["filter"] = p.Filter
	}

	if len(p.Sorts) > 0 {
		body["sorts"] = p.Sorts
	}

	if p.Limit > 0 {
		body["limit"] = p.Limit
	}

	if p.Offset > 0 {
		body["offset"] = p.Offset
	}

	if p.Cursor != "" {
		body["cursor"] = p.Cursor
	}

	return body
}

// FlattenParams flattens nested maps and slices into bracketed key paths
// (parent[child]=value, items[0]=value) suitable for query strings.
func FlattenParams(params map[string]interface{}) url.Values {
	values := url.Values{}
	for key, value := range params {
		flattenInto(values, key, value)
	}

	return values
}

func flattenInto(values url.Values, prefix string, value interface{}) {
	switch typed := value.(type) {
	case map[string]interface{}:
		for key, child := range typed {
			flattenInto(values, prefix+"["+key+"]", child)
		}
	case []interface{}:
		for index, child := range typed {
			flattenInto(values, prefix+"["+strconv.Itoa(index)+"]", child)
		}
	case nil:
		// Nulls carry no query representation.
	default:
		values.Add(prefix, paramString(typed))
	}
}

func paramString(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case time.Time:
		return typed.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func mapAsInterface(m map[string]interface{}) interface{} {
	return m
}

func sortsAsInterface(sorts []Sort) interface{} {
	converted := make([]interface{}, 0, len(sorts))
	for _, s := range sorts {
		entry := map[string]interface{}{
			"attribute": s.Attribute,
			"direction": s.Direction,
		}

		if s.Field != "" {
			entry["field"] = s.Field
		}

		converted = append(converted, entry)
	}

	return converted
}
