package domain

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Query defaults and limits.
const (
	// FilterAll is the filter value meaning "no constraint".
	FilterAll = "all"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// QueryRequest describes one page of a listing.
type QueryRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
	Search    string
	Filters   map[string]string
}

// NormalizeQuery fills in defaults: page 1, limit 10, ascending order.
// A limit above MaxLimit is capped. Values below 1 are left for Validate to
// reject.
func NormalizeQuery(req QueryRequest) QueryRequest {
	if req.Page == 0 {
		req.Page = DefaultPage
	}
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}
	if req.SortOrder == "" {
		req.SortOrder = SortAsc
	}
	req.SortOrder = SortOrder(strings.ToLower(string(req.SortOrder)))
	return req
}

// Pagination describes the page returned by Query.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// QueryResult is one page of items and its pagination.
type QueryResult[T any] struct {
	Items      []T
	Pagination Pagination
}

// Schema tells the query engine how to read the fields of T.
type Schema[T any] struct {
	// SearchFields are matched, case-insensitively, against the search term.
	SearchFields []string
	// FilterFields are the keys accepted in QueryRequest.Filters.
	FilterFields []string
	// SortFields are the values accepted in QueryRequest.SortBy.
	SortFields []string
	// Value returns the value of a field of item, or nil if it has none.
	Value func(item T, field string) any
}

// Validate checks a request against the schema.
func (s Schema[T]) Validate(req QueryRequest) error {
	if req.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1", ErrInvalidQuery)
	}
	if req.Limit < 1 {
		return fmt.Errorf("%w: limit must be at least 1", ErrInvalidQuery)
	}
	if req.SortOrder != "" && req.SortOrder != SortAsc && req.SortOrder != SortDesc {
		return fmt.Errorf("%w: sortOrder must be asc or desc, got %q", ErrInvalidQuery, req.SortOrder)
	}
	if req.SortBy != "" && !slices.Contains(s.SortFields, req.SortBy) {
		return fmt.Errorf("%w: cannot sort by %q", ErrInvalidQuery, req.SortBy)
	}
	for key := range req.Filters {
		if !slices.Contains(s.FilterFields, key) {
			return fmt.Errorf("%w: cannot filter by %q", ErrInvalidQuery, key)
		}
	}
	return nil
}

// Query runs search, filter, sort and pagination over items, in that order.
// It never modifies items. Sorting is stable: items with equal keys keep their
// input order.
func Query[T any](items []T, req QueryRequest, schema Schema[T]) QueryResult[T] {
	term := strings.ToLower(strings.TrimSpace(req.Search))

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if term != "" && !schema.matchesSearch(item, term) {
			continue
		}
		if !schema.matchesFilters(item, req.Filters) {
			continue
		}
		matched = append(matched, item)
	}

	if req.SortBy != "" {
		matched = schema.sort(matched, req.SortBy, req.SortOrder)
	}

	return paginate(matched, req.Page, req.Limit)
}

func (s Schema[T]) matchesSearch(item T, term string) bool {
	for _, field := range s.SearchFields {
		v, ok := s.value(item, field)
		if !ok {
			continue
		}
		text, ok := searchText(v)
		if ok && strings.Contains(strings.ToLower(text), term) {
			return true
		}
	}
	return false
}

func (s Schema[T]) matchesFilters(item T, filters map[string]string) bool {
	for _, field := range s.FilterFields {
		want, ok := filters[field]
		if !ok || want == "" || want == FilterAll {
			continue
		}
		v, ok := s.value(item, field)
		if !ok {
			return false
		}
		got, present := filterText(v)
		if !present || got != want {
			return false
		}
	}
	return true
}

// value reads a field, turning a panicking accessor into a missing value.
func (s Schema[T]) value(item T, field string) (v any, ok bool) {
	if s.Value == nil {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			v, ok = nil, false
		}
	}()
	return s.Value(item, field), true
}

type keyKind int

const (
	kindMissing keyKind = iota
	kindTime
	kindNumber
	kindString
	kindBool
	kindMalformed
)

type sortKey struct {
	kind keyKind
	t    time.Time
	n    decimal.Decimal
	s    string
	b    bool
}

type keyedItem[T any] struct {
	item T
	key  sortKey
}

func (s Schema[T]) sort(items []T, field string, order SortOrder) []T {
	keyed := make([]keyedItem[T], len(items))
	counts := make(map[keyKind]int)
	for i, item := range items {
		k := sortKey{kind: kindMalformed}
		if v, ok := s.value(item, field); ok {
			k = toSortKey(field, v)
		}
		keyed[i] = keyedItem[T]{item: item, key: k}
		if k.kind != kindMissing && k.kind != kindMalformed {
			counts[k.kind]++
		}
	}

	// Values of a kind other than the field's dominant kind cannot be
	// compared with the rest and sort with the missing values.
	dominant := dominantKind(keyed, counts)
	for i := range keyed {
		if keyed[i].key.kind != dominant {
			keyed[i].key.kind = kindMissing
		}
	}

	desc := order == SortDesc
	slices.SortStableFunc(keyed, func(a, b keyedItem[T]) int {
		aMissing := a.key.kind == kindMissing
		bMissing := b.key.kind == kindMissing
		switch {
		case aMissing && bMissing:
			return 0
		case aMissing:
			return 1
		case bMissing:
			return -1
		}

		c := compareKeys(a.key, b.key)
		if desc {
			return -c
		}
		return c
	})

	sorted := make([]T, len(keyed))
	for i, k := range keyed {
		sorted[i] = k.item
	}
	return sorted
}

func dominantKind[T any](keyed []keyedItem[T], counts map[keyKind]int) keyKind {
	dominant, best := kindMissing, 0
	for _, k := range keyed {
		kind := k.key.kind
		if kind == kindMissing || kind == kindMalformed {
			continue
		}
		if counts[kind] > best {
			dominant, best = kind, counts[kind]
		}
	}
	return dominant
}

func compareKeys(a, b sortKey) int {
	switch a.kind {
	case kindTime:
		return a.t.Compare(b.t)
	case kindNumber:
		return a.n.Cmp(b.n)
	case kindString:
		if c := strings.Compare(strings.ToLower(a.s), strings.ToLower(b.s)); c != 0 {
			return c
		}
		return strings.Compare(a.s, b.s)
	case kindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// dateLayouts are tried, in order, for string values of date-like fields.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// isDateField reports whether a field name denotes a date: "issueDate",
// "createdAt" and the like.
func isDateField(field string) bool {
	return strings.HasSuffix(strings.ToLower(field), "date") || strings.HasSuffix(field, "At")
}

// namedString unwraps values of named string types such as LicenseStatus.
func namedString(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toSortKey(field string, v any) sortKey {
	switch x := v.(type) {
	case nil:
		return sortKey{kind: kindMissing}
	case time.Time:
		if x.IsZero() {
			return sortKey{kind: kindMissing}
		}
		return sortKey{kind: kindTime, t: x}
	case *time.Time:
		if x == nil {
			return sortKey{kind: kindMissing}
		}
		return toSortKey(field, *x)
	case *string:
		if x == nil {
			return sortKey{kind: kindMissing}
		}
		return toSortKey(field, *x)
	case string:
		if x == "" {
			return sortKey{kind: kindMissing}
		}
		if isDateField(field) {
			if t, ok := parseDate(x); ok {
				return sortKey{kind: kindTime, t: t}
			}
			return sortKey{kind: kindMalformed}
		}
		return sortKey{kind: kindString, s: x}
	case decimal.Decimal:
		return sortKey{kind: kindNumber, n: x}
	case *decimal.Decimal:
		if x == nil {
			return sortKey{kind: kindMissing}
		}
		return sortKey{kind: kindNumber, n: *x}
	case int:
		return sortKey{kind: kindNumber, n: decimal.NewFromInt(int64(x))}
	case int32:
		return sortKey{kind: kindNumber, n: decimal.NewFromInt32(x)}
	case int64:
		return sortKey{kind: kindNumber, n: decimal.NewFromInt(x)}
	case *int:
		if x == nil {
			return sortKey{kind: kindMissing}
		}
		return sortKey{kind: kindNumber, n: decimal.NewFromInt(int64(*x))}
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return sortKey{kind: kindMalformed}
		}
		return sortKey{kind: kindNumber, n: decimal.NewFromFloat(x)}
	case bool:
		return sortKey{kind: kindBool, b: x}
	case fmt.Stringer:
		return toSortKey(field, x.String())
	default:
		if str, ok := namedString(v); ok {
			return toSortKey(field, str)
		}
		return sortKey{kind: kindMalformed}
	}
}

// searchText returns the text of a string-like value.
func searchText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	case fmt.Stringer:
		return x.String(), true
	default:
		return namedString(v)
	}
}

// filterText renders a value the way filter values are written in a request.
func filterText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x.Format("2006-01-02"), true
	case decimal.Decimal:
		return x.String(), true
	case fmt.Stringer:
		return x.String(), true
	default:
		if str, ok := namedString(v); ok {
			return str, true
		}
		return fmt.Sprint(x), true
	}
}

func paginate[T any](items []T, page, limit int) QueryResult[T] {
	total := len(items)
	result := QueryResult[T]{
		Items: []T{},
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}

	if limit < 1 {
		return result
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	result.Pagination.TotalPages = pages

	// Checked before multiplying so huge pages cannot overflow the offset.
	if page < 1 || page > pages {
		return result
	}

	offset := (page - 1) * limit
	end := total
	if total-offset > limit {
		end = offset + limit
	}
	result.Items = make([]T, end-offset)
	copy(result.Items, items[offset:end])

	return result
}
