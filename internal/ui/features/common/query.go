package common

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/nodeset-analytics/dashgrid/internal/dataset"
)

// filterPrefix marks per-column filters in a query string: filter.name=beta.
const filterPrefix = "filter."

// ParseQuery reads a table query from URL parameters: search, filter.<col>,
// sort, desc, page, page_size and repeated select.
func ParseQuery(v url.Values) (dataset.Query, error) {
	q := dataset.Query{
		Search: v.Get("search"),
		Sort:   v.Get("sort"),
		Select: v["select"],
	}

	for key, vals := range v {
		col, ok := strings.CutPrefix(key, filterPrefix)
		if !ok || col == "" || len(vals) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[col] = vals[0]
	}

	var err error
	if s := v.Get("desc"); s != "" {
		if q.Desc, err = strconv.ParseBool(s); err != nil {
			return dataset.Query{}, fmt.Errorf("invalid desc %q: %w", s, err)
		}
	}
	if q.Page, err = intParam(v, "page"); err != nil {
		return dataset.Query{}, err
	}
	if q.PageSize, err = intParam(v, "page_size"); err != nil {
		return dataset.Query{}, err
	}
	if q.PageSize < 0 {
		return dataset.Query{}, fmt.Errorf("page_size must be positive, got %d", q.PageSize)
	}
	return q, nil
}

func intParam(v url.Values, key string) (int, error) {
	s := v.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

// EncodeQuery is the inverse of ParseQuery. Empty fields are omitted.
func EncodeQuery(q dataset.Query) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	cols := make([]string, 0, len(q.Filters))
	for col := range q.Filters {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		if text := q.Filters[col]; text != "" {
			v.Set(filterPrefix+col, text)
		}
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
		if q.Desc {
			v.Set("desc", "true")
		}
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	for _, key := range q.Select {
		v.Add("select", key)
	}
	return v
}
