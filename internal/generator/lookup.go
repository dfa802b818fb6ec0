package generator

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vk/sitemeta/internal/table"
)

const defaultCacheSize = 1024

// lookup finds the first row whose instance name equals a given name. It is a
// linear scan memoized per name, so repeated references to the same asset do
// not rescan the table.
type lookup struct {
	table  *table.Table
	header string
	cache  *lru.Cache[string, int]
}

func newLookup(t *table.Table, header string, size int) (*lookup, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, int](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	return &lookup{table: t, header: header, cache: cache}, nil
}

// find returns the first row named name.
func (l *lookup) find(name string) (table.Row, bool) {
	if idx, ok := l.cache.Get(name); ok {
		if idx < 0 {
			return table.Row{}, false
		}
		return l.table.Row(idx), true
	}

	idx := -1
	for i := 0; i < l.table.Len(); i++ {
		if n, ok := nameOf(l.table.Row(i).Get(l.header)); ok && n == name {
			idx = i
			break
		}
	}
	l.cache.Add(name, idx)

	if idx < 0 {
		return table.Row{}, false
	}
	return l.table.Row(idx), true
}

// nameOf renders an instance-name cell as a string key. Missing and blank
// cells have no name.
func nameOf(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		if strings.TrimSpace(x) == "" {
			return "", false
		}
		return x, true
	default:
		return fmt.Sprint(x), true
	}
}
