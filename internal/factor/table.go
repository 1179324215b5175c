package factor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
)

var (
	ErrEmptyTable      = errors.New("factor table has no categories")
	ErrDuplicateKey    = errors.New("duplicate category key")
	ErrInvalidCategory = errors.New("invalid category")
)

// Category is a default activity with its scope, unit and coefficient.
type Category struct {
	Key    string               `json:"key" mapstructure:"key"`
	Label  string               `json:"label" mapstructure:"label"`
	Scope  emissiondomain.Scope `json:"scope" mapstructure:"scope"`
	Unit   string               `json:"unit" mapstructure:"unit"`
	Factor float64              `json:"factor" mapstructure:"factor"`
}

// Table maps activity keys to kg CO2e per unit. A Table is never mutated
// after NewTable returns, so it is safe to share between goroutines.
type Table struct {
	factors    map[string]float64
	categories []Category
	index      map[string]int
}

// NewTable builds a table from raw activity factors and the category catalog.
// Category factors are also reachable through Factor by their key.
func NewTable(factors map[string]float64, categories []Category) *Table {
	t := &Table{
		factors:    make(map[string]float64, len(factors)+len(categories)),
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for key, value := range factors {
		t.factors[normalizeKey(key)] = value
	}
	for _, c := range categories {
		key := normalizeKey(c.Key)
		if _, exists := t.index[key]; exists {
			continue
		}
		c.Key = key
		t.index[key] = len(t.categories)
		t.categories = append(t.categories, c)
		if _, exists := t.factors[key]; !exists {
			t.factors[key] = c.Factor
		}
	}
	return t
}

// Factor looks up a coefficient by activity key, ignoring case.
func (t *Table) Factor(key string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	value, ok := t.factors[normalizeKey(key)]
	return value, ok
}

// Category returns the catalog entry for key.
func (t *Table) Category(key string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	idx, ok := t.index[normalizeKey(key)]
	if !ok {
		return Category{}, false
	}
	return t.categories[idx], true
}

// Categories returns a copy of the catalog in declaration order.
func (t *Table) Categories() []Category {
	if t == nil {
		return nil
	}
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Keys returns every known activity key, sorted.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.factors))
	for key := range t.factors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every category carries a persisted scope and a unit.
func (t *Table) Validate() error {
	if t == nil || len(t.categories) == 0 {
		return ErrEmptyTable
	}
	for _, c := range t.categories {
		if c.Key == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidCategory)
		}
		if !c.Scope.Valid() {
			return fmt.Errorf("%w: %s has scope %q", ErrInvalidCategory, c.Key, c.Scope)
		}
		if strings.TrimSpace(c.Unit) == "" {
			return fmt.Errorf("%w: %s has no unit", ErrInvalidCategory, c.Key)
		}
	}
	return nil
}

// ValidateCategories rejects duplicate keys before a table is built from them.
func ValidateCategories(categories []Category) error {
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		key := normalizeKey(c.Key)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		seen[key] = struct{}{}
	}
	return NewTable(nil, categories).Validate()
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
