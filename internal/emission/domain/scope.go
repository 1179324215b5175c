package domain

import (
	"strings"
)

// Scope is the GHG Protocol classification of an emission source.
type Scope string

const (
	Scope1 Scope = "SCOPE_1"
	Scope2 Scope = "SCOPE_2"
	Scope3 Scope = "SCOPE_3"
)

// Scopes lists the three persisted scopes in display order.
var Scopes = []Scope{Scope1, Scope2, Scope3}

func (s Scope) Valid() bool {
	switch s {
	case Scope1, Scope2, Scope3:
		return true
	default:
		return false
	}
}

func (s Scope) String() string {
	return string(s)
}

// ParseScope accepts "SCOPE_1", "scope1", "scope 1" or "1".
func ParseScope(raw string) (Scope, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	value = strings.NewReplacer("_", "", " ", "", "-", "").Replace(value)
	value = strings.TrimPrefix(value, "SCOPE")
	switch value {
	case "1":
		return Scope1, nil
	case "2":
		return Scope2, nil
	case "3":
		return Scope3, nil
	default:
		return "", ErrInvalidScope
	}
}
