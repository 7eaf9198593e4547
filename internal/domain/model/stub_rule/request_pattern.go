package model

import (
	"fmt"
	"maps"
)

// RequestPattern describes what an incoming request must look like to be
// answered by a rule. Treat it as immutable once it is part of a StubRule.
type RequestPattern struct {
	URL    string `json:"url" yaml:"url"`
	Method Method `json:"method" yaml:"method"`

	// Query pairs must all be present with equal values.
	Query map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	// ExcludedQuery rejects a request carrying key=value, or the key at all
	// when the value is nil.
	ExcludedQuery map[string]*string `json:"excludedQuery,omitempty" yaml:"excludedQuery,omitempty"`
	Headers       map[string]string  `json:"headers,omitempty" yaml:"headers,omitempty"`

	// BodyJSON is a flat object whose keys must all appear in the request body.
	BodyJSON  any     `json:"bodyJson,omitempty" yaml:"bodyJson,omitempty"`
	BodyRegex *string `json:"bodyRegex,omitempty" yaml:"bodyRegex,omitempty"`
}

// Exclude returns an excluded-query value that rejects exactly key=value.
// A nil value is the wildcard: the key must be absent altogether.
func Exclude(value string) *string {
	return &value
}

// EffectiveMethod treats an unset method as ANY.
func (p RequestPattern) EffectiveMethod() Method {
	if p.Method == "" {
		return MethodANY
	}
	return p.Method
}

func (p RequestPattern) Validate() error {
	if !p.EffectiveMethod().IsValid() {
		return fmt.Errorf("invalid method %q", p.Method)
	}
	if p.BodyJSON != nil {
		if _, err := NormalizeJSON(p.BodyJSON); err != nil {
			return fmt.Errorf("invalid bodyJson: %w", err)
		}
	}
	return nil
}

// Equal is the identity used by the registry: two rules with equal patterns
// are the same rule.
func (p RequestPattern) Equal(other RequestPattern) bool {
	if p.URL != other.URL || p.EffectiveMethod() != other.EffectiveMethod() {
		return false
	}
	if !stringMapEqual(p.Query, other.Query) || !stringMapEqual(p.Headers, other.Headers) {
		return false
	}
	if !excludedEqual(p.ExcludedQuery, other.ExcludedQuery) {
		return false
	}
	if !optionalStringEqual(p.BodyRegex, other.BodyRegex) {
		return false
	}
	if (p.BodyJSON == nil) != (other.BodyJSON == nil) {
		return false
	}
	return p.BodyJSON == nil || JSONEqual(p.BodyJSON, other.BodyJSON)
}

// Clone returns a deep copy so callers can keep building on the original.
func (p RequestPattern) Clone() RequestPattern {
	out := p
	out.Query = maps.Clone(p.Query)
	out.Headers = maps.Clone(p.Headers)
	if p.ExcludedQuery != nil {
		out.ExcludedQuery = make(map[string]*string, len(p.ExcludedQuery))
		for k, v := range p.ExcludedQuery {
			if v != nil {
				v = Exclude(*v)
			}
			out.ExcludedQuery[k] = v
		}
	}
	if p.BodyRegex != nil {
		re := *p.BodyRegex
		out.BodyRegex = &re
	}
	out.BodyJSON = CloneJSON(p.BodyJSON)
	return out
}

func stringMapEqual(a, b map[string]string) bool {
	return len(a) == len(b) && maps.Equal(a, b)
}

func excludedEqual(a, b map[string]*string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !optionalStringEqual(av, bv) {
			return false
		}
	}
	return true
}

func optionalStringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
