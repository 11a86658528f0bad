// Package units implements the unit registry, linear and affine conversions,
// preferred-unit selection per measurement system, servings scaling and the
// cooking-friendly display rounding.
package units

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/panpapadopoulos/cooking/internal/core/language"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryYAML []byte

// Code is a canonical registry key such as "g" or "fl oz".
type Code string

// Type is the physical quantity a unit measures.
type Type string

const (
	Weight      Type = "weight"
	Volume      Type = "volume"
	Temperature Type = "temperature"
)

// System is a measurement system used to pick display units.
type System string

const (
	Metric  System = "metric"
	US      System = "us"
	Cooking System = "cooking"
)

// Systems lists every measurement system in display order.
var Systems = []System{Metric, US, Cooking}

// Definition describes one unit of the registry.
type Definition struct {
	Code    Code     `yaml:"code" json:"code"`
	Type    Type     `yaml:"type" json:"type"`
	Base    float64  `yaml:"base" json:"base,omitempty"`
	System  System   `yaml:"system" json:"system"`
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Registry is the immutable unit table. A loaded Registry is safe for
// concurrent use because nothing mutates it after Load returns.
type Registry struct {
	defs      map[Code]Definition
	canonical map[string]Code
	aliases   map[string]Code
	preferred map[System]map[Type]Code
	order     []Code
}

type document struct {
	Units     []Definition             `yaml:"units"`
	Preferred map[System]map[Type]Code `yaml:"preferred"`
}

var defaultRegistry = mustLoad(registryYAML)

// Default returns the registry built from the embedded unit table.
func Default() *Registry {
	return defaultRegistry
}

func mustLoad(data []byte) *Registry {
	r, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("units: invalid embedded registry: %v", err))
	}
	return r
}

// Load parses a unit table document and checks it for consistency.
func Load(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse unit table: %w", err)
	}

	r := &Registry{
		defs:      make(map[Code]Definition, len(doc.Units)),
		canonical: make(map[string]Code, len(doc.Units)),
		aliases:   make(map[string]Code),
		preferred: make(map[System]map[Type]Code, len(doc.Preferred)),
	}

	for _, def := range doc.Units {
		if def.Code == "" {
			return nil, fmt.Errorf("unit without code")
		}
		if _, dup := r.defs[def.Code]; dup {
			return nil, fmt.Errorf("duplicate unit %q", def.Code)
		}
		switch def.Type {
		case Weight, Volume:
			if def.Base <= 0 {
				return nil, fmt.Errorf("unit %q: base must be positive", def.Code)
			}
		case Temperature:
		default:
			return nil, fmt.Errorf("unit %q: unknown type %q", def.Code, def.Type)
		}
		if !def.System.Valid() {
			return nil, fmt.Errorf("unit %q: unknown system %q", def.Code, def.System)
		}
		r.defs[def.Code] = def
		r.canonical[language.Key(string(def.Code))] = def.Code
		r.order = append(r.order, def.Code)
	}

	for _, def := range doc.Units {
		for _, alias := range def.Aliases {
			key := language.Key(alias)
			if owner, taken := r.aliases[key]; taken && owner != def.Code {
				return nil, fmt.Errorf("alias %q claimed by %q and %q", alias, owner, def.Code)
			}
			r.aliases[key] = def.Code
		}
	}

	for _, system := range Systems {
		byType, ok := doc.Preferred[system]
		if !ok {
			return nil, fmt.Errorf("no preferred units for system %q", system)
		}
		for _, typ := range []Type{Weight, Volume, Temperature} {
			code, ok := byType[typ]
			if !ok {
				return nil, fmt.Errorf("no preferred %s unit for system %q", typ, system)
			}
			def, known := r.defs[code]
			if !known || def.Type != typ {
				return nil, fmt.Errorf("preferred %s unit %q for %q is not a %s unit", typ, code, system, typ)
			}
		}
		r.preferred[system] = byType
	}

	return r, nil
}

// Valid reports whether s is one of the known measurement systems.
func (s System) Valid() bool {
	return s == Metric || s == US || s == Cooking
}

// ParseSystem accepts "metric", "us" and "cooking" in any case.
func ParseSystem(s string) (System, bool) {
	sys := System(language.Key(s))
	return sys, sys.Valid()
}

// Normalize resolves a raw unit string: a caseless match against the
// canonical codes first, then the alias table. ok is false for unknown units.
func (r *Registry) Normalize(raw string) (Code, bool) {
	key := language.Key(raw)
	if key == "" {
		return "", false
	}
	if code, ok := r.canonical[key]; ok {
		return code, true
	}
	code, ok := r.aliases[key]
	return code, ok
}

// Lookup returns the definition of a canonical code.
func (r *Registry) Lookup(code Code) (Definition, bool) {
	def, ok := r.defs[code]
	return def, ok
}

// Preferred returns the display unit for a system and unit type.
func (r *Registry) Preferred(system System, typ Type) (Code, bool) {
	byType, ok := r.preferred[system]
	if !ok {
		return "", false
	}
	code, ok := byType[typ]
	return code, ok
}

// Definitions returns the unit table in document order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.defs[code])
	}
	return out
}

// IngredientTokens lists every code and alias a recipe line may lead with,
// longest first. Temperature units are left out: "1 c" in an ingredient line
// means nothing useful and "f" would swallow words.
func (r *Registry) IngredientTokens() []string {
	seen := make(map[string]bool)
	var tokens []string
	add := func(tok string) {
		if !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	for _, code := range r.order {
		def := r.defs[code]
		if def.Type == Temperature {
			continue
		}
		add(string(def.Code))
		for _, alias := range def.Aliases {
			add(alias)
		}
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		li, lj := len([]rune(tokens[i])), len([]rune(tokens[j]))
		if li != lj {
			return li > lj
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

// Normalize resolves raw against the default registry.
func Normalize(raw string) (Code, bool) {
	return defaultRegistry.Normalize(raw)
}

// Lookup finds a canonical code in the default registry.
func Lookup(code Code) (Definition, bool) {
	return defaultRegistry.Lookup(code)
}

// Preferred looks up the default registry's display unit.
func Preferred(system System, typ Type) (Code, bool) {
	return defaultRegistry.Preferred(system, typ)
}
