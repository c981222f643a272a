// Package model defines user-facing shape descriptions: compact, declarative
// values a model script assembles, which this package lowers into validated
// boundary representations. The lowering is the only bridge between the
// scripting layer and the geometric kernel.
package model

import "strconv"

// Parameters are the string arguments a model is invoked with. Models parse
// the values they care about and fall back to defaults for the rest; an
// unparsable value falls back too rather than failing the build.
type Parameters map[string]string

// Float64 returns the named parameter as a float, or def.
func (p Parameters) Float64(key string, def float64) float64 {
	if s, ok := p[key]; ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return def
}

// Int returns the named parameter as an int, or def.
func (p Parameters) Int(key string, def int) int {
	if s, ok := p[key]; ok {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

// Bool returns the named parameter as a bool, or def.
func (p Parameters) Bool(key string, def bool) bool {
	if s, ok := p[key]; ok {
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}
	return def
}

// String returns the named parameter, or def.
func (p Parameters) String(key, def string) string {
	if s, ok := p[key]; ok {
		return s
	}
	return def
}
