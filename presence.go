package sszero

import "sort"

// Presence is the bit flag collected by SynthesizeWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // The override supplied a value here.
	PresenceDefaultApplied                      // The zero value was materialized here.
	PresenceIgnored                             // The override key is not a declared field.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the synthesized value along with presence metadata.
type Decoded struct {
	Value    any
	Presence PresenceMap
}

// Defaulted lists, in sorted order, the paths whose value was synthesized
// without any override. Paths nested below a defaulted path are omitted.
func (pm PresenceMap) Defaulted() []string {
	return pm.topmost(PresenceDefaultApplied)
}

// Ignored lists, in sorted order, the override keys that were dropped
// because the container does not declare them.
func (pm PresenceMap) Ignored() []string {
	return pm.collect(PresenceIgnored)
}

func (pm PresenceMap) collect(flag Presence) []string {
	var out []string
	for k, v := range pm {
		if v&flag != 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (pm PresenceMap) topmost(flag Presence) []string {
	var out []string
	for _, p := range pm.collect(flag) {
		if !pm.ancestorHas(p, flag) {
			out = append(out, p)
		}
	}
	return out
}

// ancestorHas reports whether any proper ancestor of p carries flag.
func (pm PresenceMap) ancestorHas(p string, flag Presence) bool {
	if p == "/" {
		return false
	}
	if pm["/"]&flag != 0 {
		return true
	}
	for i := len(p) - 1; i > 0; i-- {
		if p[i] == '/' && pm[p[:i]]&flag != 0 {
			return true
		}
	}
	return false
}
