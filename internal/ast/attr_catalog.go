package ast

import (
	"slices"
)

// AttrTargetMask describes a set of places an attribute may appear on.
type AttrTargetMask uint16

const (
	AttrTargetNone   AttrTargetMask = 0
	AttrTargetFn     AttrTargetMask = 1 << iota // functions and handlers
	AttrTargetStruct                            // struct declarations
	AttrTargetField                             // struct fields
	AttrTargetMod                               // modules (#[program])
	AttrTargetEnum                              // enums
	AttrTargetAny    = AttrTargetFn | AttrTargetStruct | AttrTargetField | AttrTargetMod | AttrTargetEnum
)

// AttrFlag captures special handling rules beyond the basic applicability matrix.
type AttrFlag uint8

const (
	AttrFlagNone AttrFlag = 0

	// AttrFlagFramework marks attributes that come from the account framework rather than the language.
	AttrFlagFramework AttrFlag = 1 << iota

	// AttrFlagConstraints marks attributes whose arguments are account constraints.
	AttrFlagConstraints
)

// AttrSpec describes a known attribute, its supported targets and special rules.
type AttrSpec struct {
	Name    string
	Targets AttrTargetMask
	Flags   AttrFlag
}

// Allows reports whether the attribute can be applied to the provided target bit.
func (spec AttrSpec) Allows(target AttrTargetMask) bool {
	return spec.Targets&target != 0
}

// HasFlag reports whether the spec contains the given flag.
func (spec AttrSpec) HasFlag(flag AttrFlag) bool {
	return spec.Flags&flag != 0
}

var attrRegistry = map[string]AttrSpec{
	"account":        {Name: "account", Targets: AttrTargetStruct | AttrTargetField, Flags: AttrFlagFramework | AttrFlagConstraints},
	"instruction":    {Name: "instruction", Targets: AttrTargetStruct, Flags: AttrFlagFramework},
	"program":        {Name: "program", Targets: AttrTargetMod, Flags: AttrFlagFramework},
	"access_control": {Name: "access_control", Targets: AttrTargetFn, Flags: AttrFlagFramework},
	"event":          {Name: "event", Targets: AttrTargetStruct, Flags: AttrFlagFramework},
	"error_code":     {Name: "error_code", Targets: AttrTargetEnum, Flags: AttrFlagFramework},
	"constant":       {Name: "constant", Targets: AttrTargetAny, Flags: AttrFlagFramework},
	"zero_copy":      {Name: "zero_copy", Targets: AttrTargetStruct, Flags: AttrFlagFramework},
	"interface":      {Name: "interface", Targets: AttrTargetFn, Flags: AttrFlagFramework},
	"max_len":        {Name: "max_len", Targets: AttrTargetField, Flags: AttrFlagFramework},
	"derive":         {Name: "derive", Targets: AttrTargetStruct | AttrTargetEnum},
	"doc":            {Name: "doc", Targets: AttrTargetAny},
	"cfg":            {Name: "cfg", Targets: AttrTargetAny},
	"cfg_attr":       {Name: "cfg_attr", Targets: AttrTargetAny},
	"allow":          {Name: "allow", Targets: AttrTargetAny},
	"deny":           {Name: "deny", Targets: AttrTargetAny},
	"warn":           {Name: "warn", Targets: AttrTargetAny},
	"inline":         {Name: "inline", Targets: AttrTargetFn},
	"test":           {Name: "test", Targets: AttrTargetFn},
	"repr":           {Name: "repr", Targets: AttrTargetStruct | AttrTargetEnum},
}

// LookupAttr returns metadata for the given attribute path.
func LookupAttr(name string) (AttrSpec, bool) {
	if name == "" {
		return AttrSpec{}, false
	}
	spec, ok := attrRegistry[name]
	return spec, ok
}

// AttrSpecs returns a stable slice of all registered attribute specifications sorted by name.
func AttrSpecs() []AttrSpec {
	names := make([]string, 0, len(attrRegistry))
	for name := range attrRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	result := make([]AttrSpec, 0, len(names))
	for _, name := range names {
		result = append(result, attrRegistry[name])
	}
	return result
}
