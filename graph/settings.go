// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Build setting keys touched by the package baseline
const (
	FrameworkSearchPaths             = "FRAMEWORK_SEARCH_PATHS"
	PreprocessorDefinitions          = "GCC_PREPROCESSOR_DEFINITIONS"
	SwiftActiveCompilationConditions = "SWIFT_ACTIVE_COMPILATION_CONDITIONS"
	HeaderSearchPaths                = "HEADER_SEARCH_PATHS"
	OtherCFlags                      = "OTHER_CFLAGS"
	OtherCPlusPlusFlags              = "OTHER_CPLUSPLUSFLAGS"
	OtherSwiftFlags                  = "OTHER_SWIFT_FLAGS"
	OtherLinkerFlags                 = "OTHER_LDFLAGS"

	packageFrameworkSearchPath = "$(PLATFORM_DIR)/Developer/Library/Frameworks"
	packageDefinition          = "SWIFT_PACKAGE=1"
	packageCondition           = "SWIFT_PACKAGE"
)

// SettingValue is either a scalar string or an ordered list of strings
type SettingValue struct {
	array  bool
	scalar string
	values []string
}

// StringValue returns a scalar setting value
func StringValue(s string) SettingValue {
	return SettingValue{scalar: s}
}

// ArrayValue returns an array setting value
func ArrayValue(values ...string) SettingValue {
	return SettingValue{array: true, values: append([]string{}, values...)}
}

// IsArray reports whether the value is array-valued
func (v SettingValue) IsArray() bool {
	return v.array
}

// String returns the scalar value, or the array joined by spaces
func (v SettingValue) String() string {
	if !v.array {
		return v.scalar
	}
	return strings.Join(v.values, " ")
}

// Values returns the value as a list. A scalar is a one-element list,
// an empty scalar is an empty list.
func (v SettingValue) Values() []string {
	if v.array {
		return append([]string{}, v.values...)
	}
	if v.scalar == "" {
		return []string{}
	}
	return []string{v.scalar}
}

// Equal compares kind and content
func (v SettingValue) Equal(other SettingValue) bool {
	if v.array != other.array {
		return false
	}
	if !v.array {
		return v.scalar == other.scalar
	}
	if len(v.values) != len(other.values) {
		return false
	}
	for i := range v.values {
		if v.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

func (v SettingValue) MarshalJSON() ([]byte, error) {
	if v.array {
		return json.Marshal(v.Values())
	}
	return json.Marshal(v.scalar)
}

func (v *SettingValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("setting value must be a string or an array of strings: %w", err)
	}
	*v = ArrayValue(values...)
	return nil
}

// SettingsDictionary maps build setting keys to values
type SettingsDictionary map[string]SettingValue

// Copy returns an independent copy of the dictionary
func (d SettingsDictionary) Copy() SettingsDictionary {
	if d == nil {
		return nil
	}
	out := make(SettingsDictionary, len(d))
	for k, v := range d {
		if v.array {
			v = ArrayValue(v.values...)
		}
		out[k] = v
	}
	return out
}

// Equal compares both dictionaries key by key
func (d SettingsDictionary) Equal(other SettingsDictionary) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		o, ok := other[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// Settings holds base settings and per-configuration overrides
type Settings struct {
	Base           SettingsDictionary            `json:"base,omitempty"`
	Configurations map[string]SettingsDictionary `json:"configurations,omitempty"`
}

// Copy returns an independent copy
func (s Settings) Copy() Settings {
	out := Settings{Base: s.Base.Copy()}
	if s.Configurations != nil {
		out.Configurations = make(map[string]SettingsDictionary, len(s.Configurations))
		for name, dict := range s.Configurations {
			out.Configurations[name] = dict.Copy()
		}
	}
	return out
}

// Equal compares base and configurations
func (s Settings) Equal(other Settings) bool {
	if !s.Base.Equal(other.Base) || len(s.Configurations) != len(other.Configurations) {
		return false
	}
	for name, dict := range s.Configurations {
		o, ok := other.Configurations[name]
		if !ok || !dict.Equal(o) {
			return false
		}
	}
	return true
}

// PackageSettings merges custom settings of a package target with the
// baseline every package target needs. Preprocessor definitions are sorted,
// framework search paths and compilation conditions keep the baseline entry
// first followed by the custom ones in order. Custom values are never dropped and duplicates are
// removed, so applying it twice gives the same result.
func PackageSettings(custom SettingsDictionary) Settings {
	dict := custom.Copy()
	if dict == nil {
		dict = SettingsDictionary{}
	}

	frameworks := []string{packageFrameworkSearchPath}
	if v, ok := dict[FrameworkSearchPaths]; ok {
		frameworks = append(frameworks, v.Values()...)
	}
	dict[FrameworkSearchPaths] = ArrayValue(uniqueStrings(frameworks)...)

	var definitions []string
	if v, ok := dict[PreprocessorDefinitions]; ok {
		definitions = v.Values()
	}
	definitions = uniqueStrings(append(definitions, packageDefinition))
	sort.Strings(definitions)
	dict[PreprocessorDefinitions] = ArrayValue(definitions...)

	conditions := []string{packageCondition}
	if v, ok := dict[SwiftActiveCompilationConditions]; ok {
		conditions = append(conditions, v.Values()...)
	}
	dict[SwiftActiveCompilationConditions] = ArrayValue(uniqueStrings(conditions)...)

	return Settings{Base: dict}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
