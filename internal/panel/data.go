package panel

import (
	"fmt"
	"slices"
	"strings"
)

// Keys exchanged with embedded views and launched applications.
const (
	KeyCallerTag           = "CALLER_TAG"
	KeySelectionMode       = "SELECTION_MODE"
	KeyInitialize          = "INITIALIZE"
	KeyShowContentCategory = "SHOW_CONTENT_CATEGORY"

	KeyFlickDown   = "FLICK_DOWN"
	KeyFullMode    = "FULL_MODE"
	KeyShowToolbar = "SHOW_TOOLBAR"
	KeyShowPanel   = "SHOW_PANEL"

	KeySelected = "selected"
)

// CallerTag identifies the panel to the views it hosts and to the usage ranker.
const CallerTag = "attach-panel"

const (
	valueEnable  = "enable"
	valueDisable = "disable"
	valueTrue    = "true"
	valueFalse   = "false"
)

// reservedPrefix marks keys that would override the launch operation.
const reservedPrefix = "__LAUNCH_"

// Value is a configuration value: either a string or a list of strings.
type Value struct {
	str    string
	list   []string
	isList bool
}

// String returns a string value.
func String(s string) Value {
	return Value{str: s}
}

// List returns a string-list value.
func List(items ...string) Value {
	return Value{list: slices.Clone(items), isList: true}
}

// IsList reports whether v holds a string list.
func (v Value) IsList() bool { return v.isList }

// Str returns the string held by v. ok is false for list values.
func (v Value) Str() (s string, ok bool) {
	if v.isList {
		return "", false
	}
	return v.str, true
}

// Strings returns the list held by v, or a one-element list for a non-empty
// string value.
func (v Value) Strings() []string {
	if v.isList {
		return slices.Clone(v.list)
	}
	if v.str == "" {
		return nil
	}
	return []string{v.str}
}

func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if v.isList {
		return slices.Equal(v.list, o.list)
	}
	return v.str == o.str
}

func (v Value) GoString() string {
	if v.isList {
		return fmt.Sprintf("List(%q)", v.list)
	}
	return fmt.Sprintf("String(%q)", v.str)
}

// Data is a typed key/value configuration map.
type Data map[string]Value

// Merge copies every entry of src into d, overwriting keys that already exist.
// Keys absent from src are kept. A nil receiver is allocated.
func (d Data) Merge(src Data) Data {
	if d == nil {
		d = make(Data, len(src))
	}
	for k, v := range src {
		d[k] = v
	}
	return d
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		if v.isList {
			v.list = slices.Clone(v.list)
		}
		out[k] = v
	}
	return out
}

// Has reports whether key is present.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Str returns the string value stored under key.
func (d Data) Str(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	return v.Str()
}

// Strings returns the values stored under key as a list.
func (d Data) Strings(key string) []string {
	v, ok := d[key]
	if !ok {
		return nil
	}
	return v.Strings()
}

// Keys returns the keys of d in sorted order.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (d Data) validate() error {
	for k := range d {
		if k == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidParameter)
		}
		if strings.HasPrefix(k, reservedPrefix) {
			return fmt.Errorf("%w: reserved key %q", ErrInvalidParameter, k)
		}
	}
	return nil
}
