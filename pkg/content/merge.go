package content

import (
	"reflect"
)

// Tree is a nested content document. Values are primitives (strings,
// numbers, booleans), sequences (any slice or array) or nested trees
// (Tree or map[string]any).
type Tree map[string]any

// Kind classifies a tree value for merging.
type Kind int

const (
	KindNull Kind = iota
	KindPrimitive
	KindSequence
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindSequence:
		return "sequence"
	case KindTree:
		return "tree"
	default:
		return "primitive"
	}
}

// KindOf reports how Merge treats v. Untyped nil and nil pointers, maps
// and slices are null. []byte is a primitive.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case Tree, map[string]any:
		if isNilValue(v) {
			return KindNull
		}
		return KindTree
	case []any:
		if isNilValue(v) {
			return KindNull
		}
		return KindSequence
	case []byte, string, bool:
		return KindPrimitive
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}
		return KindSequence
	case reflect.Array:
		return KindSequence
	case reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type().Key().Kind() == reflect.String {
			return KindTree
		}
	}
	return KindPrimitive
}

// Merge overlays remote onto defaults and returns the result.
//
// A nil remote returns defaults as is. Otherwise every key of remote is
// applied in turn: null values are skipped, sequences replace the default
// wholesale, trees are merged recursively when the default is also a tree,
// and anything else overwrites the default. Keys present only in defaults
// are kept.
//
// Neither argument is modified. Values that remote does not touch are shared
// with defaults rather than copied.
//
//	defaults := content.Tree{
//	    "title": "Welcome",
//	    "hero":  content.Tree{"cta": "Sign up", "image": "/hero.png"},
//	    "items": []any{1, 2, 3},
//	}
//	remote := content.Tree{
//	    "title": nil,                        // skipped, default kept
//	    "hero":  content.Tree{"cta": "Join"}, // merged, image kept
//	    "items": []any{9},                    // replaces the whole sequence
//	}
//	merged := content.Merge(defaults, remote)
//	// {"title":"Welcome","hero":{"cta":"Join","image":"/hero.png"},"items":[9]}
func Merge(defaults, remote Tree) Tree {
	if remote == nil {
		return defaults
	}

	out := make(Tree, len(defaults)+len(remote))
	for k, v := range defaults {
		out[k] = v
	}

	for k, rv := range remote {
		switch KindOf(rv) {
		case KindNull:
			continue
		case KindSequence:
			out[k] = rv
		case KindTree:
			if defaultTree, ok := treeValue(out[k]); ok {
				out[k] = Merge(defaultTree, asTree(rv))
			} else {
				out[k] = rv
			}
		default:
			out[k] = rv
		}
	}
	return out
}

// Clone deep-copies the trees and []any sequences of t.
func Clone(t Tree) Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch KindOf(v) {
	case KindTree:
		return Clone(asTree(v))
	case KindSequence:
		if s, ok := v.([]any); ok {
			c := make([]any, len(s))
			for i, e := range s {
				c[i] = cloneValue(e)
			}
			return c
		}
	}
	return v
}

func treeValue(v any) (Tree, bool) {
	if KindOf(v) != KindTree {
		return nil, false
	}
	return asTree(v), true
}

// asTree converts a value of KindTree to a Tree.
func asTree(v any) Tree {
	switch t := v.(type) {
	case Tree:
		return t
	case map[string]any:
		return Tree(t)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(Tree, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	}
	return nil
}

// asSequence converts a value of KindSequence to []any.
func asSequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
