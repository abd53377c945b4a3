package content

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Resolve merges remote onto defaults and decodes the result into a new T.
//
// Fields are matched by their json names. A remote value that cannot be
// stored in the field's type is ignored and the default is kept, so no field
// of the result is ever left zero because of bad remote data. If T cannot be
// round-tripped at all, defaults is returned unchanged.
//
//	type Hero struct {
//	    Title string   `json:"title"`
//	    Tags  []string `json:"tags"`
//	    Limit int      `json:"limit"`
//	}
//	hero := content.Resolve(Hero{Title: "Welcome", Limit: 3}, content.Tree{
//	    "title": "Hello",
//	    "limit": "many", // not an int, Limit stays 3
//	})
//	// Hero{Title: "Hello", Limit: 3}
func Resolve[T any](defaults T, remote Tree) T {
	out, err := TryResolve(defaults, remote)
	if err != nil {
		return defaults
	}
	return out
}

// TryResolve is Resolve that reports why defaults had to be returned.
func TryResolve[T any](defaults T, remote Tree) (T, error) {
	if remote == nil {
		return defaults, nil
	}

	typ := reflect.TypeFor[T]()
	base, err := ToTree(defaults)
	if err != nil {
		return defaults, err
	}

	merged := Merge(fitTree(typ, base, false), fitTree(typ, remote, true))

	var out T
	if err := decode(merged, &out); err != nil {
		return defaults, errors.Join(ErrDecode, err)
	}
	return out, nil
}

// ToTree converts v to a Tree through its JSON encoding. Numbers are kept as
// json.Number.
func ToTree(v any) (Tree, error) {
	if t, ok := v.(Tree); ok {
		return t, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrNotATree, err)
	}
	var t Tree
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Join(ErrNotATree, err)
	}
	if t == nil {
		return nil, ErrNotATree
	}
	return t, nil
}

func decode(in Tree, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Squash:     true,
		ZeroFields: true,
		Result:     out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			durationHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(in))
}

// durationHook accepts Go duration strings and integer nanoseconds.
func durationHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch d := data.(type) {
	case string:
		return time.ParseDuration(d)
	case json.Number:
		n, err := d.Int64()
		return time.Duration(n), err
	}
	return data, nil
}

// fitTree shapes t for decoding into typ: keys are renamed to their json
// field names and interface-typed values get plain JSON numbers. In strict
// mode values that cannot be stored in their field are dropped; otherwise
// they are passed through.
func fitTree(typ reflect.Type, t Tree, strict bool) Tree {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	switch typ.Kind() {
	case reflect.Struct:
		return fitStruct(typ, t, strict)
	case reflect.Map:
		if typ.Key().Kind() != reflect.String {
			return t
		}
		out := make(Tree, len(t))
		for k, v := range t {
			if fv, ok := fit(typ.Elem(), v, strict); ok {
				out[k] = fv
			}
		}
		return out
	case reflect.Interface:
		return asTree(plain(t))
	}
	return t
}

func fitStruct(typ reflect.Type, t Tree, strict bool) Tree {
	fields := jsonFields(typ)

	// exact names first, then case-insensitive matches in key order
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		_, ea := fields[a]
		_, eb := fields[b]
		switch {
		case ea && !eb:
			return -1
		case eb && !ea:
			return 1
		}
		return strings.Compare(a, b)
	})

	out := make(Tree, len(t))
	for _, k := range keys {
		name, ft, ok := lookupField(fields, k)
		if !ok {
			continue
		}
		if _, taken := out[name]; taken {
			continue
		}
		if fv, ok := fit(ft, t[k], strict); ok {
			out[name] = fv
		}
	}
	return out
}

// fit reports whether v can be stored in a value of type t and returns the
// form to decode. Trees are fitted recursively; a sequence fits only when
// every element does.
func fit(t reflect.Type, v any, strict bool) (any, bool) {
	if KindOf(v) == KindNull {
		return nil, true
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Interface {
		return plain(v), true
	}
	if t.Kind() == reflect.Struct && reflect.TypeOf(v) == t {
		return v, true
	}

	ok := true
	switch {
	case reflect.PointerTo(t).Implements(textUnmarshalerType) && t.Kind() != reflect.String:
		ok = fitsText(t, v)
	case t == durationType:
		ok = fitsDuration(v)
	default:
		switch t.Kind() {
		case reflect.Struct:
			if KindOf(v) != KindTree {
				ok = false
				break
			}
			return fitStruct(t, asTree(v), strict), true
		case reflect.Map:
			if KindOf(v) != KindTree || t.Key().Kind() != reflect.String {
				ok = false
				break
			}
			return fitTree(t, asTree(v), strict), true
		case reflect.Slice, reflect.Array:
			seq, isSeq := asSequence(v)
			if !isSeq || KindOf(v) != KindSequence || (t.Kind() == reflect.Array && len(seq) > t.Len()) {
				ok = false
				break
			}
			out := make([]any, len(seq))
			for i, e := range seq {
				fe, eok := fit(t.Elem(), e, true)
				if !eok {
					ok = false
					break
				}
				out[i] = fe
			}
			if ok {
				return out, true
			}
		default:
			ok = fitsScalar(t, v)
		}
	}

	if !ok && strict {
		return nil, false
	}
	return v, true
}

func fitsScalar(t reflect.Type, v any) bool {
	if n, isNum := v.(json.Number); isNum {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i, err := n.Int64()
			return err == nil && !reflect.New(t).Elem().OverflowInt(i)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			u, err := strconv.ParseUint(n.String(), 10, 64)
			return err == nil && !reflect.New(t).Elem().OverflowUint(u)
		case reflect.Float32, reflect.Float64:
			f, err := n.Float64()
			return err == nil && !reflect.New(t).Elem().OverflowFloat(f)
		}
		return false
	}

	rv := reflect.ValueOf(v)
	switch t.Kind() {
	case reflect.String:
		return rv.Kind() == reflect.String
	case reflect.Bool:
		return rv.Kind() == reflect.Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := integral(rv)
		return ok && !reflect.New(t).Elem().OverflowInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := integral(rv)
		return ok && i >= 0 && !reflect.New(t).Elem().OverflowUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return !reflect.New(t).Elem().OverflowFloat(rv.Float())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
	}
	return false
}

func integral(rv reflect.Value) (int64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		return int64(u), u <= math.MaxInt64
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return int64(f), f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64
	}
	return 0, false
}

func fitsText(t reflect.Type, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	u := reflect.New(t).Interface().(encoding.TextUnmarshaler)
	return u.UnmarshalText([]byte(s)) == nil
}

func fitsDuration(v any) bool {
	switch d := v.(type) {
	case string:
		_, err := time.ParseDuration(d)
		return err == nil
	case json.Number:
		_, err := d.Int64()
		return err == nil
	}
	_, ok := integral(reflect.ValueOf(v))
	return ok
}

// plain converts json.Number values to float64, as encoding/json would for
// an interface{} target.
func plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case Tree:
		return map[string]any(plainTree(x))
	case map[string]any:
		return map[string]any(plainTree(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

func plainTree(t Tree) Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = plain(v)
	}
	return out
}

type jsonField struct {
	name string
	typ  reflect.Type
}

// jsonFields indexes the exported fields of a struct by their JSON names,
// flattening untagged embedded structs like encoding/json does.
func jsonFields(typ reflect.Type) map[string]jsonField {
	fields := make(map[string]jsonField)
	for i := range typ.NumField() {
		f := typ.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			et := f.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				for k, v := range jsonFields(et) {
					if _, ok := fields[k]; !ok {
						fields[k] = v
					}
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = jsonField{name: name, typ: f.Type}
	}
	return fields
}

func lookupField(fields map[string]jsonField, key string) (string, reflect.Type, bool) {
	if f, ok := fields[key]; ok {
		return f.name, f.typ, true
	}
	for name, f := range fields {
		if strings.EqualFold(name, key) {
			return f.name, f.typ, true
		}
	}
	return "", nil, false
}

// String implements fmt.Stringer for debugging output of trees.
func (t Tree) String() string {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Sprintf("content.Tree(%d keys)", len(t))
	}
	return string(data)
}
