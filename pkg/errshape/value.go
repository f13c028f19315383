package errshape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Kind identifies which variant of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON-like error payload of unknown shape: Null, a scalar
// (String, Number, Bool), an Object or an Array. The zero Value is Null.
//
// A Value is immutable; accessors never hand out the backing map or slice.
type Value struct {
	kind Kind
	// text holds the string payload, or the literal text of a number.
	text    string
	boolean bool
	object  map[string]Value
	array   []Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// NewString returns a String Value.
func NewString(s string) Value { return Value{kind: KindString, text: s} }

// NewNumber returns a Number Value holding the literal text of a JSON number.
func NewNumber(literal string) Value { return Value{kind: KindNumber, text: literal} }

// NewBool returns a Bool Value.
func NewBool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// NewObject returns an Object Value. The map is copied.
func NewObject(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: KindObject, object: obj}
}

// NewArray returns an Array Value. The items are copied.
func NewArray(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, array: arr}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsContainer reports whether v is an Object or an Array.
func (v Value) IsContainer() bool { return v.kind == KindObject || v.kind == KindArray }

// Get returns the member named key. ok is false when v is not an Object or
// the key is missing; a member explicitly set to null is present.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.object[key]
	return f, ok
}

// Field returns the member named key, or Null when it is missing.
func (v Value) Field(key string) Value {
	f, _ := v.Get(key)
	return f
}

// Path walks nested object members, returning Null as soon as one is missing.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Field(k)
	}
	return cur
}

// Len returns the number of items of an Array or members of an Object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.array)
	case KindObject:
		return len(v.object)
	default:
		return 0
	}
}

// Index returns the i-th item of an Array, or Null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.array) {
		return Value{}
	}
	return v.array[i]
}

// Keys returns the member names of an Object in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.object))
	for k := range v.object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Str returns the string payload when v is a non-empty String.
func (v Value) Str() (string, bool) {
	if v.kind != KindString || v.text == "" {
		return "", false
	}
	return v.text, true
}

// String returns the text form of v: the raw text of a String, the literal of
// a Number or Bool, "null" for Null, and compact JSON for containers.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString, KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.boolean)
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// MarshalJSON encodes v as canonical JSON; object members are sorted by name.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(v.text), nil
	case KindBool:
		return json.Marshal(v.boolean)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.array {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			b, err := v.object[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("errshape: cannot marshal value of kind %s", v.kind)
	}
}

// UnmarshalJSON decodes any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// ErrTrailingData is returned by Decode when the body holds more than one JSON value.
var ErrTrailingData = errors.New("errshape: trailing data after JSON value")

// Decode parses a JSON document into a Value. Numbers keep their literal text.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("errshape: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData
	}
	return FromAny(raw), nil
}

// DecodeLenient parses body as JSON and falls back to a String holding the
// trimmed body when it is not JSON. An empty body yields Null.
func DecodeLenient(body []byte) Value {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Value{}
	}
	v, err := Decode(trimmed)
	if err != nil {
		return NewString(string(trimmed))
	}
	return v
}

// FromAny converts values produced by encoding/json (or hand-built Go
// literals of the same shape) into a Value. Unsupported types become their
// fmt text form.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return NewString(t)
	case json.Number:
		return NewNumber(t.String())
	case bool:
		return NewBool(t)
	case float64:
		return NewNumber(strconv.FormatFloat(t, 'f', -1, 64))
	case float32:
		return NewNumber(strconv.FormatFloat(float64(t), 'f', -1, 32))
	case int:
		return NewNumber(strconv.Itoa(t))
	case int64:
		return NewNumber(strconv.FormatInt(t, 10))
	case int32:
		return NewNumber(strconv.FormatInt(int64(t), 10))
	case uint:
		return NewNumber(strconv.FormatUint(uint64(t), 10))
	case uint64:
		return NewNumber(strconv.FormatUint(t, 10))
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			obj[k] = FromAny(item)
		}
		return Value{kind: KindObject, object: obj}
	case map[string]Value:
		return NewObject(t)
	case []any:
		arr := make([]Value, len(t))
		for i, item := range t {
			arr[i] = FromAny(item)
		}
		return Value{kind: KindArray, array: arr}
	case []Value:
		return NewArray(t...)
	default:
		return NewString(fmt.Sprint(t))
	}
}
