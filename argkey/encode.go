package argkey

import (
	"bytes"
	"encoding"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-reflect"
)

// MaxDepth is the maximum nesting depth of an encodable argument.
const MaxDepth = 512

// Encode returns the canonical key of the argument list.
// Two argument lists produce the same key if and only if they are structurally equal
// under the rules described in the package documentation.
func Encode(args ...any) (string, error) {
	e := encoderPool.Get()
	defer encoderPool.Put(e)

	_ = e.buf.WriteByte('[')
	for i, arg := range args {
		if i != 0 {
			_ = e.buf.WriteByte(',')
		}
		e.position = i
		if err := e.encode(reflect.ValueOf(arg), "", 0); err != nil {
			return "", err
		}
	}
	_ = e.buf.WriteByte(']')
	return e.buf.String(), nil
}

// MustEncode is like Encode but panics if the arguments cannot be encoded.
func MustEncode(args ...any) string {
	key, err := Encode(args...)
	if err != nil {
		panic(err)
	}
	return key
}

// visit identifies a reference value on the current encoding path.
type visit struct {
	ptr uintptr
	len int
	typ any
}

type encoder struct {
	buf      bytes.Buffer
	position int
	visiting map[visit]struct{}
}

// Reset clears the encoder for reuse.
func (e *encoder) Reset() {
	e.buf.Reset()
	e.position = 0
	clear(e.visiting)
}

func (e *encoder) fail(path string, err error) error {
	return &Error{Position: e.position, Path: path, Err: err}
}

func (e *encoder) encode(v reflect.Value, path string, depth int) error {
	if depth > MaxDepth {
		return e.fail(path, ErrTooDeep)
	}
	if !v.IsValid() {
		_, _ = e.buf.WriteString("null")
		return nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			_, _ = e.buf.WriteString("null")
			return nil
		}
	}
	if k := v.Kind(); k != reflect.Interface && k != reflect.Ptr {
		if text, ok, err := e.marshalText(v, path); err != nil {
			return err
		} else if ok {
			// tagged with the type so that it never collides with a plain string
			_ = e.buf.WriteByte('<')
			_, _ = e.buf.WriteString(typeName(v.Type()))
			_ = e.buf.WriteByte('>')
			_, _ = e.buf.WriteString(strconv.Quote(text))
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		_, _ = e.buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, _ = e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		_, _ = e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		e.encodeFloat(v.Float())
	case reflect.String:
		_, _ = e.buf.WriteString(strconv.Quote(v.String()))
	case reflect.Interface:
		return e.encode(v.Elem(), path, depth+1)
	case reflect.Ptr:
		return e.enter(v, visit{ptr: v.Pointer(), typ: v.Type()}, path, func() error {
			return e.encode(v.Elem(), path, depth+1)
		})
	case reflect.Slice:
		if v.Len() == 0 {
			return e.encodeList(v, path, depth)
		}
		return e.enter(v, visit{ptr: v.Pointer(), len: v.Len(), typ: v.Type()}, path, func() error {
			return e.encodeList(v, path, depth)
		})
	case reflect.Array:
		return e.encodeList(v, path, depth)
	case reflect.Map:
		return e.enter(v, visit{ptr: v.Pointer(), typ: v.Type()}, path, func() error {
			return e.encodeMap(v, path, depth)
		})
	case reflect.Struct:
		return e.encodeStruct(v, path, depth)
	default:
		return e.fail(path, fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type()))
	}
	return nil
}

// enter runs f while v is marked as being on the current path.
func (e *encoder) enter(v reflect.Value, key visit, path string, f func() error) error {
	if _, ok := e.visiting[key]; ok {
		return e.fail(path, fmt.Errorf("%w: %s", ErrCycle, v.Type()))
	}
	if e.visiting == nil {
		e.visiting = map[visit]struct{}{}
	}
	e.visiting[key] = struct{}{}
	defer delete(e.visiting, key)
	return f()
}

// marshalText returns the text form of v if it implements encoding.TextMarshaler.
// Values read through unexported fields cannot be converted to an interface and are
// encoded structurally instead.
func (e *encoder) marshalText(v reflect.Value, path string) (string, bool, error) {
	if !v.CanInterface() {
		return "", false, nil
	}
	m, ok := v.Interface().(encoding.TextMarshaler)
	if !ok {
		return "", false, nil
	}
	text, err := m.MarshalText()
	if err != nil {
		return "", false, e.fail(path, err)
	}
	return string(text), true, nil
}

func typeName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// encodeFloat writes f at full float64 precision, so float32(0.1) and 0.1 differ.
func (e *encoder) encodeFloat(f float64) {
	switch {
	case math.IsNaN(f):
		_, _ = e.buf.WriteString("NaN")
	case math.IsInf(f, 1):
		_, _ = e.buf.WriteString("+Inf")
	case math.IsInf(f, -1):
		_, _ = e.buf.WriteString("-Inf")
	case f == 0:
		// -0 and +0 are equal
		_ = e.buf.WriteByte('0')
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		// integral values encode like integers
		_, _ = e.buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		_, _ = e.buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}

func (e *encoder) encodeList(v reflect.Value, path string, depth int) error {
	_ = e.buf.WriteByte('[')
	for i := range v.Len() {
		if i != 0 {
			_ = e.buf.WriteByte(',')
		}
		if err := e.encode(v.Index(i), path+"["+strconv.Itoa(i)+"]", depth+1); err != nil {
			return err
		}
	}
	_ = e.buf.WriteByte(']')
	return nil
}

// capture encodes v and returns its encoding without leaving it in the buffer.
func (e *encoder) capture(v reflect.Value, path string, depth int) (string, error) {
	start := e.buf.Len()
	err := e.encode(v, path, depth)
	encoded := string(e.buf.Bytes()[start:])
	e.buf.Truncate(start)
	return encoded, err
}

type mapEntry struct {
	key   string
	value string
}

// encodeMap writes the entries ordered by their encoded keys. Keys are encoded like any
// other value, so the int key 1 and the string key "1" stay apart. Entries whose keys
// encode equally (distinct pointers to equal values) are ordered by their encoded values.
func (e *encoder) encodeMap(v reflect.Value, path string, depth int) error {
	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := e.capture(reflect.ToValue(iter.Key()), path, depth+1)
		if err != nil {
			return err
		}
		value, err := e.capture(reflect.ToValue(iter.Value()), path+"["+key+"]", depth+1)
		if err != nil {
			return err
		}
		entries = append(entries, mapEntry{key: key, value: value})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.value, b.value)
	})

	_ = e.buf.WriteByte('{')
	for i, entry := range entries {
		if i != 0 {
			_ = e.buf.WriteByte(',')
		}
		_, _ = e.buf.WriteString(entry.key)
		_ = e.buf.WriteByte(':')
		_, _ = e.buf.WriteString(entry.value)
	}
	_ = e.buf.WriteByte('}')
	return nil
}

// encodeStruct writes the type followed by every field, exported or not, in declaration
// order. Tags are ignored: two struct values get the same key only if they have the same
// type and all their fields are equal.
func (e *encoder) encodeStruct(v reflect.Value, path string, depth int) error {
	t := v.Type()
	_, _ = e.buf.WriteString(typeName(t))
	_ = e.buf.WriteByte('{')
	for i := range t.NumField() {
		f := t.Field(i)
		if i != 0 {
			_ = e.buf.WriteByte(',')
		}
		_, _ = e.buf.WriteString(strconv.Quote(f.Name))
		_ = e.buf.WriteByte(':')
		if err := e.encode(v.Field(i), path+"."+f.Name, depth+1); err != nil {
			return err
		}
	}
	_ = e.buf.WriteByte('}')
	return nil
}

// resetter is an interface that defines a Reset method.
type resetter interface {
	Reset()
}

// resettablePool is a generic pool for objects that implement the resetter interface.
// Objects are reset before they are returned to the pool.
type resettablePool[H resetter] struct {
	pool sync.Pool
}

// Put adds an object to the pool after resetting it.
func (p *resettablePool[H]) Put(h H) {
	h.Reset()
	p.pool.Put(h)
}

// Get retrieves an object from the pool.
func (p *resettablePool[H]) Get() H {
	return p.pool.Get().(H)
}

var encoderPool = &resettablePool[*encoder]{
	pool: sync.Pool{
		New: func() any {
			return &encoder{}
		},
	},
}
