package format

import (
	"fmt"
	"reflect"
	"strconv"
)

// circular is the marker spew writes for a value already printed higher up
// the same path.
const circular = "<shown>"

// visit identifies a reference by address and type, since a struct and its
// first field share an address.
type visit struct {
	addr uintptr
	typ  reflect.Type
}

func visitOf(v reflect.Value) visit {
	return visit{addr: v.Pointer(), typ: v.Type()}
}

// rendered is text spew writes verbatim through its String method.
type rendered string

func (r rendered) String() string { return string(r) }

var (
	anyType      = reflect.TypeFor[any]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
	errorType    = reflect.TypeFor[error]()
)

// prepare rebuilds v into a tree spew prints the way Format promises. Leaves
// a plugin accepts become their serialized text, as do functions, channels
// and unsafe pointers. In single-line mode strings are quoted. Containers keep
// their nesting so spew's own depth bound and elision marker still apply;
// containers past the bound are emptied since spew elides them unread.
//
// Structs contribute their exported fields only. Values with a String or
// Error method are left for spew to print through that method.
//
// onPath holds the addresses of pointers, maps and slices being prepared,
// so self-referencing values end at the circular marker.
func (p printer) prepare(v reflect.Value, depth int, onPath map[visit]bool) any {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		return p.prepare(v.Elem(), depth, onPath)
	}

	x := v.Interface()
	if s, ok := p.serialize(x); ok {
		return rendered(s)
	}
	if hasMethods(v.Type()) {
		return x
	}

	switch v.Kind() {
	case reflect.String:
		if p.Min {
			return rendered(strconv.Quote(v.String()))
		}
		return x
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rendered(opaqueName(v.Type()))
	case reflect.Pointer:
		if v.IsNil() {
			return rendered("<nil>")
		}
		if onPath[visitOf(v)] {
			return rendered(circular)
		}
		onPath[visitOf(v)] = true
		defer delete(onPath, visitOf(v))
		inner := p.prepare(v.Elem(), depth, onPath)
		return &inner
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice {
			if v.IsNil() {
				return []any(nil)
			}
			if onPath[visitOf(v)] {
				return rendered(circular)
			}
			if v.Len() > 0 {
				onPath[visitOf(v)] = true
				defer delete(onPath, visitOf(v))
			}
		}
		items := make([]any, 0, v.Len())
		if p.elided(depth + 1) {
			return items
		}
		for i := range v.Len() {
			items = append(items, p.prepare(v.Index(i), depth+1, onPath))
		}
		return items
	case reflect.Map:
		t := reflect.MapOf(v.Type().Key(), anyType)
		if v.IsNil() {
			return reflect.Zero(t).Interface()
		}
		if onPath[visitOf(v)] {
			return rendered(circular)
		}
		onPath[visitOf(v)] = true
		defer delete(onPath, visitOf(v))
		out := reflect.MakeMapWithSize(t, v.Len())
		if p.elided(depth + 1) {
			return out.Interface()
		}
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), valueOf(p.prepare(iter.Value(), depth+1, onPath)))
		}
		return out.Interface()
	case reflect.Struct:
		if p.elided(depth + 1) {
			return struct{}{}
		}
		var fields []reflect.StructField
		var values []any
		for i := range v.NumField() {
			field := v.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, reflect.StructField{Name: field.Name, Type: anyType})
			values = append(values, p.prepare(v.Field(i), depth+1, onPath))
		}
		out := reflect.New(reflect.StructOf(fields)).Elem()
		for i, value := range values {
			if value != nil {
				out.Field(i).Set(reflect.ValueOf(value))
			}
		}
		return out.Interface()
	}
	return x
}

// elided reports whether a container at level is past the depth bound.
func (p printer) elided(level int) bool {
	return p.MaxDepth > 0 && level > p.MaxDepth
}

func hasMethods(t reflect.Type) bool {
	for _, iface := range []reflect.Type{stringerType, errorType} {
		if t.Implements(iface) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface)) {
			return true
		}
	}
	return false
}

func opaqueName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Func:
		return "[Function " + t.String() + "]"
	case reflect.Chan:
		return "[Chan " + t.String() + "]"
	}
	return "[Pointer]"
}

func valueOf(x any) reflect.Value {
	if x == nil {
		return reflect.Zero(anyType)
	}
	return reflect.ValueOf(x)
}
