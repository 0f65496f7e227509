package reflect

import (
	"reflect"
	"strconv"
	"sync"
)

var (
	typeNameCache sync.Map
	errorType     = reflect.TypeFor[error]()
)

// TypeOf returns the static type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Name returns a package-qualified, human readable name for t.
func Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeNameCache.Load(t); ok {
		return cached.(string)
	}

	name := buildName(t)
	typeNameCache.Store(t, name)
	return name
}

func buildName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildName(t.Elem())
	case reflect.Slice:
		return "[]" + buildName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildName(t.Elem())
	case reflect.Map:
		return "map[" + buildName(t.Key()) + "]" + buildName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildName(t.Elem())
		default:
			return "chan " + buildName(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}

// Implements reports whether values of type t satisfy the interface iface.
func Implements(t, iface reflect.Type) bool {
	if t == nil || iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	return t.Implements(iface)
}

// Func describes a constructor candidate.
type Func struct {
	Value        reflect.Value
	Params       []reflect.Type
	Result       reflect.Type
	ReturnsError bool
}

// InspectFunc validates that fn is a non-variadic function returning either
// (T) or (T, error) and extracts its signature.
func InspectFunc(fn any) (*Func, error) {
	if fn == nil {
		return nil, errNotFunc("nil")
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, errNotFunc(t.String())
	}
	if v.IsNil() {
		return nil, errNotFunc("nil " + t.String())
	}
	if t.IsVariadic() {
		return nil, &SignatureError{Func: t.String(), Reason: "variadic constructors are not supported"}
	}

	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, &SignatureError{Func: t.String(), Reason: "second result must be error"}
		}
	default:
		return nil, &SignatureError{Func: t.String(), Reason: "must return T or (T, error)"}
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return &Func{
		Value:        v,
		Params:       params,
		Result:       t.Out(0),
		ReturnsError: t.NumOut() == 2,
	}, nil
}

// SignatureError reports a constructor with an unsupported shape.
type SignatureError struct {
	Func   string
	Reason string
}

func (e *SignatureError) Error() string {
	return e.Func + ": " + e.Reason
}

func errNotFunc(got string) *SignatureError {
	return &SignatureError{Func: got, Reason: "constructor must be a function"}
}
