package runtime

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/auroralang/aurora/ast"
)

// Kind tags the closed set of AuroraLang runtime value shapes.
type Kind int

const (
	KNull Kind = iota
	KBool
	KNumber
	KString
	KArray
	KRecord
	KFunction
	KClass
	KBuiltin
	KHostObject
)

func (k Kind) String() string {
	switch k {
	case KNull:
		return "null"
	case KBool:
		return "boolean"
	case KNumber:
		return "number"
	case KString:
		return "string"
	case KArray:
		return "array"
	case KRecord:
		return "record"
	case KFunction:
		return "function"
	case KClass:
		return "class"
	case KBuiltin:
		return "builtin"
	case KHostObject:
		return "host-object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over every AuroraLang runtime shape. Only the
// field matching Kind is meaningful.
type Value struct {
	Kind Kind

	Bool   bool
	Number float64
	Str    string

	Array  *Array
	Record *Record

	Function *Function
	Class    *Class
	Builtin  *Builtin
	Host     *HostObject
}

var (
	Null  = &Value{Kind: KNull}
	True  = &Value{Kind: KBool, Bool: true}
	False = &Value{Kind: KBool, Bool: false}
)

func NewNumber(n float64) *Value { return &Value{Kind: KNumber, Number: n} }
func NewString(s string) *Value  { return &Value{Kind: KString, Str: s} }

func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

// Array is AuroraLang's mutable, ordered, heterogeneous sequence type.
type Array struct {
	Elems []*Value
}

func NewArray(elems []*Value) *Value {
	return &Value{Kind: KArray, Array: &Array{Elems: elems}}
}

// Record is AuroraLang's mutable, ordered-key struct/map type. An instance
// of a class is a Record whose Class field is non-nil: its fields hold
// instance state plus one function per class method, installed on each
// new instance when it is constructed (see interpreter.instantiate).
type Record struct {
	Fields map[string]*Value
	Order  []string
	Class  *Class // non-nil for class instances
}

func NewRecord() *Record {
	return &Record{Fields: make(map[string]*Value)}
}

func NewRecordValue() *Value {
	return &Value{Kind: KRecord, Record: NewRecord()}
}

// Get returns the field's value and whether it was present.
func (r *Record) Get(name string) (*Value, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Set inserts or overwrites a field, tracking first-insertion order for
// display/iteration purposes.
func (r *Record) Set(name string, v *Value) {
	if _, exists := r.Fields[name]; !exists {
		r.Order = append(r.Order, name)
	}
	r.Fields[name] = v
}

// SortedKeys returns the field names in insertion order (used by Display;
// kept distinct from a plain map iteration, which Go randomizes).
func (r *Record) SortedKeys() []string {
	keys := make([]string, len(r.Order))
	copy(keys, r.Order)
	return keys
}

// Function is a closure: either a named/anonymous function literal or a
// class method, together with the environment it closed over. `this` is not
// part of the closure — it is bound per call, from the shape of the call
// expression (see interpreter.evalCall).
type Function struct {
	Name   string
	Params []string
	Body   *ast.Block
	Env    *Environment
}

func NewFunction(f *Function) *Value {
	return &Value{Kind: KFunction, Function: f}
}

// Class is a class declaration's runtime representation: its method table
// and the environment the class body closed over (used to resolve names
// referenced in method bodies other than fields and other methods).
type Class struct {
	Name    string
	Methods map[string]*ast.MethodDef
	Env     *Environment
}

func NewClassValue(c *Class) *Value {
	return &Value{Kind: KClass, Class: c}
}

// BuiltinFunc is the Go function signature for a native AuroraLang builtin.
// this is non-nil only when the builtin was called through a property
// access (`obj.fn(...)`); it is then the receiver object.
type BuiltinFunc func(this *Value, args []*Value) (*Value, error)

// Builtin wraps a Go-implemented function so it can flow through
// AuroraLang values like any other callable.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func NewBuiltin(name string, fn BuiltinFunc) *Value {
	return &Value{Kind: KBuiltin, Builtin: &Builtin{Name: name, Fn: fn}}
}

// HostObject wraps an opaque Go resource (open file, socket, subprocess)
// exposed to scripts as an inert handle. Tag identifies the resource kind
// for error messages; Data holds the Go-side handle.
type HostObject struct {
	Tag  string
	Data interface{}
}

func NewHostObject(tag string, data interface{}) *Value {
	return &Value{Kind: KHostObject, Host: &HostObject{Tag: tag, Data: data}}
}

// Truthy implements AuroraLang's truthiness rule (spec.md §4.4): null and
// false are falsy, everything else — including 0 and "" — is truthy.
func (v *Value) Truthy() bool {
	switch v.Kind {
	case KNull:
		return false
	case KBool:
		return v.Bool
	default:
		return true
	}
}

// Display renders v the way `print` and string coercion do.
func (v *Value) Display() string {
	switch v.Kind {
	case KNull:
		return "null"
	case KBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KNumber:
		return formatNumber(v.Number)
	case KString:
		return v.Str
	case KArray:
		parts := make([]string, len(v.Array.Elems))
		for i, e := range v.Array.Elems {
			parts[i] = e.reprElement()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KRecord:
		if v.Record.Class != nil {
			return fmt.Sprintf("<instance %s>", v.Record.Class.Name)
		}
		keys := v.Record.SortedKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			val, _ := v.Record.Get(k)
			parts[i] = fmt.Sprintf("%s: %s", k, val.reprElement())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KFunction:
		if v.Function.Name != "" {
			return fmt.Sprintf("<function %s>", v.Function.Name)
		}
		return "<anonymous function>"
	case KClass:
		return fmt.Sprintf("<class %s>", v.Class.Name)
	case KBuiltin:
		return fmt.Sprintf("<builtin %s>", v.Builtin.Name)
	case KHostObject:
		return fmt.Sprintf("<%s>", v.Host.Tag)
	default:
		return "<unknown>"
	}
}

// reprElement renders v the way it appears nested inside an array/record
// display (strings are quoted, unlike top-level Display).
func (v *Value) reprElement() string {
	if v.Kind == KString {
		return strconv.Quote(v.Str)
	}
	return v.Display()
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// TypeName returns the name reported by the `typeOf` builtin.
func (v *Value) TypeName() string {
	if v.Kind == KRecord && v.Record.Class != nil {
		return v.Record.Class.Name
	}
	return v.Kind.String()
}

// Equal implements AuroraLang's `==` structural equality (spec.md §4.4,
// Open Question resolution): numbers/strings/booleans/null compare by
// value, arrays and records compare structurally by contents, everything
// else (functions, classes, instances, builtins, host objects) compares by
// identity.
func Equal(a, b *Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KNull:
		return true
	case KBool:
		return a.Bool == b.Bool
	case KNumber:
		return a.Number == b.Number
	case KString:
		return a.Str == b.Str
	case KArray:
		if len(a.Array.Elems) != len(b.Array.Elems) {
			return false
		}
		for i := range a.Array.Elems {
			if !Equal(a.Array.Elems[i], b.Array.Elems[i]) {
				return false
			}
		}
		return true
	case KRecord:
		if a.Record.Class != nil || b.Record.Class != nil {
			return a.Record == b.Record
		}
		ak, bk := a.Record.SortedKeys(), b.Record.SortedKeys()
		if len(ak) != len(bk) {
			return false
		}
		sort.Strings(ak)
		sort.Strings(bk)
		for i := range ak {
			if ak[i] != bk[i] {
				return false
			}
			av, _ := a.Record.Get(ak[i])
			bv, _ := b.Record.Get(bk[i])
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
