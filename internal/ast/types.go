package ast

import (
	"anchorsec/internal/source"
)

type TypeKind uint8

const (
	TypePath      TypeKind = iota // Account<'info, Vault>
	TypeRef                       // &'a mut T
	TypePtr                       // *const T
	TypeTuple                     // (A, B), ()
	TypeArray                     // [T; N]
	TypeSlice                     // [T]
	TypeFn                        // fn(A) -> B
	TypeImplTrait                 // impl Trait + 'a
	TypeDyn                       // dyn Trait
	TypeInfer                     // _
	TypeNever                     // !
	TypeQualified                 // <T as Trait>::Assoc
	TypeMacro                     // vec_type!(...)
	TypeParen                     // (T)
)

type Type struct {
	Kind    TypeKind
	Span    source.Span
	Payload PayloadID
}

type TypePathData struct{ Path Path }

type TypeRefData struct {
	Lifetime string
	Mut      bool
	Elem     TypeID
}

type TypePtrData struct {
	Mut  bool
	Elem TypeID
}

type TypeTupleData struct{ Elems []TypeID }

type TypeArrayData struct {
	Elem TypeID
	Len  ExprID // NoExprID для срезов
}

type TypeFnData struct {
	Params []TypeID
	Ret    TypeID
	Unsafe bool
	ABI    string
}

// Bound: `Trait`, `?Sized`, `'a` или `for<'a> Fn(&'a u8)`.
type Bound struct {
	Lifetime string
	Trait    TypeID
	Maybe    bool
	Span     source.Span
}

type TypeBoundsData struct{ Bounds []Bound }

type TypeQualifiedData struct {
	Self  TypeID
	Trait TypeID // NoTypeID для <T>::X
	Rest  Path
}

type TypeMacroData struct{ Mac MacroCall }

// Types manages allocation of type nodes.
type Types struct {
	Arena      *Arena[Type]
	Paths      *Arena[TypePathData]
	Refs       *Arena[TypeRefData]
	Ptrs       *Arena[TypePtrData]
	Tuples     *Arena[TypeTupleData]
	Arrays     *Arena[TypeArrayData]
	Fns        *Arena[TypeFnData]
	Bounds     *Arena[TypeBoundsData]
	Qualifieds *Arena[TypeQualifiedData]
	Macros     *Arena[TypeMacroData]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Types{
		Arena:      NewArena[Type](capHint),
		Paths:      NewArena[TypePathData](capHint),
		Refs:       NewArena[TypeRefData](capHint / 4),
		Ptrs:       NewArena[TypePtrData](0),
		Tuples:     NewArena[TypeTupleData](capHint / 8),
		Arrays:     NewArena[TypeArrayData](capHint / 8),
		Fns:        NewArena[TypeFnData](0),
		Bounds:     NewArena[TypeBoundsData](0),
		Qualifieds: NewArena[TypeQualifiedData](0),
		Macros:     NewArena[TypeMacroData](0),
	}
}

func (t *Types) new(kind TypeKind, span source.Span, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(Type{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (t *Types) Get(id TypeID) *Type {
	return t.Arena.Get(uint32(id))
}

func (t *Types) payload(id TypeID, kinds ...TypeKind) (uint32, bool) {
	ty := t.Get(id)
	if ty == nil {
		return 0, false
	}
	for _, k := range kinds {
		if ty.Kind == k {
			return uint32(ty.Payload), true
		}
	}
	return 0, false
}

func (t *Types) NewPath(span source.Span, path Path) TypeID {
	return t.new(TypePath, span, t.Paths.Allocate(TypePathData{Path: path}))
}

func (t *Types) Path(id TypeID) (*TypePathData, bool) {
	p, ok := t.payload(id, TypePath)
	if !ok {
		return nil, false
	}
	return t.Paths.Get(p), true
}

func (t *Types) NewRef(span source.Span, lifetime string, mut bool, elem TypeID) TypeID {
	return t.new(TypeRef, span, t.Refs.Allocate(TypeRefData{Lifetime: lifetime, Mut: mut, Elem: elem}))
}

func (t *Types) Ref(id TypeID) (*TypeRefData, bool) {
	p, ok := t.payload(id, TypeRef)
	if !ok {
		return nil, false
	}
	return t.Refs.Get(p), true
}

func (t *Types) NewPtr(span source.Span, mut bool, elem TypeID) TypeID {
	return t.new(TypePtr, span, t.Ptrs.Allocate(TypePtrData{Mut: mut, Elem: elem}))
}

func (t *Types) Ptr(id TypeID) (*TypePtrData, bool) {
	p, ok := t.payload(id, TypePtr)
	if !ok {
		return nil, false
	}
	return t.Ptrs.Get(p), true
}

func (t *Types) NewTuple(span source.Span, elems []TypeID) TypeID {
	return t.new(TypeTuple, span, t.Tuples.Allocate(TypeTupleData{Elems: elems}))
}

func (t *Types) Tuple(id TypeID) (*TypeTupleData, bool) {
	p, ok := t.payload(id, TypeTuple)
	if !ok {
		return nil, false
	}
	return t.Tuples.Get(p), true
}

// NewArray creates [T; N]; a NoExprID length makes a slice type.
func (t *Types) NewArray(span source.Span, elem TypeID, length ExprID) TypeID {
	kind := TypeArray
	if !length.IsValid() {
		kind = TypeSlice
	}
	return t.new(kind, span, t.Arrays.Allocate(TypeArrayData{Elem: elem, Len: length}))
}

func (t *Types) Array(id TypeID) (*TypeArrayData, bool) {
	p, ok := t.payload(id, TypeArray, TypeSlice)
	if !ok {
		return nil, false
	}
	return t.Arrays.Get(p), true
}

func (t *Types) NewFn(span source.Span, data TypeFnData) TypeID {
	return t.new(TypeFn, span, t.Fns.Allocate(data))
}

func (t *Types) Fn(id TypeID) (*TypeFnData, bool) {
	p, ok := t.payload(id, TypeFn)
	if !ok {
		return nil, false
	}
	return t.Fns.Get(p), true
}

// NewBounds creates `impl A + B` or `dyn A + B` depending on kind.
func (t *Types) NewBounds(kind TypeKind, span source.Span, bounds []Bound) TypeID {
	return t.new(kind, span, t.Bounds.Allocate(TypeBoundsData{Bounds: bounds}))
}

func (t *Types) BoundList(id TypeID) (*TypeBoundsData, bool) {
	p, ok := t.payload(id, TypeImplTrait, TypeDyn)
	if !ok {
		return nil, false
	}
	return t.Bounds.Get(p), true
}

func (t *Types) NewQualified(span source.Span, self, trait TypeID, rest Path) TypeID {
	return t.new(TypeQualified, span, t.Qualifieds.Allocate(TypeQualifiedData{Self: self, Trait: trait, Rest: rest}))
}

func (t *Types) Qualified(id TypeID) (*TypeQualifiedData, bool) {
	p, ok := t.payload(id, TypeQualified)
	if !ok {
		return nil, false
	}
	return t.Qualifieds.Get(p), true
}

func (t *Types) NewMacro(span source.Span, mac MacroCall) TypeID {
	return t.new(TypeMacro, span, t.Macros.Allocate(TypeMacroData{Mac: mac}))
}

// NewParen wraps an element; the payload is a one-element tuple.
func (t *Types) NewParen(span source.Span, elem TypeID) TypeID {
	return t.new(TypeParen, span, t.Tuples.Allocate(TypeTupleData{Elems: []TypeID{elem}}))
}

// NewSimple creates payload-free kinds: `_` and `!`.
func (t *Types) NewSimple(kind TypeKind, span source.Span) TypeID {
	return t.new(kind, span, 0)
}

// Unparen strips (T) groupings.
func (t *Types) Unparen(id TypeID) TypeID {
	for {
		p, ok := t.payload(id, TypeParen)
		if !ok {
			return id
		}
		id = t.Tuples.Get(p).Elems[0]
	}
}

// PathName returns the last segment of a path type together with its type
// arguments: `anchor_lang::prelude::Account<'info, T>` -> ("Account", [T]).
func (t *Types) PathName(id TypeID) (string, []TypeID, bool) {
	pd, ok := t.Path(t.Unparen(id))
	if !ok {
		return "", nil, false
	}
	last := pd.Path.Last()
	if last == nil {
		return "", nil, false
	}
	return last.Name, last.Args.Types(), true
}

// Lifetimes returns the lifetime arguments of a path type's last segment.
func (t *Types) Lifetimes(id TypeID) []string {
	pd, ok := t.Path(t.Unparen(id))
	if !ok || pd.Path.Last() == nil || pd.Path.Last().Args == nil {
		return nil
	}
	var out []string
	for _, a := range pd.Path.Last().Args.Args {
		if a.Kind == GenericArgLifetime {
			out = append(out, a.Lifetime)
		}
	}
	return out
}
