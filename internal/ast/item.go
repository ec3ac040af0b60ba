package ast

import (
	"anchorsec/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
	ItemEnum
	ItemImpl
	ItemTrait
	ItemMod
	ItemUse
	ItemConst // const и static
	ItemTypeAlias
	ItemMacro
	ItemExternCrate
	ItemExternBlock
)

// Item: общий заголовок для всех items: атрибуты, видимость и имя.
// Безымянные items (impl, use, extern-блоки) имеют пустое Name.
type Item struct {
	Kind     ItemKind
	Span     source.Span
	Payload  PayloadID
	Attrs    Attrs
	Vis      Visibility
	Name     string
	NameSpan source.Span
}

type Items struct {
	Arena        *Arena[Item]
	Fns          *Arena[FnItem]
	Structs      *Arena[StructItem]
	Enums        *Arena[EnumItem]
	Impls        *Arena[ImplItem]
	Traits       *Arena[TraitItem]
	Mods         *Arena[ModItem]
	Uses         *Arena[UseItem]
	Consts       *Arena[ConstItem]
	TypeAliases  *Arena[TypeAliasItem]
	Macros       *Arena[MacroItem]
	ExternCrates *Arena[ExternCrateItem]
	ExternBlocks *Arena[ExternBlockItem]
}

// NewItems creates and returns an *Items with per-kind arenas initialized to capHint.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:        NewArena[Item](capHint),
		Fns:          NewArena[FnItem](capHint / 2),
		Structs:      NewArena[StructItem](capHint / 4),
		Enums:        NewArena[EnumItem](0),
		Impls:        NewArena[ImplItem](0),
		Traits:       NewArena[TraitItem](0),
		Mods:         NewArena[ModItem](0),
		Uses:         NewArena[UseItem](capHint / 4),
		Consts:       NewArena[ConstItem](0),
		TypeAliases:  NewArena[TypeAliasItem](0),
		Macros:       NewArena[MacroItem](0),
		ExternCrates: NewArena[ExternCrateItem](0),
		ExternBlocks: NewArena[ExternBlockItem](0),
	}
}

// ItemHeader carries the fields every item shares.
type ItemHeader struct {
	Attrs    Attrs
	Vis      Visibility
	Name     string
	NameSpan source.Span
}

func (i *Items) new(kind ItemKind, span source.Span, h ItemHeader, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:     kind,
		Span:     span,
		Payload:  PayloadID(payload),
		Attrs:    h.Attrs,
		Vis:      h.Vis,
		Name:     h.Name,
		NameSpan: h.NameSpan,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) payload(id ItemID, kind ItemKind) (uint32, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != kind {
		return 0, false
	}
	return uint32(item.Payload), true
}

// ===== Generics =====

type GenericParamKind uint8

const (
	GenericParamLifetime GenericParamKind = iota
	GenericParamType
	GenericParamConst
)

type GenericParam struct {
	Kind    GenericParamKind
	Name    string
	Bounds  []Bound
	Type    TypeID // тип const-параметра
	Default TypeID
	Span    source.Span
}

type WherePredicate struct {
	Lifetime string // 'a: 'b
	Type     TypeID
	Bounds   []Bound
	Span     source.Span
}

type Generics struct {
	Params []GenericParam
	Where  []WherePredicate
}

// ===== fn =====

type SelfKind uint8

const (
	SelfNone   SelfKind = iota
	SelfValue           // self, mut self, self: T
	SelfRef             // &self
	SelfRefMut          // &mut self
)

type FnParam struct {
	Attrs Attrs
	Self  SelfKind
	Pat   PatID
	Type  TypeID
	Span  source.Span
}

// Name returns the binding name of a simple `name: T` parameter.
func (p *FnParam) Name(pats *Pats) (string, bool) {
	if p.Self != SelfNone {
		return "self", true
	}
	d, ok := pats.Ident(p.Pat)
	if !ok {
		return "", false
	}
	return d.Name, true
}

type FnItem struct {
	Generics Generics
	Params   []FnParam
	Ret      TypeID
	Body     ExprID // NoExprID у объявлений без тела
	Const    bool
	Async    bool
	Unsafe   bool
	ABI      string
	Variadic bool
}

func (i *Items) NewFn(span source.Span, h ItemHeader, fn FnItem) ItemID {
	return i.new(ItemFn, span, h, i.Fns.Allocate(fn))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	p, ok := i.payload(id, ItemFn)
	if !ok {
		return nil, false
	}
	return i.Fns.Get(p), true
}

// ===== struct / union / enum =====

type StructShape uint8

const (
	StructNamed StructShape = iota
	StructTuple
	StructUnit
)

type Field struct {
	Attrs    Attrs
	Vis      Visibility
	Name     string // "0", "1" у tuple-структур
	NameSpan source.Span
	Type     TypeID
	Span     source.Span
}

type StructItem struct {
	Generics Generics
	Shape    StructShape
	Fields   []Field
	Union    bool
}

func (i *Items) NewStruct(span source.Span, h ItemHeader, st StructItem) ItemID {
	return i.new(ItemStruct, span, h, i.Structs.Allocate(st))
}

func (i *Items) Struct(id ItemID) (*StructItem, bool) {
	p, ok := i.payload(id, ItemStruct)
	if !ok {
		return nil, false
	}
	return i.Structs.Get(p), true
}

type Variant struct {
	Attrs        Attrs
	Name         string
	NameSpan     source.Span
	Shape        StructShape
	Fields       []Field
	Discriminant ExprID
	Span         source.Span
}

type EnumItem struct {
	Generics Generics
	Variants []Variant
}

func (i *Items) NewEnum(span source.Span, h ItemHeader, en EnumItem) ItemID {
	return i.new(ItemEnum, span, h, i.Enums.Allocate(en))
}

func (i *Items) Enum(id ItemID) (*EnumItem, bool) {
	p, ok := i.payload(id, ItemEnum)
	if !ok {
		return nil, false
	}
	return i.Enums.Get(p), true
}

// ===== impl / trait =====

type ImplItem struct {
	Generics Generics
	Trait    TypeID // NoTypeID у inherent impl
	Negative bool   // impl !Send for T
	SelfType TypeID
	Items    []ItemID
	Unsafe   bool
}

func (i *Items) NewImpl(span source.Span, h ItemHeader, im ImplItem) ItemID {
	return i.new(ItemImpl, span, h, i.Impls.Allocate(im))
}

func (i *Items) Impl(id ItemID) (*ImplItem, bool) {
	p, ok := i.payload(id, ItemImpl)
	if !ok {
		return nil, false
	}
	return i.Impls.Get(p), true
}

type TraitItem struct {
	Generics   Generics
	Supertrait []Bound
	Items      []ItemID
	Unsafe     bool
	Auto       bool
}

func (i *Items) NewTrait(span source.Span, h ItemHeader, tr TraitItem) ItemID {
	return i.new(ItemTrait, span, h, i.Traits.Allocate(tr))
}

func (i *Items) Trait(id ItemID) (*TraitItem, bool) {
	p, ok := i.payload(id, ItemTrait)
	if !ok {
		return nil, false
	}
	return i.Traits.Get(p), true
}

// ===== mod =====

type ModItem struct {
	Inline     bool // mod x { ... } против mod x;
	InnerAttrs Attrs
	Items      []ItemID
}

func (i *Items) NewMod(span source.Span, h ItemHeader, m ModItem) ItemID {
	return i.new(ItemMod, span, h, i.Mods.Allocate(m))
}

func (i *Items) Mod(id ItemID) (*ModItem, bool) {
	p, ok := i.payload(id, ItemMod)
	if !ok {
		return nil, false
	}
	return i.Mods.Get(p), true
}

// ===== const / static / type =====

type ConstItem struct {
	Type   TypeID
	Value  ExprID // NoExprID у `const X: T;` в трейтах
	Static bool
	Mut    bool
}

func (i *Items) NewConst(span source.Span, h ItemHeader, c ConstItem) ItemID {
	return i.new(ItemConst, span, h, i.Consts.Allocate(c))
}

func (i *Items) Const(id ItemID) (*ConstItem, bool) {
	p, ok := i.payload(id, ItemConst)
	if !ok {
		return nil, false
	}
	return i.Consts.Get(p), true
}

type TypeAliasItem struct {
	Generics Generics
	Bounds   []Bound
	Type     TypeID // NoTypeID у ассоциированных объявлений
}

func (i *Items) NewTypeAlias(span source.Span, h ItemHeader, ta TypeAliasItem) ItemID {
	return i.new(ItemTypeAlias, span, h, i.TypeAliases.Allocate(ta))
}

func (i *Items) TypeAlias(id ItemID) (*TypeAliasItem, bool) {
	p, ok := i.payload(id, ItemTypeAlias)
	if !ok {
		return nil, false
	}
	return i.TypeAliases.Get(p), true
}

// ===== macros, extern =====

// MacroItem: `declare_id!("...");` или `macro_rules! name { ... }` (Name заполнен).
type MacroItem struct {
	Mac MacroCall
}

func (i *Items) NewMacro(span source.Span, h ItemHeader, mac MacroCall) ItemID {
	return i.new(ItemMacro, span, h, i.Macros.Allocate(MacroItem{Mac: mac}))
}

func (i *Items) Macro(id ItemID) (*MacroItem, bool) {
	p, ok := i.payload(id, ItemMacro)
	if !ok {
		return nil, false
	}
	return i.Macros.Get(p), true
}

type ExternCrateItem struct {
	Alias string
}

func (i *Items) NewExternCrate(span source.Span, h ItemHeader, alias string) ItemID {
	return i.new(ItemExternCrate, span, h, i.ExternCrates.Allocate(ExternCrateItem{Alias: alias}))
}

type ExternBlockItem struct {
	ABI   string
	Items []ItemID
}

func (i *Items) NewExternBlock(span source.Span, h ItemHeader, b ExternBlockItem) ItemID {
	return i.new(ItemExternBlock, span, h, i.ExternBlocks.Allocate(b))
}

func (i *Items) ExternBlock(id ItemID) (*ExternBlockItem, bool) {
	p, ok := i.payload(id, ItemExternBlock)
	if !ok {
		return nil, false
	}
	return i.ExternBlocks.Get(p), true
}
