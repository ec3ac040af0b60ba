// Package anchor extracts the Anchor program model from a parsed file:
// accounts contexts, their fields and constraints, and instruction handlers.
package anchor

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/source"
)

// Category is the permission category of an accounts-context field.
type Category uint8

const (
	CatOther     Category = iota
	CatChecked            // Account, AccountLoader, InterfaceAccount, SystemAccount
	CatRaw                // AccountInfo, UncheckedAccount
	CatSigner             // Signer
	CatProgram            // Program, Interface
	CatSysvar             // Sysvar
	CatComposite          // другой accounts-контекст
)

var categoryNames = [...]string{
	CatOther:     "other",
	CatChecked:   "checked-account",
	CatRaw:       "raw-account",
	CatSigner:    "signer",
	CatProgram:   "program",
	CatSysvar:    "system-variable",
	CatComposite: "composite-reference",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Field is one account slot of a context.
type Field struct {
	Name     string
	NameSpan source.Span
	Span     source.Span // с атрибутами и doc-комментариями
	Type     ast.TypeID
	TypeSpan source.Span
	// TypeName: последний сегмент типа после снятия Box и Option.
	TypeName string
	// TypeArg: первый типовой аргумент (Vault в Account<'info, Vault>), если есть.
	TypeArg     string
	Category    Category
	Mutable     bool
	Constraints Constraints
	Docs        []string
}

// Param is a named, typed parameter of a handler or an #[instruction] list.
type Param struct {
	Name string
	Type string // исходный текст с нормализованными пробелами
	Span source.Span
}

// Context is a #[derive(Accounts)] struct.
type Context struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Fields   []Field
	// Instruction holds the #[instruction(...)] list; nil when the attribute is absent.
	Instruction    []Param
	HasInstruction bool
}

// Field looks a field up by name.
func (c *Context) Field(name string) (*Field, bool) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

// HasSigner reports whether some field is a direct Signer.
func (c *Context) HasSigner() bool {
	for i := range c.Fields {
		if c.Fields[i].Category == CatSigner {
			return true
		}
	}
	return false
}

// Composites lists the type names of composite-reference fields in declaration order.
func (c *Context) Composites() []string {
	var out []string
	for i := range c.Fields {
		if c.Fields[i].Category == CatComposite {
			out = append(out, c.Fields[i].TypeName)
		}
	}
	return out
}

// Handler is a function taking Context<X>.
type Handler struct {
	Name     string
	NameSpan source.Span
	Item     ast.ItemID
	Public   bool
	// ContextFirst is set when Context<X> is the first typed parameter.
	ContextFirst bool
	Context      string
	ContextSpan  source.Span // span of X inside Context<X>
	CtxParam     string      // имя параметра, обычно ctx
	Params       []Param     // остальные параметры по порядку
	Body         ast.ExprID
}

// AccountStruct is a struct marked #[account] (persisted account data).
type AccountStruct struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Attrs    ast.Attrs
}

// Program is the model of one parsed file.
type Program struct {
	Path     string
	File     *source.File
	AST      *ast.Builder
	Contexts []*Context
	Handlers []*Handler
	Accounts []*AccountStruct
}

// Context finds the first context declared with name.
func (p *Program) Context(name string) (*Context, bool) {
	for _, c := range p.Contexts {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HandlersFor returns the handlers bound to the named context.
func (p *Program) HandlersFor(name string) []*Handler {
	var out []*Handler
	for _, h := range p.Handlers {
		if h.Context == name {
			out = append(out, h)
		}
	}
	return out
}
