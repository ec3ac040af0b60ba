package anchor

import (
	"fmt"
	"strings"
	"unicode"

	"anchorsec/internal/ast"
	"anchorsec/internal/parser"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// Parse parses text and extracts its program model.
// The error wraps parser.ErrSyntax when the file does not parse.
func Parse(path string, text []byte) (*Program, error) {
	b, file, err := parser.ParseSource(path, text)
	if err != nil {
		return nil, fmt.Errorf("anchor: %w", err)
	}
	return Extract(path, b, file), nil
}

// Extract builds the model from an already parsed file.
// Inline modules are searched recursively; impl blocks are not.
func Extract(path string, b *ast.Builder, file *source.File) *Program {
	p := &Program{Path: path, File: file, AST: b}
	x := extractor{prog: p, b: b}
	x.items(b.File.Items)
	return p
}

type extractor struct {
	prog *Program
	b    *ast.Builder
}

func (x *extractor) items(ids []ast.ItemID) {
	for _, id := range ids {
		item := x.b.Items.Get(id)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemStruct:
			x.structItem(id, item)
		case ast.ItemFn:
			x.fnItem(id, item)
		case ast.ItemMod:
			if m, ok := x.b.Items.Mod(id); ok {
				x.items(m.Items)
			}
		}
	}
}

// IsAccountsStruct reports #[derive(Accounts)].
func IsAccountsStruct(attrs ast.Attrs) bool {
	return attrs.HasDerive("Accounts")
}

// IsAccountStruct reports a bare #[account] or #[account(...)] on a struct.
func IsAccountStruct(attrs ast.Attrs) bool {
	_, ok := attrs.Find("account")
	return ok
}

func (x *extractor) structItem(id ast.ItemID, item *ast.Item) {
	st, _ := x.b.Items.Struct(id)
	if IsAccountStruct(item.Attrs) {
		x.prog.Accounts = append(x.prog.Accounts, &AccountStruct{
			Name:     item.Name,
			NameSpan: item.NameSpan,
			Span:     item.Span,
			Attrs:    item.Attrs,
		})
	}
	if !IsAccountsStruct(item.Attrs) {
		return
	}
	ctx := &Context{Name: item.Name, NameSpan: item.NameSpan, Span: item.Span}
	if st.Shape == ast.StructNamed {
		for i := range st.Fields {
			ctx.Fields = append(ctx.Fields, x.field(&st.Fields[i]))
		}
	}
	if attr, ok := item.Attrs.Find("instruction"); ok {
		ctx.HasInstruction = true
		ctx.Instruction = x.instructionParams(attr)
	}
	x.prog.Contexts = append(x.prog.Contexts, ctx)
}

func (x *extractor) field(f *ast.Field) Field {
	out := Field{
		Name:     f.Name,
		NameSpan: f.NameSpan,
		Span:     f.Span,
		Type:     f.Type,
		Docs:     f.Attrs.DocLines(),
	}
	if t := x.b.Types.Get(f.Type); t != nil {
		out.TypeSpan = t.Span
	}
	out.Constraints = ParseConstraints(f.Attrs)
	out.Mutable = out.Constraints.Mutable()
	out.TypeName, out.TypeArg = x.accountType(f.Type)
	out.Category = Classify(out.TypeName)
	return out
}

// accountType снимает Box<..> и Option<..> и возвращает имя типа и первый типовой аргумент.
func (x *extractor) accountType(id ast.TypeID) (name, arg string) {
	types := x.b.Types
	for {
		n, args, ok := types.PathName(id)
		if !ok {
			return "", ""
		}
		if (n == "Box" || n == "Option") && len(args) == 1 {
			id = args[0]
			continue
		}
		if len(args) > 0 {
			arg, _, _ = types.PathName(args[0])
		}
		return n, arg
	}
}

var categories = map[string]Category{
	"Signer":           CatSigner,
	"Account":          CatChecked,
	"AccountLoader":    CatChecked,
	"InterfaceAccount": CatChecked,
	"SystemAccount":    CatChecked,
	"AccountInfo":      CatRaw,
	"UncheckedAccount": CatRaw,
	"Program":          CatProgram,
	"Interface":        CatProgram,
	"Sysvar":           CatSysvar,
}

var plainTypes = map[string]bool{
	"Pubkey": true, "String": true, "Vec": true, "PhantomData": true, "Rc": true, "RefCell": true,
}

// Classify maps a field's type name to its permission category.
// Unknown capitalized names are treated as nested accounts contexts.
func Classify(typeName string) Category {
	if c, ok := categories[typeName]; ok {
		return c
	}
	if typeName == "" || plainTypes[typeName] {
		return CatOther
	}
	if r := []rune(typeName)[0]; unicode.IsUpper(r) {
		return CatComposite
	}
	return CatOther
}

// MutationRelevant reports the wrapper types whose data can be written through.
func MutationRelevant(typeName string) bool {
	switch typeName {
	case "Account", "AccountInfo", "AccountLoader", "UncheckedAccount", "InterfaceAccount":
		return true
	}
	return false
}

// instructionParams разбирает `#[instruction(a: u64, name: String)]`.
func (x *extractor) instructionParams(attr *ast.Attr) []Param {
	var out []Param
	for _, part := range ast.SplitTopLevel(attr.Tokens, true) {
		if len(part) < 3 || part[0].Kind != token.Ident || part[1].Kind != token.Colon {
			continue
		}
		typeToks := part[2:]
		typeSpan := typeToks[0].Span.Cover(typeToks[len(typeToks)-1].Span)
		out = append(out, Param{
			Name: part[0].Text,
			Type: CompactType(x.prog.File.Text(typeSpan)),
			Span: part[0].Span.Cover(typeSpan),
		})
	}
	return out
}

func (x *extractor) fnItem(id ast.ItemID, item *ast.Item) {
	fn, _ := x.b.Items.Fn(id)
	h := &Handler{
		Name:     item.Name,
		NameSpan: item.NameSpan,
		Item:     id,
		Public:   item.Vis.IsPub(),
		Body:     fn.Body,
	}
	found := false
	firstTyped := true
	for i := range fn.Params {
		param := &fn.Params[i]
		if param.Self != ast.SelfNone {
			continue
		}
		name, named := param.Name(x.b.Pats)
		if ctxName, ctxSpan, ok := x.contextArg(param.Type); ok && !found {
			found = true
			h.Context, h.ContextSpan, h.CtxParam = ctxName, ctxSpan, name
			h.ContextFirst = firstTyped
			firstTyped = false
			continue
		}
		firstTyped = false
		if !named {
			// деструктурирующие параметры в сверке с #[instruction] не участвуют
			continue
		}
		var typeText string
		if t := x.b.Types.Get(param.Type); t != nil {
			typeText = CompactType(x.prog.File.Text(t.Span))
		}
		h.Params = append(h.Params, Param{Name: name, Type: typeText, Span: param.Span})
	}
	if found {
		x.prog.Handlers = append(x.prog.Handlers, h)
	}
}

// contextArg распознаёт Context<X> (с любыми lifetime-аргументами) и возвращает X.
func (x *extractor) contextArg(id ast.TypeID) (string, source.Span, bool) {
	name, args, ok := x.b.Types.PathName(id)
	if !ok || name != "Context" || len(args) == 0 {
		return "", source.Span{}, false
	}
	inner, _, ok := x.b.Types.PathName(args[0])
	if !ok {
		return "", source.Span{}, false
	}
	return inner, x.b.Types.Get(args[0]).Span, true
}

// CompactType collapses whitespace in a type's source text:
// "Vec < u8 >" -> "Vec<u8>", "& 'a  str" -> "&'a str".
func CompactType(s string) string {
	fields := strings.Fields(s)
	var b strings.Builder
	for i, f := range fields {
		if i > 0 && needsSpace(fields[i-1], f) {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	return b.String()
}

func needsSpace(prev, next string) bool {
	last := rune(prev[len(prev)-1])
	first := rune(next[0])
	return isWordRune(last) && isWordRune(first) || last == ',' || last == ';'
}

func isWordRune(r rune) bool {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
