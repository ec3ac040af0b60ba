package detector

import (
	"fmt"
	"strings"

	"anchorsec/internal/anchor"
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
)

var mutationInfo = Info{
	ID:              "IMMUTABLE_ACCOUNT_MUTATED",
	Name:            "Immutable Account Mutation",
	Description:     "Detects attempts to mutate accounts that are not marked as mutable with #[account(mut)]",
	DefaultSeverity: diag.SevError,
	Message:         "Attempting to mutate an immutable account. Add #[account(mut)] to the account field to allow mutation.",
}

// mutators are exact method names that write through an account.
var mutators = map[string]bool{
	"set_data":       true,
	"set_lamports":   true,
	"set_owner":      true,
	"set_executable": true,
	"close":          true,
	"realloc":        true,
	"assign":         true,
}

// mutatorPrefixes catch collection-style writers: push_back, insert_many, ...
var mutatorPrefixes = []string{
	"push", "insert", "remove", "clear", "set_", "replace", "extend", "append",
	"truncate", "resize", "retain", "swap", "sort", "rotate", "fill",
}

func isMutator(name string) bool {
	if mutators[name] {
		return true
	}
	for _, p := range mutatorPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ImmutableAccountMutated flags writes to context fields declared without
// #[account(mut)] inside handlers bound to that context.
type ImmutableAccountMutated struct{}

func NewImmutableAccountMutated() *ImmutableAccountMutated { return &ImmutableAccountMutated{} }

func (d *ImmutableAccountMutated) Info() Info                 { return mutationInfo }
func (d *ImmutableAccountMutated) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *ImmutableAccountMutated) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *ImmutableAccountMutated) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	immutable := make(map[string]map[string]*anchor.Field)
	for _, ctx := range prog.Contexts {
		if _, seen := immutable[ctx.Name]; seen {
			continue
		}
		fields := make(map[string]*anchor.Field)
		for i := range ctx.Fields {
			f := &ctx.Fields[i]
			if anchor.MutationRelevant(f.TypeName) && !f.Mutable {
				fields[f.Name] = f
			}
		}
		immutable[ctx.Name] = fields
	}

	var out []diag.Diagnostic
	for _, h := range prog.Handlers {
		fields := immutable[h.Context]
		if !h.ContextFirst || len(fields) == 0 {
			continue
		}
		w := &mutationWalker{
			prog:    prog,
			b:       prog.AST,
			fields:  fields,
		}
		w.expr(h.Body)
		out = append(out, w.out...)
	}
	return out
}

// mutationWalker visits one handler body. scopes is a stack of lexical
// frames mapping a local binding to the context field it stands for; an
// empty field marks a binding that shadows an outer alias.
type mutationWalker struct {
	prog   *anchor.Program
	b      *ast.Builder
	fields map[string]*anchor.Field
	scopes []map[string]string
	out    []diag.Diagnostic
}

func (w *mutationWalker) push() { w.scopes = append(w.scopes, nil) }

func (w *mutationWalker) pop() { w.scopes = w.scopes[:len(w.scopes)-1] }

// bind records name in the innermost frame; field == "" shadows.
func (w *mutationWalker) bind(name, field string) {
	if len(w.scopes) == 0 {
		w.push()
	}
	top := len(w.scopes) - 1
	if w.scopes[top] == nil {
		w.scopes[top] = make(map[string]string)
	}
	w.scopes[top][name] = field
}

func (w *mutationWalker) shadow(pat ast.PatID) {
	for _, name := range w.b.Pats.Bindings(pat) {
		w.bind(name, "")
	}
}

func (w *mutationWalker) alias(name string) (string, bool) {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if field, ok := w.scopes[i][name]; ok {
			return field, field != ""
		}
	}
	return "", false
}

func (w *mutationWalker) stmt(id ast.StmtID) {
	st := w.b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtLet:
		let, _ := w.b.Stmts.Let(id)
		w.let(let.Pat, let.Init)
		w.expr(let.Else)
	case ast.StmtExpr:
		es, _ := w.b.Stmts.Expr(id)
		w.expr(es.X)
	}
	// вложенные items (fn внутри fn) к контексту не относятся
}

// let handles `let pat = init`: a `&mut` initializer bound to a single name
// becomes an alias instead of a finding.
func (w *mutationWalker) let(pat ast.PatID, init ast.ExprID) {
	field, isAlias := "", false
	if d, ok := w.b.Pats.Ident(pat); ok && !d.Sub.IsValid() && init.IsValid() {
		field, isAlias = w.aliasOf(init)
	}
	if isAlias {
		if r, ok := w.b.Exprs.Ref(w.b.Exprs.Unparen(init)); ok && r.Mut {
			w.expr(r.X)
		} else {
			w.expr(init)
		}
	} else {
		w.expr(init)
	}
	w.shadow(pat)
	if isAlias {
		d, _ := w.b.Pats.Ident(pat)
		w.bind(d.Name, field)
	}
}

func (w *mutationWalker) expr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	exprs := w.b.Exprs
	e := exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprBlock:
		blk, _ := exprs.Block(id)
		w.push()
		for _, st := range blk.Stmts {
			w.stmt(st)
		}
		w.pop()
		return
	case ast.ExprIf:
		// `if let` bindings live only in the then branch
		n, _ := exprs.If(id)
		w.push()
		w.expr(n.Cond)
		w.expr(n.Then)
		w.pop()
		w.expr(n.Else)
		return
	case ast.ExprWhile:
		n, _ := exprs.While(id)
		w.push()
		w.expr(n.Cond)
		w.expr(n.Body)
		w.pop()
		return
	case ast.ExprFor:
		n, _ := exprs.For(id)
		w.expr(n.Iter)
		w.push()
		w.shadow(n.Pat)
		w.expr(n.Body)
		w.pop()
		return
	case ast.ExprClosure:
		n, _ := exprs.Closure(id)
		w.push()
		for _, p := range n.Params {
			w.shadow(p.Pat)
		}
		w.expr(n.Body)
		w.pop()
		return
	case ast.ExprMatch:
		m, _ := exprs.Match(id)
		w.expr(m.Scrutinee)
		for _, arm := range m.Arms {
			w.push()
			w.shadow(arm.Pat)
			w.expr(arm.Guard)
			w.expr(arm.Body)
			w.pop()
		}
		return
	case ast.ExprLet:
		l, _ := exprs.Let(id)
		w.expr(l.Init)
		w.shadow(l.Pat)
		return
	case ast.ExprAssign, ast.ExprAssignOp:
		a, _ := exprs.Assign(id)
		if name, ok := w.refersTo(a.Target); ok {
			w.report(id, name)
		} else {
			w.expr(a.Target)
		}
		w.expr(a.Value)
		return
	case ast.ExprMethodCall:
		mc, _ := exprs.MethodCall(id)
		if name, ok := w.refersTo(mc.Receiver); ok && w.mutatingCall(mc) {
			w.report(id, name)
		} else {
			w.expr(mc.Receiver)
		}
		for _, arg := range mc.Args {
			w.expr(arg)
		}
		return
	case ast.ExprRef:
		r, _ := exprs.Ref(id)
		if r.Mut {
			if name, ok := w.refersTo(r.X); ok {
				w.report(id, name)
				return
			}
		}
	}
	for _, child := range exprs.Children(id) {
		w.expr(child)
	}
}

func (w *mutationWalker) mutatingCall(mc *ast.ExprMethodCallData) bool {
	if isMutator(mc.Name) {
		return true
	}
	exprs := w.b.Exprs
	if r, ok := exprs.Ref(exprs.Unparen(mc.Receiver)); ok && r.Mut {
		return true
	}
	for _, arg := range mc.Args {
		if r, ok := exprs.Ref(exprs.Unparen(arg)); ok && r.Mut {
			return true
		}
	}
	return false
}

// normalize peels wrappers that keep pointing at the same account:
// parens, references, derefs, `?`, casts, to_account_info() and try_borrow_mut_lamports().
func (w *mutationWalker) normalize(id ast.ExprID) ast.ExprID {
	exprs := w.b.Exprs
	for {
		id = peel(exprs, id, peelPlace|peelCast)
		mc, ok := methodCall(exprs, id, "to_account_info", "try_borrow_mut_lamports")
		if !ok || len(mc.Args) != 0 {
			return id
		}
		id = mc.Receiver
	}
}

// tracked resolves an already normalized expression to an immutable field:
// a known alias or `<ctx>.accounts.<field>`.
func (w *mutationWalker) tracked(id ast.ExprID) (string, bool) {
	exprs := w.b.Exprs
	if name, ok := exprs.Ident(id); ok {
		return w.alias(name)
	}
	f, ok := exprs.Field(id)
	if !ok || f.Positional {
		return "", false
	}
	bag, ok := exprs.Field(exprs.Unparen(f.X))
	if !ok || bag.Name != "accounts" {
		return "", false
	}
	if _, ok := w.fields[f.Name]; !ok {
		return "", false
	}
	return f.Name, true
}

// aliasOf decides whether a let initializer names a tracked field. Behind
// `&mut` it also looks through field projections: `&mut ctx.accounts.v.amount`.
func (w *mutationWalker) aliasOf(init ast.ExprID) (string, bool) {
	exprs := w.b.Exprs
	mutRef := false
	if r, ok := exprs.Ref(exprs.Unparen(init)); ok && r.Mut {
		mutRef = true
	}
	id := w.normalize(init)
	if field, ok := w.tracked(id); ok {
		return field, true
	}
	if mutRef {
		return w.refersTo(init)
	}
	return "", false
}

// refersTo walks from a place expression down to its root through field
// projections, indexing and method receivers, and reports the tracked field it lands on.
func (w *mutationWalker) refersTo(id ast.ExprID) (string, bool) {
	exprs := w.b.Exprs
	for {
		id = w.normalize(id)
		if field, ok := w.tracked(id); ok {
			return field, true
		}
		e := exprs.Get(id)
		if e == nil {
			return "", false
		}
		switch e.Kind {
		case ast.ExprField:
			f, _ := exprs.Field(id)
			id = f.X
		case ast.ExprIndex:
			ix, _ := exprs.Index(id)
			id = ix.X
		case ast.ExprMethodCall:
			mc, _ := exprs.MethodCall(id)
			id = mc.Receiver
		default:
			return "", false
		}
	}
}

func (w *mutationWalker) report(site ast.ExprID, name string) {
	field := w.fields[name]
	file := w.prog.File
	mutation := finding(mutationInfo, diag.RangeOf(file, w.b.Exprs.Get(site).Span),
		fmt.Sprintf("Attempting to mutate immutable account '%s'. Add #[account(mut)] to allow mutation.", name))
	declMsg := fmt.Sprintf("Account '%s' is defined here without #[account(mut)]", name)
	decl := finding(mutationInfo, diag.RangeOf(file, field.Span), declMsg)
	diag.Pair(&mutation, &decl, w.prog.Path, declMsg, fmt.Sprintf("Account '%s' is mutated here", name))
	w.out = append(w.out, mutation, decl)
}
