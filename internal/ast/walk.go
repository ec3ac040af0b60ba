package ast

// Visitor: хуки обхода в глубину. Хук, вернувший false, не даёт спуститься
// в детей узла; nil-хук равен хуку, всегда возвращающему true.
// Обход не заходит в типы, паттерны и тела макросов.
type Visitor struct {
	Item func(ItemID) bool
	Stmt func(StmtID) bool
	Expr func(ExprID) bool
}

// Walk visits every item of the file.
func (b *Builder) Walk(v Visitor) {
	for _, id := range b.File.Items {
		b.WalkItem(id, v)
	}
}

func (b *Builder) WalkItem(id ItemID, v Visitor) {
	item := b.Items.Get(id)
	if item == nil {
		return
	}
	if v.Item != nil && !v.Item(id) {
		return
	}
	switch item.Kind {
	case ItemFn:
		fn, _ := b.Items.Fn(id)
		b.WalkExpr(fn.Body, v)
	case ItemImpl:
		im, _ := b.Items.Impl(id)
		for _, sub := range im.Items {
			b.WalkItem(sub, v)
		}
	case ItemTrait:
		tr, _ := b.Items.Trait(id)
		for _, sub := range tr.Items {
			b.WalkItem(sub, v)
		}
	case ItemMod:
		m, _ := b.Items.Mod(id)
		for _, sub := range m.Items {
			b.WalkItem(sub, v)
		}
	case ItemConst:
		c, _ := b.Items.Const(id)
		b.WalkExpr(c.Value, v)
	case ItemEnum:
		en, _ := b.Items.Enum(id)
		for _, vr := range en.Variants {
			b.WalkExpr(vr.Discriminant, v)
		}
	case ItemExternBlock:
		eb, _ := b.Items.ExternBlock(id)
		for _, sub := range eb.Items {
			b.WalkItem(sub, v)
		}
	}
}

func (b *Builder) WalkStmt(id StmtID, v Visitor) {
	st := b.Stmts.Get(id)
	if st == nil {
		return
	}
	if v.Stmt != nil && !v.Stmt(id) {
		return
	}
	switch st.Kind {
	case StmtLet:
		let, _ := b.Stmts.Let(id)
		b.WalkExpr(let.Init, v)
		b.WalkExpr(let.Else, v)
	case StmtExpr:
		es, _ := b.Stmts.Expr(id)
		b.WalkExpr(es.X, v)
	case StmtItem:
		item, _ := b.Stmts.Item(id)
		b.WalkItem(item, v)
	}
}

func (b *Builder) WalkExpr(id ExprID, v Visitor) {
	if !id.IsValid() {
		return
	}
	if v.Expr != nil && !v.Expr(id) {
		return
	}
	if blk, ok := b.Exprs.Block(id); ok {
		for _, st := range blk.Stmts {
			b.WalkStmt(st, v)
		}
		return
	}
	if m, ok := b.Exprs.Match(id); ok {
		b.WalkExpr(m.Scrutinee, v)
		for _, arm := range m.Arms {
			b.WalkExpr(arm.Guard, v)
			b.WalkExpr(arm.Body, v)
		}
		return
	}
	for _, child := range b.Exprs.Children(id) {
		b.WalkExpr(child, v)
	}
}

// Children returns the direct sub-expressions of id in evaluation order.
// Blocks and match arms have none here; walkers handle them via statements.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	p := uint32(expr.Payload)
	switch expr.Kind {
	case ExprUnary:
		return []ExprID{e.Unaries.Get(p).X}
	case ExprRef:
		return []ExprID{e.Refs.Get(p).X}
	case ExprBinary:
		d := e.Binaries.Get(p)
		return []ExprID{d.Left, d.Right}
	case ExprAssign, ExprAssignOp:
		d := e.Assigns.Get(p)
		return []ExprID{d.Target, d.Value}
	case ExprCast:
		return []ExprID{e.Casts.Get(p).X}
	case ExprRange:
		d := e.Ranges.Get(p)
		return nonZero(d.Lo, d.Hi)
	case ExprCall:
		d := e.Calls.Get(p)
		return append([]ExprID{d.Fn}, d.Args...)
	case ExprMethodCall:
		d := e.Methods.Get(p)
		return append([]ExprID{d.Receiver}, d.Args...)
	case ExprField:
		return []ExprID{e.Fields.Get(p).X}
	case ExprIndex:
		d := e.Indices.Get(p)
		return []ExprID{d.X, d.Index}
	case ExprTry, ExprAwait, ExprParen:
		return []ExprID{e.Wraps.Get(p).X}
	case ExprTuple, ExprArray:
		return e.Lists.Get(p).Elems
	case ExprRepeat:
		d := e.Repeats.Get(p)
		return []ExprID{d.Elem, d.Len}
	case ExprStruct:
		d := e.Structs.Get(p)
		out := make([]ExprID, 0, len(d.Fields)+1)
		for _, f := range d.Fields {
			out = append(out, f.Value)
		}
		return nonZero(append(out, d.Base)...)
	case ExprIf:
		d := e.Ifs.Get(p)
		return nonZero(d.Cond, d.Then, d.Else)
	case ExprLet:
		return []ExprID{e.Lets.Get(p).Init}
	case ExprWhile:
		d := e.Whiles.Get(p)
		return []ExprID{d.Cond, d.Body}
	case ExprLoop:
		return []ExprID{e.Loops.Get(p).Body}
	case ExprFor:
		d := e.Fors.Get(p)
		return []ExprID{d.Iter, d.Body}
	case ExprClosure:
		return []ExprID{e.Closures.Get(p).Body}
	case ExprReturn, ExprBreak:
		return nonZero(e.Jumps.Get(p).Value)
	}
	return nil
}

func nonZero(ids ...ExprID) []ExprID {
	out := ids[:0]
	for _, id := range ids {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}
