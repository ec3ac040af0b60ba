package parser

import (
	"testing"

	"anchorsec/internal/ast"
)

func TestBinaryPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		top   ast.ExprBinaryOp
		right ast.ExprKind
	}{
		{"mul binds tighter", "a + b * c", ast.ExprBinaryAdd, ast.ExprBinary},
		{"left assoc", "a - b - c", ast.ExprBinarySub, ast.ExprPath},
		{"compare over add", "a + 1 > b", ast.ExprBinaryGt, ast.ExprPath},
		{"and over or", "a || b && c", ast.ExprBinaryOr, ast.ExprBinary},
		{"glued shr", "a >> 2", ast.ExprBinaryShr, ast.ExprLit},
		{"glued ge", "a >= 2", ast.ExprBinaryGe, ast.ExprLit},
		{"cast over mul", "a * b as u64", ast.ExprBinaryMul, ast.ExprCast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, x := exprOf(t, tt.src)
			bin, ok := b.Exprs.Binary(x)
			if !ok {
				t.Fatalf("expected binary expression, got kind %d", b.Exprs.Get(x).Kind)
			}
			if bin.Op != tt.top {
				t.Errorf("top op = %s, want %s", bin.Op, tt.top)
			}
			if got := b.Exprs.Get(bin.Right).Kind; got != tt.right {
				t.Errorf("right kind = %d, want %d", got, tt.right)
			}
		})
	}
}

func TestCompoundAssign(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.ExprKind
		op   ast.ExprBinaryOp
		text string
	}{
		{"x.balance += amount;", ast.ExprAssignOp, ast.ExprBinaryAdd, "+="},
		{"x.balance -= amount;", ast.ExprAssignOp, ast.ExprBinarySub, "-="},
		{"a >>= 1;", ast.ExprAssignOp, ast.ExprBinaryShr, ">>="},
		{"a = b = c;", ast.ExprAssign, 0, "="},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			b, file, x := exprOf(t, tt.src)
			e := b.Exprs.Get(x)
			if e.Kind != tt.kind {
				t.Fatalf("kind = %d, want %d", e.Kind, tt.kind)
			}
			as, _ := b.Exprs.Assign(x)
			if tt.kind == ast.ExprAssignOp && as.Op != tt.op {
				t.Errorf("op = %s, want %s", as.Op, tt.op)
			}
			if got := file.Text(as.OpSpan); got != tt.text {
				t.Errorf("op span text = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestMethodChain(t *testing.T) {
	b, file, x := exprOf(t, "ctx.accounts.vault.amount.checked_add(1).unwrap()")
	outer, ok := b.Exprs.MethodCall(x)
	if !ok || outer.Name != "unwrap" {
		t.Fatalf("expected unwrap call")
	}
	inner, ok := b.Exprs.MethodCall(outer.Receiver)
	if !ok || inner.Name != "checked_add" || len(inner.Args) != 1 {
		t.Fatalf("expected checked_add(1)")
	}
	field, ok := b.Exprs.Field(inner.Receiver)
	if !ok || field.Name != "amount" {
		t.Fatalf("expected .amount field")
	}
	if got := file.Text(b.Exprs.Get(inner.Receiver).Span); got != "ctx.accounts.vault.amount" {
		t.Errorf("receiver span = %q", got)
	}
}

func TestTupleIndexAndTry(t *testing.T) {
	b, _, x := exprOf(t, "pair.0.1?")
	inner, ok := b.Exprs.Inner(x)
	if !ok || b.Exprs.Get(x).Kind != ast.ExprTry {
		t.Fatalf("expected try expression")
	}
	f, ok := b.Exprs.Field(inner)
	if !ok || !f.Positional || f.Name != "1" {
		t.Fatalf("expected positional field 1, got %+v", f)
	}
}

func TestStructLiteralRestrictions(t *testing.T) {
	b, _ := mustParse(t, `
fn f() {
    if x == y { return; }
    let p = Point { x: 1, y };
    match v { Some(a) => a, None => 0 };
    for i in 0..n { total += i; }
}`)
	stmts := fnBody(t, b, "f")
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(stmts))
	}
	let, ok := b.Stmts.Let(stmts[1])
	if !ok {
		t.Fatalf("expected let")
	}
	st, ok := b.Exprs.Struct(let.Init)
	if !ok || len(st.Fields) != 2 || !st.Fields[1].Shorthand {
		t.Fatalf("expected struct literal with shorthand field")
	}
}

func TestMacrosAndClosures(t *testing.T) {
	b, _ := mustParse(t, `
fn f() {
    msg!("amount {}", amount);
    require!(a > b, ErrorCode::Bad);
    let v = vec![1, 2, 3];
    let g = |x: u64| x + 1;
    let h = move || { done = true; };
}`)
	stmts := fnBody(t, b, "f")
	st, _ := b.Stmts.Expr(stmts[0])
	mac, ok := b.Exprs.Macro(st.X)
	if !ok || mac.Name() != "msg" {
		t.Fatalf("expected msg! macro")
	}
	let, _ := b.Stmts.Let(stmts[3])
	cl, ok := b.Exprs.Closure(let.Init)
	if !ok || len(cl.Params) != 1 {
		t.Fatalf("expected one-param closure")
	}
	let, _ = b.Stmts.Let(stmts[4])
	cl, ok = b.Exprs.Closure(let.Init)
	if !ok || !cl.Move || len(cl.Params) != 0 {
		t.Fatalf("expected move closure without params")
	}
}

func TestBlockLikeStatements(t *testing.T) {
	b, _ := mustParse(t, `
fn f() -> u64 {
    if a { 1 } else { 2 }
    match x { _ => {} }
    -1;
    unsafe { g() }.len();
    loop { break 5; }
}`)
	stmts := fnBody(t, b, "f")
	if len(stmts) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(stmts))
	}
	st, _ := b.Stmts.Expr(stmts[3])
	if _, ok := b.Exprs.MethodCall(st.X); !ok {
		t.Errorf("expected method call on unsafe block")
	}
}

func TestLetChains(t *testing.T) {
	b, _, x := exprOf(t, "if let Some(a) = opt && a > 0 { }")
	ifd, ok := b.Exprs.If(x)
	if !ok {
		t.Fatalf("expected if")
	}
	bin, ok := b.Exprs.Binary(ifd.Cond)
	if !ok || bin.Op != ast.ExprBinaryAnd {
		t.Fatalf("expected && chain")
	}
	if b.Exprs.Get(bin.Left).Kind != ast.ExprLet {
		t.Errorf("left side must be let")
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing operand", "fn f() { a + ; }"},
		{"missing semicolon", "fn f() { a = 1 b = 2; }"},
		{"unclosed call", "fn f() { g(1, 2; }"},
		{"generic field", "fn f() { a.b::<u8>; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := parseFails(t, tt.src)
			if len(diags) != 1 {
				t.Errorf("expected exactly one diagnostic, got %d", len(diags))
			}
		})
	}
}

func TestDeepNestingFails(t *testing.T) {
	src := "fn f() { "
	for range 300 {
		src += "("
	}
	src += "1"
	for range 300 {
		src += ")"
	}
	src += "; }"
	parseFails(t, src)
}
