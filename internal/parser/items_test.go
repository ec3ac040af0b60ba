package parser

import (
	"testing"

	"anchorsec/internal/ast"
)

const anchorProgram = `//! Vault program
use anchor_lang::prelude::*;
use anchor_spl::token::{self, Token, TokenAccount as TA};

declare_id!("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS");

#[program]
pub mod vault {
    use super::*;

    /// Deposits lamports.
    pub fn deposit(ctx: Context<Deposit>, amount: u64) -> Result<()> {
        ctx.accounts.vault.amount += amount;
        Ok(())
    }
}

#[derive(Accounts)]
#[instruction(amount: u64)]
pub struct Deposit<'info> {
    #[account(mut, has_one = owner)]
    pub vault: Account<'info, Vault>,
    pub owner: Signer<'info>,
    /// CHECK: only read
    pub other: UncheckedAccount<'info>,
    pub system_program: Program<'info, System>,
}

#[account]
#[derive(InitSpace)]
pub struct Vault {
    pub owner: Pubkey,
    pub amount: u64,
    #[max_len(32)]
    pub name: String,
}

impl<'a> Vault {
    pub const SEED: &'static [u8] = b"vault";
    fn total(&self) -> u64 { self.amount }
}

#[error_code]
pub enum ErrorCode {
    #[msg("too big")]
    TooBig,
    Other = 7,
}
`

func TestAnchorProgramItems(t *testing.T) {
	b, file := mustParse(t, anchorProgram)

	if len(b.File.Attrs) != 1 || !b.File.Attrs[0].IsDoc {
		t.Fatalf("expected inner doc attribute on file, got %d attrs", len(b.File.Attrs))
	}
	if len(b.File.Items) != 8 {
		t.Fatalf("expected 8 top-level items, got %d", len(b.File.Items))
	}

	modID, mod := findItem(t, b, "vault")
	if mod.Kind != ast.ItemMod || !mod.Vis.IsPub() {
		t.Fatalf("vault must be a pub mod")
	}
	if _, ok := mod.Attrs.Find("program"); !ok {
		t.Errorf("expected #[program] on mod")
	}
	m, _ := b.Items.Mod(modID)
	if len(m.Items) != 2 {
		t.Fatalf("expected 2 items in mod, got %d", len(m.Items))
	}
	deposit := b.Items.Get(m.Items[1])
	if deposit.Name != "deposit" || len(deposit.Attrs.DocLines()) != 1 {
		t.Errorf("expected documented deposit fn")
	}
	fn, _ := b.Items.Fn(m.Items[1])
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if name, ok := fn.Params[1].Name(b.Pats); !ok || name != "amount" {
		t.Errorf("second param = %q", name)
	}

	stID, st := findItem(t, b, "Deposit")
	if !st.Attrs.HasDerive("Accounts") {
		t.Errorf("expected derive(Accounts)")
	}
	if got := file.LineCol(st.Span.Start).Line; got != 18 {
		t.Errorf("struct span must start at the first attribute, got line %d", got)
	}
	s, _ := b.Items.Struct(stID)
	if len(s.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(s.Fields))
	}
	if _, ok := s.Fields[0].Attrs.Find("account"); !ok {
		t.Errorf("expected #[account] on vault field")
	}
	if docs := s.Fields[2].Attrs.DocLines(); len(docs) != 1 || docs[0] != " CHECK: only read" {
		t.Errorf("unexpected doc lines %q", docs)
	}
	if name, args, ok := b.Types.PathName(s.Fields[0].Type); !ok || name != "Account" || len(args) != 1 {
		t.Errorf("vault type = %s %d", name, len(args))
	}
}

func TestUseTrees(t *testing.T) {
	b, _ := mustParse(t, "use a::{self, b::c as d, e::*};\nuse ::x::y;\n")
	u, ok := b.Items.Use(b.File.Items[0])
	if !ok {
		t.Fatalf("expected use item")
	}
	got := u.Tree.Flatten()
	want := []string{"a::self", "a::b::c", "a::e::*"}
	if len(got) != len(want) {
		t.Fatalf("flatten = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flatten[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestItemKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ast.ItemKind
	}{
		{"tuple struct", "pub struct Wrapper(pub u64, Vec<u8>);", ast.ItemStruct},
		{"unit struct", "struct Marker;", ast.ItemStruct},
		{"union", "union U { a: u32, b: f32 }", ast.ItemStruct},
		{"trait", "pub trait Seeded: Sized { const N: usize; fn seeds(&self) -> Vec<&[u8]>; type Out; }", ast.ItemTrait},
		{"trait impl", "impl<T: Clone> From<T> for Box<T> where T: Copy { fn from(t: T) -> Self { todo!() } }", ast.ItemImpl},
		{"static", "static mut COUNTER: u64 = 0;", ast.ItemConst},
		{"const underscore", "const _: () = ();", ast.ItemConst},
		{"type alias", "type Res<T> = std::result::Result<T, Error>;", ast.ItemTypeAlias},
		{"extern crate", "extern crate alloc as a;", ast.ItemExternCrate},
		{"extern block", `extern "C" { fn abort() -> !; }`, ast.ItemExternBlock},
		{"macro rules", "macro_rules! m { ($x:expr) => { $x }; }", ast.ItemMacro},
		{"const fn", "pub(crate) const unsafe fn raw(p: *const u8) {}", ast.ItemFn},
		{"async fn", "async fn run<'a, const N: usize>(xs: &'a [u8; N]) where [u8; N]: Sized {}", ast.ItemFn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustParse(t, tt.src)
			if len(b.File.Items) != 1 {
				t.Fatalf("expected one item, got %d", len(b.File.Items))
			}
			if got := b.Items.Get(b.File.Items[0]).Kind; got != tt.kind {
				t.Errorf("kind = %d, want %d", got, tt.kind)
			}
		})
	}
}

func TestSelfParams(t *testing.T) {
	b, _ := mustParse(t, `impl S {
    fn a(self) {}
    fn b(&self) {}
    fn c(&'a mut self, x: u8) {}
    fn d(mut self: Box<Self>) {}
}`)
	im, _ := b.Items.Impl(b.File.Items[0])
	want := []ast.SelfKind{ast.SelfValue, ast.SelfRef, ast.SelfRefMut, ast.SelfValue}
	for i, id := range im.Items {
		fn, _ := b.Items.Fn(id)
		if fn.Params[0].Self != want[i] {
			t.Errorf("fn %d: self kind = %d, want %d", i, fn.Params[0].Self, want[i])
		}
	}
}

func TestItemErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing brace", "fn f() {"},
		{"bad field", "struct S { a u8 }"},
		{"stray token", "fn f() {} }"},
		{"unterminated string", `const S: &str = "abc;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diags := parseFails(t, tt.src); len(diags) == 0 {
				t.Errorf("expected diagnostics")
			}
		})
	}
}
