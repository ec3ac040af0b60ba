package detector

import (
	"strings"
	"testing"

	"anchorsec/internal/diag"
)

const updateContext = `
#[derive(Accounts)]
pub struct Update<'info> {
    /// CHECK: raw vault
    pub vault: AccountInfo<'info>,
    pub state: Account<'info, State>,
    #[account(mut)]
    pub writable: Account<'info, State>,
    #[account(init, payer = payer, space = 8 + State::INIT_SPACE)]
    pub fresh: Account<'info, State>,
    pub payer: Signer<'info>,
}
`

func handler(body string) string {
	return program("pub fn update(ctx: Context<Update>, amount: u64) -> Result<()> {\n" + body + "\n    Ok(())\n}\n" + updateContext)
}

func TestImmutableAccountMutated(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"field assignment", "ctx.accounts.vault.balance = 100;", 2},
		{"compound assignment", "ctx.accounts.state.amount += amount;", 2},
		{"index assignment", "ctx.accounts.state.data[0] = 1;", 2},
		{"mutable field", "ctx.accounts.writable.amount = 1;", 0},
		{"init field", "ctx.accounts.fresh.amount = 1;", 0},
		{"signer is not tracked", "ctx.accounts.payer.x = 1;", 0},
		{"read only", "let a = ctx.accounts.state.amount + 1; msg!(\"{}\", a);", 0},
		{"mutator method", "ctx.accounts.vault.realloc(64, false)?;", 2},
		{"mutator prefix", "ctx.accounts.state.items.push(1);", 2},
		{"non mutating method", "let k = ctx.accounts.state.key();", 0},
		{"mut reference argument", "helper(&mut ctx.accounts.state);", 2},
		{"mut reference in method args", "ctx.accounts.state.load(&mut buf);", 2},
		{"lamports through borrow", "**ctx.accounts.vault.try_borrow_mut_lamports()? = 0;", 2},
		{"to_account_info", "ctx.accounts.state.to_account_info().assign(&id);", 2},
		{"alias", "let c = &mut ctx.accounts.state; c.amount += 1;", 2},
		{"alias through deref", "let c = &mut ctx.accounts.state; let d = &mut *c; d.amount = 1;", 2},
		{"alias of projection", "let a = &mut ctx.accounts.state.amount; *a += 1;", 2},
		{"unused alias", "let c = &mut ctx.accounts.state;", 0},
		{"alias rebound", "let c = &mut ctx.accounts.state; let mut c = Local { amount: 0 }; c.amount = 1;", 0},
		{"shadow in inner block", "let c = &mut ctx.accounts.state; { let c = 1; } c.amount += 1;", 2},
		{"shadow inside block only", "let c = &mut ctx.accounts.state; { let mut c = Local { amount: 0 }; c.amount = 1; }", 0},
		{"if let shadow ends with branch", "let c = &mut ctx.accounts.state; if let Some(c) = maybe { c.amount = 1; } c.amount = 2;", 2},
		{"closure param shadows", "let c = &mut ctx.accounts.state; let f = |mut c: Local| { c.amount = 1; };", 0},
		{"match binding shadows", "let c = &mut ctx.accounts.state; match maybe { Some(mut c) => { c.amount = 1; }, None => {} }", 0},
		{"alias declared in block", "{ let c = &mut ctx.accounts.state; c.amount = 1; }", 2},
		{"shadow local", "let mut vault = Local { balance: 0 }; vault.balance = 5;", 0},
		{"bare field name", "state.amount = 5;", 0},
		{"nested in block", "if amount > 0 { for _ in 0..2 { ctx.accounts.state.amount = amount; } }", 2},
		{"in closure", "let f = || { ctx.accounts.state.amount = 1; }; f();", 2},
		{"match arm", "match amount { 0 => {}, _ => { ctx.accounts.state.amount = 2; } }", 2},
	}
	d := NewImmutableAccountMutated()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Analyze(handler(tt.body), "lib.rs")
			wantCount(t, got, tt.want)
		})
	}
}

func TestMutationScenario(t *testing.T) {
	text := program(`
#[program]
pub mod vault {
    use super::*;
    pub fn update(ctx: Context<Update>) -> Result<()> {
        ctx.accounts.vault.balance = 100;
        Ok(())
    }
}

#[derive(Accounts)]
pub struct Update<'info> {
    pub vault: AccountInfo<'info>,
    pub payer: Signer<'info>,
}
`)
	d := NewImmutableAccountMutated()
	got := d.Analyze(text, "programs/vault/src/lib.rs")
	wantCount(t, got, 2)

	site, decl := got[0], got[1]
	if site.Message != "Attempting to mutate immutable account 'vault'. Add #[account(mut)] to allow mutation." {
		t.Errorf("site message: %q", site.Message)
	}
	if decl.Message != "Account 'vault' is defined here without #[account(mut)]" {
		t.Errorf("declaration message: %q", decl.Message)
	}
	if site.Range.StartLine != 7 || decl.Range.StartLine != 14 {
		t.Errorf("lines: site %d decl %d", site.Range.StartLine, decl.Range.StartLine)
	}
	if !diag.Linked(site, decl) {
		t.Fatal("site and declaration must reference each other")
	}
	if site.Related[0].Message != decl.Message || decl.Related[0].Message != "Account 'vault' is mutated here" {
		t.Errorf("related: %+v / %+v", site.Related, decl.Related)
	}
	if site.Related[0].FilePath != "programs/vault/src/lib.rs" {
		t.Errorf("related path: %q", site.Related[0].FilePath)
	}
	for _, dg := range got {
		if dg.Severity != diag.SevError || dg.Source != diag.SourceName {
			t.Errorf("severity/source: %v %q", dg.Severity, dg.Source)
		}
	}

	fixed := strings.Replace(text, "pub vault: AccountInfo", "#[account(mut)]\n    pub vault: AccountInfo", 1)
	wantCount(t, d.Analyze(fixed, "lib.rs"), 0)
}

func TestMutationPairsAreLinked(t *testing.T) {
	body := `ctx.accounts.vault.balance = 1;
    ctx.accounts.state.amount -= 1;
    let c = &mut ctx.accounts.state;
    c.amount = 3;`
	got := NewImmutableAccountMutated().Analyze(handler(body), "lib.rs")
	wantCount(t, got, 6)
	for i := 0; i < len(got); i += 2 {
		site, decl := got[i], got[i+1]
		if len(site.Related) != 1 || len(decl.Related) != 1 || !diag.Linked(site, decl) {
			t.Errorf("pair %d is not linked: %+v / %+v", i/2, site, decl)
		}
	}
}

func TestMutationOnlyInBoundHandlers(t *testing.T) {
	text := program(`
pub fn helper(x: u8, ctx: Context<Update>) {
    ctx.accounts.state.amount = 1;
}

pub fn other(ctx: Context<Missing>) {
    ctx.accounts.state.amount = 1;
}

impl Foo {
    fn unrelated(&mut self) { self.accounts.state.amount = 1; }
}
` + updateContext)
	wantCount(t, NewImmutableAccountMutated().Analyze(text, "lib.rs"), 0)
}
