package detector

import (
	"strings"
	"testing"

	"anchorsec/internal/diag"
)

func TestInefficientSysvar(t *testing.T) {
	text := program(`
#[derive(Accounts)]
pub struct Tick<'info> {
    pub clock: Sysvar<'info, Clock>,
    pub rent: Sysvar<'info, Rent>,
    pub user: Signer<'info>,
}
`)
	got := NewInefficientSysvar().Analyze(text, "lib.rs")
	wantCount(t, got, 2)
	want := "Consider using Clock::get()? instead of Sysvar<'info, Clock>."
	if !strings.HasPrefix(got[0].Message, want) {
		t.Errorf("message = %q", got[0].Message)
	}
	if got[0].Severity != diag.SevWarning || got[0].Range.StartLine != 5 {
		t.Errorf("diagnostic = %+v", got[0])
	}
	if !strings.Contains(got[1].Message, "Rent::get()?") {
		t.Errorf("message = %q", got[1].Message)
	}
}

func TestMissingInitSpace(t *testing.T) {
	text := program(`
#[account]
pub struct Plain {
    pub amount: u64,
}

#[account]
#[derive(InitSpace)]
pub struct Sized {
    pub amount: u64,
}

pub struct NotAnAccount {
    pub amount: u64,
}
`)
	got := NewMissingInitSpace().Analyze(text, "lib.rs")
	wantCount(t, got, 1)
	rng := got[0].Range
	if rng.StartLine != 3 || rng.StartCol != 0 || rng.EndLine != 3 || rng.EndCol != uint32(len("#[account]")) {
		t.Errorf("range = %+v, want the #[account] line", rng)
	}
	if got[0].Message != initSpaceInfo.Message {
		t.Errorf("message = %q", got[0].Message)
	}
}

func TestMissingCheckComment(t *testing.T) {
	text := program(`
#[derive(Accounts)]
pub struct Raw<'info> {
    pub bare: AccountInfo<'info>,
    /// CHECK: only lamports are read
    pub documented: AccountInfo<'info>,
    /// not a check
    pub wrong: UncheckedAccount<'info>,
    ///CHECK:tight
    pub tight: UncheckedAccount<'info>,
    pub checked: Account<'info, Vault>,
}
`)
	got := NewMissingCheckComment().Analyze(text, "lib.rs")
	wantCount(t, got, 2)
	if !strings.HasPrefix(got[0].Message, "Missing /// CHECK: doc comment for AccountInfo field 'bare'.") {
		t.Errorf("message = %q", got[0].Message)
	}
	if !strings.HasPrefix(got[1].Message, "Missing /// CHECK: doc comment for UncheckedAccount field 'wrong'.") {
		t.Errorf("message = %q", got[1].Message)
	}
	if got[0].Severity != diag.SevError {
		t.Errorf("severity = %v", got[0].Severity)
	}
}
