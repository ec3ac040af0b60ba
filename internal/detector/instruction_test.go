package detector

import (
	"strings"
	"testing"
)

func TestInstructionAttributeUnused(t *testing.T) {
	text := program(`
#[derive(Accounts)]
#[instruction(amount: u64, memo: String)]
pub struct Deposit<'info> {
    #[account(mut, seeds = [b"vault", &amount.to_le_bytes()], bump)]
    pub vault: Account<'info, Vault>,
    pub user: Signer<'info>,
}

#[derive(Accounts)]
#[instruction(bump: u8)]
pub struct Create<'info> {
    #[account(init, payer = user, space = 8, seeds = [b"x"], bump = bump)]
    pub thing: Account<'info, Vault>,
    pub user: Signer<'info>,
}
`)
	got := NewInstructionAttributeUnused().Analyze(text, "lib.rs")
	wantCount(t, got, 1)
	if got[0].Message != "Unused instruction parameter: 'memo'" {
		t.Errorf("message = %q", got[0].Message)
	}
	if got[0].Range.StartLine != 4 {
		t.Errorf("line = %d, want 4", got[0].Range.StartLine)
	}
}

func instructionProgram(attr, params string) string {
	return program(`
pub fn handle(ctx: Context<Handle>` + params + `) -> Result<()> {
    Ok(())
}

#[derive(Accounts)]
#[instruction(` + attr + `)]
pub struct Handle<'info> {
    pub user: Signer<'info>,
}
`)
}

func TestInstructionAttributeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		attr   string
		params string
		want   []string
	}{
		{
			name:   "matching",
			attr:   "amount: u64, bump: u8",
			params: ", amount: u64, bump: u8, extra: bool",
		},
		{
			name:   "prefix",
			attr:   "amount: u64",
			params: ", amount: u64, bump: u8",
		},
		{
			name:   "swapped",
			attr:   "x: u8, y: bool",
			params: ", y: u8, x: bool",
			want:   []string{"Instruction parameter 'x' does not match handler parameter 'y' at position 1"},
		},
		{
			name:   "wrong type",
			attr:   "amount: u32",
			params: ", amount: u64",
			want:   []string{"Instruction parameter 'amount' has type 'u32' but handler function expects type 'u64'"},
		},
		{
			name:   "str equals String",
			attr:   "name: &str",
			params: ", name: String",
		},
		{
			name:   "static str",
			attr:   "name: &'static str",
			params: ", name: String",
		},
		{
			name:   "too many",
			attr:   "a: u8, b: u8",
			params: ", a: u8",
			want:   []string{"Instruction parameter 'b' not found in handler function"},
		},
		{
			name:   "type and missing",
			attr:   "a: u16, b: u8",
			params: ", a: u8",
			want: []string{
				"Instruction parameter 'a' has type 'u16'",
				"Instruction parameter 'b' not found",
			},
		},
	}
	d := NewInstructionAttributeInvalid()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Analyze(instructionProgram(tt.attr, tt.params), "lib.rs")
			wantCount(t, got, len(tt.want))
			for i, prefix := range tt.want {
				if !strings.HasPrefix(got[i].Message, prefix) {
					t.Errorf("diagnostic %d = %q, want prefix %q", i, got[i].Message, prefix)
				}
				if got[i].Code != "INSTRUCTION_ATTRIBUTE_INVALID" {
					t.Errorf("code = %q", got[i].Code)
				}
			}
		})
	}
}

func TestInstructionAttributeInvalidEveryHandler(t *testing.T) {
	text := program(`
pub fn first(ctx: Context<Handle>, amount: u64) -> Result<()> { Ok(()) }
pub fn second(ctx: Context<Handle>, other: u64) -> Result<()> { Ok(()) }

#[derive(Accounts)]
#[instruction(amount: u64)]
pub struct Handle<'info> {
    pub user: Signer<'info>,
}
`)
	got := NewInstructionAttributeInvalid().Analyze(text, "lib.rs")
	wantCount(t, got, 1)
	if !strings.Contains(got[0].Message, "handler parameter 'other'") {
		t.Errorf("message = %q", got[0].Message)
	}
}
