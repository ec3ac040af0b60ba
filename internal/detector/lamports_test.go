package detector

import "testing"

func TestManualLamportsZeroing(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		want int
	}{
		{"field zero", "account.lamports = 0;", 1},
		{"field non zero", "account.lamports = 500;", 0},
		{"compound", "account.lamports += 0;", 0},
		{"other field", "account.balance = 0;", 0},
		{"borrow_mut", "**account.lamports.borrow_mut() = 0;", 1},
		{"try_borrow_mut_lamports", "**account.try_borrow_mut_lamports()? = 0;", 1},
		{"lamports method", "*account.lamports() = 0_000;", 1},
		{"set_lamports", "account.set_lamports(0);", 1},
		{"set_lamports typed", "account.set_lamports(0x0_u64);", 1},
		{"set_lamports non zero", "account.set_lamports(10);", 0},
		{"read", "let x = account.lamports == 0;", 0},
	}
	d := NewManualLamportsZeroing()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := program("fn close(account: &AccountInfo) {\n    " + tt.stmt + "\n}\n")
			got := d.Analyze(text, "lib.rs")
			wantCount(t, got, tt.want)
			if tt.want == 1 && got[0].Range.StartLine != 3 {
				t.Errorf("line = %d, want 3", got[0].Range.StartLine)
			}
		})
	}
}
