package detector

import (
	"fmt"
	"strings"

	"anchorsec/internal/anchor"
	"anchorsec/internal/diag"
)

// Детекторы этого файла смотрят только на объявления структур, не на тела функций.

var sysvarInfo = Info{
	ID:              "INEFFICIENT_SYSVAR_ACCOUNT",
	Name:            "Inefficient Sysvar Account Usage",
	Description:     "Detects usage of Sysvar<'info, Type> accounts and suggests using the more efficient get() method",
	DefaultSeverity: diag.SevWarning,
	Message:         "Sysvar account usage detected. Consider using the get() method for better efficiency.",
}

// InefficientSysvar flags Sysvar<'info, T> fields of accounts contexts.
type InefficientSysvar struct{}

func NewInefficientSysvar() *InefficientSysvar { return &InefficientSysvar{} }

func (d *InefficientSysvar) Info() Info                 { return sysvarInfo }
func (d *InefficientSysvar) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *InefficientSysvar) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *InefficientSysvar) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, ctx := range prog.Contexts {
		for i := range ctx.Fields {
			f := &ctx.Fields[i]
			if f.Category != anchor.CatSysvar || f.TypeArg == "" {
				continue
			}
			msg := fmt.Sprintf("Consider using %[1]s::get()? instead of Sysvar<'info, %[1]s>. "+
				"The get() method is more efficient as it doesn't require passing the sysvar account in the transaction.", f.TypeArg)
			out = append(out, finding(sysvarInfo, diag.RangeOf(prog.File, f.Span), msg))
		}
	}
	return out
}

var initSpaceInfo = Info{
	ID:              "MISSING_INITSPACE",
	Name:            "Missing InitSpace macro",
	Description:     "Detects Anchor accounts structs that don't use the #[derive(InitSpace)] macro",
	DefaultSeverity: diag.SevWarning,
	Message:         "Accounts struct has no #[derive(InitSpace)] macro. Consider adding it for proper space allocation.",
}

// MissingInitSpace flags #[account] structs without #[derive(InitSpace)].
type MissingInitSpace struct{}

func NewMissingInitSpace() *MissingInitSpace { return &MissingInitSpace{} }

func (d *MissingInitSpace) Info() Info                 { return initSpaceInfo }
func (d *MissingInitSpace) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *MissingInitSpace) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *MissingInitSpace) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, acc := range prog.Accounts {
		if hasInitSpace(acc) {
			continue
		}
		line := prog.File.LineCol(acc.Span.Start).Line
		out = append(out, finding(initSpaceInfo, diag.LineRange(prog.File, line), initSpaceInfo.Message))
	}
	return out
}

func hasInitSpace(acc *anchor.AccountStruct) bool {
	for _, name := range acc.Attrs.Derives() {
		if strings.Contains(name, "InitSpace") {
			return true
		}
	}
	return false
}

var checkCommentInfo = Info{
	ID:              "MISSING_CHECK_COMMENT",
	Name:            "Missing CHECK Comment",
	Description:     "Detects AccountInfo and UncheckedAccount fields without required /// CHECK: doc comments",
	DefaultSeverity: diag.SevError,
	Message:         "Missing /// CHECK: doc comment for unchecked account",
}

// MissingCheckComment flags raw account fields lacking a /// CHECK: explanation.
type MissingCheckComment struct{}

func NewMissingCheckComment() *MissingCheckComment { return &MissingCheckComment{} }

func (d *MissingCheckComment) Info() Info                 { return checkCommentInfo }
func (d *MissingCheckComment) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *MissingCheckComment) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *MissingCheckComment) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, ctx := range prog.Contexts {
		for i := range ctx.Fields {
			f := &ctx.Fields[i]
			if f.Category != anchor.CatRaw || hasCheckDoc(f.Docs) {
				continue
			}
			msg := fmt.Sprintf("Missing /// CHECK: doc comment for %s field '%s'. "+
				"Add a doc comment explaining why this account doesn't need validation. "+
				"Example:\n/// CHECK: This account is used for [explain purpose and why it's safe]", f.TypeName, f.Name)
			out = append(out, finding(checkCommentInfo, diag.RangeOf(prog.File, f.Span), msg))
		}
	}
	return out
}

func hasCheckDoc(docs []string) bool {
	for _, line := range docs {
		if strings.HasPrefix(strings.TrimSpace(line), "CHECK:") {
			return true
		}
	}
	return false
}
