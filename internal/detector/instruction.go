package detector

import (
	"fmt"
	"strings"

	"anchorsec/internal/anchor"
	"anchorsec/internal/diag"
)

var unusedInfo = Info{
	ID:              "INSTRUCTION_ATTRIBUTE_UNUSED",
	Name:            "Instruction Attribute Unused",
	Description:     "Detects unused instruction parameters in the #[instruction(...)] attribute",
	DefaultSeverity: diag.SevWarning,
	Message:         "Unused instruction parameter",
}

// InstructionAttributeUnused flags #[instruction] parameters that no
// #[account(...)] constraint of the struct refers to.
type InstructionAttributeUnused struct{}

func NewInstructionAttributeUnused() *InstructionAttributeUnused {
	return &InstructionAttributeUnused{}
}

func (d *InstructionAttributeUnused) Info() Info                 { return unusedInfo }
func (d *InstructionAttributeUnused) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *InstructionAttributeUnused) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *InstructionAttributeUnused) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, ctx := range prog.Contexts {
		for _, p := range ctx.Instruction {
			if mentioned(ctx, p.Name) {
				continue
			}
			msg := fmt.Sprintf("%s: '%s'", unusedInfo.Message, p.Name)
			out = append(out, finding(unusedInfo, diag.RangeOf(prog.File, p.Span), msg))
		}
	}
	return out
}

func mentioned(ctx *anchor.Context, name string) bool {
	for i := range ctx.Fields {
		if ctx.Fields[i].Constraints.Mentions(name) {
			return true
		}
	}
	return false
}

var invalidInfo = Info{
	ID:              "INSTRUCTION_ATTRIBUTE_INVALID",
	Name:            "Instruction Attribute Invalid",
	Description:     "Detects invalid use of instruction attribute - parameters must be in the same order as the handler function and cannot skip parameters",
	DefaultSeverity: diag.SevError,
	Message:         "Invalid use of instruction attribute",
}

// InstructionAttributeInvalid cross-checks #[instruction(...)] against the
// parameters of every handler taking Context<Struct>.
type InstructionAttributeInvalid struct{}

func NewInstructionAttributeInvalid() *InstructionAttributeInvalid {
	return &InstructionAttributeInvalid{}
}

func (d *InstructionAttributeInvalid) Info() Info                 { return invalidInfo }
func (d *InstructionAttributeInvalid) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *InstructionAttributeInvalid) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *InstructionAttributeInvalid) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, ctx := range prog.Contexts {
		if len(ctx.Instruction) == 0 {
			continue
		}
		for _, h := range prog.HandlersFor(ctx.Name) {
			for i, p := range ctx.Instruction {
				msg, kind := checkParam(i, p, h.Params)
				if kind == paramOK {
					continue
				}
				out = append(out, finding(invalidInfo, diag.RangeOf(prog.File, p.Span), msg))
				if kind == paramMisordered {
					// после первого сдвига позиции дальше сравнивать бессмысленно
					break
				}
			}
		}
	}
	return out
}

type paramCheck uint8

const (
	paramOK paramCheck = iota
	paramMissing
	paramMisordered
	paramWrongType
)

func checkParam(i int, p anchor.Param, handler []anchor.Param) (string, paramCheck) {
	if i >= len(handler) {
		return fmt.Sprintf("Instruction parameter '%s' not found in handler function", p.Name), paramMissing
	}
	want := handler[i]
	if p.Name != want.Name {
		return fmt.Sprintf("Instruction parameter '%s' does not match handler parameter '%s' at position %d. "+
			"Parameters must be in the same order as the handler function.", p.Name, want.Name, i+1), paramMisordered
	}
	if normalizeType(p.Type) != normalizeType(want.Type) {
		return fmt.Sprintf("Instruction parameter '%s' has type '%s' but handler function expects type '%s'",
			p.Name, p.Type, want.Type), paramWrongType
	}
	return "", paramOK
}

var strAliases = strings.NewReplacer(
	"&'staticstr", "String",
	"&'_str", "String",
	"&str", "String",
)

// normalizeType compares type spellings loosely: &str and its lifetime
// variants equal String, whitespace and case are ignored.
func normalizeType(s string) string {
	s = strings.Join(strings.Fields(s), "")
	return strings.ToLower(strAliases.Replace(s))
}
