package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"anchorsec/internal/diag"
	"anchorsec/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	code     *color.Color
	path     *color.Color
	gutter   *color.Color
	caret    *color.Color
	note     *color.Color
	disabled bool
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
			diag.SevHint:    color.New(color.FgWhite),
		},
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	all := []*color.Color{p.code, p.path, p.gutter, p.caret, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		// глобальный color.NoColor не должен влиять на явный выбор
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Range, затем related-заметки.
// Диагностики каждого файла сортируются по позиции.
func Pretty(w io.Writer, files []File, opts PrettyOpts) {
	p := newPalette(opts.Color)
	printed := 0
	for _, f := range files {
		path := displayPath(f.Path, opts.PathMode, opts.BaseDir)
		for _, d := range sorted(f.Diagnostics) {
			if opts.Max > 0 && printed >= opts.Max {
				fmt.Fprintf(w, "... %d more diagnostics not shown\n", Count(files)-printed)
				return
			}
			printed++
			prettyOne(w, p, path, f.Source, d, opts)
		}
	}
}

func prettyOne(w io.Writer, p palette, path string, src *source.File, d diag.Diagnostic, opts PrettyOpts) {
	lines := strings.Split(d.Message, "\n")
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", path, d.Range.StartLine+1, d.Range.StartCol+1),
		p.sev[d.Severity].Sprint(d.Severity.String()),
		p.code.Sprint(d.Code),
		lines[0])
	if src != nil {
		snippet(w, p, src, d.Range, opts.Context)
	}
	for _, extra := range lines[1:] {
		fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprint("="), extra)
	}
	if !opts.ShowNotes {
		return
	}
	for _, rel := range d.Related {
		relPath := path
		if rel.FilePath != "" {
			relPath = displayPath(rel.FilePath, opts.PathMode, opts.BaseDir)
		}
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
			relPath, rel.Range.StartLine+1, rel.Range.StartCol+1, rel.Message)
	}
}

func snippet(w io.Writer, p palette, src *source.File, rng diag.Range, context int8) {
	lineNum := rng.StartLine + 1
	if lineNum > src.LineCount() {
		return
	}
	first := lineNum
	if context > 0 && uint32(context) < lineNum {
		first = lineNum - uint32(context)
	} else if context > 0 {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(lineNum))
	for n := first; n <= lineNum; n++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), src.GetLine(n))
	}

	line := src.GetLine(lineNum)
	start := byteCol(line, rng.StartCol)
	end := len(line)
	if rng.EndLine == rng.StartLine {
		end = byteCol(line, rng.EndCol)
	}
	end = max(end, start)

	// табы в отступе сохраняем, чтобы ^ встал под нужный символ
	var pad strings.Builder
	for _, r := range line[:start] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(1, runewidth.StringWidth(line[start:end]))
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), pad.String(), p.caret.Sprint(marker))
}

// Short prints one line per diagnostic: path:line:col: severity CODE: message.
func Short(w io.Writer, files []File, mode PathMode, base string) {
	for _, f := range files {
		path := displayPath(f.Path, mode, base)
		for _, d := range sorted(f.Diagnostics) {
			fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, d.Range.StartLine+1, d.Range.StartCol+1,
				strings.ToLower(d.Severity.String()), d.Code, strings.Join(strings.Fields(d.Message), " "))
		}
	}
}
