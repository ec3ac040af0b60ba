// Package signergraph indexes accounts contexts across a workspace and
// decides whether a context reaches a Signer, directly or through nested
// composite contexts.
package signergraph

import (
	"anchorsec/internal/anchor"
)

// summarySchema bumps whenever Decl changes shape; stale disk entries are ignored.
const summarySchema uint16 = 1

// Decl is the workspace-level view of one #[derive(Accounts)] struct.
type Decl struct {
	Name       string   `msgpack:"n"`
	HasSigner  bool     `msgpack:"s"`
	Composites []string `msgpack:"c"`
}

// Summary holds every context declared in one file.
type Summary struct {
	Schema uint16 `msgpack:"v"`
	Decls  []Decl `msgpack:"d"`
	// Broken is set when the file did not parse.
	Broken bool `msgpack:"b"`
}

// Summarize extracts declarations from a parsed program.
func Summarize(prog *anchor.Program) Summary {
	sum := Summary{Schema: summarySchema}
	for _, ctx := range prog.Contexts {
		sum.Decls = append(sum.Decls, Decl{
			Name:       ctx.Name,
			HasSigner:  ctx.HasSigner(),
			Composites: ctx.Composites(),
		})
	}
	return sum
}

// SummarizeText parses text; unparseable files yield a Broken summary with no decls.
func SummarizeText(path string, text []byte) Summary {
	prog, err := anchor.Parse(path, text)
	if err != nil {
		return Summary{Schema: summarySchema, Broken: true}
	}
	return Summarize(prog)
}
