package signergraph

import (
	"sort"
)

type stateTag uint8

const (
	unvisited stateTag = iota
	inProgress
	resolved
)

type state struct {
	tag    stateTag
	signed bool
}

// Verdict is the resolution of one context name.
type Verdict struct {
	Found  bool
	Signed bool
	// Ambiguous is set when the name has several declarations whose verdicts differ.
	Ambiguous bool
	Files     []string
	// Composites are the nested context names of the declarations, deduplicated in order.
	Composites []string
}

// Resolver memoizes reachability over one graph. Not safe for concurrent use.
type Resolver struct {
	g     *Graph
	state map[string]state
}

func NewResolver(g *Graph) *Resolver {
	return &Resolver{g: g, state: make(map[string]state)}
}

// Resolve decides whether name reaches a Signer.
func (r *Resolver) Resolve(name string) Verdict {
	decls := r.g.Lookup(name)
	if len(decls) == 0 {
		return Verdict{}
	}
	v := Verdict{Found: true}
	seenFile := make(map[string]bool)
	seenComp := make(map[string]bool)
	var verdicts []bool
	for _, d := range decls {
		signed, _ := r.declSigned(d.Decl)
		verdicts = append(verdicts, signed)
		if !seenFile[d.Path] {
			seenFile[d.Path] = true
			v.Files = append(v.Files, d.Path)
		}
		for _, c := range d.Composites {
			if !seenComp[c] {
				seenComp[c] = true
				v.Composites = append(v.Composites, c)
			}
		}
	}
	v.Signed = verdicts[0]
	for _, s := range verdicts[1:] {
		if s != v.Signed {
			v.Ambiguous = true
		}
		v.Signed = v.Signed || s
	}
	sort.Strings(v.Files)
	return v
}

// reach returns the memoized verdict of name. provisional reports that the
// answer leaned on a name still being resolved higher up the stack.
func (r *Resolver) reach(name string) (signed, provisional bool) {
	switch st := r.state[name]; st.tag {
	case resolved:
		return st.signed, false
	case inProgress:
		// цикл: пока неизвестно, считаем false
		return false, true
	}
	decls := r.g.Lookup(name)
	if len(decls) == 0 {
		r.state[name] = state{tag: resolved}
		return false, false
	}
	r.state[name] = state{tag: inProgress}
	for _, d := range decls {
		s, p := r.declSigned(d.Decl)
		if s {
			signed = true
			provisional = false
			break
		}
		provisional = provisional || p
	}
	if provisional {
		// false, зависящий от незавершённого узла, не кешируем
		r.state[name] = state{tag: unvisited}
		return false, true
	}
	r.state[name] = state{tag: resolved, signed: signed}
	return signed, false
}

func (r *Resolver) declSigned(d Decl) (signed, provisional bool) {
	if d.HasSigner {
		return true, false
	}
	for _, c := range d.Composites {
		s, p := r.reach(c)
		if s {
			return true, false
		}
		provisional = provisional || p
	}
	return false, provisional
}
