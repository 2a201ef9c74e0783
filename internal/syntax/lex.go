package syntax

// grammar scans one token. next skips whitespace from pos and returns the
// token starting there; ok is false at end of input. A token must depend
// only on the bytes from its own start onward, and every non-whitespace
// byte must end up inside some token.
type grammar interface {
	next(src []byte, pos int) (tok Token, ok bool)
}

func lexAll(g grammar, src []byte, pos int, out []Token) []Token {
	for {
		tok, ok := g.next(src, pos)
		if !ok {
			return out
		}
		out = append(out, tok)
		pos = tok.End
	}
}

type pendingEdit struct {
	valid  bool
	lo     int // first retired token
	relex  int // offset re-lexing restarts from
	start  int
	oldEnd int
}

// LexEngine keeps a token arena current across edits by re-lexing only the
// lines an edit touches and splicing the result in.
type LexEngine struct {
	Base
	family  Family
	g       grammar
	pending pendingEdit
}

func newLexEngine(family Family, g grammar, src Source, opts Options) *LexEngine {
	e := &LexEngine{Base: NewBase(src, opts), family: family, g: g}
	e.Reset()
	return e
}

func (e *LexEngine) Family() Family { return e.family }

func (e *LexEngine) Tokens() *Tokens { return &e.Toks }

// Reset rebuilds every token from scratch.
func (e *LexEngine) Reset() {
	e.pending = pendingEdit{}
	e.Toks.Set(lexAll(e.g, e.Src.Bytes(), 0, nil))
}

// BeforeEdit retires the tokens from the start of the first touched line,
// widened to the start of any token spanning into it.
func (e *LexEngine) BeforeEdit(start, end int) {
	src := e.Src.Bytes()
	ls := lineStartOf(src, start)
	lo := sortSearchEnd(e.Toks.Toks, ls)
	relex := ls
	if lo < len(e.Toks.Toks) && e.Toks.Toks[lo].Start < ls {
		relex = e.Toks.Toks[lo].Start
	}
	e.pending = pendingEdit{valid: true, lo: lo, relex: relex, start: start, oldEnd: end}
}

// AfterEdit re-lexes from the retired span until a fresh token lands on
// the shifted start of a surviving old token past the edit; from there on
// the old tokens are known to be unchanged.
func (e *LexEngine) AfterEdit(start, end int) {
	p := e.pending
	e.pending = pendingEdit{}
	if !p.valid || p.start != start {
		e.Reset()
		return
	}
	src := e.Src.Bytes()
	old := e.Toks.Toks
	delta := end - p.oldEnd

	j := p.lo
	for j < len(old) && old[j].Start < p.oldEnd {
		j++
	}
	var fresh []Token
	pos := p.relex
	for {
		tok, ok := e.g.next(src, pos)
		if !ok {
			j = len(old)
			break
		}
		if tok.Start >= end {
			for j < len(old) && old[j].Start+delta < tok.Start {
				j++
			}
			if j < len(old) && old[j].Start+delta == tok.Start {
				break
			}
		}
		fresh = append(fresh, tok)
		pos = tok.End
	}
	e.Toks.Splice(p.lo, j, fresh, delta)
}

// sortSearchEnd returns the first token whose end reaches pos.
func sortSearchEnd(toks []Token, pos int) int {
	lo, hi := 0, len(toks)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if toks[mid].End < pos {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
