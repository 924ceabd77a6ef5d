// Package mojibake detects and reverses Cyrillic text that was stored after
// being decoded with the wrong single-byte codepage.
//
// Repair runs three short-circuiting gates: a cheap suspicion check, the
// generation of reinterpretation candidates, and an acceptance check that
// only lets through candidates that read better than the input and look like
// clean Russian.
package mojibake

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Method names the reinterpretation that produced a fix.
type Method string

const (
	MethodCP1251 Method = "cp1251->utf8"
	MethodLatin1 Method = "latin1->utf8"
)

// artifacts are glyphs that show up when UTF-8 Cyrillic bytes are read as
// Windows-1251 or Latin-1.
const artifacts = "Ѓѓ‚„…†‡€‰Љ‹ЊЌЋЏђ‘’“”•–—™љ›њќћџ�°±µ"

// tokens are the misdecoded forms of frequent Cyrillic letter pairs.
var tokens = []string{
	"РЎ", "Рђ", "Рџ", "Рќ", "С‚", "СЊ", "Сѓ", "СЏ", "Р°", "Рµ", "Рё", "Рѕ",
}

// Params holds the tuning constants of the heuristic. They were chosen by
// inspection of real data and must stay as DefaultParams for compatibility.
type Params struct {
	ArtifactPenalty int // score deducted per artifact glyph
	QuestionPenalty int // score deducted per '?'
	MinTokenHits    int // token occurrences that make text suspicious
}

// DefaultParams returns the weights the repair job has always used.
func DefaultParams() Params {
	return Params{ArtifactPenalty: 4, QuestionPenalty: 2, MinTokenHits: 2}
}

// Result is the outcome of Repair. A zero Result means "no change".
type Result struct {
	Text   string
	Method Method
}

// Changed reports whether Repair produced a fix.
func (r Result) Changed() bool { return r.Method != "" }

type hypothesis struct {
	method Method
	wrong  *charmap.Charmap
}

// Repairer applies the heuristic with a fixed set of Params.
// It holds no mutable state and is safe for concurrent use.
type Repairer struct {
	params     Params
	hypotheses []hypothesis
}

// New returns a Repairer using p.
func New(p Params) *Repairer {
	return &Repairer{
		params: p,
		hypotheses: []hypothesis{
			{method: MethodCP1251, wrong: charmap.Windows1251},
			{method: MethodLatin1, wrong: charmap.ISO8859_1},
		},
	}
}

var std = New(DefaultParams())

// Repair runs the default Repairer on text.
func Repair(text string) Result { return std.Repair(text) }

// LooksSuspicious runs the default suspicion gate on text.
func LooksSuspicious(text string) bool { return std.LooksSuspicious(text) }

// Score returns the default readability score of text.
func Score(text string) int { return std.Score(text) }

// LooksSuspicious reports whether text is worth trying to repair.
func (r *Repairer) LooksSuspicious(text string) bool {
	if text == "" {
		return false
	}
	if strings.ContainsAny(text, artifacts) {
		return true
	}
	hits := 0
	for _, tok := range tokens {
		hits += strings.Count(text, tok)
	}
	return hits >= r.params.MinTokenHits
}

// Score is the number of Cyrillic letters minus penalties for artifact
// glyphs and question marks.
func (r *Repairer) Score(text string) int {
	cyr, bad, question := 0, 0, 0
	for _, c := range text {
		switch {
		case isCyrillic(c):
			cyr++
		case c == '?':
			question++
		case strings.ContainsRune(artifacts, c):
			bad++
		}
	}
	return cyr - bad*r.params.ArtifactPenalty - question*r.params.QuestionPenalty
}

// Repair returns the reinterpretation of text that reads best, or a zero
// Result when text is not suspicious or no candidate passes acceptance.
func (r *Repairer) Repair(text string) Result {
	if !r.LooksSuspicious(text) {
		return Result{}
	}

	var (
		best      Result
		bestScore int
	)
	for _, h := range r.hypotheses {
		candidate, ok := reinterpret(text, h.wrong)
		if !ok || candidate == text {
			continue
		}
		if s := r.Score(candidate); !best.Changed() || s > bestScore {
			best, bestScore = Result{Text: candidate, Method: h.method}, s
		}
	}

	if !best.Changed() || bestScore <= r.Score(text) || !readableRussian(best.Text) {
		return Result{}
	}
	return best
}

// reinterpret encodes text with the codepage it was wrongly decoded with
// and reads the resulting bytes as UTF-8. ok is false when text holds a rune
// the codepage cannot encode or the bytes are not valid UTF-8.
func reinterpret(text string, wrong *charmap.Charmap) (string, bool) {
	raw, err := wrong.NewEncoder().String(text)
	if err != nil || !utf8.ValidString(raw) {
		return "", false
	}
	return raw, true
}

func readableRussian(text string) bool {
	return strings.IndexFunc(text, isCyrillic) >= 0 && !strings.ContainsAny(text, artifacts)
}

func isCyrillic(c rune) bool {
	return (c >= 'А' && c <= 'я') || c == 'Ё' || c == 'ё'
}
