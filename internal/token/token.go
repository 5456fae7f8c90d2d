// Package token holds the values passed between the tokenizer, the byte-range
// indexer, the highlight mapper and the diff line numberer.
//
// Values are immutable once produced. Stages build new slices instead of
// editing the ones they receive, so cached lines can be shared by callers.
package token

// PlainTag is the tag given to text no grammar rule claimed.
const PlainTag = "plain"

// DiffMarkerTag marks a "+" or "-" split off the start of a line in diff mode.
const DiffMarkerTag = "diff-marker"

// Range is a half-open [Start, End) interval of UTF-8 byte offsets into the
// whole document.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

type Token struct {
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
	Range   Range    `json:"range"`
	Empty   bool     `json:"empty,omitempty"`
}

type Line struct {
	Tokens []Token `json:"tokens"`
	// Terminator is the byte width of the terminator that ended this line in
	// the source: 0, 1 (LF or CR) or 2 (CRLF).
	Terminator int `json:"terminator"`
}

// Text returns the line without its terminator.
func (l Line) Text() string {
	switch len(l.Tokens) {
	case 0:
		return ""
	case 1:
		return l.Tokens[0].Content
	}
	n := 0
	for _, tok := range l.Tokens {
		n += len(tok.Content)
	}
	buf := make([]byte, 0, n)
	for _, tok := range l.Tokens {
		buf = append(buf, tok.Content...)
	}
	return string(buf)
}

// EmptyToken is the sentinel that stands in for a zero-length line.
func EmptyToken() Token {
	return Token{Tags: []string{PlainTag}, Empty: true}
}

type Segment struct {
	Highlighted bool     `json:"highlighted"`
	Content     string   `json:"content"`
	StartOfRun  bool     `json:"startOfRun,omitempty"`
	EndOfRun    bool     `json:"endOfRun,omitempty"`
	Tags        []string `json:"tags"`
	Range       Range    `json:"range"`
	Hover       *Range   `json:"hover,omitempty"`
}

type DiffLineNumber struct {
	Add    *int `json:"add"`
	Remove *int `json:"remove"`
}

// SegmentsText concatenates segment contents.
func SegmentsText(segs []Segment) string {
	n := 0
	for _, s := range segs {
		n += len(s.Content)
	}
	buf := make([]byte, 0, n)
	for _, s := range segs {
		buf = append(buf, s.Content...)
	}
	return string(buf)
}
