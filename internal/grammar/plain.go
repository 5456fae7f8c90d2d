package grammar

import "codeview/internal/token"

type plainGrammar struct{}

// Plain emits the whole text as one untyped piece. It cannot fail.
var Plain Grammar = plainGrammar{}

func (plainGrammar) Name() string { return "plain" }

func (plainGrammar) Tokenize(text string) ([]Piece, error) {
	if text == "" {
		return nil, nil
	}
	return []Piece{{Tags: []string{token.PlainTag}, Content: text}}, nil
}
