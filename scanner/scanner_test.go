package scanner

import (
	"bytes"
	"reflect"
	"testing"

	"loxwalk/diagnostics"
	"loxwalk/token"
)

func scanKinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	sink := diagnostics.New(&bytes.Buffer{}, &bytes.Buffer{})
	toks := Scan(src, sink)
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func wantKinds(t *testing.T, src string, want []token.Kind) {
	t.Helper()
	got := scanKinds(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scanning %q\n got: %v\nwant: %v", src, got, want)
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	wantKinds(t, "(){},.-+;*!!====<<=>>=",
		[]token.Kind{
			token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
			token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR,
			token.BANG, token.BANG_EQUAL, token.EQUAL_EQUAL, token.EQUAL, token.LESS, token.LESS_EQUAL,
			token.GREATER, token.GREATER_EQUAL,
			token.END_OF_FILE,
		})
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	wantKinds(t, "and class fooBar or nilly",
		[]token.Kind{
			token.AND, token.CLASS, token.IDENTIFIER, token.OR, token.IDENTIFIER,
			token.END_OF_FILE,
		})
}

func TestScanNumberLiteral(t *testing.T) {
	sink := diagnostics.New(&bytes.Buffer{}, &bytes.Buffer{})
	toks := Scan("123.45 6.", sink)
	if toks[0].Kind != token.NUMBER || toks[0].Literal.(float64) != 123.45 {
		t.Fatalf("got %+v, want NUMBER 123.45", toks[0])
	}
	// A trailing '.' not followed by a digit is its own DOT token.
	wantKinds(t, "6.", []token.Kind{token.NUMBER, token.DOT, token.END_OF_FILE})
}

func TestScanStringLiteral(t *testing.T) {
	sink := diagnostics.New(&bytes.Buffer{}, &bytes.Buffer{})
	toks := Scan(`"hello, world"`, sink)
	if toks[0].Kind != token.STRING || toks[0].Literal.(string) != "hello, world" {
		t.Fatalf("got %+v, want STRING %q", toks[0], "hello, world")
	}
}

func TestScanUnterminatedStringReportsOpeningLine(t *testing.T) {
	errBuf := &bytes.Buffer{}
	sink := diagnostics.New(&bytes.Buffer{}, errBuf)
	Scan("\"line one\nstill going\nnever closes", sink)

	if !sink.HadError() {
		t.Fatalf("expected an error for an unterminated string")
	}
	if got := errBuf.String(); !bytes.Contains([]byte(got), []byte("[line 1]")) {
		t.Fatalf("expected the error to report the opening line (1), got: %s", got)
	}
}

func TestScanSkipsLineComments(t *testing.T) {
	wantKinds(t, "var x = 1; // this is a comment\nvar y = 2;",
		[]token.Kind{
			token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON,
			token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON,
			token.END_OF_FILE,
		})
}

func TestScanEmptySourceProducesOnlyEOF(t *testing.T) {
	wantKinds(t, "", []token.Kind{token.END_OF_FILE})
}

func TestScanEOFLineNeverLessThanEarlierTokens(t *testing.T) {
	sink := diagnostics.New(&bytes.Buffer{}, &bytes.Buffer{})
	toks := Scan("1\n2\n3", sink)
	maxLine := 0
	for _, tok := range toks {
		if tok.Kind == token.END_OF_FILE {
			continue
		}
		if tok.Line > maxLine {
			maxLine = tok.Line
		}
	}
	eof := toks[len(toks)-1]
	if eof.Kind != token.END_OF_FILE || eof.Line < maxLine {
		t.Fatalf("EOF line %d should be >= max earlier line %d", eof.Line, maxLine)
	}
}
