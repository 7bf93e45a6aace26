package lexer_test

import (
	"testing"

	"github.com/astra-lang/astracheck/internal/lexer"
	"github.com/astra-lang/astracheck/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func assertKinds(t *testing.T, input string, want ...token.Kind) {
	t.Helper()
	got := kinds(lexer.Tokenize(input))
	if len(got) != len(want) {
		t.Fatalf("input %q: got %d tokens %v, want %d %v", input, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("input %q: token %d: got %s, want %s (full: %v)", input, i, got[i], want[i], got)
		}
	}
}

func TestSimpleAssignment(t *testing.T) {
	assertKinds(t, "x = 1\n",
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF)
}

func TestIndentDedent(t *testing.T) {
	src := "if x:\n    y = 1\n    z = 2\nw = 3\n"
	assertKinds(t, src,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF)
}

func TestNestedIndentEmitsMultipleDedents(t *testing.T) {
	src := "if a:\n    if b:\n        pass\nx = 1\n"
	assertKinds(t, src,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.PASS, token.NEWLINE,
		token.DEDENT, token.DEDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF)
}

func TestBlankAndCommentLinesDoNotAffectIndentation(t *testing.T) {
	src := "if a:\n    x = 1\n\n    # comment\n    y = 2\n"
	assertKinds(t, src,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.DEDENT,
		token.EOF)
}

func TestNewlineSuppressedInsideBrackets(t *testing.T) {
	src := "x = (1 +\n     2)\n"
	assertKinds(t, src,
		token.IDENT, token.ASSIGN, token.LPAREN, token.INT, token.PLUS, token.INT, token.RPAREN, token.NEWLINE,
		token.EOF)
}

func TestOperators(t *testing.T) {
	assertKinds(t, "a += 1\nb -> c\na ** b\na // b\na == b != c\n",
		token.IDENT, token.PLUSEQ, token.INT, token.NEWLINE,
		token.IDENT, token.ARROW, token.IDENT, token.NEWLINE,
		token.IDENT, token.DOUBLESTAR, token.IDENT, token.NEWLINE,
		token.IDENT, token.DOUBLESLASH, token.IDENT, token.NEWLINE,
		token.IDENT, token.EQ, token.IDENT, token.NOTEQ, token.IDENT, token.NEWLINE,
		token.EOF)
}

func TestKeywords(t *testing.T) {
	assertKinds(t, "def foo():\n    return None\n",
		token.DEF, token.IDENT, token.LPAREN, token.RPAREN, token.COLON, token.NEWLINE,
		token.INDENT, token.RETURN, token.NONE, token.NEWLINE, token.DEDENT, token.EOF)
}

func TestStringLiteral(t *testing.T) {
	toks := lexer.Tokenize(`x = "hello\n"` + "\n")
	if toks[2].Kind != token.STRING {
		t.Fatalf("expected STRING, got %s", toks[2].Kind)
	}
	if toks[2].Lexeme != "hello\n" {
		t.Fatalf("got lexeme %q", toks[2].Lexeme)
	}
}

func TestFloatLiteral(t *testing.T) {
	toks := lexer.Tokenize("x = 1.5e3\n")
	if toks[2].Kind != token.FLOAT {
		t.Fatalf("expected FLOAT, got %s", toks[2].Kind)
	}
}

func TestEllipsis(t *testing.T) {
	assertKinds(t, "x = ...\n", token.IDENT, token.ASSIGN, token.ELLIPSIS, token.NEWLINE, token.EOF)
}
