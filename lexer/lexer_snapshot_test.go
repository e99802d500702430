package lexer

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/cwbudde/go-ecma/token"
	"github.com/gkampitakis/go-snaps/snaps"
)

// tokenDump renders every token (except EOF) one per line, in the teacher's
// snapshot style: stable, diff-friendly text rather than a struct dump.
func tokenDump(l *Lexer) string {
	var sb strings.Builder
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
		fmt.Fprintf(&sb, "%-16s %q\n", tok.Type, tok.Text)
	}
	return sb.String()
}

func TestLexerSnapshots(t *testing.T) {
	cases := map[string]string{
		"keywords_and_punctuation": "let x = (a, b) => a + b ?? c;",
		"numbers":                  "0 1.5 .5 1e10 0x1F 0b101 0o17 1_000",
		"strings_and_escapes":      `"hi\n" 'it\'s' "unicode é"`,
		"template_literal":         "`a${1+2}b${c}`",
		"regex_vs_division":        "a = b / c; let r = /ab+c/gi;",
		"asi_sensitive_newlines":   "a\nb\n\n++c",
		"comments":                 "// line\nx /* block */ = 1;",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			l := New(name+".js", src)
			out := tokenDump(l)
			snaps.MatchSnapshot(t, out)
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected lexer errors for %q: %v", src, l.Errors())
			}
		})
	}
}

func TestLexerRegexVsDivisionDisambiguation(t *testing.T) {
	l := New("t.js", "a / b")
	first := l.Next()
	second := l.Next()
	if first.Type != token.IDENT || second.Type != token.SLASH {
		t.Fatalf("expected `a` then `/` as division, got %s %s", first.Type, second.Type)
	}

	l2 := New("t.js", "return /ab/.test(x)")
	l2.Next() // return
	re := l2.Next()
	if re.Type != token.REGEX {
		t.Fatalf("expected a regex literal after `return`, got %s", re.Type)
	}
}

func TestLexerUnterminatedStringRecordsError(t *testing.T) {
	l := New("t.js", `"unterminated`)
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a lexer error for an unterminated string")
	}
}

func TestNextRawReconstructsSourceExactly(t *testing.T) {
	cases := []string{
		"x /* block */ = 1;",
		"// line\nx = 1;\n",
		"let  a\t=\t1;  // trailing\n/* leading */let b = 2;",
		"a\nb\n\n++c",
	}
	for _, src := range cases {
		l := New("t.js", src)
		var sb strings.Builder
		for {
			tok := l.NextRaw()
			if tok.Type == token.EOF {
				break
			}
			sb.WriteString(tok.Text)
		}
		if got := sb.String(); got != src {
			t.Fatalf("NextRaw reconstruction = %q, want %q", got, src)
		}
	}
}

func TestNextRawPreservesNextsFilteredStream(t *testing.T) {
	src := "x /* c */ = 1; // trailing\ny"
	filtered := New("t.js", src)
	raw := New("t.js", src)

	var filteredTypes, rawFilteredTypes []token.Type
	for {
		tok := filtered.Next()
		filteredTypes = append(filteredTypes, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	for {
		tok := raw.NextRaw()
		if tok.Type == token.WS || tok.Type == token.L_COMMENT || tok.Type == token.B_COMMENT {
			continue
		}
		rawFilteredTypes = append(rawFilteredTypes, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	if len(filteredTypes) != len(rawFilteredTypes) {
		t.Fatalf("got %v, want %v", rawFilteredTypes, filteredTypes)
	}
	for i := range filteredTypes {
		if filteredTypes[i] != rawFilteredTypes[i] {
			t.Fatalf("token %d: got %s, want %s", i, rawFilteredTypes[i], filteredTypes[i])
		}
	}
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
