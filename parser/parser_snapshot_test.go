package parser

import (
	"os"
	"testing"

	"github.com/cwbudde/go-ecma/lexer"
	"github.com/gkampitakis/go-snaps/snaps"
)

func TestParserSnapshots(t *testing.T) {
	cases := map[string]string{
		"var_decls_and_destructuring": `
			let { a, b: [c, ...rest] = [] } = obj;
			const x = 1, y = 2;
		`,
		"control_flow": `
			for (let i = 0; i < 10; i++) {
				if (i % 2 === 0) continue;
				console.log(i);
			}
			for (const k in obj) {}
			for (const v of list) {}
		`,
		"functions_and_arrows": `
			function fib(n) {
				return n < 2 ? n : fib(n - 1) + fib(n - 2);
			}
			const add = (a, b = 1) => a + b;
			const thunk = () => { return 42; };
		`,
		"object_literal_shorthand_and_computed": `
			const k = "z";
			const point = { x: 1, y: 2, [k]: 3, dist: function() { return this.x + this.y; } };
		`,
		"template_literals": "const s = `Hello, ${name}! You have ${count + 1} messages.`;",
		"try_catch_finally": `
			try {
				risky();
			} catch (e) {
				console.log(e);
			} finally {
				cleanup();
			}
		`,
		"new_and_member_chains": `
			new Foo.Bar(1, 2).baz?.[0]();
		`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			p := New(lexer.New(name+".js", src))
			prog := p.Parse()
			if errs := p.Errors(); len(errs) != 0 {
				t.Fatalf("unexpected parse errors: %v", errs)
			}
			snaps.MatchSnapshot(t, prog.String())
		})
	}
}

func TestParserErrorRecoverySnapshot(t *testing.T) {
	src := "let ; ; function () {} let z = 3;"
	p := New(lexer.New("broken.js", src))
	prog := p.Parse()
	snaps.MatchSnapshot(t, prog.String())
	if len(p.Errors()) == 0 {
		t.Fatalf("expected syntax errors from malformed input")
	}
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
