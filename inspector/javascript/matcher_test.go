package javascript_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wasmlint/inspector/javascript"
)

type summary struct {
	Path    string
	Members []string
	Kind    javascript.TraceKind
	Static  bool
}

func summarize(matches []*javascript.Match) []summary {
	var result []summary
	for _, match := range matches {
		s := summary{Path: match.Reference.Path, Kind: match.Handle.Kind, Static: match.Static}
		for _, candidate := range match.Candidates {
			s.Members = append(s.Members, candidate.Member)
		}
		result = append(result, s)
	}
	return result
}

func collect(t *testing.T, code string, opts ...javascript.Option) []*javascript.Match {
	t.Helper()
	source, err := javascript.NewInspector(nil).InspectSource(context.Background(), "/project/index.js", []byte(code))
	require.NoError(t, err)
	t.Cleanup(source.Close)
	var result []*javascript.Match
	for match := range javascript.NewMatcher(opts...).Match(source) {
		result = append(result, match)
	}
	return result
}

func TestMatcher_Match(t *testing.T) {
	var testCases = []struct {
		description string
		code        string
		expect      []summary
	}{
		{
			description: "valid access",
			code:        `import('./addTwo.wasm').then(x => x.addTwo(1, 2));`,
			expect:      []summary{{Path: "./addTwo.wasm", Members: []string{"addTwo"}, Kind: javascript.Traced}},
		},
		{
			description: "continuation without callback",
			code:        `import('./non-existing.wasm').then()`,
			expect:      []summary{{Path: "./non-existing.wasm", Kind: javascript.Unbound}},
		},
		{
			description: "load without continuation",
			code:        `const pending = import("./lib/math.wasm"); pending.then(m => m.add);`,
			expect:      []summary{{Path: "./lib/math.wasm", Kind: javascript.Unbound}},
		},
		{
			description: "non literal reference is skipped",
			code:        `const p = './a.wasm'; import(p).then(m => m.run());`,
		},
		{
			description: "template with substitution is skipped",
			code:        "import(`./${name}.wasm`).then(m => m.run());",
		},
		{
			description: "template without substitution",
			code:        "import(`./plain.wasm`).then(m => m.run());",
			expect:      []summary{{Path: "./plain.wasm", Members: []string{"run"}, Kind: javascript.Traced}},
		},
		{
			description: "other extension is ignored",
			code:        `import('./util.js').then(m => m.helper());`,
		},
		{
			description: "every access is a candidate",
			code: `import('./m.wasm').then(function (m) {
  const a = m.first(1);
  m.second;
  return m['third'] + m.first(2);
});`,
			expect: []summary{{Path: "./m.wasm", Members: []string{"first", "second", "third", "first"}, Kind: javascript.Traced}},
		},
		{
			description: "alias passed to another function escapes",
			code:        `import('./m.wasm').then(m => { m.a(); console.log(m); });`,
			expect:      []summary{{Path: "./m.wasm", Kind: javascript.Escaped}},
		},
		{
			description: "alias reassigned escapes",
			code:        `import('./m.wasm').then(m => { m = other; m.a(); });`,
			expect:      []summary{{Path: "./m.wasm", Kind: javascript.Escaped}},
		},
		{
			description: "alias copied escapes",
			code:        `import('./m.wasm').then(m => { const n = m; n.a(); });`,
			expect:      []summary{{Path: "./m.wasm", Kind: javascript.Escaped}},
		},
		{
			description: "member write escapes",
			code:        `import('./m.wasm').then(m => { m.patched = 1; m.patched(); });`,
			expect:      []summary{{Path: "./m.wasm", Kind: javascript.Escaped}},
		},
		{
			description: "returned handle escapes",
			code:        `import('./m.wasm').then(m => m);`,
			expect:      []summary{{Path: "./m.wasm", Kind: javascript.Escaped}},
		},
		{
			description: "destructured parameter escapes",
			code:        `import('./m.wasm').then(({ addTwo }) => addTwo(1, 2));`,
			expect:      []summary{{Path: "./m.wasm", Kind: javascript.Escaped}},
		},
		{
			description: "shadowing parameter hides inner accesses",
			code:        `import('./m.wasm').then(m => { m.a(); [1, 2].map(m => m.notTheModule); });`,
			expect:      []summary{{Path: "./m.wasm", Members: []string{"a"}, Kind: javascript.Traced}},
		},
		{
			description: "computed access is not a candidate",
			code:        `import('./m.wasm').then(m => m[key]());`,
			expect:      []summary{{Path: "./m.wasm", Kind: javascript.Traced}},
		},
		{
			description: "rejection handler is ignored",
			code:        `import('./m.wasm').then(m => m.ok(), err => err.message);`,
			expect:      []summary{{Path: "./m.wasm", Members: []string{"ok"}, Kind: javascript.Traced}},
		},
		{
			description: "parenthesized load",
			code:        `(import('./m.wasm')).then(m => m.ok());`,
			expect:      []summary{{Path: "./m.wasm", Members: []string{"ok"}, Kind: javascript.Traced}},
		},
		{
			description: "nested loads",
			code:        `import('./a.wasm').then(a => import('./b.wasm').then(b => b.y()));`,
			expect: []summary{
				{Path: "./a.wasm", Kind: javascript.Traced},
				{Path: "./b.wasm", Members: []string{"y"}, Kind: javascript.Traced},
			},
		},
		{
			description: "two call sites",
			code: `import('./addTwo.wasm').then(x => x.addTwo(1, 2));
import('./addTwo.wasm').then(x => x.foo());`,
			expect: []summary{
				{Path: "./addTwo.wasm", Members: []string{"addTwo"}, Kind: javascript.Traced},
				{Path: "./addTwo.wasm", Members: []string{"foo"}, Kind: javascript.Traced},
			},
		},
		{
			description: "static named imports",
			code:        `import init, { addTwo, foo as bar } from './addTwo.wasm';`,
			expect:      []summary{{Path: "./addTwo.wasm", Members: []string{"addTwo", "foo"}, Kind: javascript.Traced, Static: true}},
		},
		{
			description: "static namespace import",
			code:        `import * as mod from './addTwo.wasm';`,
			expect:      []summary{{Path: "./addTwo.wasm", Kind: javascript.Unbound, Static: true}},
		},
		{
			description: "escaped string literal",
			code:        `import('./dir\\name.wasm');`,
			expect:      []summary{{Path: "./dir\\name.wasm", Kind: javascript.Unbound}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual := summarize(collect(t, testCase.code))
			assert.Equal(t, testCase.expect, actual)
		})
	}
}

func TestMatcher_Candidate(t *testing.T) {
	matches := collect(t, "const run = () =>\n  import('./m.wasm').then(function (m) { return m.make().value; });")
	require.Len(t, matches, 1)
	match := matches[0]
	assert.Equal(t, javascript.Location{Line: 2, Column: 10, Start: 27, End: 37}, match.Reference.Location)
	assert.Equal(t, "m", match.Handle.Alias)
	require.Len(t, match.Candidates, 1)
	candidate := match.Candidates[0]
	assert.Equal(t, "make", candidate.Member)
	assert.Equal(t, "m", candidate.Alias)
	assert.True(t, candidate.Invoked)
	assert.True(t, candidate.ResultShapeUnverified)
	assert.Equal(t, 2, candidate.Location.Line)
}

func TestMatcher_EscapeReason(t *testing.T) {
	matches := collect(t, `import('./m.wasm').then(m => use(m));`)
	require.Len(t, matches, 1)
	assert.Equal(t, javascript.Escaped, matches[0].Handle.Kind)
	assert.Contains(t, matches[0].Handle.Reason, "arguments")
	assert.Empty(t, matches[0].Candidates)
}

func TestMatcher_Options(t *testing.T) {
	code := `load('./m.bin').after(m => m.go()); import { x } from './n.bin';`
	actual := summarize(collect(t, code,
		javascript.WithLoadCallee("load"),
		javascript.WithSettleMethod("after"),
		javascript.WithExtension(".bin"),
		javascript.WithStaticImports(false),
	))
	assert.Equal(t, []summary{{Path: "./m.bin", Members: []string{"go"}, Kind: javascript.Traced}}, actual)
}

func TestMatcher_SingleTraversal(t *testing.T) {
	source, err := javascript.NewInspector(nil).InspectSource(context.Background(), "index.js",
		[]byte(`import('./a.wasm'); import('./b.wasm'); import('./c.wasm');`))
	require.NoError(t, err)
	defer source.Close()

	seq := javascript.NewMatcher().Match(source)
	var first []string
	for match := range seq {
		first = append(first, match.Reference.Path)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"./a.wasm", "./b.wasm"}, first)

	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 0, count)
}
