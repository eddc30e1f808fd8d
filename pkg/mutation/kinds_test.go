package mutation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/nodemutation/internal/logging"
	"github.com/yaklabco/nodemutation/pkg/adapter/adaptertest"
	"github.com/yaklabco/nodemutation/pkg/mutation"
)

const classSource = "class FooBar {\n  foo() {}\n  bar() {}\n}"

func classNode() *adaptertest.Node {
	return adaptertest.NewNode("class_declaration", 0, len(classSource)).
		With("name", adaptertest.At("identifier", classSource, "FooBar", 0)).
		WithList("members",
			adaptertest.At("method", classSource, "foo() {}", 0),
			adaptertest.At("method", classSource, "bar() {}", 0))
}

func newMutation(src string, strategy mutation.Strategy) *mutation.Mutation[*adaptertest.Node] {
	return mutation.New[*adaptertest.Node](src, adaptertest.New(src), mutation.Options{
		Strategy: strategy,
		TabWidth: 2,
		Logger:   logging.Discard(),
	})
}

// single returns the only registered record.
func single(t *testing.T, m *mutation.Mutation[*adaptertest.Node]) *mutation.Action {
	t.Helper()
	actions := m.Actions()
	require.Len(t, actions, 1)
	return actions[0]
}

func process(t *testing.T, m *mutation.Mutation[*adaptertest.Node]) string {
	t.Helper()
	res, err := m.Process()
	require.NoError(t, err)
	require.True(t, res.Affected)
	return res.NewSource
}

func TestAppend(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	require.NoError(t, m.Append(classNode(), "baz() {}"))

	action := single(t, m)
	assert.Equal(t, mutation.TypeInsert, action.Type)
	assert.Equal(t, len(classSource)-1, action.Start)
	assert.Equal(t, action.Start, action.End)
	assert.Equal(t, "  baz() {}\n", action.Code())

	assert.Equal(t, "class FooBar {\n  foo() {}\n  bar() {}\n  baz() {}\n}", process(t, m))
}

func TestPrepend(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	require.NoError(t, m.Prepend(classNode(), "baz() {}"))

	action := single(t, m)
	assert.Equal(t, 15, action.Start)
	assert.Equal(t, 15, action.End)
	assert.Equal(t, "class FooBar {\n  baz() {}\n  foo() {}\n  bar() {}\n}", process(t, m))
}

func TestPrependWithoutBrace(t *testing.T) {
	t.Parallel()

	src := "foo"
	m := newMutation(src, mutation.ThrowError)
	err := m.Prepend(adaptertest.NewNode("identifier", 0, 3), "bar")
	require.ErrorIs(t, err, mutation.ErrNotSupported)
	assert.Empty(t, m.Actions())
}

func TestInsert(t *testing.T) {
	t.Parallel()

	callSource := "foo(a)"
	call := func() *adaptertest.Node {
		return adaptertest.NewNode("call", 0, len(callSource)).
			WithList("arguments", adaptertest.At("identifier", callSource, "a", 3))
	}

	tests := []struct {
		name      string
		src       string
		node      *adaptertest.Node
		code      string
		opts      mutation.InsertOptions
		wantStart int
		wantCode  string
		want      string
	}{
		{
			name:      "end of child",
			src:       classSource,
			node:      classNode(),
			code:      " extends Base",
			opts:      mutation.InsertOptions{To: "name"},
			wantStart: 12,
			wantCode:  " extends Base",
			want:      "class FooBar extends Base {\n  foo() {}\n  bar() {}\n}",
		},
		{
			name:      "beginning of node",
			src:       classSource,
			node:      classNode(),
			code:      "export ",
			opts:      mutation.InsertOptions{At: mutation.AtBeginning},
			wantStart: 0,
			wantCode:  "export ",
			want:      "export " + classSource,
		},
		{
			name:      "and comma at end",
			src:       callSource,
			node:      call(),
			code:      "b",
			opts:      mutation.InsertOptions{To: "arguments.0", AndComma: true},
			wantStart: 5,
			wantCode:  ", b",
			want:      "foo(a, b)",
		},
		{
			name:      "and comma at beginning",
			src:       callSource,
			node:      call(),
			code:      "b",
			opts:      mutation.InsertOptions{To: "arguments.-1", At: mutation.AtBeginning, AndComma: true},
			wantStart: 4,
			wantCode:  "b, ",
			want:      "foo(b, a)",
		},
		{
			name:      "and space",
			src:       callSource,
			node:      call(),
			code:      "b",
			opts:      mutation.InsertOptions{To: "arguments", AndSpace: true},
			wantStart: 5,
			wantCode:  " b",
			want:      "foo(a b)",
		},
		{
			name:      "template",
			src:       callSource,
			node:      call(),
			code:      "{{arguments.0}}{{arguments.0}}",
			opts:      mutation.InsertOptions{To: "arguments.0"},
			wantStart: 5,
			wantCode:  "aa",
			want:      "foo(aaa)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMutation(tt.src, mutation.ThrowError)
			require.NoError(t, m.Insert(tt.node, tt.code, tt.opts))

			action := single(t, m)
			assert.Equal(t, mutation.TypeInsert, action.Type)
			assert.Equal(t, tt.wantStart, action.Start)
			assert.Equal(t, tt.wantStart, action.End)
			assert.Equal(t, tt.wantCode, action.Code())
			assert.Equal(t, tt.want, process(t, m))
		})
	}
}

func TestInsertIntoEmptyArguments(t *testing.T) {
	t.Parallel()

	src := "foo()"
	call := adaptertest.NewNode("call", 0, len(src)).WithList("arguments")

	m := newMutation(src, mutation.ThrowError)
	require.NoError(t, m.Insert(call, "a", mutation.InsertOptions{To: "arguments.0", At: mutation.AtBeginning}))

	action := single(t, m)
	assert.Equal(t, 4, action.Start)
	assert.Equal(t, "foo(a)", process(t, m))
}

func TestInsertConflictPosition(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	require.NoError(t, m.Insert(classNode(), "x", mutation.InsertOptions{ConflictPosition: 3}))
	assert.Equal(t, 3, single(t, m).ConflictPosition)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	src := "this.foo.bind(this)"
	member := adaptertest.NewNode("member", 0, 13).
		WithPseudo("dot", mutation.Range{Start: 8, End: 9}).
		With("name", adaptertest.At("identifier", src, "bind", 0))
	call := adaptertest.NewNode("call", 0, 19).
		With("expression", member).
		With("arguments", adaptertest.At("arguments", src, "(this)", 0))
	stmt := adaptertest.NewNode("statement", 0, 19).With("expression", call)

	m := newMutation(src, mutation.ThrowError)
	require.NoError(t, m.Delete(stmt, []string{
		"expression.expression.dot",
		"expression.expression.name",
		"expression.arguments",
	}, mutation.DeleteOptions{}))

	action := single(t, m)
	assert.Equal(t, mutation.TypeDelete, action.Type)
	assert.Equal(t, 8, action.Start)
	assert.Equal(t, 19, action.End)
	require.NotNil(t, action.NewCode)
	assert.Empty(t, *action.NewCode)
	assert.Equal(t, "this.foo", process(t, m))
}

func TestDeleteFixups(t *testing.T) {
	t.Parallel()

	objectSource := "const foobar = { foo, bar };"
	object := func() *adaptertest.Node {
		return adaptertest.At("object", objectSource, "{ foo, bar }", 0).
			WithList("properties",
				adaptertest.At("shorthand", objectSource, "foo", 17),
				adaptertest.At("shorthand", objectSource, "bar", 17))
	}
	callSource := "foo({ bar })"
	call := adaptertest.NewNode("call", 0, len(callSource)).
		With("object", adaptertest.At("object", callSource, "{ bar }", 0).
			WithList("properties", adaptertest.At("shorthand", callSource, "bar", 0)))
	keySource := "f({ a: 1, b: 2 })"
	pair := adaptertest.At("pair", keySource, "a: 1", 0).
		With("key", adaptertest.At("identifier", keySource, "a", 3))

	tests := []struct {
		name      string
		src       string
		node      *adaptertest.Node
		selectors []string
		opts      mutation.DeleteOptions
		want      string
	}{
		{
			name:      "following comma",
			src:       objectSource,
			node:      object(),
			selectors: []string{"properties.0"},
			opts:      mutation.DeleteOptions{AndComma: true},
			want:      "const foobar = { bar };",
		},
		{
			name:      "preceding comma",
			src:       objectSource,
			node:      object(),
			selectors: []string{"properties.-1"},
			opts:      mutation.DeleteOptions{AndComma: true},
			want:      "const foobar = { foo };",
		},
		{
			name:      "comma kept without option",
			src:       objectSource,
			node:      object(),
			selectors: []string{"properties.0"},
			want:      "const foobar = { , bar };",
		},
		{
			name:      "sole property takes braces",
			src:       callSource,
			node:      call,
			selectors: []string{"object.properties.0"},
			want:      "foo()",
		},
		{
			name:      "colon after range keeps separators",
			src:       keySource,
			node:      pair,
			selectors: []string{"key"},
			opts:      mutation.DeleteOptions{AndComma: true},
			want:      "f({ : 1, b: 2 })",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMutation(tt.src, mutation.ThrowError)
			require.NoError(t, m.Delete(tt.node, tt.selectors, tt.opts))
			assert.Equal(t, tt.want, process(t, m))
		})
	}
}

func TestDeleteUnknownSelector(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	err := m.Delete(classNode(), []string{"name", "nope"}, mutation.DeleteOptions{})
	require.ErrorIs(t, err, mutation.ErrNotSupported)

	var notSupported *mutation.NotSupportedError
	require.ErrorAs(t, err, &notSupported)
	assert.Equal(t, "nope", notSupported.Selector)
	assert.Empty(t, m.Actions())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	multiline := "\n  function foo(props) {\n    this.bar = this.bar.bind(this);\n  }\n"
	squeeze := "foo();\n\nbar();\n\nbaz();\n"

	tests := []struct {
		name      string
		src       string
		node      *adaptertest.Node
		opts      mutation.RemoveOptions
		wantStart int
		wantEnd   int
		want      string
	}{
		{
			name:      "single line",
			src:       "this.foo.bind(this);",
			node:      adaptertest.NewNode("statement", 0, 20),
			wantStart: 0,
			wantEnd:   20,
			want:      "",
		},
		{
			name:      "whole line in body",
			src:       multiline,
			node:      adaptertest.At("statement", multiline, "this.bar = this.bar.bind(this);", 0),
			wantStart: 25,
			wantEnd:   61,
			want:      "\n  function foo(props) {\n  }\n",
		},
		{
			name:      "blank line squeeze",
			src:       squeeze,
			node:      adaptertest.At("call", squeeze, "bar()", 0),
			wantStart: 8,
			wantEnd:   16,
			want:      "foo();\n\nbaz();\n",
		},
		{
			name:      "list element with comma",
			src:       "foo(a, b)",
			node:      adaptertest.NewNode("identifier", 7, 8),
			opts:      mutation.RemoveOptions{AndComma: true},
			wantStart: 5,
			wantEnd:   8,
			want:      "foo(a)",
		},
		{
			name:      "attribute before closing bracket",
			src:       "<div foo='bar'>x</div>",
			node:      adaptertest.NewNode("attribute", 5, 14),
			wantStart: 4,
			wantEnd:   14,
			want:      "<div>x</div>",
		},
		{
			name:      "squeeze spaces",
			src:       "a b c",
			node:      adaptertest.NewNode("identifier", 2, 3),
			wantStart: 1,
			wantEnd:   3,
			want:      "a c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMutation(tt.src, mutation.ThrowError)
			require.NoError(t, m.Remove(tt.node, tt.opts))

			action := single(t, m)
			assert.Equal(t, mutation.TypeDelete, action.Type)
			assert.Equal(t, tt.wantStart, action.Start)
			assert.Equal(t, tt.wantEnd, action.End)
			assert.Equal(t, tt.want, process(t, m))
		})
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	require.NoError(t, m.Replace(classNode(), []string{"name"}, mutation.ReplaceOptions{With: "Synvert{{name}}"}))

	action := single(t, m)
	assert.Equal(t, mutation.TypeReplace, action.Type)
	assert.Equal(t, 6, action.Start)
	assert.Equal(t, 12, action.End)
	assert.Equal(t, "SynvertFooBar", action.Code())
}

func TestReplaceSelectorUnion(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	require.NoError(t, m.Replace(classNode(), []string{"members.-1", "members.0"}, mutation.ReplaceOptions{With: "x"}))

	action := single(t, m)
	assert.Equal(t, 17, action.Start)
	assert.Equal(t, 36, action.End)
	assert.Equal(t, "class FooBar {\n  x\n}", process(t, m))
}

func TestReplaceWith(t *testing.T) {
	t.Parallel()

	src := "!!foobar"
	inner := adaptertest.NewNode("prefix", 1, 8).With("operand", adaptertest.NewNode("identifier", 2, 8))
	outer := adaptertest.NewNode("prefix", 0, 8).With("operand", inner)
	stmt := adaptertest.NewNode("statement", 0, 8).With("expression", outer)

	m := newMutation(src, mutation.ThrowError)
	require.NoError(t, m.ReplaceWith(stmt, "Boolean({{expression.operand.operand}})", mutation.ReplaceWithOptions{}))

	action := single(t, m)
	assert.Equal(t, 0, action.Start)
	assert.Equal(t, 8, action.End)
	assert.Equal(t, "Boolean(foobar)", action.Code())
}

func TestReplaceWithIndent(t *testing.T) {
	t.Parallel()

	src := "{\n  foo()\n}"
	node := adaptertest.At("call", src, "foo()", 0)
	off := false

	tests := []struct {
		name      string
		opts      mutation.ReplaceWithOptions
		code      string
		wantStart int
		want      string
	}{
		{
			name:      "auto indent",
			code:      "bar()\n\nbaz()",
			wantStart: 4,
			want:      "{\n  bar()\n\n  baz()\n}",
		},
		{
			name:      "no auto indent",
			opts:      mutation.ReplaceWithOptions{AutoIndent: &off},
			code:      "    bar()\n    baz()",
			wantStart: 2,
			want:      "{\n    bar()\n    baz()\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMutation(src, mutation.ThrowError)
			require.NoError(t, m.ReplaceWith(node, tt.code, tt.opts))
			assert.Equal(t, tt.wantStart, single(t, m).Start)
			assert.Equal(t, tt.want, process(t, m))
		})
	}
}

func TestReplaceWithUnknownPlaceholder(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	err := m.ReplaceWith(classNode(), "{{nope}}", mutation.ReplaceWithOptions{})
	require.ErrorIs(t, err, mutation.ErrNotSupported)
}

func TestIndent(t *testing.T) {
	t.Parallel()

	src := "class A {\n  foo() {}\n}"
	node := adaptertest.NewNode("class", 0, len(src))

	tests := []struct {
		name string
		opts mutation.IndentOptions
		want string
	}{
		{name: "default tab size", want: "  class A {\n    foo() {}\n  }"},
		{name: "two levels", opts: mutation.IndentOptions{TabSize: 2}, want: "    class A {\n      foo() {}\n    }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMutation(src, mutation.ThrowError)
			require.NoError(t, m.Indent(node, tt.opts))

			action := single(t, m)
			assert.Equal(t, mutation.TypeReplace, action.Type)
			assert.Equal(t, 0, action.Start)
			assert.Equal(t, len(src), action.End)
			assert.Equal(t, tt.want, process(t, m))
		})
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	m := newMutation(classSource, mutation.ThrowError)
	require.NoError(t, m.Noop(classNode()))

	action := single(t, m)
	assert.Equal(t, mutation.TypeNoop, action.Type)
	assert.Equal(t, 0, action.Start)
	assert.Equal(t, len(classSource), action.End)
	assert.Nil(t, action.NewCode)

	res, err := m.Process()
	require.NoError(t, err)
	assert.True(t, res.Affected)
	assert.False(t, res.Conflicted)
	assert.Equal(t, classSource, res.NewSource)
}
