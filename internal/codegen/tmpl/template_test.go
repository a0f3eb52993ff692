package tmpl_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

func TestProcess(t *testing.T) {
	tests := []struct {
		name     string
		templ    string
		repl     tmpl.Map
		opts     []tmpl.Option
		expected string
	}{
		{
			name:     "inline value",
			templ:    "A #^#X#$# B",
			repl:     tmpl.Map{"X": "1"},
			expected: "A 1 B",
		},
		{
			name:     "no placeholders",
			templ:    "struct Foo\n{\n};\n",
			repl:     tmpl.Map{"X": "1"},
			expected: "struct Foo\n{\n};\n",
		},
		{
			name:     "missing key behaves as empty",
			templ:    "A #^#X#$# B",
			repl:     tmpl.Map{},
			expected: "A  B",
		},
		{
			name:     "empty placeholder line removed",
			templ:    "a\n#^#X#$#\nb\n",
			repl:     tmpl.Map{"X": ""},
			expected: "a\nb\n",
		},
		{
			name:     "indented empty placeholder line removed",
			templ:    "a\n    #^#X#$#  \nb\n",
			repl:     nil,
			expected: "a\nb\n",
		},
		{
			name:     "empty placeholder with text on its line keeps the line",
			templ:    "a\nint x;#^#X#$#\nb\n",
			repl:     nil,
			expected: "a\nint x;\nb\n",
		},
		{
			name:     "last line without newline only drops the placeholder",
			templ:    "a\n#^#X#$#",
			repl:     nil,
			expected: "a\n",
		},
		{
			name:     "multi-line value indented to placeholder column",
			templ:    "{\n    #^#BODY#$#\n}\n",
			repl:     tmpl.Map{"BODY": "int a;\nint b;"},
			expected: "{\n    int a;\n    int b;\n}\n",
		},
		{
			name:     "keep one blank line",
			templ:    "#^#X#$#\n#^#Y#$#\n",
			repl:     tmpl.Map{"X": "", "Y": "val"},
			opts:     []tmpl.Option{tmpl.KeepOneBlankLine()},
			expected: "\nval\n",
		},
		{
			name:     "consecutive empty sections collapse to one blank line",
			templ:    "a\n#^#X#$#\n#^#Y#$#\n#^#Z#$#\nb\n",
			repl:     nil,
			opts:     []tmpl.Option{tmpl.KeepOneBlankLine()},
			expected: "a\n\nb\n",
		},
		{
			name:     "literal blank lines around a dropped line stay as written",
			templ:    "a\n\n#^#X#$#\n\nb\n",
			repl:     nil,
			opts:     []tmpl.Option{tmpl.KeepOneBlankLine()},
			expected: "a\n\n\nb\n",
		},
		{
			name:     "values are not re-expanded",
			templ:    "#^#A#$#",
			repl:     tmpl.Map{"A": "#^#B#$#", "B": "boom"},
			expected: "#^#B#$#",
		},
		{
			name:     "self referencing value does not loop",
			templ:    "x=#^#A#$#;",
			repl:     tmpl.Map{"A": "#^#A#$#"},
			expected: "x=#^#A#$#;",
		},
		{
			name:     "tidy",
			templ:    "struct A\n{\n    #^#X#$#   \n\n\n};\n",
			repl:     tmpl.Map{"X": "int a;"},
			opts:     []tmpl.Option{tmpl.Tidy()},
			expected: "struct A\n{\n    int a;\n};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tmpl.Process(tt.templ, tt.repl, tt.opts...))
		})
	}
}

func TestProcessEmptyMapKeepsLiteralText(t *testing.T) {
	out := tmpl.Process("// #^#A#$#header\nint #^#B#$#x;\n", tmpl.Map{})
	assert.Equal(t, "// header\nint x;\n", out)
}

func TestExecuteUnterminated(t *testing.T) {
	_, err := tmpl.Execute("abc #^#OOPS\n", nil)
	require.Error(t, err)

	var terr *tmpl.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 4, terr.Offset)
}

func TestProcessPanicsOnUnterminated(t *testing.T) {
	assert.Panics(t, func() {
		tmpl.Process("#^#X", nil)
	})
}

func TestMissing(t *testing.T) {
	missing := tmpl.Missing("#^#B#$# #^#A#$# #^#B#$# #^#C#$#", tmpl.Map{"C": ""})
	assert.Equal(t, []string{"A", "B"}, missing)
}

func TestLogMissing(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	templ := "a #^#SET#$# #^#EMPTY#$# #^#UNSET#$# b"
	repl := tmpl.Map{"SET": "1", "EMPTY": ""}
	withLog := tmpl.Process(templ, repl, tmpl.LogMissing(logger))

	assert.Equal(t, tmpl.Process(templ, repl), withLog)
	assert.Contains(t, buf.String(), "UNSET")
	assert.NotContains(t, buf.String(), "EMPTY")

	buf.Reset()
	quiet := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	tmpl.Process(templ, repl, tmpl.LogMissing(quiet))
	assert.Empty(t, buf.String())
}
