package latexgen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	latexgen "github.com/commschamp/commsdslgen/internal/codegen/generator/latex"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
	htesting "github.com/commschamp/commsdslgen/internal/testing"
)

func TestGenerate(t *testing.T) {
	ping := htesting.Message("Ping", 1,
		htesting.Int("Seq_No", dsl.Uint16),
		htesting.Enum("Kind", dsl.Uint8,
			dsl.NamedValue{Name: "First", Value: 0},
			dsl.NamedValue{Name: "Second", Value: 1},
		),
	)
	ping.Description = "Checks 100% of the link"

	doc := htesting.Schema("demo",
		htesting.Namespace("",
			ping,
			htesting.Frame("Frame",
				htesting.Layer(dsl.LayerSize, "Size", htesting.Int("SizeField", dsl.Uint16)),
				htesting.Layer(dsl.LayerPayload, "Data", nil),
			),
		),
		htesting.Namespace("ext",
			htesting.Message("Pong", 2),
		),
	)

	out := t.TempDir()
	logger := htesting.DiscardLogger()
	g := gen.New(logger, gen.Options{OutputDir: out})
	require.NoError(t, g.Load(doc))
	require.NoError(t, g.Prepare())
	w := gen.NewWriter(logger, out)
	require.NoError(t, latexgen.Generate(logger, out, &meta.Metadata{Graph: g, Writer: w, Version: "1.0.0"}))
	require.NoError(t, w.Err())

	read := func(rel string) string {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err)
		return string(data)
	}

	main := read("demo.tex")
	assert.Contains(t, main, `\documentclass[a4paper]{article}`)
	assert.Contains(t, main, `\input{demo/global}`)
	assert.Contains(t, main, `\input{demo/ext}`)
	assert.Contains(t, main, `\date{Protocol version 1}`)

	global := read("demo/global.tex")
	assert.Contains(t, global, `\subsection{Ping}`)
	assert.Contains(t, global, `Checks 100\% of the link`)
	assert.Contains(t, global, `Seq\_No & int & 2 & 0 &`)
	assert.Contains(t, global, `\item \texttt{Second} = 1`)
	assert.Contains(t, global, `\subsection{Frame}`)
	assert.Contains(t, global, `Size & size & SizeField & 2 \\`)
	assert.Contains(t, global, `Data & payload & -- & -- \\`)

	ext := read("demo/ext.tex")
	assert.Contains(t, ext, `\section{Namespace ext}`)
	assert.Contains(t, ext, `No fields.`)

	assert.FileExists(t, filepath.Join(out, "README.md"))
}
