package commsgen

import (
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

// Generate produces the COMMS library based protocol definition under
// outputDir. For every prepared schema it creates:
// - include/<ns>/field/*.h and *Common.h for referenced global fields
// - include/<ns>/message/*.h and *Common.h for referenced messages
// - include/<ns>/Message.h (or the named interfaces) and frame/*.h
// - include/<ns>/MsgId.h, Version.h, field/FieldBase.h
// - include/<ns>/options/DefaultOptions.h and input/AllMessages.h
//
// followed by CMakeLists.txt and README.md for the protocol schema.
func Generate(logger *slog.Logger, outputDir string, md *meta.Metadata) error {
	c := &commsGen{
		logger:  logger,
		g:       md.Graph,
		w:       md.Writer,
		version: md.Version,
	}

	protocol := c.g.ProtocolSchema()
	for _, s := range c.g.Schemas() {
		if !s.Prepared() {
			continue
		}
		c.g.SetCurrentSchema(s)
		c.schema(s)
	}
	c.g.SetCurrentSchema(protocol)

	c.cmake()
	// Write failures are collected by the writer.
	_ = meta.GenerateReadme(c.w, c.g, "COMMS", c.version, c.readmeContents())

	logger.Info("Generated COMMS protocol definition", "dir", outputDir)
	return errors.Join(c.errs...)
}

type commsGen struct {
	logger  *slog.Logger
	g       *gen.Generator
	w       *gen.Writer
	version string
	errs    []error
}

func (c *commsGen) fail(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

func (c *commsGen) generatedComment() string {
	return common.GeneratedComment(c.version, "// ")
}

// writeHeader stores a header below include/. Write failures are collected
// by the writer.
func (c *commsGen) writeHeader(relHeader, content string) {
	rel := path.Join(comms.IncludeDir, relHeader)
	c.logger.Debug("Generating", "file", path.Join(c.g.OutputDir(), rel))
	_ = c.w.WriteString(rel, content)
}

func (c *commsGen) schema(s *gen.Schema) {
	for _, ns := range s.AllNamespaces() {
		for _, f := range ns.Fields() {
			if f.IsReferenced() {
				c.fieldHeaders(f)
			}
		}
		for _, i := range ns.Interfaces() {
			if i.IsReferenced() {
				c.interfaceHeader(i)
			}
		}
		for _, m := range ns.Messages() {
			if m.IsReferenced() && m.DoesExist() {
				c.messageHeaders(m)
			}
		}
		for _, f := range ns.Frames() {
			if f.IsReferenced() {
				c.frameHeader(f)
			}
		}
	}

	c.fieldBaseHeader(s)
	c.msgIDHeader(s)
	c.versionHeader(s)
	c.defaultOptionsHeader(s)
	c.allMessagesHeader(s)
}

// customCode holds the code injection snippets for one generated header.
type customCode struct {
	replace   string
	extend    string
	inc       string
	public    string
	protected string
	private   string
	append    string
	construct string
	value     string
}

func (c *commsGen) readCustom(relHeader string) customCode {
	read := func(suffix string) string {
		s, err := c.g.ReadInjection(relHeader, suffix)
		c.fail(err)
		return s
	}
	return customCode{
		replace:   read(gen.InjectReplace),
		extend:    read(gen.InjectExtend),
		inc:       read(gen.InjectInc),
		public:    read(gen.InjectPublic),
		protected: read(gen.InjectProtected),
		private:   read(gen.InjectPrivate),
		append:    read(gen.InjectAppend),
		construct: read(gen.InjectConstruct),
		value:     read(gen.InjectValue),
	}
}

// origSuffix is added to a generated class name when user code extends it.
func (cc customCode) origSuffix() string {
	if cc.extend != "" {
		return "Orig"
	}
	return ""
}

func includesCode(list []string) string {
	return tmpl.JoinList(comms.PrepareIncludes(list), "\n", "\n")
}

// docLines renders text as a doxygen comment block with the given leading
// tag, e.g. "@details".
func docLines(tag, text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(tmpl.MakeMultiline(text, 80), "\n")
	var b strings.Builder
	b.WriteString("/// " + tag + "\n")
	for i, l := range lines {
		b.WriteString("///     " + strings.TrimSpace(l))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// extraDoc lists the attributes the schema document carried beyond the
// known properties.
func extraDoc(extra map[string]string) string {
	if len(extra) == 0 {
		return ""
	}
	var lines []string
	for _, e := range common.SortedMapEntries(extra) {
		lines = append(lines, "///     @b "+e.Key+": "+e.Value)
	}
	return "/// @par Extra attributes\n" + strings.Join(lines, "\n")
}

func deprecatedDoc(g *gen.Generator, since uint) string {
	if !g.IsElementDeprecated(since) {
		return ""
	}
	return "/// @deprecated Since version " + tmpl.NumToString(int64(since)) + "."
}
