package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
)

// MaxDslVersion is the newest DSL version this generator understands.
const MaxDslVersion uint = 7

// Options configure one generation run.
type Options struct {
	OutputDir string
	CodeDir   string
	// ForcedSchemaVersion overrides the version declared by the protocol schema.
	ForcedSchemaVersion *uint
	MinRemoteVersion    uint
	// NamespaceOverride is either a plain main namespace name for the protocol
	// schema or a comma separated list of schema:namespace pairs.
	NamespaceOverride      string
	MultipleSchemas        bool
	VersionIndependentCode bool
	// Messages and Interfaces restrict the referenced set to the listed
	// external references. Empty means everything is referenced.
	Messages   []string
	Interfaces []string
}

// Generator owns the schema graphs of one run.
type Generator struct {
	logger  *slog.Logger
	opts    Options
	schemas []*Schema
	current *Schema
}

func New(logger *slog.Logger, opts Options) *Generator {
	return &Generator{
		logger: logger,
		opts:   opts,
	}
}

func (g *Generator) Logger() *slog.Logger { return g.logger }
func (g *Generator) Options() Options     { return g.opts }
func (g *Generator) OutputDir() string    { return g.opts.OutputDir }
func (g *Generator) CodeDir() string      { return g.opts.CodeDir }

// SetOutputDir points the header path helpers at dir. Backends writing into
// their own sub-directory set it before emitting files.
func (g *Generator) SetOutputDir(dir string) { g.opts.OutputDir = dir }

// Load builds the graph for the parsed schemas. Without MultipleSchemas all
// documents are merged into one protocol schema. The last schema is the
// protocol schema; the others are its dependencies.
func (g *Generator) Load(docs ...*dsl.Schema) error {
	if len(docs) == 0 {
		return errors.New("no schemas available")
	}

	if !g.opts.MultipleSchemas && len(docs) > 1 {
		merged, err := mergeSchemas(docs)
		if err != nil {
			return err
		}
		docs = []*dsl.Schema{merged}
	}

	seen := make(map[string]struct{})
	g.schemas = g.schemas[:0]
	for _, d := range docs {
		if d.Name == "" {
			return fmt.Errorf("%w: schema name is empty", ErrInvalidSchemaOption)
		}
		if _, ok := seen[d.Name]; ok {
			return fmt.Errorf("%w: schema %q is defined more than once", ErrNameCollision, d.Name)
		}
		seen[d.Name] = struct{}{}

		s, err := newSchema(g, d)
		if err != nil {
			return fmt.Errorf("schema %s: %w", d.Name, err)
		}
		g.schemas = append(g.schemas, s)
	}

	if err := g.applyNamespaceOverride(); err != nil {
		return err
	}

	protocol := g.schemas[len(g.schemas)-1]
	protocol.forcedVersion = g.opts.ForcedSchemaVersion
	for _, s := range g.schemas {
		s.minRemoteVersion = g.opts.MinRemoteVersion
		s.versionIndependentForced = g.opts.VersionIndependentCode
	}
	g.current = protocol

	g.logger.Debug("Schema graph constructed", "schemas", len(g.schemas))
	return nil
}

func (g *Generator) applyNamespaceOverride() error {
	if g.opts.NamespaceOverride == "" {
		return nil
	}

	for _, entry := range strings.Split(g.opts.NamespaceOverride, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		schemaName, ns, found := strings.Cut(entry, ":")
		if !found {
			g.schemas[len(g.schemas)-1].mainNamespace = entry
			continue
		}

		s := g.SchemaByName(schemaName)
		if s == nil {
			return fmt.Errorf("%w: namespace override for unknown schema %q", ErrInvalidSchemaOption, schemaName)
		}
		s.mainNamespace = ns
	}
	return nil
}

// Prepare prepares every schema in order and computes the referenced set.
// A failing schema does not stop the remaining ones; all failures are
// returned joined.
func (g *Generator) Prepare() error {
	var errs []error
	for _, s := range g.schemas {
		g.current = s
		g.logger.Debug("Preparing schema", "schema", s.Name())
		if err := s.prepare(); err != nil {
			g.logger.Error("Failed to prepare schema", "schema", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("schema %s: %w", s.Name(), err))
		}
	}
	if len(g.schemas) > 0 {
		g.current = g.schemas[len(g.schemas)-1]
	}

	for _, s := range g.schemas {
		if s.prepared {
			s.markReferenced()
		}
	}
	return errors.Join(errs...)
}

func (g *Generator) Schemas() []*Schema { return g.schemas }

// ProtocolSchema returns the last loaded schema.
func (g *Generator) ProtocolSchema() *Schema {
	if len(g.schemas) == 0 {
		return nil
	}
	return g.schemas[len(g.schemas)-1]
}

// CurrentSchema is the schema unqualified references resolve against.
func (g *Generator) CurrentSchema() *Schema { return g.current }

// SetCurrentSchema switches the schema used by the query helpers.
func (g *Generator) SetCurrentSchema(s *Schema) { g.current = s }

func (g *Generator) SchemaByName(name string) *Schema {
	for _, s := range g.schemas {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// splitSchemaRef separates an "@schema." prefix from a reference.
func (g *Generator) splitSchemaRef(from *Schema, ref string) (*Schema, string) {
	if !strings.HasPrefix(ref, "@") {
		return from, ref
	}
	name, rest, _ := strings.Cut(ref[1:], ".")
	return g.SchemaByName(name), rest
}

func (g *Generator) FindField(ref string) *Field {
	if g.current == nil {
		return nil
	}
	return g.current.FindField(ref)
}

func (g *Generator) FindMessage(ref string) *Message {
	if g.current == nil {
		return nil
	}
	return g.current.FindMessage(ref)
}

func (g *Generator) FindFrame(ref string) *Frame {
	if g.current == nil {
		return nil
	}
	return g.current.FindFrame(ref)
}

func (g *Generator) FindInterface(ref string) *Interface {
	if g.current == nil {
		return nil
	}
	return g.current.FindInterface(ref)
}

func (g *Generator) FindNamespace(ref string) *Namespace {
	if g.current == nil {
		return nil
	}
	return g.current.FindNamespace(ref)
}

func (g *Generator) AllMessages() []*Message           { return g.current.AllMessages() }
func (g *Generator) AllMessagesIDSorted() []*Message   { return g.current.AllMessagesIDSorted() }
func (g *Generator) AllFields() []*Field               { return g.current.AllFields() }
func (g *Generator) AllFrames() []*Frame               { return g.current.AllFrames() }
func (g *Generator) AllInterfaces() []*Interface       { return g.current.AllInterfaces() }
func (g *Generator) AllNamespaces() []*Namespace       { return g.current.AllNamespaces() }
func (g *Generator) MessageIDField() *Field            { return g.current.MessageIDField() }
func (g *Generator) SchemaVersion() uint               { return g.current.SchemaVersion() }
func (g *Generator) MinRemoteVersion() uint            { return g.current.MinRemoteVersion() }
func (g *Generator) VersionDependentCode() bool        { return g.current.VersionDependentCode() }
func (g *Generator) IsElementDeprecated(dep uint) bool { return g.current.IsElementDeprecated(dep) }

func (g *Generator) DoesElementExist(since, deprecated uint, removed bool) bool {
	return g.current.DoesElementExist(since, deprecated, removed)
}

func (g *Generator) IsElementOptional(since, deprecated uint, removed bool) bool {
	return g.current.IsElementOptional(since, deprecated, removed)
}

// SortMessages orders messages by numeric id, then by declaration order.
func SortMessages(list []*Message) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.ID() != b.ID() {
			return a.ID() < b.ID()
		}
		if a.dsl.Order != b.dsl.Order {
			return a.dsl.Order < b.dsl.Order
		}
		return a.seq < b.seq
	})
}
