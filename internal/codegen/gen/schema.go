package gen

import (
	"fmt"
	"slices"
	"sort"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

// Schema is the root of one protocol graph.
type Schema struct {
	gen        *Generator
	dsl        *dsl.Schema
	namespaces []*Namespace

	fields     map[string]*Field
	messages   map[string]*Message
	frames     map[string]*Frame
	interfaces map[string]*Interface
	nsIndex    map[string]*Namespace
	msgSeq     int

	forcedVersion            *uint
	minRemoteVersion         uint
	versionIndependentForced bool
	versionDependentCode     bool
	mainNamespace            string
	origNamespace            string
	messageIDFields          []*Field
	prepared                 bool
}

func newSchema(g *Generator, d *dsl.Schema) (*Schema, error) {
	s := &Schema{
		gen:        g,
		dsl:        d,
		fields:     make(map[string]*Field),
		messages:   make(map[string]*Message),
		frames:     make(map[string]*Frame),
		interfaces: make(map[string]*Interface),
		nsIndex:    make(map[string]*Namespace),
	}

	nsList := append([]*dsl.Namespace(nil), d.Namespaces...)
	sort.SliceStable(nsList, func(i, j int) bool { return nsList[i].Name < nsList[j].Name })
	for _, nd := range nsList {
		ns, err := newNamespace(s, s, nd, "")
		if err != nil {
			return nil, err
		}
		s.namespaces = append(s.namespaces, ns)
	}
	return s, nil
}

func (s *Schema) ElemType() ElemType { return ElemSchema }
func (s *Schema) Name() string       { return s.dsl.Name }
func (s *Schema) Parent() Elem       { return nil }

func (s *Schema) Dsl() *dsl.Schema         { return s.dsl }
func (s *Schema) Generator() *Generator    { return s.gen }
func (s *Schema) Namespaces() []*Namespace { return s.namespaces }
func (s *Schema) Prepared() bool           { return s.prepared }
func (s *Schema) Endian() dsl.Endian       { return s.dsl.Endian }

// MainNamespace is the top-level namespace of generated code.
func (s *Schema) MainNamespace() string { return s.mainNamespace }

// OrigNamespace is the main namespace derived from the schema name, ignoring
// any override.
func (s *Schema) OrigNamespace() string { return s.origNamespace }

func (s *Schema) prepare() error {
	if s.dsl.DslVersion > MaxDslVersion {
		return fmt.Errorf("%w: Required DSL version is too big (%d), upgrade your code generator", ErrDslVersion, s.dsl.DslVersion)
	}

	if s.forcedVersion != nil && s.dsl.Version < *s.forcedVersion {
		return fmt.Errorf("%w: Cannot force version to be greater than %d", ErrInvalidSchemaOption, s.dsl.Version)
	}

	if !s.versionIndependentForced {
		s.versionDependentCode = s.AnyInterfaceHasVersion()
	}

	s.origNamespace = tmpl.StrToName(s.dsl.Name)
	if s.mainNamespace == "" {
		s.mainNamespace = s.origNamespace
	}

	s.applyReferenceFilters()

	for _, ns := range s.namespaces {
		if err := ns.prepare(); err != nil {
			return err
		}
	}

	s.messageIDFields = s.findMessageIDFields()
	s.prepared = true
	return nil
}

// applyReferenceFilters decides which messages and interfaces are in use
// before preparation, so unused messages are never prepared.
func (s *Schema) applyReferenceFilters() {
	opts := s.gen.opts
	inFilter := func(filter []string, ref string) bool {
		if len(filter) == 0 {
			return true
		}
		for _, f := range filter {
			if f == ref {
				return true
			}
		}
		return false
	}

	for _, m := range s.AllMessages() {
		m.referenced = inFilter(opts.Messages, m.ExternalRef())
	}
	for _, i := range s.AllInterfaces() {
		i.referenced = inFilter(opts.Interfaces, i.ExternalRef())
	}
}

func (s *Schema) SchemaVersion() uint {
	if s.forcedVersion != nil {
		return *s.forcedVersion
	}
	return s.dsl.Version
}

func (s *Schema) MinRemoteVersion() uint { return s.minRemoteVersion }

// VersionDependentCode reports whether generated code must handle multiple
// protocol versions at runtime.
func (s *Schema) VersionDependentCode() bool { return s.versionDependentCode }

// DoesElementExist reports whether an element with the given lifecycle is
// present at the configured schema version.
func (s *Schema) DoesElementExist(since, deprecated uint, removed bool) bool {
	if s.SchemaVersion() < since {
		return false
	}
	if removed && deprecated <= s.minRemoteVersion {
		return false
	}
	return true
}

// IsElementOptional reports whether an existing element may be absent when
// talking to an older or newer remote end.
func (s *Schema) IsElementOptional(since, deprecated uint, removed bool) bool {
	if s.minRemoteVersion < since {
		return true
	}
	if removed && deprecated < dsl.NotYetDeprecated {
		return true
	}
	return false
}

func (s *Schema) IsElementDeprecated(deprecated uint) bool {
	return deprecated < s.SchemaVersion()
}

func (s *Schema) AnyInterfaceHasVersion() bool {
	for _, i := range s.AllInterfaces() {
		for _, fd := range i.dsl.Fields {
			if fd.IsReference() {
				target, rel := s.gen.splitSchemaRef(s, fd.ExternalRef)
				if target == nil || target.fields[rel] == nil {
					continue
				}
				fd = target.fields[rel].dsl
			}
			if fd.SemanticType == dsl.SemanticVersion {
				return true
			}
		}
	}
	return false
}

func (s *Schema) findMessageIDFields() []*Field {
	var result []*Field
	for _, f := range s.AllFields() {
		if f.dsl.SemanticType != dsl.SemanticMessageID {
			continue
		}
		if f.Kind() != dsl.FieldInt && f.Kind() != dsl.FieldEnum {
			continue
		}
		result = append(result, f)
	}
	return result
}

// AllMessageIDFields lists the global fields marked with the messageId
// semantic type.
func (s *Schema) AllMessageIDFields() []*Field { return s.messageIDFields }

// MessageIDField returns the message id field when exactly one is defined.
func (s *Schema) MessageIDField() *Field {
	if len(s.messageIDFields) != 1 {
		return nil
	}
	return s.messageIDFields[0]
}

func (s *Schema) AllNamespaces() []*Namespace {
	var result []*Namespace
	for _, ns := range s.namespaces {
		result = append(result, ns.AllNamespaces()...)
	}
	return result
}

func (s *Schema) AllFields() []*Field {
	var result []*Field
	for _, ns := range s.namespaces {
		result = append(result, ns.AllFields()...)
	}
	return result
}

func (s *Schema) AllMessages() []*Message {
	var result []*Message
	for _, ns := range s.namespaces {
		result = append(result, ns.AllMessages()...)
	}
	return result
}

// AllMessagesIDSorted returns all messages ordered by id and declaration order.
func (s *Schema) AllMessagesIDSorted() []*Message {
	result := s.AllMessages()
	SortMessages(result)
	return result
}

func (s *Schema) AllFrames() []*Frame {
	var result []*Frame
	for _, ns := range s.namespaces {
		result = append(result, ns.AllFrames()...)
	}
	return result
}

func (s *Schema) AllInterfaces() []*Interface {
	var result []*Interface
	for _, ns := range s.namespaces {
		result = append(result, ns.AllInterfaces()...)
	}
	return result
}

// HasReferencedMessageIDField reports whether a message id field survived
// the referenced pass.
func (s *Schema) HasReferencedMessageIDField() bool {
	for _, f := range s.messageIDFields {
		if f.referenced {
			return true
		}
	}
	return false
}

func (s *Schema) HasAnyReferencedMessage() bool {
	for _, m := range s.AllMessages() {
		if m.referenced {
			return true
		}
	}
	return false
}

// FindField looks a global field up by its dotted external reference and
// prepares it on demand. A miss is logged and yields nil.
func (s *Schema) FindField(ref string) *Field {
	f, err := s.resolveField(ref)
	if err != nil {
		s.gen.logger.Error("Failed to find field", "ref", ref, "error", err)
		return nil
	}
	return f
}

func (s *Schema) resolveField(ref string) (*Field, error) {
	target, rel := s.gen.splitSchemaRef(s, ref)
	if target == nil {
		return nil, fmt.Errorf("%w: %q (unknown schema)", ErrNotFound, ref)
	}
	f, ok := target.fields[rel]
	if !ok {
		return nil, fmt.Errorf("%w: %q in schema %s", ErrNotFound, ref, target.Name())
	}
	if err := f.Prepare(); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Schema) FindMessage(ref string) *Message {
	target, rel := s.gen.splitSchemaRef(s, ref)
	if target != nil {
		if m, ok := target.messages[rel]; ok {
			return m
		}
	}
	s.gen.logger.Error("Internal error: unknown external reference", "ref", ref)
	return nil
}

func (s *Schema) FindFrame(ref string) *Frame {
	target, rel := s.gen.splitSchemaRef(s, ref)
	if target != nil {
		if f, ok := target.frames[rel]; ok {
			return f
		}
	}
	s.gen.logger.Error("Internal error: unknown external reference", "ref", ref)
	return nil
}

// FindInterface resolves an interface reference. An empty reference selects
// the first interface of the default namespace.
func (s *Schema) FindInterface(ref string) *Interface {
	target, rel := s.gen.splitSchemaRef(s, ref)
	if target == nil {
		return nil
	}
	if rel == "" {
		if ns := target.nsIndex[""]; ns != nil && len(ns.interfaces) > 0 {
			return ns.interfaces[0]
		}
		return nil
	}
	if i, ok := target.interfaces[rel]; ok {
		return i
	}
	s.gen.logger.Error("Internal error: unknown external reference", "ref", ref)
	return nil
}

func (s *Schema) FindNamespace(ref string) *Namespace {
	target, rel := s.gen.splitSchemaRef(s, ref)
	if target == nil {
		return nil
	}
	return target.nsIndex[rel]
}

// mergeSchemas combines documents describing one protocol into a single
// schema. Metadata comes from the last document.
func mergeSchemas(docs []*dsl.Schema) (*dsl.Schema, error) {
	last := docs[len(docs)-1]
	merged := *last
	merged.Namespaces = nil
	for _, d := range docs {
		if d.Name != last.Name {
			return nil, fmt.Errorf("%w: schema %q differs from %q, use multiple schemas mode", ErrInvalidSchemaOption, d.Name, last.Name)
		}
		merged.Namespaces = mergeNamespaces(merged.Namespaces, d.Namespaces)
	}
	return &merged, nil
}

func mergeNamespaces(into, from []*dsl.Namespace) []*dsl.Namespace {
	for _, ns := range from {
		var existing *dsl.Namespace
		for _, e := range into {
			if e.Name == ns.Name {
				existing = e
				break
			}
		}
		if existing == nil {
			cp := *ns
			cp.Fields = slices.Clone(ns.Fields)
			cp.Messages = slices.Clone(ns.Messages)
			cp.Interfaces = slices.Clone(ns.Interfaces)
			cp.Frames = slices.Clone(ns.Frames)
			cp.Namespaces = mergeNamespaces(nil, ns.Namespaces)
			into = append(into, &cp)
			continue
		}
		existing.Fields = append(existing.Fields, ns.Fields...)
		existing.Messages = append(existing.Messages, ns.Messages...)
		existing.Interfaces = append(existing.Interfaces, ns.Interfaces...)
		existing.Frames = append(existing.Frames, ns.Frames...)
		existing.Namespaces = mergeNamespaces(existing.Namespaces, ns.Namespaces)
	}
	return into
}
