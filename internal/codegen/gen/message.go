package gen

import (
	"fmt"

	"github.com/commschamp/commsdslgen/dsl"
)

type Message struct {
	parent     *Namespace
	schema     *Schema
	dsl        *dsl.Message
	seq        int
	fields     []FieldLink
	prepared   bool
	referenced bool
}

func newMessage(s *Schema, parent *Namespace, d *dsl.Message) *Message {
	if d.DeprecatedSince == 0 {
		d.DeprecatedSince = dsl.NotYetDeprecated
	}
	s.msgSeq++
	return &Message{
		parent: parent,
		schema: s,
		dsl:    d,
		seq:    s.msgSeq,
	}
}

func (m *Message) ElemType() ElemType { return ElemMessage }
func (m *Message) Name() string       { return m.dsl.Name }
func (m *Message) Parent() Elem       { return m.parent }

func (m *Message) Dsl() *dsl.Message     { return m.dsl }
func (m *Message) Schema() *Schema       { return m.schema }
func (m *Message) Namespace() *Namespace { return m.parent }
func (m *Message) ID() uint64            { return m.dsl.ID }
func (m *Message) Fields() []FieldLink   { return m.fields }
func (m *Message) IsPrepared() bool      { return m.prepared }
func (m *Message) IsReferenced() bool    { return m.referenced }

func (m *Message) ExternalRef() string {
	return joinRef(m.parent.ref, m.dsl.Name)
}

func (m *Message) DisplayName() string {
	if m.dsl.DisplayName != "" {
		return m.dsl.DisplayName
	}
	return m.dsl.Name
}

// FixedLength returns the serialised payload length when it does not vary,
// otherwise 0.
func (m *Message) FixedLength() int {
	minLen, maxLen := m.MinLength(), m.MaxLength()
	if minLen != maxLen || maxLen == MaxPossibleLength {
		return 0
	}
	return minLen
}

func (m *Message) prepare() error {
	if m.prepared {
		return nil
	}
	fields := make([]FieldLink, 0, len(m.dsl.Fields))
	for _, d := range m.dsl.Fields {
		l, err := resolveFieldLink(m.schema, m, d)
		if err != nil {
			return fmt.Errorf("message %s: %w", m.ExternalRef(), err)
		}
		fields = append(fields, l)
	}
	if err := checkUniqueNames(fields, fmt.Sprintf("fields of message %q", m.ExternalRef())); err != nil {
		return err
	}
	m.fields = fields
	m.prepared = true
	return nil
}

func (m *Message) setReferenced() {
	m.referenced = true
	for _, l := range m.fields {
		l.field.setReferenced()
	}
}

// DoesExist reports whether the message is present at the schema version.
func (m *Message) DoesExist() bool {
	return m.schema.DoesElementExist(m.dsl.SinceVersion, m.dsl.DeprecatedSince, m.dsl.DeprecatedRemoved)
}

// IsVersionDependent reports whether any field of the message changes with
// the protocol version.
func (m *Message) IsVersionDependent() bool {
	for _, l := range m.fields {
		if l.field.IsVersionDependent() {
			return true
		}
	}
	return false
}

func (m *Message) MinLength() int {
	total := 0
	for _, l := range m.fields {
		if l.field.IsVersionOptional() {
			continue
		}
		total = AddLength(total, l.field.MinLength())
	}
	return total
}

func (m *Message) MaxLength() int {
	total := 0
	for _, l := range m.fields {
		total = AddLength(total, l.field.MaxLength())
	}
	return total
}
