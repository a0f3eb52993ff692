package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
)

var ErrInvalidProperty = errors.New("invalid property")

// converter turns decoded documents into dsl objects. Numeric fields
// without an explicit endian inherit the schema one.
type converter struct {
	endian dsl.Endian
}

// namespaceDocs folds the top level elements into the default namespace.
func (d *schemaDoc) namespaceDocs() []*namespaceDoc {
	top := &namespaceDoc{
		Fields:     d.Fields,
		Messages:   d.Messages,
		Interfaces: d.Interfaces,
		Frames:     d.Frames,
	}
	result := []*namespaceDoc{top}
	for _, nd := range d.Namespaces {
		if nd.Name != "" {
			result = append(result, nd)
			continue
		}
		top.Description = nd.Description
		top.Namespaces = append(top.Namespaces, nd.Namespaces...)
		top.Fields = append(top.Fields, nd.Fields...)
		top.Messages = append(top.Messages, nd.Messages...)
		top.Interfaces = append(top.Interfaces, nd.Interfaces...)
		top.Frames = append(top.Frames, nd.Frames...)
	}
	if top.empty() {
		result = result[1:]
	}
	return result
}

func (d *namespaceDoc) empty() bool {
	return len(d.Namespaces)+len(d.Fields)+len(d.Messages)+len(d.Interfaces)+len(d.Frames) == 0
}

func (d *schemaDoc) toDsl() (*dsl.Schema, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: schema has no name", ErrInvalidProperty)
	}
	endian, err := dsl.ParseEndian(d.Endian)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", d.Name, err)
	}

	s := &dsl.Schema{
		Name:                  d.Name,
		Description:           d.Description,
		ID:                    d.ID,
		Version:               d.Version,
		DslVersion:            d.DslVersion,
		Endian:                endian,
		NonUniqueMsgIDAllowed: d.NonUniqueMsgIDAllowed,
		Platforms:             d.Platforms,
		Extra:                 d.Extra,
	}
	if s.Version == 0 {
		s.Version = 1
	}

	c := &converter{endian: endian}
	for _, nd := range d.namespaceDocs() {
		ns, err := c.namespace(nd, "")
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", d.Name, err)
		}
		s.Namespaces = append(s.Namespaces, ns)
	}
	return s, nil
}

func joinRef(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

func (c *converter) namespace(d *namespaceDoc, scope string) (*dsl.Namespace, error) {
	ref := joinRef(scope, d.Name)
	ns := &dsl.Namespace{
		Name:        d.Name,
		Description: d.Description,
		ExternalRef: ref,
	}

	for _, sub := range d.Namespaces {
		if sub.Name == "" {
			return nil, fmt.Errorf("%w: nested namespace of %q has no name", ErrInvalidProperty, ref)
		}
		child, err := c.namespace(sub, ref)
		if err != nil {
			return nil, err
		}
		ns.Namespaces = append(ns.Namespaces, child)
	}
	for _, fd := range d.Fields {
		f, err := c.field(fd)
		if err != nil {
			return nil, err
		}
		f.ExternalRef = joinRef(ref, f.Name)
		ns.Fields = append(ns.Fields, f)
	}
	for _, md := range d.Messages {
		m, err := c.message(md)
		if err != nil {
			return nil, err
		}
		m.ExternalRef = joinRef(ref, m.Name)
		ns.Messages = append(ns.Messages, m)
	}
	for _, id := range d.Interfaces {
		i, err := c.iface(id)
		if err != nil {
			return nil, err
		}
		i.ExternalRef = joinRef(ref, i.Name)
		ns.Interfaces = append(ns.Interfaces, i)
	}
	for _, fd := range d.Frames {
		f, err := c.frame(fd)
		if err != nil {
			return nil, err
		}
		f.ExternalRef = joinRef(ref, f.Name)
		ns.Frames = append(ns.Frames, f)
	}
	return ns, nil
}

func (c *converter) message(d *messageDoc) (*dsl.Message, error) {
	sender, err := dsl.ParseSender(d.Sender)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", d.Name, err)
	}
	m := &dsl.Message{
		Name:              d.Name,
		DisplayName:       d.DisplayName,
		Description:       d.Description,
		ID:                d.ID,
		Order:             d.Order,
		SinceVersion:      d.Since,
		DeprecatedSince:   deprecatedSince(d.DeprecatedSince),
		DeprecatedRemoved: d.Removed,
		Sender:            sender,
		Platforms:         d.Platforms,
		Extra:             d.Extra,
	}
	m.Fields, err = c.fields(d.Fields)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", d.Name, err)
	}
	return m, nil
}

func (c *converter) iface(d *interfaceDoc) (*dsl.Interface, error) {
	fields, err := c.fields(d.Fields)
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", d.Name, err)
	}
	return &dsl.Interface{
		Name:        d.Name,
		Description: d.Description,
		Fields:      fields,
		Extra:       d.Extra,
	}, nil
}

func (c *converter) frame(d *frameDoc) (*dsl.Frame, error) {
	f := &dsl.Frame{
		Name:        d.Name,
		Description: d.Description,
		Extra:       d.Extra,
	}
	for _, ld := range d.Layers {
		l, err := c.layer(ld)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", d.Name, err)
		}
		f.Layers = append(f.Layers, l)
	}
	return f, nil
}

func (c *converter) layer(d *layerDoc) (*dsl.Layer, error) {
	kind, err := dsl.ParseLayerKind(d.Kind)
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", d.Name, err)
	}
	l := &dsl.Layer{
		Kind:               kind,
		Name:               d.Name,
		Description:        d.Description,
		ChecksumFrom:       d.From,
		ChecksumUntil:      d.Until,
		VerifyBeforeRead:   d.VerifyBeforeRead,
		InterfaceFieldName: d.InterfaceFieldName,
		Pseudo:             d.Pseudo,
		Extra:              d.Extra,
	}
	if kind == dsl.LayerChecksum {
		if l.ChecksumAlg, err = dsl.ParseChecksumAlg(d.Alg); err != nil {
			return nil, fmt.Errorf("layer %s: %w", d.Name, err)
		}
	}
	if d.Field != nil {
		if l.Field, err = c.field(d.Field); err != nil {
			return nil, fmt.Errorf("layer %s: %w", d.Name, err)
		}
	}
	return l, nil
}

func (c *converter) fields(docs []*fieldDoc) ([]*dsl.Field, error) {
	var result []*dsl.Field
	for _, fd := range docs {
		f, err := c.field(fd)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, nil
}

func (c *converter) optionalField(d *fieldDoc) (*dsl.Field, error) {
	if d == nil {
		return nil, nil
	}
	return c.field(d)
}

func deprecatedSince(v uint) uint {
	if v == 0 {
		return dsl.NotYetDeprecated
	}
	return v
}

func (c *converter) fieldEndian(s string) (dsl.Endian, error) {
	if s == "" {
		return c.endian, nil
	}
	return dsl.ParseEndian(s)
}

// field converts one field document. A document with a ref names a global
// field to reuse and carries no properties of its own.
func (c *converter) field(d *fieldDoc) (*dsl.Field, error) {
	if d.Ref != "" {
		return &dsl.Field{Name: d.Name, ExternalRef: d.Ref}, nil
	}

	kind, err := dsl.ParseFieldKind(d.Kind)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", d.Name, err)
	}
	semantic, err := dsl.ParseSemanticType(d.SemanticType)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", d.Name, err)
	}

	f := &dsl.Field{
		Kind:              kind,
		Name:              d.Name,
		DisplayName:       d.DisplayName,
		Description:       d.Description,
		SinceVersion:      d.Since,
		DeprecatedSince:   deprecatedSince(d.DeprecatedSince),
		DeprecatedRemoved: d.Removed,
		SemanticType:      semantic,
		ForceGen:          d.ForceGen,
		Pseudo:            d.Pseudo,
		FailOnInvalid:     d.FailOnInvalid,
		Extra:             d.Extra,
	}
	if err := c.fieldProps(f, d); err != nil {
		return nil, fmt.Errorf("field %s: %w", d.Name, err)
	}
	return f, nil
}

func (c *converter) fieldProps(f *dsl.Field, d *fieldDoc) error {
	var err error
	switch f.Kind {
	case dsl.FieldInt:
		p := &dsl.IntProps{
			Length:    d.Length,
			BitLength: d.BitLength,
			SerOffset: d.SerOffset,
			Units:     d.Units,
			Specials:  namedValues(d.Specials),
		}
		if p.Type, err = dsl.ParseIntType(d.Type); err != nil {
			return err
		}
		if p.Endian, err = c.fieldEndian(d.Endian); err != nil {
			return err
		}
		if p.DefaultValue, err = intDefault(d.DefaultValue, p.Specials); err != nil {
			return err
		}
		f.Int = p

	case dsl.FieldEnum:
		p := &dsl.EnumProps{
			Length:    d.Length,
			BitLength: d.BitLength,
			Values:    namedValues(d.Values),
			NonUnique: d.NonUnique,
		}
		if p.Type, err = dsl.ParseIntType(d.Type); err != nil {
			return err
		}
		if p.Endian, err = c.fieldEndian(d.Endian); err != nil {
			return err
		}
		if p.DefaultValue, err = intDefault(d.DefaultValue, p.Values); err != nil {
			return err
		}
		f.Enum = p

	case dsl.FieldSet:
		p := &dsl.SetProps{
			Type:      dsl.Uint8,
			Length:    d.Length,
			BitLength: d.BitLength,
		}
		if d.Type != "" {
			if p.Type, err = dsl.ParseIntType(d.Type); err != nil {
				return err
			}
		}
		if p.Endian, err = c.fieldEndian(d.Endian); err != nil {
			return err
		}
		for _, b := range d.Bits {
			p.Bits = append(p.Bits, dsl.SetBit{
				Name:         b.Name,
				Idx:          b.Idx,
				Description:  b.Description,
				DefaultValue: b.DefaultValue,
			})
		}
		f.Set = p

	case dsl.FieldFloat:
		p := &dsl.FloatProps{Units: d.Units}
		if p.Type, err = dsl.ParseFloatType(d.Type); err != nil {
			return err
		}
		if p.Endian, err = c.fieldEndian(d.Endian); err != nil {
			return err
		}
		if p.DefaultValue, err = floatDefault(d.DefaultValue); err != nil {
			return err
		}
		f.Float = p

	case dsl.FieldBitfield:
		p := &dsl.BitfieldProps{}
		if p.Endian, err = c.fieldEndian(d.Endian); err != nil {
			return err
		}
		if p.Members, err = c.fields(d.Members); err != nil {
			return err
		}
		f.Bitfield = p

	case dsl.FieldBundle:
		p := &dsl.BundleProps{}
		if p.Members, err = c.fields(d.Members); err != nil {
			return err
		}
		f.Bundle = p

	case dsl.FieldVariant:
		p := &dsl.VariantProps{DefaultMemberIdx: d.DefaultMember}
		if p.Members, err = c.fields(d.Members); err != nil {
			return err
		}
		f.Variant = p

	case dsl.FieldString:
		p := &dsl.StringProps{
			FixedLength:    d.FixedLength,
			ZeroTermSuffix: d.ZeroTermSuffix,
		}
		if d.DefaultValue != nil {
			p.DefaultValue = fmt.Sprint(d.DefaultValue)
		}
		if p.LengthPrefix, err = c.optionalField(d.LengthPrefix); err != nil {
			return err
		}
		f.String = p

	case dsl.FieldData:
		p := &dsl.DataProps{FixedLength: d.FixedLength}
		if p.LengthPrefix, err = c.optionalField(d.LengthPrefix); err != nil {
			return err
		}
		f.Data = p

	case dsl.FieldList:
		p := &dsl.ListProps{
			FixedCount:      d.FixedCount,
			ElemFixedLength: d.ElemFixedLength,
		}
		if p.Element, err = c.optionalField(d.Element); err != nil {
			return err
		}
		if p.CountPrefix, err = c.optionalField(d.CountPrefix); err != nil {
			return err
		}
		if p.LengthPrefix, err = c.optionalField(d.LengthPrefix); err != nil {
			return err
		}
		if p.ElemLengthPrefix, err = c.optionalField(d.ElemLengthPrefix); err != nil {
			return err
		}
		if p.TermSuffix, err = c.optionalField(d.TermSuffix); err != nil {
			return err
		}
		f.List = p

	case dsl.FieldRef:
		p := &dsl.RefProps{BitLength: d.BitLength}
		if p.Field, err = c.optionalField(d.Field); err != nil {
			return err
		}
		f.Ref = p

	case dsl.FieldOptional:
		p := &dsl.OptionalProps{Cond: d.Cond}
		if p.DefaultMode, err = dsl.ParseOptionalMode(d.DefaultMode); err != nil {
			return err
		}
		if p.Field, err = c.optionalField(d.Field); err != nil {
			return err
		}
		f.Optional = p
	}
	return nil
}

func namedValues(docs []*valueDoc) []dsl.NamedValue {
	var result []dsl.NamedValue
	for _, v := range docs {
		result = append(result, dsl.NamedValue{
			Name:         v.Name,
			Value:        v.Value,
			Description:  v.Description,
			SinceVersion: v.Since,
		})
	}
	return result
}

// intDefault accepts a number or the name of one of the named values.
func intDefault(v any, named []dsl.NamedValue) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case uint64:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: default value %v is not an integer", ErrInvalidProperty, x)
		}
		return int64(x), nil
	case json.Number:
		return intDefault(x.String(), named)
	case string:
		if n, err := strconv.ParseInt(x, 0, 64); err == nil {
			return n, nil
		}
		for _, nv := range named {
			if nv.Name == x {
				return nv.Value, nil
			}
		}
		return 0, fmt.Errorf("%w: unknown default value %q", ErrInvalidProperty, x)
	default:
		return 0, fmt.Errorf("%w: default value of type %T", ErrInvalidProperty, v)
	}
}

func floatDefault(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float64:
		return x, nil
	case json.Number:
		return x.Float64()
	case string:
		switch strings.ToLower(x) {
		case "nan":
			return math.NaN(), nil
		case "inf", "+inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: default value %q", ErrInvalidProperty, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: default value of type %T", ErrInvalidProperty, v)
	}
}
