package loader

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclRoot decodes every top level block of an HCL schema file.
type hclRoot struct {
	Schemas []*hclSchema `hcl:"schema,block"`
}

type hclSchema struct {
	Name                  string          `hcl:"name,label"`
	Description           string          `hcl:"description,optional"`
	ID                    uint            `hcl:"id,optional"`
	Version               uint            `hcl:"version,optional"`
	DslVersion            uint            `hcl:"dsl_version,optional"`
	Endian                string          `hcl:"endian,optional"`
	NonUniqueMsgIDAllowed bool            `hcl:"non_unique_msg_id_allowed,optional"`
	Platforms             []string        `hcl:"platforms,optional"`
	Namespaces            []*hclNamespace `hcl:"namespace,block"`
	Fields                []*hclField     `hcl:"field,block"`
	Messages              []*hclMessage   `hcl:"message,block"`
	Interfaces            []*hclInterface `hcl:"interface,block"`
	Frames                []*hclFrame     `hcl:"frame,block"`
	Remain                hcl.Body        `hcl:",remain"`
}

type hclNamespace struct {
	Name        string          `hcl:"name,label"`
	Description string          `hcl:"description,optional"`
	Namespaces  []*hclNamespace `hcl:"namespace,block"`
	Fields      []*hclField     `hcl:"field,block"`
	Messages    []*hclMessage   `hcl:"message,block"`
	Interfaces  []*hclInterface `hcl:"interface,block"`
	Frames      []*hclFrame     `hcl:"frame,block"`
}

type hclValue struct {
	Name        string `hcl:"name,label"`
	Value       int64  `hcl:"value"`
	Description string `hcl:"description,optional"`
	Since       uint   `hcl:"since,optional"`
}

type hclBit struct {
	Name         string `hcl:"name,label"`
	Idx          uint   `hcl:"idx"`
	Description  string `hcl:"description,optional"`
	DefaultValue bool   `hcl:"default_value,optional"`
}

// hclField is used for global fields as well as for members. Member
// references are written as a block with only the ref attribute set.
type hclField struct {
	Name            string `hcl:"name,label"`
	Kind            string `hcl:"kind,optional"`
	Ref             string `hcl:"ref,optional"`
	DisplayName     string `hcl:"display_name,optional"`
	Description     string `hcl:"description,optional"`
	Since           uint   `hcl:"since,optional"`
	DeprecatedSince uint   `hcl:"deprecated,optional"`
	Removed         bool   `hcl:"removed,optional"`
	SemanticType    string `hcl:"semantic_type,optional"`
	ForceGen        bool   `hcl:"force_gen,optional"`
	Pseudo          bool   `hcl:"pseudo,optional"`
	FailOnInvalid   bool   `hcl:"fail_on_invalid,optional"`

	Type         string         `hcl:"type,optional"`
	Endian       string         `hcl:"endian,optional"`
	Length       uint           `hcl:"length,optional"`
	BitLength    uint           `hcl:"bit_length,optional"`
	DefaultValue hcl.Expression `hcl:"default_value,optional"`
	SerOffset    int64          `hcl:"ser_offset,optional"`
	Units        string         `hcl:"units,optional"`
	Specials     []*hclValue    `hcl:"special,block"`
	Values       []*hclValue    `hcl:"value,block"`
	NonUnique    bool           `hcl:"non_unique,optional"`
	Bits         []*hclBit      `hcl:"bit,block"`

	Members       []*hclField `hcl:"member,block"`
	DefaultMember int         `hcl:"default_member,optional"`

	FixedLength      uint      `hcl:"fixed_length,optional"`
	LengthPrefix     *hclField `hcl:"length_prefix,block"`
	ZeroTermSuffix   bool      `hcl:"zero_term_suffix,optional"`
	FixedCount       uint      `hcl:"count,optional"`
	Element          *hclField `hcl:"element,block"`
	CountPrefix      *hclField `hcl:"count_prefix,block"`
	ElemLengthPrefix *hclField `hcl:"elem_length_prefix,block"`
	ElemFixedLength  bool      `hcl:"elem_fixed_length,optional"`
	TermSuffix       *hclField `hcl:"term_suffix,block"`

	Field       *hclField `hcl:"field,block"`
	DefaultMode string    `hcl:"default_mode,optional"`
	Cond        string    `hcl:"cond,optional"`

	Remain hcl.Body `hcl:",remain"`
}

type hclMessage struct {
	Name            string      `hcl:"name,label"`
	DisplayName     string      `hcl:"display_name,optional"`
	Description     string      `hcl:"description,optional"`
	ID              uint64      `hcl:"id"`
	Order           uint        `hcl:"order,optional"`
	Since           uint        `hcl:"since,optional"`
	DeprecatedSince uint        `hcl:"deprecated,optional"`
	Removed         bool        `hcl:"removed,optional"`
	Sender          string      `hcl:"sender,optional"`
	Platforms       []string    `hcl:"platforms,optional"`
	Fields          []*hclField `hcl:"field,block"`
	Remain          hcl.Body    `hcl:",remain"`
}

type hclInterface struct {
	Name        string      `hcl:"name,label"`
	Description string      `hcl:"description,optional"`
	Fields      []*hclField `hcl:"field,block"`
	Remain      hcl.Body    `hcl:",remain"`
}

type hclFrame struct {
	Name        string      `hcl:"name,label"`
	Description string      `hcl:"description,optional"`
	Layers      []*hclLayer `hcl:"layer,block"`
	Remain      hcl.Body    `hcl:",remain"`
}

type hclLayer struct {
	Name               string    `hcl:"name,label"`
	Kind               string    `hcl:"kind"`
	Description        string    `hcl:"description,optional"`
	Field              *hclField `hcl:"field,block"`
	Alg                string    `hcl:"alg,optional"`
	From               string    `hcl:"from,optional"`
	Until              string    `hcl:"until,optional"`
	VerifyBeforeRead   bool      `hcl:"verify_before_read,optional"`
	InterfaceFieldName string    `hcl:"interface_field_name,optional"`
	Pseudo             bool      `hcl:"pseudo,optional"`
	Remain             hcl.Body  `hcl:",remain"`
}

func decodeHCL(data []byte, filename string) ([]*schemaDoc, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	var docs []*schemaDoc
	for _, s := range root.Schemas {
		doc, err := s.translate()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// extraAttrs turns the attributes gohcl did not claim into string
// properties.
func extraAttrs(body hcl.Body) (map[string]string, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	extra := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		if s.IsNull() {
			continue
		}
		extra[name] = s.AsString()
	}
	return extra, nil
}

// exprValue evaluates a literal expression into the plain Go value the
// document converter understands.
func exprValue(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}

	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
			if u, acc := bf.Uint64(); acc == big.Exact {
				return u, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %s", ErrInvalidProperty, v.Type().FriendlyName())
	}
}

func (s *hclSchema) translate() (*schemaDoc, error) {
	extra, err := extraAttrs(s.Remain)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	doc := &schemaDoc{
		Name:                  s.Name,
		Description:           s.Description,
		ID:                    s.ID,
		Version:               s.Version,
		DslVersion:            s.DslVersion,
		Endian:                s.Endian,
		NonUniqueMsgIDAllowed: s.NonUniqueMsgIDAllowed,
		Platforms:             s.Platforms,
		Extra:                 extra,
	}

	top := &hclNamespace{
		Fields:     s.Fields,
		Messages:   s.Messages,
		Interfaces: s.Interfaces,
		Frames:     s.Frames,
	}
	nd, err := top.translate()
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	doc.Fields = nd.Fields
	doc.Messages = nd.Messages
	doc.Interfaces = nd.Interfaces
	doc.Frames = nd.Frames

	for _, ns := range s.Namespaces {
		nd, err := ns.translate()
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", s.Name, err)
		}
		doc.Namespaces = append(doc.Namespaces, nd)
	}
	return doc, nil
}

func (n *hclNamespace) translate() (*namespaceDoc, error) {
	doc := &namespaceDoc{Name: n.Name, Description: n.Description}
	for _, sub := range n.Namespaces {
		sd, err := sub.translate()
		if err != nil {
			return nil, err
		}
		doc.Namespaces = append(doc.Namespaces, sd)
	}
	for _, f := range n.Fields {
		fd, err := f.translate()
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, fd)
	}
	for _, m := range n.Messages {
		md, err := m.translate()
		if err != nil {
			return nil, err
		}
		doc.Messages = append(doc.Messages, md)
	}
	for _, i := range n.Interfaces {
		fields, err := translateFields(i.Fields)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", i.Name, err)
		}
		extra, err := extraAttrs(i.Remain)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", i.Name, err)
		}
		doc.Interfaces = append(doc.Interfaces, &interfaceDoc{
			Name:        i.Name,
			Description: i.Description,
			Fields:      fields,
			Extra:       extra,
		})
	}
	for _, f := range n.Frames {
		fd, err := f.translate()
		if err != nil {
			return nil, err
		}
		doc.Frames = append(doc.Frames, fd)
	}
	return doc, nil
}

func (m *hclMessage) translate() (*messageDoc, error) {
	fields, err := translateFields(m.Fields)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", m.Name, err)
	}
	extra, err := extraAttrs(m.Remain)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", m.Name, err)
	}
	return &messageDoc{
		Name:            m.Name,
		DisplayName:     m.DisplayName,
		Description:     m.Description,
		ID:              m.ID,
		Order:           m.Order,
		Since:           m.Since,
		DeprecatedSince: m.DeprecatedSince,
		Removed:         m.Removed,
		Sender:          m.Sender,
		Platforms:       m.Platforms,
		Fields:          fields,
		Extra:           extra,
	}, nil
}

func (f *hclFrame) translate() (*frameDoc, error) {
	extra, err := extraAttrs(f.Remain)
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", f.Name, err)
	}
	doc := &frameDoc{Name: f.Name, Description: f.Description, Extra: extra}
	for _, l := range f.Layers {
		field, err := translateOptional(l.Field)
		if err != nil {
			return nil, fmt.Errorf("frame %s: layer %s: %w", f.Name, l.Name, err)
		}
		lextra, err := extraAttrs(l.Remain)
		if err != nil {
			return nil, fmt.Errorf("frame %s: layer %s: %w", f.Name, l.Name, err)
		}
		doc.Layers = append(doc.Layers, &layerDoc{
			Kind:               l.Kind,
			Name:               l.Name,
			Description:        l.Description,
			Field:              field,
			Alg:                l.Alg,
			From:               l.From,
			Until:              l.Until,
			VerifyBeforeRead:   l.VerifyBeforeRead,
			InterfaceFieldName: l.InterfaceFieldName,
			Pseudo:             l.Pseudo,
			Extra:              lextra,
		})
	}
	return doc, nil
}

func translateFields(fields []*hclField) ([]*fieldDoc, error) {
	var result []*fieldDoc
	for _, f := range fields {
		fd, err := f.translate()
		if err != nil {
			return nil, err
		}
		result = append(result, fd)
	}
	return result, nil
}

func translateOptional(f *hclField) (*fieldDoc, error) {
	if f == nil {
		return nil, nil
	}
	return f.translate()
}

func translateValues(values []*hclValue) []*valueDoc {
	var result []*valueDoc
	for _, v := range values {
		result = append(result, &valueDoc{
			Name:        v.Name,
			Value:       v.Value,
			Description: v.Description,
			Since:       v.Since,
		})
	}
	return result
}

func (f *hclField) translate() (*fieldDoc, error) {
	wrap := func(err error) error { return fmt.Errorf("field %s: %w", f.Name, err) }

	def, err := exprValue(f.DefaultValue)
	if err != nil {
		return nil, wrap(err)
	}
	extra, err := extraAttrs(f.Remain)
	if err != nil {
		return nil, wrap(err)
	}

	doc := &fieldDoc{
		Kind:            f.Kind,
		Name:            f.Name,
		Ref:             f.Ref,
		DisplayName:     f.DisplayName,
		Description:     f.Description,
		Since:           f.Since,
		DeprecatedSince: f.DeprecatedSince,
		Removed:         f.Removed,
		SemanticType:    f.SemanticType,
		ForceGen:        f.ForceGen,
		Pseudo:          f.Pseudo,
		FailOnInvalid:   f.FailOnInvalid,
		Type:            f.Type,
		Endian:          f.Endian,
		Length:          f.Length,
		BitLength:       f.BitLength,
		DefaultValue:    def,
		SerOffset:       f.SerOffset,
		Units:           f.Units,
		Specials:        translateValues(f.Specials),
		Values:          translateValues(f.Values),
		NonUnique:       f.NonUnique,
		DefaultMember:   f.DefaultMember,
		FixedLength:     f.FixedLength,
		ZeroTermSuffix:  f.ZeroTermSuffix,
		FixedCount:      f.FixedCount,
		ElemFixedLength: f.ElemFixedLength,
		DefaultMode:     f.DefaultMode,
		Cond:            f.Cond,
		Extra:           extra,
	}
	for _, b := range f.Bits {
		doc.Bits = append(doc.Bits, &bitDoc{
			Name:         b.Name,
			Idx:          b.Idx,
			Description:  b.Description,
			DefaultValue: b.DefaultValue,
		})
	}

	if doc.Members, err = translateFields(f.Members); err != nil {
		return nil, wrap(err)
	}
	nested := []struct {
		src *hclField
		dst **fieldDoc
	}{
		{f.LengthPrefix, &doc.LengthPrefix},
		{f.Element, &doc.Element},
		{f.CountPrefix, &doc.CountPrefix},
		{f.ElemLengthPrefix, &doc.ElemLengthPrefix},
		{f.TermSuffix, &doc.TermSuffix},
		{f.Field, &doc.Field},
	}
	for _, n := range nested {
		if *n.dst, err = translateOptional(n.src); err != nil {
			return nil, wrap(err)
		}
	}
	return doc, nil
}
