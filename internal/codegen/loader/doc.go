package loader

// The document types mirror the dsl object tree in a form the YAML, JSON and
// TOML decoders can fill directly. Every field kind shares one fieldDoc; only
// the properties relevant to its kind are read.

type schemaDoc struct {
	Name                  string            `json:"name" yaml:"name" toml:"name"`
	Description           string            `json:"description" yaml:"description" toml:"description"`
	ID                    uint              `json:"id" yaml:"id" toml:"id"`
	Version               uint              `json:"version" yaml:"version" toml:"version"`
	DslVersion            uint              `json:"dsl_version" yaml:"dsl_version" toml:"dsl_version"`
	Endian                string            `json:"endian" yaml:"endian" toml:"endian"`
	NonUniqueMsgIDAllowed bool              `json:"non_unique_msg_id_allowed" yaml:"non_unique_msg_id_allowed" toml:"non_unique_msg_id_allowed"`
	Platforms             []string          `json:"platforms" yaml:"platforms" toml:"platforms"`
	Namespaces            []*namespaceDoc   `json:"namespaces" yaml:"namespaces" toml:"namespaces"`
	Extra                 map[string]string `json:"extra" yaml:"extra" toml:"extra"`

	// Elements declared at the top level land in the default namespace.
	Fields     []*fieldDoc     `json:"fields" yaml:"fields" toml:"fields"`
	Messages   []*messageDoc   `json:"messages" yaml:"messages" toml:"messages"`
	Interfaces []*interfaceDoc `json:"interfaces" yaml:"interfaces" toml:"interfaces"`
	Frames     []*frameDoc     `json:"frames" yaml:"frames" toml:"frames"`
}

type namespaceDoc struct {
	Name        string          `json:"name" yaml:"name" toml:"name"`
	Description string          `json:"description" yaml:"description" toml:"description"`
	Namespaces  []*namespaceDoc `json:"namespaces" yaml:"namespaces" toml:"namespaces"`
	Fields      []*fieldDoc     `json:"fields" yaml:"fields" toml:"fields"`
	Messages    []*messageDoc   `json:"messages" yaml:"messages" toml:"messages"`
	Interfaces  []*interfaceDoc `json:"interfaces" yaml:"interfaces" toml:"interfaces"`
	Frames      []*frameDoc     `json:"frames" yaml:"frames" toml:"frames"`
}

type valueDoc struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Value       int64  `json:"value" yaml:"value" toml:"value"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Since       uint   `json:"since" yaml:"since" toml:"since"`
}

type bitDoc struct {
	Name         string `json:"name" yaml:"name" toml:"name"`
	Idx          uint   `json:"idx" yaml:"idx" toml:"idx"`
	Description  string `json:"description" yaml:"description" toml:"description"`
	DefaultValue bool   `json:"default_value" yaml:"default_value" toml:"default_value"`
}

type fieldDoc struct {
	Kind            string `json:"kind" yaml:"kind" toml:"kind"`
	Name            string `json:"name" yaml:"name" toml:"name"`
	Ref             string `json:"ref" yaml:"ref" toml:"ref"`
	DisplayName     string `json:"display_name" yaml:"display_name" toml:"display_name"`
	Description     string `json:"description" yaml:"description" toml:"description"`
	Since           uint   `json:"since" yaml:"since" toml:"since"`
	DeprecatedSince uint   `json:"deprecated" yaml:"deprecated" toml:"deprecated"`
	Removed         bool   `json:"removed" yaml:"removed" toml:"removed"`
	SemanticType    string `json:"semantic_type" yaml:"semantic_type" toml:"semantic_type"`
	ForceGen        bool   `json:"force_gen" yaml:"force_gen" toml:"force_gen"`
	Pseudo          bool   `json:"pseudo" yaml:"pseudo" toml:"pseudo"`
	FailOnInvalid   bool   `json:"fail_on_invalid" yaml:"fail_on_invalid" toml:"fail_on_invalid"`

	// int, enum, set, float
	Type         string      `json:"type" yaml:"type" toml:"type"`
	Endian       string      `json:"endian" yaml:"endian" toml:"endian"`
	Length       uint        `json:"length" yaml:"length" toml:"length"`
	BitLength    uint        `json:"bit_length" yaml:"bit_length" toml:"bit_length"`
	DefaultValue any         `json:"default_value" yaml:"default_value" toml:"default_value"`
	SerOffset    int64       `json:"ser_offset" yaml:"ser_offset" toml:"ser_offset"`
	Units        string      `json:"units" yaml:"units" toml:"units"`
	Specials     []*valueDoc `json:"specials" yaml:"specials" toml:"specials"`
	Values       []*valueDoc `json:"values" yaml:"values" toml:"values"`
	NonUnique    bool        `json:"non_unique" yaml:"non_unique" toml:"non_unique"`
	Bits         []*bitDoc   `json:"bits" yaml:"bits" toml:"bits"`

	// bitfield, bundle, variant
	Members       []*fieldDoc `json:"members" yaml:"members" toml:"members"`
	DefaultMember int         `json:"default_member" yaml:"default_member" toml:"default_member"`

	// string, data, list
	FixedLength      uint      `json:"fixed_length" yaml:"fixed_length" toml:"fixed_length"`
	LengthPrefix     *fieldDoc `json:"length_prefix" yaml:"length_prefix" toml:"length_prefix"`
	ZeroTermSuffix   bool      `json:"zero_term_suffix" yaml:"zero_term_suffix" toml:"zero_term_suffix"`
	FixedCount       uint      `json:"count" yaml:"count" toml:"count"`
	Element          *fieldDoc `json:"element" yaml:"element" toml:"element"`
	CountPrefix      *fieldDoc `json:"count_prefix" yaml:"count_prefix" toml:"count_prefix"`
	ElemLengthPrefix *fieldDoc `json:"elem_length_prefix" yaml:"elem_length_prefix" toml:"elem_length_prefix"`
	ElemFixedLength  bool      `json:"elem_fixed_length" yaml:"elem_fixed_length" toml:"elem_fixed_length"`
	TermSuffix       *fieldDoc `json:"term_suffix" yaml:"term_suffix" toml:"term_suffix"`

	// ref, optional
	Field       *fieldDoc `json:"field" yaml:"field" toml:"field"`
	DefaultMode string    `json:"default_mode" yaml:"default_mode" toml:"default_mode"`
	Cond        string    `json:"cond" yaml:"cond" toml:"cond"`

	Extra map[string]string `json:"extra" yaml:"extra" toml:"extra"`
}

type messageDoc struct {
	Name            string            `json:"name" yaml:"name" toml:"name"`
	DisplayName     string            `json:"display_name" yaml:"display_name" toml:"display_name"`
	Description     string            `json:"description" yaml:"description" toml:"description"`
	ID              uint64            `json:"id" yaml:"id" toml:"id"`
	Order           uint              `json:"order" yaml:"order" toml:"order"`
	Since           uint              `json:"since" yaml:"since" toml:"since"`
	DeprecatedSince uint              `json:"deprecated" yaml:"deprecated" toml:"deprecated"`
	Removed         bool              `json:"removed" yaml:"removed" toml:"removed"`
	Sender          string            `json:"sender" yaml:"sender" toml:"sender"`
	Platforms       []string          `json:"platforms" yaml:"platforms" toml:"platforms"`
	Fields          []*fieldDoc       `json:"fields" yaml:"fields" toml:"fields"`
	Extra           map[string]string `json:"extra" yaml:"extra" toml:"extra"`
}

type interfaceDoc struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Description string            `json:"description" yaml:"description" toml:"description"`
	Fields      []*fieldDoc       `json:"fields" yaml:"fields" toml:"fields"`
	Extra       map[string]string `json:"extra" yaml:"extra" toml:"extra"`
}

type frameDoc struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Description string            `json:"description" yaml:"description" toml:"description"`
	Layers      []*layerDoc       `json:"layers" yaml:"layers" toml:"layers"`
	Extra       map[string]string `json:"extra" yaml:"extra" toml:"extra"`
}

type layerDoc struct {
	Kind               string            `json:"kind" yaml:"kind" toml:"kind"`
	Name               string            `json:"name" yaml:"name" toml:"name"`
	Description        string            `json:"description" yaml:"description" toml:"description"`
	Field              *fieldDoc         `json:"field" yaml:"field" toml:"field"`
	Alg                string            `json:"alg" yaml:"alg" toml:"alg"`
	From               string            `json:"from" yaml:"from" toml:"from"`
	Until              string            `json:"until" yaml:"until" toml:"until"`
	VerifyBeforeRead   bool              `json:"verify_before_read" yaml:"verify_before_read" toml:"verify_before_read"`
	InterfaceFieldName string            `json:"interface_field_name" yaml:"interface_field_name" toml:"interface_field_name"`
	Pseudo             bool              `json:"pseudo" yaml:"pseudo" toml:"pseudo"`
	Extra              map[string]string `json:"extra" yaml:"extra" toml:"extra"`
}
