package model

// VarType is the value type of a server parameter, as reported by the
// vartype column of pg_settings.
type VarType string

const (
	TypeBool    VarType = "bool"
	TypeEnum    VarType = "enum"
	TypeInteger VarType = "integer"
	TypeReal    VarType = "real"
	TypeString  VarType = "string"
)

// String returns the string representation of the variable type.
func (t VarType) String() string {
	return string(t)
}

// IsValid checks whether the variable type is a known value.
func (t VarType) IsValid() bool {
	switch t {
	case TypeBool, TypeEnum, TypeInteger, TypeReal, TypeString:
		return true
	}
	return false
}

// Quoted reports whether values of this type appear single-quoted in
// postgresql.conf.
func (t VarType) Quoted() bool {
	return t == TypeEnum || t == TypeString
}

// Parameter is one server configuration parameter as compiled into a
// PostgreSQL major version. Records are immutable after extraction; a new
// extraction produces a whole new snapshot rather than editing rows.
type Parameter struct {
	Name              string   `json:"name"`
	VarType           VarType  `json:"vartype"`
	Category          string   `json:"category"`
	Context           string   `json:"context"`
	Unit              string   `json:"unit,omitempty"`
	BootVal           string   `json:"boot_val"`
	BootValDisplay    string   `json:"boot_val_display"`
	MinVal            string   `json:"min_val,omitempty"`
	MaxVal            string   `json:"max_val,omitempty"`
	EnumVals          []string `json:"enum_vals,omitempty"`
	ShortDesc         string   `json:"short_desc"`
	DefaultConfigLine string   `json:"default_config_line"`
	FrequentOverride  bool     `json:"frequent_override"`
}
