package config

// Type identifies the value type of an option.
type Type uint8

const (
	// TypeBool is a boolean option, settable and toggleable.
	TypeBool Type = iota

	// TypeInt is an integer option.
	TypeInt

	// TypeString is a string option.
	TypeString
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Option defines a named setting.
type Option struct {
	// Name is the canonical option name.
	Name string

	// Alias is an optional short form. Empty means no alias.
	Alias string

	// Type is the value type.
	Type Type

	// Default is the initial value. Its Go type must match Type.
	Default any
}

// builtinOptions lists the options the command language consults.
// Defaults follow the conventional values users expect.
var builtinOptions = []Option{
	// Key resolution
	{Name: "timeout", Alias: "to", Type: TypeBool, Default: true},
	{Name: "timeoutlen", Alias: "tm", Type: TypeInt, Default: 1000},
	{Name: "maxmapdepth", Alias: "mmd", Type: TypeInt, Default: 100},

	// Search
	{Name: "ignorecase", Alias: "ic", Type: TypeBool, Default: false},
	{Name: "smartcase", Alias: "scs", Type: TypeBool, Default: false},
	{Name: "wrapscan", Alias: "ws", Type: TypeBool, Default: true},
	{Name: "hlsearch", Alias: "hls", Type: TypeBool, Default: true},
	{Name: "incsearch", Alias: "is", Type: TypeBool, Default: true},

	// Registers
	{Name: "clipboard", Alias: "cb", Type: TypeString, Default: ""},

	// Histories
	{Name: "history", Alias: "hi", Type: TypeInt, Default: 50},
	{Name: "undolevels", Alias: "ul", Type: TypeInt, Default: 1000},

	// Editing
	{Name: "shiftwidth", Alias: "sw", Type: TypeInt, Default: 8},
	{Name: "tabstop", Alias: "ts", Type: TypeInt, Default: 8},
	{Name: "expandtab", Alias: "et", Type: TypeBool, Default: false},
	{Name: "autoindent", Alias: "ai", Type: TypeBool, Default: false},
	{Name: "joinspaces", Alias: "js", Type: TypeBool, Default: false},
	{Name: "gdefault", Alias: "gd", Type: TypeBool, Default: false},
	{Name: "textwidth", Alias: "tw", Type: TypeInt, Default: 0},

	// Motion
	{Name: "startofline", Alias: "sol", Type: TypeBool, Default: false},
	{Name: "whichwrap", Alias: "ww", Type: TypeString, Default: "b,s"},
	{Name: "matchpairs", Alias: "mps", Type: TypeString, Default: "(:),{:},[:]"},
}

// BuiltinOptions returns a copy of the built-in option definitions.
func BuiltinOptions() []Option {
	opts := make([]Option, len(builtinOptions))
	copy(opts, builtinOptions)
	return opts
}
