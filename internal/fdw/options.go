package fdw

// OptionsType selects the scope an option was declared on.
type OptionsType int

const (
	OptionsServer OptionsType = iota
	OptionsTable
)

func (t OptionsType) String() string {
	if t == OptionsTable {
		return "table"
	}
	return "server"
}

// Options is a flat key/value option set for one scope.
type Options map[string]string

// Require returns the value for key or a config error when it is missing or empty.
func (o Options) Require(key string) (string, error) {
	v, ok := o[key]
	if !ok || v == "" {
		return "", &Error{Kind: ErrConfig, Op: "options", Msg: "required option '" + key + "' is not specified"}
	}
	return v, nil
}

// RequireOr returns the value for key, or def when it is missing or empty.
func (o Options) RequireOr(key, def string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return def
}
