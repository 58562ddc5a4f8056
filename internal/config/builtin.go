package config

const (
	DefaultBuiltinPanel = "plugins"
)

// BuiltinPanels returns the built-in panel library.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional panels, or inherit from these, in their config.
func BuiltinPanels() map[string]Panel {
	return map[string]Panel{
		"plugins": {
			Width: 242,
		},
		"notes": {
			Width: 242,
		},
		"info": {
			Width: 242,
		},
		"wide": {
			Width: 400,
		},
		"overlay": {
			// Zero width: shown over the content without resizing.
			Width: 0,
		},
	}
}
