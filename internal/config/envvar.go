package config

import "os"

// Environment variable names for cfg configuration.
const (
	EnvSchema  = "CFG_SCHEMA"   // Default schema file
	EnvJSON    = "CFG_JSON"     // Enable JSON output ("1" or "true")
	EnvNoColor = "CFG_NO_COLOR" // Disable colored output ("1" or "true")
	EnvDebug   = "CFG_DEBUG"    // Enable debug logging ("1" or "true")
)

// FromEnv reads Settings from the process environment.
func FromEnv() Settings {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Settings {
	return Settings{
		SchemaPath: getenv(EnvSchema),
		JSON:       truthy(getenv(EnvJSON)),
		NoColor:    truthy(getenv(EnvNoColor)),
		Debug:      truthy(getenv(EnvDebug)),
	}
}

func truthy(v string) bool {
	return v == "1" || v == "true"
}
