// Package config loads linecat's optional defaults file.
//
// The file is read only when named with --config; nothing is picked up
// from the environment or from well-known paths.
//
// The file may be YAML (".yaml" or ".yml") or JSON with comments (any other
// extension). JSONC input is passed through github.com/tidwall/jsonc to
// strip comments and trailing commas before encoding/json decodes it; YAML
// is decoded with gopkg.in/yaml.v3. Unknown keys are rejected in both
// formats so that a misspelled option does not silently do nothing.
package config
