// Package schemas embeds the JSON Schemas shipped with the module.
package schemas

import _ "embed"

// ConfigSchemaJSON is the schema for .roswtf.yaml configuration files.
//
//go:embed roswtf.schema.json
var ConfigSchemaJSON string
