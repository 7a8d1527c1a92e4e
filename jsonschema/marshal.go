package jsonschema

import (
	json "github.com/goccy/go-json"

	"github.com/cockroachdb/errors"
)

// Marshal renders s as indented JSON.
func Marshal(s *Schema) ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal json schema")
	}
	return b, nil
}
