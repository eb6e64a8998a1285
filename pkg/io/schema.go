package io

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/matzehuels/pidlayout/pkg/errors"
)

//go:embed schema/input.schema.json
var inputSchemaJSON []byte

var inputSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(inputSchemaJSON))
})

// InputSchema returns the JSON schema input documents must satisfy.
func InputSchema() []byte {
	return inputSchemaJSON
}

// validate checks a decoded document (JSON bytes or a generic Go value)
// against the input schema. All violations are reported in one error.
func validate(loader gojsonschema.JSONLoader) error {
	schema, err := inputSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile input schema")
	}
	res, err := schema.Validate(loader)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid input document")
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return errors.New(errors.ErrCodeInvalidInput, "input document does not match schema: %s", strings.Join(msgs, "; "))
}
