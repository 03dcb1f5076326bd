package model

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed report_request.schema.json
var requestSchema string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiled() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	})
	return schema, schemaErr
}

// ValidationError lists every schema violation found in a request body.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "schema validation failed: " + strings.Join(e.Problems, "; ")
}

// ValidateRequest checks a raw report request body against the request schema.
func ValidateRequest(body []byte) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("load request schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, e := range res.Errors() {
		verr.Problems = append(verr.Problems, e.String())
	}
	return verr
}
