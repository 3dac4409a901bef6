package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	gradingSchema     *jsonschema.Schema
	gradingSchemaErr  error
	gradingSchemaOnce sync.Once
)

func compiledGradingSchema() (*jsonschema.Schema, error) {
	gradingSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("grading.json", bytes.NewReader(GradingSchema)); err != nil {
			gradingSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		gradingSchema, gradingSchemaErr = compiler.Compile("grading.json")
		if gradingSchemaErr != nil {
			gradingSchemaErr = fmt.Errorf("compile schema: %w", gradingSchemaErr)
		}
	})
	return gradingSchema, gradingSchemaErr
}

// ValidateAgainstSchema reports how data deviates from GradingSchema.
func ValidateAgainstSchema(data []byte) error {
	schema, err := compiledGradingSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
