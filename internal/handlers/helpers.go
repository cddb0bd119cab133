package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxBodyBytes caps request bodies; drafts with data-URL images are the largest payloads
const maxBodyBytes = 8 << 20

const productDraftSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": { "type": "string" },
    "price": { "type": "integer", "minimum": 0 },
    "description": { "type": "string" },
    "image": { "type": "string" },
    "category": { "type": "string", "enum": ["Classic", "Signature", "Sides", "Drinks"] }
  },
  "additionalProperties": false
}`

var productDraftLoader = gojsonschema.NewStringLoader(productDraftSchema)

var errEmptyBody = errors.New("request body is empty")

// readBody reads a size-limited request body
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errEmptyBody
	}
	return body, nil
}

// decodeJSON reads the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

// validateJSONSchema checks body against a schema and joins all violations
func validateJSONSchema(schemaLoader gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("request does not conform to schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}
