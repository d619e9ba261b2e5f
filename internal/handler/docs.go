package handler

import (
	_ "embed"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// APIDocs serves the OpenAPI document as JSON at /api-docs and as the
// source YAML at /api-docs.yaml.
type APIDocs struct {
	doc map[string]any
}

// NewAPIDocs parses the embedded document once.
func NewAPIDocs() (*APIDocs, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	return &APIDocs{doc: doc}, nil
}

// JSON serves the document as JSON.
func (d *APIDocs) JSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.doc)
}

// YAML serves the embedded document unchanged.
func (d *APIDocs) YAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPIYAML)
}
