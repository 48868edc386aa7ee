// Пакет openapi — встроенный OpenAPI-контракт FoodWagen.
package openapi

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Spec — исходный YAML контракта (отдаётся на /api/v1/openapi.yaml).
//
//go:embed openapi.yaml
var Spec []byte

// Load разбирает и валидирует встроенный контракт.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(Spec)
	if err != nil {
		return nil, fmt.Errorf("разбор OpenAPI-контракта: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("валидация OpenAPI-контракта: %w", err)
	}
	return doc, nil
}
