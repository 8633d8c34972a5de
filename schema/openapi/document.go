package openapi

import (
	"fmt"
	"sort"
	"strings"
)

type documentBuilder struct {
	config  generatorConfig
	ids     []string
	schemas map[string]any
}

func newDocumentBuilder(config generatorConfig, ids []string, schemas map[string]any) *documentBuilder {
	return &documentBuilder{
		config:  config,
		ids:     ids,
		schemas: schemas,
	}
}

func (b *documentBuilder) build() (map[string]any, error) {
	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.buildInfo(),
		"paths":   b.buildPaths(),
		"components": map[string]any{
			"schemas": b.schemas,
		},
	}

	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func (b *documentBuilder) buildInfo() map[string]any {
	info := map[string]any{
		"title":   b.config.info.Title,
		"version": b.config.info.Version,
	}
	if b.config.info.Description != "" {
		info["description"] = b.config.info.Description
	}
	return info
}

func (b *documentBuilder) buildPaths() map[string]any {
	method := b.method()
	paths := make(map[string]any, len(b.ids))
	for _, id := range b.ids {
		path := b.pathFor(id)
		operation := map[string]any{
			"operationId": fmt.Sprintf("%s:%s", method, path),
			"requestBody": map[string]any{
				"required": true,
				"content": map[string]any{
					b.config.contentType: map[string]any{
						"schema": map[string]any{"$ref": "#/components/schemas/" + id},
					},
				},
			},
			"responses": b.buildResponses(),
		}
		if summary := strings.TrimSpace(b.config.operation.Summary); summary != "" {
			operation["summary"] = summary
		}
		paths[path] = map[string]any{method: operation}
	}
	return paths
}

func (b *documentBuilder) buildResponses() map[string]any {
	statuses := make([]string, 0, len(b.config.responses))
	for status := range b.config.responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	responses := make(map[string]any, len(statuses))
	for _, status := range statuses {
		responses[status] = map[string]any{
			"description": b.config.responses[status].Description,
		}
	}
	return responses
}

func (b *documentBuilder) method() string {
	if method := strings.ToLower(b.config.operation.Method); method != "" {
		return method
	}
	return "put"
}

func (b *documentBuilder) pathFor(id string) string {
	prefix := strings.TrimRight(b.config.operation.Path, "/")
	return prefix + "/" + id
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if paths == nil {
		return fmt.Errorf("openapi: document missing paths")
	}
	for pathKey, pathValue := range paths {
		pathItem, _ := pathValue.(map[string]any)
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			requestBody, _ := operation["requestBody"].(map[string]any)
			if requestBody == nil {
				return fmt.Errorf("openapi: operation %s %s missing requestBody", method, pathKey)
			}
			content, _ := requestBody["content"].(map[string]any)
			if len(content) == 0 {
				return fmt.Errorf("openapi: operation %s %s requestBody missing content", method, pathKey)
			}
			responses, _ := operation["responses"].(map[string]any)
			if len(responses) == 0 {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
