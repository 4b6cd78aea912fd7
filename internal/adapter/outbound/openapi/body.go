package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/api2can/api2can/internal/domain"
)

// maxBodyDepth bounds schema recursion so cyclic references cannot hang the
// loader.
const maxBodyDepth = 8

// bodyParameters flattens the JSON request body schema into leaf parameters.
// Nested object fields get dotted names such as "user.address.city".
func (l *Loader) bodyParameters(body *openapi3.RequestBodyRef, authTokens map[string]bool) []domain.Param {
	if body == nil || body.Value == nil || body.Value.Content == nil {
		return nil
	}
	content := body.Value.Content.Get("application/json")
	if content == nil || content.Schema == nil || content.Schema.Value == nil {
		return nil
	}

	schema := content.Schema.Value
	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	var params []domain.Param
	l.traverseBody(schema, nil, required, authTokens, &params, 0)
	return params
}

// traverseBody walks one schema node. Leaves become parameters named by their
// parent key path; readOnly nodes are dropped.
func (l *Loader) traverseBody(schema *openapi3.Schema, parents []string, required map[string]bool, authTokens map[string]bool, params *[]domain.Param, depth int) {
	if schema == nil || schema.ReadOnly || depth > maxBodyDepth {
		return
	}

	switch {
	case len(schema.Enum) > 0:
		p := l.bodyParam(schema, parents, required, authTokens)
		p.Type = "enum " + p.Type
		p.Example = exampleString(schema.Enum[0])
		*params = append(*params, p)

	case isObjectSchema(schema):
		for _, name := range sortedPropertyNames(schema) {
			ref := schema.Properties[name]
			if ref == nil || ref.Value == nil {
				continue
			}
			next := append(append([]string(nil), parents...), name)
			l.traverseBody(ref.Value, next, required, authTokens, params, depth+1)
		}

	case schemaType(schema) == "array" && schema.Items != nil && schema.Items.Value != nil:
		items := schema.Items.Value
		if t := schemaType(items); t != "object" && t != "array" {
			*params = append(*params, l.bodyParam(schema, parents, required, authTokens))
		}
		l.traverseBody(items, parents, required, authTokens, params, depth+1)

	default:
		if len(parents) == 0 {
			return
		}
		*params = append(*params, l.bodyParam(schema, parents, required, authTokens))
	}
}

func (l *Loader) bodyParam(schema *openapi3.Schema, parents []string, required map[string]bool, authTokens map[string]bool) domain.Param {
	name := strings.Join(parents, ".")

	req := false
	for _, p := range parents {
		if required[p] {
			req = true
			break
		}
	}

	return domain.Param{
		Name:     name,
		Location: domain.InBody,
		Type:     schemaType(schema),
		Required: req,
		Pattern:  schema.Pattern,
		Example:  exampleString(firstNonNil(schema.Example, schema.Default)),
		Desc:     flattenText(schema.Description),
		IsAuth:   isAuthParam(name, authTokens),
	}
}

func isObjectSchema(schema *openapi3.Schema) bool {
	if schemaType(schema) == "array" && schema.Items != nil {
		return false
	}
	if schemaType(schema) == "object" {
		return true
	}
	return len(schema.Properties) > 0
}

func sortedPropertyNames(schema *openapi3.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	// Stable parameter order across runs.
	sort.Strings(names)
	return names
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil || len(*schema.Type) == 0 {
		return ""
	}
	return (*schema.Type)[0]
}

func firstNonNil(values ...interface{}) interface{} {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// exampleString renders an example value as a single line of text.
func exampleString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return flattenText(val)
	case float64, int, int64, bool:
		return fmt.Sprintf("%v", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return flattenText(string(data))
	}
}

// flattenText folds line breaks and tabs so values stay single-line in
// tabular exports.
func flattenText(s string) string {
	r := strings.NewReplacer("\n", "---", "\t", "---", "\r", "---")
	return r.Replace(s)
}
