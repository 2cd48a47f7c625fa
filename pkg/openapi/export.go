package openapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/field"
)

const (
	// SubmissionSchemaName is the component name of the generated form schema.
	SubmissionSchemaName = "Submission"
	// SubmitOperationID identifies the generated submit operation.
	SubmitOperationID = "submitGeneratedForm"
	// DefaultVersion is used for info.version when callers leave it blank.
	DefaultVersion = "1.0.0"
)

// Options tune the exported document.
type Options struct {
	Title       string
	Version     string
	Description string
	SubmitPath  string
}

// PropertyNames returns the property key used for each descriptor, in list
// order. Repeated labels are suffixed with _2, _3, ... so every descriptor
// keeps its own property.
func PropertyNames(fields []field.Descriptor) []string {
	names := make([]string, 0, len(fields))
	used := make(map[string]struct{}, len(fields))
	for _, descriptor := range fields {
		base := strings.TrimSpace(descriptor.Label)
		if base == "" {
			base = "field"
		}
		name := base
		for n := 2; ; n++ {
			if _, taken := used[name]; !taken {
				break
			}
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Schema describes the generated form as an object schema. Every property is
// required because submit rejects empty values.
func Schema(fields []field.Descriptor) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Properties = make(openapi3.Schemas, len(fields))
	names := PropertyNames(fields)
	for i, descriptor := range fields {
		prop := propertySchema(descriptor)
		schema.Properties[names[i]] = openapi3.NewSchemaRef("", prop)
		schema.Required = append(schema.Required, names[i])
	}
	return schema
}

// Document wraps Schema into a complete OpenAPI 3 document with a submit
// operation that accepts it.
func Document(fields []field.Descriptor, opts Options) *openapi3.T {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Generated form"
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = DefaultVersion
	}
	submitPath := strings.TrimSpace(opts.SubmitPath)
	if submitPath == "" {
		submitPath = "/submit"
	}
	if !strings.HasPrefix(submitPath, "/") {
		submitPath = "/" + submitPath
	}

	ref := "#/components/schemas/" + SubmissionSchemaName
	submission := Schema(fields)

	op := openapi3.NewOperation()
	op.OperationID = SubmitOperationID
	op.Summary = "Submit the generated form"
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(openapi3.NewSchemaRef(ref, submission)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission accepted"),
		}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("One or more values are empty"),
		}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: opts.Description,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(submitPath, &openapi3.PathItem{Post: op}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SubmissionSchemaName: openapi3.NewSchemaRef("", submission),
			},
		},
	}
	return doc
}

// MarshalJSON renders the document as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("openapi: document is nil")
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal document: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("openapi: reformat document: %w", err)
	}
	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: indent document: %w", err)
	}
	return out, nil
}

func propertySchema(descriptor field.Descriptor) *openapi3.Schema {
	var prop *openapi3.Schema
	switch descriptor.Type {
	case field.KindNumber:
		prop = openapi3.NewFloat64Schema()
		if descriptor.Value != "" {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(descriptor.Value), 64); err == nil {
				prop.Default = parsed
			}
		}
	case field.KindEmail:
		prop = openapi3.NewStringSchema().WithFormat("email")
		prop.MinLength = 1
	case field.KindPassword:
		prop = openapi3.NewStringSchema().WithFormat("password")
		prop.MinLength = 1
	default:
		prop = openapi3.NewStringSchema()
		prop.MinLength = 1
	}
	prop.Title = descriptor.Label
	if descriptor.Type != field.KindNumber && descriptor.Type != field.KindPassword && descriptor.Value != "" {
		prop.Default = descriptor.Value
	}
	if prop.Extensions == nil {
		prop.Extensions = make(map[string]any)
	}
	prop.Extensions["x-formbuilder-id"] = descriptor.ID
	prop.Extensions["x-formbuilder-type"] = descriptor.Type.String()
	return prop
}
