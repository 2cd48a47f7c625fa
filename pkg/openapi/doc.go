// Package openapi exports the generated form as an OpenAPI 3 document so
// the schema a user builds in the first stage can be consumed by other
// tooling.
package openapi
