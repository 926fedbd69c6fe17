// Package graphql serves a graphql-go schema over HTTP POST.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/bind"
	"github.com/shashiranjanraj/pizzeria/pkg/response"
)

// NewSchema builds a read-only schema from its root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string                 `json:"query" validate:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes requests against schema with the request context, so
// resolvers can read the caller identity. GraphQL errors are reported in
// the result body with status 200.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := bind.JSON(r, &req); err != nil {
			response.Error(w, r, err)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		response.OK(w, result)
	}
}

// ErrorMessage renders err for a resolver so domain messages reach the
// client and internal causes do not.
func ErrorMessage(err error) error {
	if ae, ok := apperror.From(err); ok && ae.Kind != apperror.KindInternal {
		return ae
	}
	return errInternal
}

type internalError struct{}

func (internalError) Error() string { return http.StatusText(http.StatusInternalServerError) }

var errInternal error = internalError{}
