// Package graphql exposes read-only order queries:
//
//	{ orders(page: 0, size: 10, sortBy: "id") { orders { id tableNo orderStatus } totalItems } }
//	{ ordersOfUser(userId: 1) { id flavor } }
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/pizzeria/app/services"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	gql "github.com/shashiranjanraj/pizzeria/pkg/graphql"
)

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"flavor":      &graphql.Field{Type: graphql.String},
		"crust":       &graphql.Field{Type: graphql.String},
		"size":        &graphql.Field{Type: graphql.String},
		"tableNo":     &graphql.Field{Type: graphql.Int},
		"orderType":   &graphql.Field{Type: graphql.String},
		"orderStatus": &graphql.Field{Type: graphql.String},
	},
})

var orderPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderPage",
	Fields: graphql.Fields{
		"orders":      &graphql.Field{Type: graphql.NewList(orderType)},
		"currentPage": &graphql.Field{Type: graphql.Int},
		"totalItems":  &graphql.Field{Type: graphql.Int},
		"totalPages":  &graphql.Field{Type: graphql.Int},
	},
})

// NewSchema builds the query schema over orders.
func NewSchema(orders *services.OrderService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"orders": &graphql.Field{
				Type: orderPageType,
				Args: graphql.FieldConfigArgument{
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"size":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: services.DefaultPageSize},
					"sortBy": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: services.DefaultSortBy},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					out, err := orders.ListAllOrders(p.Context,
						intArg(p.Args, "page", 0),
						intArg(p.Args, "size", services.DefaultPageSize),
						stringArg(p.Args, "sortBy", services.DefaultSortBy))
					if err != nil {
						return nil, gql.ErrorMessage(err)
					}
					return out, nil
				},
			},
			"ordersOfUser": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := intArg(p.Args, "userId", 0)
					if id <= 0 {
						return nil, apperror.BadRequest("userId must be a positive integer")
					}
					out, err := orders.ListOrdersOfUser(p.Context, uint(id))
					if err != nil {
						return nil, gql.ErrorMessage(err)
					}
					return out, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

// intArg reads an optional Int argument; an explicit null yields fallback.
func intArg(args map[string]interface{}, name string, fallback int) int {
	if v, ok := args[name].(int); ok {
		return v
	}
	return fallback
}

func stringArg(args map[string]interface{}, name, fallback string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return fallback
}
