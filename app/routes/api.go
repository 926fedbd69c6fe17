package routes

import (
	"net/http"

	"github.com/shashiranjanraj/pizzeria/app/controllers"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/ctx"
	"github.com/shashiranjanraj/pizzeria/pkg/middleware"
	"github.com/shashiranjanraj/pizzeria/pkg/router"
)

// API holds what the /api routes dispatch to.
type API struct {
	Tokens  *auth.Tokens
	Auth    *controllers.AuthController
	Orders  *controllers.OrderController
	GraphQL http.HandlerFunc
	Feed    http.HandlerFunc
}

func RegisterAPI(r *router.Router, a API) {
	api := r.Group("/api")
	api.Post("/register", "auth.register", ctx.Wrap(a.Auth.Register))
	api.Post("/auth", "auth.token", ctx.Wrap(a.Auth.Authenticate))

	protected := api.Group("", middleware.Authenticate(a.Tokens))

	orders := protected.Group("/orders")
	orders.Post("", "orders.create", ctx.Wrap(a.Orders.Create))
	orders.Get("", "orders.index", ctx.Wrap(a.Orders.List))
	orders.Get("/user", "orders.user", ctx.Wrap(a.Orders.ListOfUser))
	orders.Patch("/{orderId}", "orders.cancel", ctx.Wrap(a.Orders.Cancel))
	orders.Delete("/{orderId}", "orders.delete", ctx.Wrap(a.Orders.Delete))

	if a.Feed != nil {
		orders.Get("/feed", "orders.feed", a.Feed)
	}
	if a.GraphQL != nil {
		protected.Post("/graphql", "graphql", a.GraphQL)
	}
}
