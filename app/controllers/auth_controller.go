package controllers

import (
	"github.com/shashiranjanraj/pizzeria/app/services"
	"github.com/shashiranjanraj/pizzeria/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /api/register.
func (c *AuthController) Register(cx *ctx.Context) {
	var req services.RegisterRequest
	if !cx.BindJSON(&req) {
		return
	}

	out, err := c.service.RegisterUser(cx.Context(), req)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Created(out)
}

// Authenticate handles POST /api/auth.
func (c *AuthController) Authenticate(cx *ctx.Context) {
	var req services.AuthRequest
	if !cx.BindJSON(&req) {
		return
	}

	out, err := c.service.AuthenticateUser(cx.Context(), req)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Created(out)
}
