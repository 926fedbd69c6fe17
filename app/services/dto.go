package services

import "github.com/shashiranjanraj/pizzeria/app/models"

// OrderRequest is one pizza in a create-orders batch.
type OrderRequest struct {
	TableNo int    `json:"tableNo" validate:"required,gt=0"`
	Flavor  string `json:"flavor"  validate:"required,max=255"`
	Crust   string `json:"crust"   validate:"required,max=255"`
	Size    string `json:"size"    validate:"required,max=255"`
}

type OrderResponse struct {
	ID          uint   `json:"id"`
	Flavor      string `json:"flavor"`
	Crust       string `json:"crust"`
	Size        string `json:"size"`
	TableNo     int    `json:"tableNo"`
	OrderType   string `json:"orderType"`
	OrderStatus string `json:"orderStatus"`
}

type OrderPageResponse struct {
	Orders      []OrderResponse `json:"orders"`
	CurrentPage int             `json:"currentPage"`
	TotalItems  int64           `json:"totalItems"`
	TotalPages  int             `json:"totalPages"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

type RegisterResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
}

// OrderEvent is the payload fired on the event bus for order changes.
type OrderEvent struct {
	Event string        `json:"event"`
	Order OrderResponse `json:"order"`
}

func toOrderResponse(o models.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		Flavor:      o.Flavor,
		Crust:       o.Crust,
		Size:        o.Size,
		TableNo:     o.TableNo,
		OrderType:   o.OrderType,
		OrderStatus: o.OrderStatus.Name(),
	}
}

func toOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

func toRegisterResponse(u models.User) RegisterResponse {
	return RegisterResponse{ID: u.ID, Name: u.Name, Username: u.Username}
}
