package models

// Flavor, Crust and Size are the closed sets a pizza order is validated
// against. Values are stored as free text on the order row.
type (
	Flavor string
	Crust  string
	Size   string
)

const (
	FlavorHawaii          Flavor = "HAWAII"
	FlavorRegina          Flavor = "REGINA"
	FlavorQuattroFormaggi Flavor = "QUATTRO-FORMAGGI"

	CrustThin   Crust = "THIN"
	CrustNormal Crust = "NORMAL"

	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

var (
	flavors = map[Flavor]bool{FlavorHawaii: true, FlavorRegina: true, FlavorQuattroFormaggi: true}
	crusts  = map[Crust]bool{CrustThin: true, CrustNormal: true}
	sizes   = map[Size]bool{SizeMedium: true, SizeLarge: true}
)

func (f Flavor) Valid() bool { return flavors[f] }
func (c Crust) Valid() bool  { return crusts[c] }
func (s Size) Valid() bool   { return sizes[s] }

// OrderStatus is the numeric status code persisted on an order.
type OrderStatus int

const (
	StatusCreated   OrderStatus = 1
	StatusCancelled OrderStatus = 2
	StatusDelivered OrderStatus = 3
)

var statusNames = map[OrderStatus]string{
	StatusCreated:   "CREATED",
	StatusCancelled: "CANCELLED",
	StatusDelivered: "DELIVERED",
}

// Name returns the status label, or "" for an unknown code.
func (s OrderStatus) Name() string { return statusNames[s] }

const (
	OrderTypeDineIn   = "DINE-IN"
	OrderTypeDelivery = "DELIVERY"

	// DeliveryThreshold is the highest table number still served in house.
	// Anything above it is a delivery address code.
	DeliveryThreshold = 100_000
)

// OrderTypeFor classifies a table number.
func OrderTypeFor(tableNo int) string {
	if tableNo > DeliveryThreshold {
		return OrderTypeDelivery
	}
	return OrderTypeDineIn
}
