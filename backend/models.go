package backend

import (
	"time"

	"cargoflow/session"
)

// LoginResult bundles the token and identity returned by a successful
// credential login.
type LoginResult struct {
	Token   string
	User    session.Identity
	Message string
}

// RegisterRequest contains the sign-up form payload.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// BookingRequest is the full booking form plus the client-generated tracking
// identifier.
type BookingRequest struct {
	TrackingID      string  `json:"trackingId"`
	ShipmentType    string  `json:"shipmentType"`
	SenderName      string  `json:"senderName"`
	SenderPhone     string  `json:"senderPhone"`
	RecipientName   string  `json:"recipientName"`
	RecipientPhone  string  `json:"recipientPhone"`
	PickupAddress   string  `json:"pickupAddress"`
	DeliveryAddress string  `json:"deliveryAddress"`
	ItemDescription string  `json:"itemDescription"`
	Quantity        int     `json:"quantity"`
	WeightKg        float64 `json:"weightKg"`
}

// BookingReceipt is the backend's acknowledgement of a booking.
type BookingReceipt struct {
	TrackingID string
	Message    string
}

// Shipment is one row of the shipment dashboard.
type Shipment struct {
	TrackingID  string    `json:"trackingId"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	BookedAt    time.Time `json:"bookedAt"`
}

// Payment is one row of the payment dashboard.
type Payment struct {
	Reference  string    `json:"reference"`
	TrackingID string    `json:"trackingId"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	PaidAt     time.Time `json:"paidAt"`
}

// AccountSummary is one row of the admin user listing.
type AccountSummary struct {
	Email     string       `json:"email"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Role      session.Role `json:"role"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Wire envelopes. The backend wraps everything in a success flag; absence of
// the flag or of the expected payload counts as a failure.

type identityPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (p *identityPayload) toIdentity() session.Identity {
	return session.Identity{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      session.Role(p.Role),
	}
}

type verifyResponse struct {
	Success bool             `json:"success"`
	User    *identityPayload `json:"user"`
}

type loginResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token"`
	User    *identityPayload `json:"user"`
	Message string           `json:"message"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type bookingResponse struct {
	Status     string `json:"status"`
	TrackingID string `json:"trackingId"`
	Message    string `json:"message"`
}

type shipmentsResponse struct {
	Success   bool       `json:"success"`
	Shipments []Shipment `json:"shipments"`
}

type paymentsResponse struct {
	Success  bool      `json:"success"`
	Payments []Payment `json:"payments"`
}

type usersResponse struct {
	Success bool             `json:"success"`
	Users   []AccountSummary `json:"users"`
}
