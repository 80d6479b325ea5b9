package booking

// Form is the booking form as submitted from the booking view. Every field
// is validated before anything reaches the network layer.
type Form struct {
	ShipmentType    string  `json:"shipmentType" validate:"required"`
	SenderName      string  `json:"senderName" validate:"required"`
	SenderPhone     string  `json:"senderPhone" validate:"required"`
	RecipientName   string  `json:"recipientName" validate:"required"`
	RecipientPhone  string  `json:"recipientPhone" validate:"required"`
	PickupAddress   string  `json:"pickupAddress" validate:"required"`
	DeliveryAddress string  `json:"deliveryAddress" validate:"required"`
	ItemDescription string  `json:"itemDescription" validate:"required"`
	Quantity        int     `json:"quantity" validate:"gt=0"`
	WeightKg        float64 `json:"weightKg" validate:"gte=0"`
}
