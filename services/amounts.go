package services

import "checkout-service/models"

// Amounts is the computed price breakdown for a cart snapshot.
type Amounts struct {
	Subtotal       int64 `json:"subtotal"`
	DeliveryCharge int64 `json:"delivery_charge"`
	Total          int64 `json:"total"`
}

// ComputeAmounts derives subtotal and total from the cart line items.
// Pure and deterministic; an empty cart yields subtotal 0 and total equal
// to the delivery charge.
func ComputeAmounts(items []models.CartItem, deliveryCharge int64) Amounts {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return Amounts{
		Subtotal:       subtotal,
		DeliveryCharge: deliveryCharge,
		Total:          subtotal + deliveryCharge,
	}
}
