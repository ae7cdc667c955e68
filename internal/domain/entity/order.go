package entity

import (
	"sort"
	"time"
)

const (
	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
)

type OrderItem struct {
	ProductID string  `json:"product_id" firestore:"productId" bson:"product_id"`
	VendorID  string  `json:"vendor_id" firestore:"vendorId" bson:"vendor_id"`
	Name      string  `json:"name" firestore:"name" bson:"name"`
	Quantity  int     `json:"quantity" firestore:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" firestore:"unitPrice" bson:"unit_price"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type Order struct {
	ID              string      `json:"id" firestore:"id" bson:"_id"`
	BuyerID         string      `json:"buyer_id" firestore:"buyerId" bson:"buyer_id"`
	Items           []OrderItem `json:"items" firestore:"items" bson:"items"`
	VendorIDs       []string    `json:"vendor_ids" firestore:"vendorIds" bson:"vendor_ids"`
	Total           float64     `json:"total" firestore:"total" bson:"total"`
	Status          string      `json:"status" firestore:"status" bson:"status"`
	ShippingAddress string      `json:"shipping_address,omitempty" firestore:"shippingAddress,omitempty" bson:"shipping_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at" firestore:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" firestore:"updatedAt" bson:"updated_at"`
}

// ItemsByVendor partitions the line items by vendor id.
func (o *Order) ItemsByVendor() map[string][]OrderItem {
	out := make(map[string][]OrderItem)
	for _, item := range o.Items {
		out[item.VendorID] = append(out[item.VendorID], item)
	}
	return out
}

// DistinctVendors returns the affected vendor ids in sorted order.
func (o *Order) DistinctVendors() []string {
	byVendor := o.ItemsByVendor()
	vendors := make([]string, 0, len(byVendor))
	for id := range byVendor {
		vendors = append(vendors, id)
	}
	sort.Strings(vendors)
	return vendors
}

func (o *Order) Involves(participantID string) bool {
	if o.BuyerID == participantID {
		return true
	}
	for _, item := range o.Items {
		if item.VendorID == participantID {
			return true
		}
	}
	return false
}
