package domain

import "time"

// Category groups inventory items. Name is unique.
type Category struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// ContactInfo is the mandatory way to reach a supplier.
type ContactInfo struct {
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

// Supplier provides inventory items.
type Supplier struct {
	ID          string      `json:"id" bson:"_id"`
	Name        string      `json:"name" bson:"name"`
	ContactInfo ContactInfo `json:"contactInfo" bson:"contactInfo"`
	Address     string      `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
}

// Item is a stocked inventory record referencing a category and a supplier.
type Item struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	CategoryID string    `json:"category" bson:"category"`
	SupplierID string    `json:"supplier" bson:"supplier"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	Price      float64   `json:"price" bson:"price"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// PopulatedItem is an Item with its category and supplier resolved. A
// reference to a record that no longer exists renders as null.
type PopulatedItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  *Category `json:"category"`
	Supplier  *Supplier `json:"supplier"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}
