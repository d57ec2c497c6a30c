package dto

import (
	"time"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
)

// OrderResponse represents an order as exposed via transport layers, with the
// four references resolved for display when they were loaded.
type OrderResponse struct {
	ID               int64                  `json:"id"`
	CustomerID       int64                  `json:"customer_id"`
	CompanyID        int64                  `json:"company_id"`
	PaymentMethodID  int64                  `json:"payment_method_id"`
	AddressID        int64                  `json:"address_id"`
	Status           string                 `json:"status"`
	Total            float64                `json:"total"`
	EstimatedMinutes int                    `json:"estimated_minutes,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Customer         *CustomerResponse      `json:"customer,omitempty"`
	Company          *CompanyResponse       `json:"company,omitempty"`
	PaymentMethod    *PaymentMethodResponse `json:"payment_method,omitempty"`
	Address          *AddressResponse       `json:"address,omitempty"`
}

type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CompanyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PaymentMethodResponse struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type AddressResponse struct {
	ID     int64  `json:"id"`
	Street string `json:"street"`
	City   string `json:"city"`
}

// FromOrder maps a persisted order onto its response shape.
func FromOrder(order *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		CompanyID:        order.CompanyID,
		PaymentMethodID:  order.PaymentMethodID,
		AddressID:        order.AddressID,
		Status:           string(order.Status),
		Total:            order.Total,
		EstimatedMinutes: order.EstimatedMinutes,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
	if order.Customer != nil {
		resp.Customer = &CustomerResponse{ID: order.Customer.ID, Name: order.Customer.Name, Email: order.Customer.Email}
	}
	if order.Company != nil {
		resp.Company = &CompanyResponse{ID: order.Company.ID, Name: order.Company.Name}
	}
	if order.PaymentMethod != nil {
		resp.PaymentMethod = &PaymentMethodResponse{ID: order.PaymentMethod.ID, Label: order.PaymentMethod.Label}
	}
	if order.Address != nil {
		resp.Address = &AddressResponse{ID: order.Address.ID, Street: order.Address.Street, City: order.Address.City}
	}
	return resp
}

// FromOrders maps a slice of orders.
func FromOrders(orders []entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, FromOrder(&orders[i]))
	}
	return out
}
