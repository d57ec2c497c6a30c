package dto

import "github.com/calvoclucas/app-mdw-2025/internal/entity"

// OrderDetailResponse is one line item as exposed over HTTP.
type OrderDetailResponse struct {
	ID        int64            `json:"id"`
	OrderID   int64            `json:"order_id"`
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice float64          `json:"unit_price"`
	Product   *ProductResponse `json:"product,omitempty"`
}

type ProductResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// FromOrderDetail maps a persisted line item onto its response shape.
func FromOrderDetail(detail *entity.OrderDetail) OrderDetailResponse {
	resp := OrderDetailResponse{
		ID:        detail.ID,
		OrderID:   detail.OrderID,
		ProductID: detail.ProductID,
		Quantity:  detail.Quantity,
		UnitPrice: detail.UnitPrice,
	}
	if detail.Product != nil {
		resp.Product = &ProductResponse{ID: detail.Product.ID, Name: detail.Product.Name, Price: detail.Product.Price}
	}
	return resp
}

// FromOrderDetails maps a slice of line items.
func FromOrderDetails(details []entity.OrderDetail) []OrderDetailResponse {
	out := make([]OrderDetailResponse, 0, len(details))
	for i := range details {
		out = append(out, FromOrderDetail(&details[i]))
	}
	return out
}
