package dto

import "github.com/mrops-br/storefront-cart/internal/domain"

// ProductResponse is the wire shape of a catalog product
type ProductResponse struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   int     `json:"rating"`
	Image    string  `json:"image"`
	ID       string  `json:"_id"`
}

// ToDomain converts the wire product to a domain Product
func (p ProductResponse) ToDomain() domain.Product {
	return domain.Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Cost:     p.Cost,
		Rating:   p.Rating,
		Image:    p.Image,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Cost:     p.Cost,
		Rating:   p.Rating,
		Image:    p.Image,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// ToProducts converts a decoded product list, validating each entry.
func ToProducts(list []ProductResponse) ([]domain.Product, error) {
	products := make([]domain.Product, len(list))
	for i, p := range list {
		products[i] = p.ToDomain()
		if err := products[i].Validate(); err != nil {
			return nil, err
		}
	}
	return products, nil
}
