package memory

import "github.com/mrops-br/storefront-cart/internal/domain"

// DefaultCatalog is the product set the development backend starts with
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{ID: "BW0jAAeDJmlZCF8i", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/ff071a1c-1099-48f9-9b03-f858ccc53832.png"},
		{ID: "KCRwjF7lN97HnEaY", Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: 60, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/5b478a4a-bf85-4f0f-a0b5-0f1e9e1a0d5d.png"},
		{ID: "upLK9JbQ4rMhTwt4", Name: "Basketball", Category: "Sports", Cost: 100, Rating: 5, Image: "https://i.imgur.com/lulqWzW.jpg"},
		{ID: "v4sLtEcMpzabRyfx", Name: "iPhone XR", Category: "Phones", Cost: 100, Rating: 4, Image: "https://i.imgur.com/lulqWzW.jpg"},
		{ID: "a4sLtEcMpzabRyfx", Name: "Sneakers", Category: "Fashion", Cost: 80, Rating: 3, Image: "https://i.imgur.com/lulqWzW.jpg"},
	}
}
