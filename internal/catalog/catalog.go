// Package catalog holds the storefront's fixed product list. The list is
// built once at package init and never changes while the process runs.
package catalog

import "github.com/unclebandit/storefront-backend/internal/model"

var products = []model.Product{
	{ID: 1, Name: "Classic Leather Sneakers", Category: "Footwear", Price: 89.99, Image: "/images/products/leather-sneakers.jpg", Rating: 4.6, Featured: true, Description: "Low-top sneakers in full-grain leather with a cushioned insole."},
	{ID: 2, Name: "Merino Crew Sweater", Category: "Apparel", Price: 74.5, Image: "/images/products/merino-sweater.jpg", Rating: 4.4, Description: "Lightweight merino wool knit for year-round layering."},
	{ID: 3, Name: "Canvas Weekender Bag", Category: "Accessories", Price: 120, Image: "/images/products/weekender-bag.jpg", Rating: 4.8, Featured: true, Description: "Waxed canvas duffel with leather handles and a shoe compartment."},
	{ID: 4, Name: "Stainless Water Bottle", Category: "Outdoor", Price: 24.99, Image: "/images/products/water-bottle.jpg", Rating: 4.3},
	{ID: 5, Name: "Wireless Earbuds", Category: "Electronics", Price: 129.99, Image: "/images/products/earbuds.jpg", Rating: 4.1, Featured: true, Description: "Noise-isolating earbuds with a pocket-sized charging case."},
	{ID: 6, Name: "Linen Button-Down Shirt", Category: "Apparel", Price: 58, Image: "/images/products/linen-shirt.jpg", Rating: 4.2},
	{ID: 7, Name: "Ceramic Pour-Over Set", Category: "Home", Price: 42, Image: "/images/products/pour-over.jpg", Rating: 4.7, Description: "Hand-glazed dripper with a matching carafe."},
	{ID: 8, Name: "Trail Running Shoes", Category: "Footwear", Price: 139.95, Image: "/images/products/trail-shoes.jpg", Rating: 4.5},
	{ID: 9, Name: "Minimalist Wallet", Category: "Accessories", Price: 35, Image: "/images/products/wallet.jpg", Rating: 4.0},
	{ID: 10, Name: "Smart Desk Lamp", Category: "Electronics", Price: 64.99, Image: "/images/products/desk-lamp.jpg", Rating: 3.9, Description: "Dimmable LED lamp with adjustable colour temperature."},
	{ID: 11, Name: "Packable Rain Jacket", Category: "Outdoor", Price: 99, Image: "/images/products/rain-jacket.jpg", Rating: 4.4, Featured: true},
	{ID: 12, Name: "Cotton Throw Blanket", Category: "Home", Price: 49.5, Image: "/images/products/throw-blanket.jpg", Rating: 4.6},
}

// All returns the full catalog in display order. The returned slice is a copy.
func All() []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)
	return out
}

// Featured returns the products flagged for the storefront landing page.
func Featured() []model.Product {
	var out []model.Product
	for _, p := range products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}
