// internal/handler/product_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/storefront-backend/internal/catalog"
	"github.com/unclebandit/storefront-backend/internal/model"
)

// ProductHandler serves the read-only product catalog.
type ProductHandler struct {
	// Products defaults to catalog.All; tests swap it.
	Products func() []model.Product
	Log      *zap.Logger
}

func NewProductHandler(log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{Products: catalog.All, Log: log}
}

// ListProductsHandler returns every catalog product in display order.
func (h *ProductHandler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Products()); err != nil {
		h.logger().Warn("failed to write product list", zap.Error(err))
	}
}

func (h *ProductHandler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
