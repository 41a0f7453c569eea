package response

import (
	"encoding/json"
	"net/http"

	"github.com/mrops-br/storefront-cart/internal/app/dto"
)

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends the {success:false, message} body every storefront error uses
func Error(w http.ResponseWriter, status int, err error) {
	JSON(w, status, dto.StatusResponse{
		Success: false,
		Message: err.Error(),
	})
}
