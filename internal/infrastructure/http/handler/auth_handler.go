package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-cart/internal/app/dto"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/response"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	accounts domain.AccountRepository
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts domain.AccountRepository, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	if _, err := h.accounts.Create(r.Context(), creds.Username, creds.Password); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			response.Error(w, http.StatusBadRequest, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusCreated, dto.StatusResponse{Success: true})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidPassword):
			response.Error(w, http.StatusBadRequest, err)
		default:
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusCreated, dto.LoginResponse{
		Success:  true,
		Token:    account.Token,
		Username: account.Username,
		Balance:  account.Balance,
	})
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request) (domain.Credentials, bool) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return domain.Credentials{}, false
	}

	creds := domain.Credentials{Username: req.Username, Password: req.Password}
	if err := creds.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return domain.Credentials{}, false
	}
	return creds, true
}
