package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopmart/shop-backend/internal/service"
)

const maxUploadSize = 32 << 20 // 32MB

type UserHandler struct {
	users   *service.UserService
	timeout time.Duration
}

func NewUserHandler(users *service.UserService, timeout time.Duration) *UserHandler {
	return &UserHandler{
		users:   users,
		timeout: timeout,
	}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// POST /register — multipart form: text fields plus the profileImage file.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided in the request body.")
		return
	}

	in := service.RegisterInput{
		Fname:    r.FormValue("fname"),
		Lname:    r.FormValue("lname"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Password: r.FormValue("password"),
	}

	// The address arrives as a JSON string inside the form.
	rawAddress := r.FormValue("address")
	if rawAddress == "" {
		respondError(w, http.StatusBadRequest, "No data provided in address.")
		return
	}
	if err := json.Unmarshal([]byte(rawAddress), &in.Address); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid address format.")
		return
	}

	file, header, err := r.FormFile("profileImage")
	if err == nil {
		defer file.Close()
		in.Image = &service.ProfileImage{Filename: header.Filename, Body: file}
	}

	user, err := h.users.Register(ctx, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "User created successfully", user)
}

// POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	result, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// The token also travels in the response header, as clients expect.
	w.Header().Set("x-api-key", result.Token)
	respondSuccess(w, http.StatusOK, "User login successful", LoginResponseDTO{
		UserID: result.UserID.Hex(),
		Token:  result.Token,
	})
}

// GET /user/{userId}/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "User profile details", user)
}
