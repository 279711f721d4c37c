package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avelarq/userbase-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxUploadSize bounds the in-memory portion of a multipart request.
const maxUploadSize = 10 << 20 // 10 MiB

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// GetAll handles the request to list all users.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve users")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles the request to fetch a single user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get user", id)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Create handles new user creation from a multipart form.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.CreateUserInput{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	}

	image, closeImage, ok := imageFromRequest(w, r)
	if !ok {
		return
	}
	defer closeImage()
	input.Image = image

	user, err := h.service.CreateUser(input)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create user", 0)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Update handles a partial update of a user from a multipart form.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.UpdateUserInput{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	}

	image, closeImage, ok := imageFromRequest(w, r)
	if !ok {
		return
	}
	defer closeImage()
	input.Image = image

	user, err := h.service.UpdateUser(id, input)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update user", id)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		h.writeServiceError(w, err, "Failed to delete user", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// userID parses the {id} URL parameter. A non-numeric id behaves like a
// missing record.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return 0, false
	}
	return id, true
}

// imageFromRequest extracts the optional image file field. The third return
// is false when a response has already been written.
func imageFromRequest(w http.ResponseWriter, r *http.Request) (*services.ImageUpload, func(), bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, true
		}
		writeError(w, http.StatusBadRequest, "Invalid image upload")
		return nil, nil, false
	}
	return &services.ImageUpload{Filename: header.Filename, Data: file}, func() { file.Close() }, true
}

// writeServiceError maps service errors to HTTP responses.
func (h *UserHandler) writeServiceError(w http.ResponseWriter, err error, logMsg string, id int64) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, services.ErrEmailExists):
		writeError(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		log.Error().Err(err).Int64("user_id", id).Msg(logMsg)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
