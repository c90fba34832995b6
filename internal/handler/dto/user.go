// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest represents the request body for updating a user.
// Only the supplied fields are changed.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UnmarshalJSON decodes the body, rejecting unknown fields. An explicit null
// counts as a supplied empty value so it goes through the field rules.
func (r *UpdateUserRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateUserRequest
	var req plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if isNull(raw["name"]) {
		req.Name = new(string)
	}
	if isNull(raw["email"]) {
		req.Email = new(string)
	}

	*r = UpdateUserRequest(req)
	return nil
}

func isNull(v json.RawMessage) bool {
	return v != nil && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// ToPatch converts the request into a model.UserPatch.
func (r UpdateUserRequest) ToPatch() model.UserPatch {
	return model.UserPatch{
		Name:  r.Name,
		Email: r.Email,
	}
}

// CreateUserResponse is returned after a successful create.
type CreateUserResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
	if user.HasCreatedAt() {
		createdAt := user.CreatedAt.UTC()
		resp.CreatedAt = &createdAt
	}
	return resp
}
