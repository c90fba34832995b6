// Package model defines domain entities for the application.
package model

import "time"

// User is a record in the users collection.
// ID and CreatedAt are assigned by the store and never change afterwards.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasCreatedAt reports whether the store recorded a creation time.
func (u *User) HasCreatedAt() bool {
	return !u.CreatedAt.IsZero()
}

// UserPatch holds the fields an update may change. Nil fields are left as stored.
type UserPatch struct {
	Name  *string `json:"name,omitempty" validate:"omitnil,required,hangulfree"`
	Email *string `json:"email,omitempty" validate:"omitnil,emailshape"`
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// Fields returns the patch as a field-name to value map using the stored
// document field names.
func (p UserPatch) Fields() map[string]any {
	fields := make(map[string]any, 2)
	if p.Name != nil {
		fields[FieldName] = *p.Name
	}
	if p.Email != nil {
		fields[FieldEmail] = *p.Email
	}
	return fields
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

// Stored document field names shared by every backend.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldCreatedAt = "createdAt"
)
