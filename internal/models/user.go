package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleManager     = "MANAGER"
	RoleUser        = "USER"

	UserTypeInternal = "internal"
	UserTypeVendor   = "vendor"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Designations lists the designations valid for each user type.
var Designations = map[string][]string{
	UserTypeInternal: {"brand_manager", "marketing_manager", "creative_head", "designer", "zonal_manager", "sales_executive"},
	UserTypeVendor:   {"agency", "printer", "freelancer", "photographer"},
}

var (
	Roles    = []string{RoleMasterAdmin, RoleAdmin, RoleManager, RoleUser}
	Genders  = []string{"male", "female", "other"}
	Statuses = []string{UserStatusActive, UserStatusInactive}
)

// ValidDesignation reports whether designation belongs to userType.
func ValidDesignation(userType, designation string) bool {
	for _, d := range Designations[userType] {
		if d == designation {
			return true
		}
	}
	return false
}

// IsAdmin reports whether role may manage other users.
func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleMasterAdmin
}

type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type User struct {
	ID            uuid.UUID  `json:"_id" db:"id"`
	FirstName     string     `json:"firstName" db:"first_name"`
	LastName      string     `json:"lastName" db:"last_name"`
	Email         string     `json:"email" db:"email"`
	ContactNumber *string    `json:"contactNumber,omitempty" db:"contact_number"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Role          string     `json:"role" db:"role"`
	UserType      string     `json:"userType" db:"user_type"`
	Designation   string     `json:"designation" db:"designation"`
	Status        string     `json:"status" db:"status"`
	Gender        *string    `json:"gender,omitempty" db:"gender"`
	DOB           *time.Time `json:"dob,omitempty" db:"dob"`
	Location      Location   `json:"location"`
	ProfilePic    string     `json:"profilePic" db:"profile_pic"`
	LastUpdatedBy *uuid.UUID `json:"lastUpdatedBy,omitempty" db:"last_updated_by"`
	LastUpdatedAt *time.Time `json:"lastUpdatedAt,omitempty" db:"last_updated_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Summary projects the user to the shape embedded in job and document responses.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Role:       u.Role,
	}
}

// UserSummary is a resolved user reference.
type UserSummary struct {
	ID         uuid.UUID `json:"_id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic,omitempty"`
	Role       string    `json:"role,omitempty"`
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Role        string
	Designation string
	UserType    string
	Search      string
	Page        int
	Limit       int
}

// UserUpdate carries the allow-listed fields a caller may change. Nil means unchanged.
type UserUpdate struct {
	FirstName     *string    `json:"firstName"`
	LastName      *string    `json:"lastName"`
	ContactNumber *string    `json:"contactNumber"`
	Role          *string    `json:"role"`
	UserType      *string    `json:"userType"`
	Designation   *string    `json:"designation"`
	Status        *string    `json:"status"`
	Gender        *string    `json:"gender"`
	DOB           *time.Time `json:"dob"`
	Location      *Location  `json:"location"`
}

// Pagination is returned alongside paged lists.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
}

// NewPagination computes the page count for total rows.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{CurrentPage: page, TotalPages: pages, Total: total}
}
