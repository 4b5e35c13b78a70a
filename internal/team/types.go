package team

import "fmt"

// Project mirrors the backend's project record. Roles may be empty for
// projects that have not declared requirements yet.
type Project struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Roles       RoleList `json:"roles"`
	OwnerID     int      `json:"owner_id"`
}

// User is a profile record as returned by the users endpoints.
type User struct {
	ID         int      `json:"id"`
	TelegramID int64    `json:"telegram_id"`
	Username   string   `json:"username,omitempty"`
	Name       string   `json:"name,omitempty"`
	Skills     SkillSet `json:"skills"`
	Bio        string   `json:"bio,omitempty"`
}

// DisplayName picks the most specific label available for a user.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return fmt.Sprintf("User #%d", u.ID)
}

// Member is a membership record enriched with the member's profile fields.
// RoleName is free text matched literally against Role.Name; an empty value
// means the member sits in the unassigned bucket.
type Member struct {
	User
	RoleName string `json:"role_name,omitempty"`
}
