package handler

import "github.com/usermgmt/user-api/internal/core/domain"

// userItem shapes one listing item. With no projection the full record is
// returned (the password hash is already stripped by the service and hidden
// from JSON); with a projection only the requested fields appear.
func userItem(u domain.User, fields []string) any {
	if len(fields) == 0 {
		return u
	}

	item := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f {
		case "id":
			item["id"] = u.ID
		case "username":
			item["username"] = u.Username
		case "email":
			item["email"] = u.Email
		case "role":
			item["role"] = u.Role
		case "created_at":
			item["created_at"] = u.CreatedAt
		case "updated_at":
			item["updated_at"] = u.UpdatedAt
		}
	}
	return item
}
