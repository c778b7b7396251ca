package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	// Uncategorized groups activities without any category.
	Uncategorized = "uncategorized"
)

type (
	User struct {
		Email        string
		Name         string
		PasswordHash string
		Role         string
	}

	UserProfile struct {
		Name        string
		Email       string
		Preferences []string
	}

	Activity struct {
		Name     string
		Place    *string
		Time     *string
		Category *string
		// LinkedCategory is the name of the Category reached through BELONGS_TO.
		LinkedCategory *string
	}

	ActivityGroup struct {
		Category   string
		Activities []Activity
	}
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// ResolvedCategory prefers the denormalized property over the linked node.
func (a Activity) ResolvedCategory() string {
	if a.Category != nil && *a.Category != "" {
		return *a.Category
	}
	if a.LinkedCategory != nil && *a.LinkedCategory != "" {
		return *a.LinkedCategory
	}
	return Uncategorized
}
