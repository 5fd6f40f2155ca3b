package models

// User is the row shape of the users table.
// Nullable columns are pointers; email and username are stored lowercased.
type User struct {
	UserID          string  `db:"user_id"`
	Email           string  `db:"email"`
	Username        *string `db:"username"`
	PasswordHash    *string `db:"password_hash"`
	Name            *string `db:"name"`
	Image           *string `db:"image"`
	ProfileComplete bool    `db:"profile_complete"`
	AuthProvider    string  `db:"auth_provider"`
	ProviderUserID  *string `db:"provider_user_id"`
	AuditFields
}
