package domain

// AuthProvider identifies how a user record was first provisioned.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents a user of the application in the domain.
// Email and Username are always stored lowercased.
type User struct {
	UserID          string       `json:"userID"`
	Email           string       `json:"email"`
	Username        *string      `json:"username"`
	PasswordHash    *string      `json:"-"`
	DisplayName     *string      `json:"name,omitempty"`
	AvatarURL       *string      `json:"image,omitempty"`
	ProfileComplete bool         `json:"profileComplete"`
	AuthProvider    AuthProvider `json:"authProvider"`
	ProviderUserID  *string      `json:"-"`
	AuditFields
}

// HasPassword reports whether the user can sign in with a local credential.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// GetUsername returns the username or "" while onboarding is pending.
func (u *User) GetUsername() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

func (u *User) GetName() string {
	if u.DisplayName == nil {
		return ""
	}
	return *u.DisplayName
}

func (u *User) GetImage() string {
	if u.AvatarURL == nil {
		return ""
	}
	return *u.AvatarURL
}

// Identity is what a successful authentication yields. It never carries the secret hash.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

// ToIdentity strips everything but the public identity fields.
func (u *User) ToIdentity() Identity {
	return Identity{
		ID:          u.UserID,
		Email:       u.Email,
		DisplayName: u.GetName(),
		AvatarURL:   u.GetImage(),
	}
}

// ProviderIdentity is the normalized identity asserted by an external OAuth provider
// after its own handshake validation.
type ProviderIdentity struct {
	Provider       AuthProvider
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	Picture        string
}
