package dto

// SignupRequest is the body of POST /auth/signup.
// Fields are validated by the registration service in a fixed order, not by binding tags,
// so that the first violated rule is the one reported.
type SignupRequest struct {
	Username string  `json:"username" example:"ann_99"`
	Email    string  `json:"email" example:"ann@example.com"`
	Secret   string  `json:"secret" example:"longenough1"`
	Name     *string `json:"name,omitempty" example:"Ann"`
}

// CompleteProfileRequest is the body of POST /auth/complete-profile.
// An empty Secret is treated the same as an omitted one.
type CompleteProfileRequest struct {
	Username string  `json:"username" example:"newu"`
	Secret   *string `json:"secret,omitempty"`
}

// HasSecret reports whether the caller asked to set a password.
func (r CompleteProfileRequest) HasSecret() bool {
	return r.Secret != nil && *r.Secret != ""
}

// CredentialsSignInRequest is the body of POST /auth/signin/credentials.
type CredentialsSignInRequest struct {
	EmailOrUsername string `json:"emailOrUsername" example:"ann_99"`
	Secret          string `json:"secret" example:"longenough1"`
}

// ExchangeCodeRequest defines the expected JSON body for the /google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// GateRequest asks the server to evaluate the profile completion gate for the caller.
type GateRequest struct {
	Route  string `json:"route" binding:"required" example:"/"`
	Intent string `json:"intent,omitempty"`
}
