package services

// Client-facing messages. Each names the rule that was violated.
const (
	msgSignupFieldsRequired = "Username, email, and password are required"
	msgUsernameRequired     = "Username is required"
	msgUsernameFormat       = "Username must be 3-20 characters (letters, numbers, underscore only)"
	msgEmailFormat          = "Invalid email format"
	msgEmailTooLong         = "Email must be at most 320 characters"
	msgNameTooLong          = "Name must be at most 255 characters"
	msgSecretTooLong        = "Password must be at most 72 bytes"
	msgSignupSecretLength   = "Password must be at least 8 characters long"
	msgProfileSecretLength  = "Password must be at least 8 characters"
	msgUsernameTaken        = "Username already taken"
	msgEmailTaken           = "Email already registered"
	msgNotAuthenticated     = "Not authenticated"
	msgUserNotFound         = "User not found"
	msgAlreadyComplete      = "Profile already completed"
)
