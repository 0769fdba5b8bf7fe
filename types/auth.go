package types

// LoginRequest is the login payload proxied to the SSO
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// SSOUser is the identity block returned by the SSO login endpoint
type SSOUser struct {
	UUID        string `json:"uuid"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	LegalName   string `json:"legal_name"`
	Role        string `json:"role"`
}

// LoginUserResponse is the SSO login response
type LoginUserResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    SSOUser `json:"user"`
}
