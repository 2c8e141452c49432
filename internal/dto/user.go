package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token. The same token is also
// set as the access_token cookie.
type LoginResponse struct {
	Token string `json:"token"`
}
