package transport

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type RevokeResponse struct {
	Revoked int64 `json:"revoked"`
}
