package response

import "park-and-ride/internal/domain/user"

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type MeResponse struct {
	UserID        string `json:"userId"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
}

func FromUser(u *user.User) MeResponse {
	return MeResponse{
		UserID:        u.Email().Value(),
		LoyaltyPoints: u.LoyaltyPoints(),
	}
}
