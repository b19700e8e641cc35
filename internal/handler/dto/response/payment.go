package response

type CreateIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
