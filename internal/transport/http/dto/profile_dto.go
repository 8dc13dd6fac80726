package dto

type ProfileResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Bio         string  `json:"bio"`
	PhotoURL    *string `json:"photo_url"`
	Age         *int    `json:"age"`
}

type CandidatesResponse struct {
	Items []ProfileResponse `json:"items"`
}

// UpdateProfileRequest is a partial update; omitted fields keep stored values.
type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name"`
	Bio         string  `json:"bio"`
	PhotoURL    *string `json:"photo_url"`
	Age         *int    `json:"age"`
}
