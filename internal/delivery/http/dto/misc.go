package dto

type ResumeUploadResponse struct {
	Success bool   `json:"success"`
	Resume  string `json:"resume"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
