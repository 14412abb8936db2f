package handlers

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"upload not found"`
}

// StatusResponse acknowledges an accepted operation. UploadID is set
// when the operation targets a single upload.
type StatusResponse struct {
	Status   string `json:"status" example:"processing started"`
	UploadID string `json:"upload_id,omitempty"`
}
