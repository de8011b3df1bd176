package dto

// BulkUploadRequest carries free-text roster lines and the department applied to all of them.
type BulkUploadRequest struct {
	Text       string `json:"text"`
	Department string `json:"department" binding:"required"`
}

// StatusUpdateRequest sets an explicit student status.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}
