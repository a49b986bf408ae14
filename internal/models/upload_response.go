package models

// UploadResponse describes a stored object
type UploadResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"` // Object key inside the bucket
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// PresignResponse is returned for direct browser uploads
type PresignResponse struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Key       string `json:"key"`
}
