// Package dto defines data transfer objects for the segmentation service API.
package dto

// AnalyzeRequest is the JSON request body for the segmentation analyze endpoint.
type AnalyzeRequest struct {
	Images []string `json:"images"` // Base64-encoded image bytes, one entry per evidence photo
}

// AnalyzeResponse is the JSON response from the segmentation analyze endpoint.
type AnalyzeResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Results []ImageResult `json:"results"`
}

// ImageResult carries the per-image category confidences.
type ImageResult struct {
	Confidences map[string]float64 `json:"confidences"`
}
