package smiles

import "SmileApp/pkg/smile"

type ScoreRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type ScoreResponse struct {
	Score      int          `json:"score"`
	Rating     smile.Rating `json:"rating"`
	CanCapture bool         `json:"can_capture"`
	Threshold  int          `json:"threshold"`
}
