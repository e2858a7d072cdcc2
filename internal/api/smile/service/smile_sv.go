package smileService

import (
	"SmileApp/internal/api/smile"
	contextPkg "SmileApp/pkg/context"
	"SmileApp/pkg/imaging"
	"SmileApp/pkg/smile"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *smileService) ScoreImage(ctx context.Context, data []byte) (*smiles.ScoreResponse, error) {
	resp, err := s.score(data)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to score image")
		return nil, err
	}

	return resp, nil
}

func (s *smileService) ScoreFrame(frame []byte) (*smiles.ScoreResponse, error) {
	return s.score(frame)
}

func (s *smileService) score(data []byte) (*smiles.ScoreResponse, error) {
	if len(data) == 0 {
		return nil, smiles.ErrImageRequired
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return nil, smiles.ErrInvalidImage
	}

	raster := s.rasters.Get().(*smile.Raster)
	defer s.rasters.Put(raster)

	if err := smile.FillRaster(raster, img); err != nil {
		return nil, smiles.ErrInvalidImage
	}

	score := smile.ScoreWithLogger(raster, s.log)

	return &smiles.ScoreResponse{
		Score:      score,
		Rating:     smile.RateScore(score),
		CanCapture: smile.CanCapture(score, s.threshold),
		Threshold:  s.threshold,
	}, nil
}
