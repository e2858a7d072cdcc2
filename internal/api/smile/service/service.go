package smileService

import (
	"SmileApp/internal/api/smile"
	"SmileApp/pkg/smile"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"sync"
)

type ISmileService interface {
	ScoreImage(ctx context.Context, data []byte) (*smiles.ScoreResponse, error)
	ScoreFrame(frame []byte) (*smiles.ScoreResponse, error)
}

type smileService struct {
	log       *logrus.Logger
	threshold int
	rasters   sync.Pool
}

func NewSmileService(log *logrus.Logger, threshold int) ISmileService {
	return &smileService{
		log:       log,
		threshold: threshold,
		rasters: sync.Pool{
			New: func() any {
				return smile.NewRaster(smile.DefaultWidth, smile.DefaultHeight)
			},
		},
	}
}
