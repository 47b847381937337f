package main

import (
	"context"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
)

type FaceAPIService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.FaceResponse, error)
	Recognize(ctx context.Context, req *model.RecognizeRequest) (*model.FaceResponse, error)
}
