package transport

import (
	"context"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/gin-gonic/gin"
)

type mockFaceService struct {
	registerFn  func(ctx context.Context, req *model.RegisterRequest) (*model.FaceResponse, error)
	recognizeFn func(ctx context.Context, req *model.RecognizeRequest) (*model.FaceResponse, error)

	calls int
}

func (m *mockFaceService) Register(ctx context.Context, req *model.RegisterRequest) (*model.FaceResponse, error) {
	m.calls++
	return m.registerFn(ctx, req)
}

func (m *mockFaceService) Recognize(ctx context.Context, req *model.RecognizeRequest) (*model.FaceResponse, error) {
	m.calls++
	return m.recognizeFn(ctx, req)
}

func init() {
	gin.SetMode(gin.TestMode)
}
