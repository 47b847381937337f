// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"net/http"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/UnendingLoop/FaceRecognizer/internal/mwlogger"
	"github.com/wb-go/wbf/ginext"
)

type FaceHandler struct {
	service FaceService
}

type FaceService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.FaceResponse, error)   // IndexFaces
	Recognize(ctx context.Context, req *model.RecognizeRequest) (*model.FaceResponse, error) // SearchFacesByImage
}

func NewFaceHandler(svc FaceService) *FaceHandler {
	return &FaceHandler{
		service: svc,
	}
}

func (h FaceHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h FaceHandler) Register(ctx *ginext.Context) {
	if !onlyPost(ctx) {
		return
	}

	var req model.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger := mwlogger.LoggerFromContext(ctx.Request.Context())
		logger.Error().Err(err).Msg("Failed to parse registration body")
		respondError(ctx, model.ErrRegister500, model.ErrRegister500)
		return
	}

	res, err := h.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err, model.ErrRegister500)
		return
	}

	ctx.JSON(200, res)
}

func (h FaceHandler) Recognize(ctx *ginext.Context) {
	if !onlyPost(ctx) {
		return
	}

	var req model.RecognizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger := mwlogger.LoggerFromContext(ctx.Request.Context())
		logger.Error().Err(err).Msg("Failed to parse recognition body")
		respondError(ctx, model.ErrRecognize500, model.ErrRecognize500)
		return
	}

	res, err := h.service.Recognize(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err, model.ErrRecognize500)
		return
	}

	ctx.JSON(200, res)
}

// onlyPost отвечает 405 на все кроме POST, тело при этом не читается
func onlyPost(ctx *ginext.Context) bool {
	if ctx.Request.Method == http.MethodPost {
		return true
	}
	ctx.String(405, "Method Not Allowed")
	return false
}
