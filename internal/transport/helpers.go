package transport

import (
	"errors"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/wb-go/wbf/ginext"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrRegister500),
		errors.Is(err, model.ErrRecognize500):
		return 500
	case errors.Is(err, model.ErrInvalidName),
		errors.Is(err, model.ErrImageRequired),
		errors.Is(err, model.ErrEmptyImage),
		errors.Is(err, model.ErrNoFaceRegister),
		errors.Is(err, model.ErrNoFaceRecognize):
		return 400
	default:
		return 500
	}
}

func errorStatusDefiner(err error) model.Status {
	switch {
	case errors.Is(err, model.ErrNoFaceRegister),
		errors.Is(err, model.ErrNoFaceRecognize):
		return model.StatusNoFace
	default:
		return model.StatusError
	}
}

// respondError - текст 500-х ошибок наружу не отдается, вместо него generic
func respondError(ctx *ginext.Context, err, generic error) {
	code := errorCodeDefiner(err)
	msg := err.Error()
	if code == 500 {
		msg = generic.Error()
	}

	ctx.JSON(code, model.FaceResponse{
		Status:  errorStatusDefiner(err),
		Message: msg,
	})
}
