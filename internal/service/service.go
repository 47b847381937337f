// Package service provides business-logic for the app
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/UnendingLoop/FaceRecognizer/internal/imageproc"
	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/UnendingLoop/FaceRecognizer/internal/mwlogger"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

type FaceService struct {
	matcher       FaceMatcher
	events        EventEmitter
	maxImageBytes int
}

func NewFaceService(matcher FaceMatcher, events EventEmitter) *FaceService {
	return &FaceService{
		matcher:       matcher,
		events:        events,
		maxImageBytes: imageproc.MaxInlineBytes,
	}
}

// FaceMatcher - контракт для работы с внешним сервисом распознавания
type FaceMatcher interface {
	Enroll(ctx context.Context, image []byte, externalID string) ([]model.EnrolledFace, error)
	Search(ctx context.Context, image []byte, threshold float32, maxFaces int32) ([]model.FaceMatch, error)
}

// EventEmitter - контракт для фоновой отправки событий, nil допустим
type EventEmitter interface {
	Emit(ctx context.Context, ev model.FaceEvent, snapshot []byte) bool
}

func (c FaceService) Register(ctx context.Context, req *model.RegisterRequest) (*model.FaceResponse, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	name := ""
	if req.Name != nil {
		name = *req.Name
	}

	// ключ в коллекции - очищенное имя
	externalID := SanitizeName(name)
	if externalID == "" {
		return nil, model.ErrInvalidName
	}

	img, err := c.prepareImage(logger, req.Image)
	if err != nil {
		return nil, err
	}

	faces, err := c.matcher.Enroll(ctx, img, externalID)
	if err != nil {
		switch model.KindOf(err) {
		case model.KindNoFaceDetected:
			logger.Debug().Err(err).Msg("Enroll rejected image: no face")
			return nil, model.ErrNoFaceRegister
		default: // KindUpstream, KindInternal
			logger.Error().Err(err).Str("external_id", externalID).Msg("Failed to enroll face in collection")
			return nil, model.ErrRegister500
		}
	}

	if len(faces) == 0 {
		return nil, model.ErrNoFaceRegister
	}

	c.emit(ctx, model.FaceEvent{
		Type:       model.EventRegistered,
		Status:     model.StatusSuccess,
		ExternalID: externalID,
	}, img)

	return &model.FaceResponse{
		Status:  model.StatusSuccess,
		Message: fmt.Sprintf(model.MsgRegistered, name),
	}, nil
}

func (c FaceService) Recognize(ctx context.Context, req *model.RecognizeRequest) (*model.FaceResponse, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	img, err := c.prepareImage(logger, req.Image)
	if err != nil {
		return nil, err
	}

	matches, err := c.matcher.Search(ctx, img, model.MatchThreshold, model.MaxCandidates)
	if err != nil {
		switch model.KindOf(err) {
		case model.KindNoFaceDetected:
			logger.Debug().Err(err).Msg("Search rejected image: no face")
			c.emit(ctx, model.FaceEvent{Type: model.EventRecognized, Status: model.StatusNoFace}, nil)
			return nil, model.ErrNoFaceRecognize
		default: // KindUpstream, KindInternal
			logger.Error().Err(err).Msg("Failed to search face in collection")
			return nil, model.ErrRecognize500
		}
	}

	if len(matches) == 0 {
		c.emit(ctx, model.FaceEvent{Type: model.EventRecognized, Status: model.StatusUnknown}, nil)
		return &model.FaceResponse{
			Status:  model.StatusUnknown,
			Message: model.MsgUnknown,
		}, nil
	}

	// имя хранится в коллекции как ExternalImageId
	best := matches[0]
	c.emit(ctx, model.FaceEvent{
		Type:       model.EventRecognized,
		Status:     model.StatusKnown,
		ExternalID: best.ExternalID,
		Similarity: best.Similarity,
	}, nil)

	return &model.FaceResponse{
		Status:  model.StatusKnown,
		Message: fmt.Sprintf(model.MsgKnown, best.ExternalID),
		Name:    best.ExternalID,
	}, nil
}

func (c FaceService) prepareImage(logger zlog.Zerolog, payload *string) ([]byte, error) {
	if payload == nil {
		return nil, model.ErrImageRequired
	}

	img := imageproc.DecodeImage(*payload)
	if len(img) == 0 {
		return nil, model.ErrEmptyImage
	}

	if c.maxImageBytes <= 0 {
		return img, nil
	}

	fitted, resized := imageproc.FitToLimit(img, c.maxImageBytes)
	if resized {
		logger.Info().Int("from_bytes", len(img)).Int("to_bytes", len(fitted)).Msg("Oversized image downscaled")
	}
	return fitted, nil
}

func (c FaceService) emit(ctx context.Context, ev model.FaceEvent, snapshot []byte) {
	if c.events == nil {
		return
	}

	ev.UID = uuid.New()
	ev.OccurredAt = time.Now().UTC()

	if !c.events.Emit(ctx, ev, snapshot) {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Str("event_uid", ev.UID.String()).Msg("Event queue is full, event dropped")
	}
}
