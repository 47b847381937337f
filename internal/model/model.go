// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type (
	Status    string
	EventType string
)

const (
	StatusKnown   Status = "known"
	StatusUnknown Status = "unknown"
	StatusNoFace  Status = "no_face_detected"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

var StatusMap = map[Status]bool{
	StatusKnown:   true,
	StatusUnknown: true,
	StatusNoFace:  true,
	StatusError:   true,
	StatusSuccess: true,
}

const (
	EventRegistered EventType = "registered"
	EventRecognized EventType = "recognized"
)

// Параметры поиска лица в коллекции
const (
	MatchThreshold float32 = 90
	MaxCandidates  int32   = 1
)

//---------------------

// RegisterRequest - тело запроса на регистрацию. Указатели нужны чтобы отличать отсутствующее поле от пустого
type RegisterRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

type RecognizeRequest struct {
	Image *string `json:"image"`
}

type FaceResponse struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

//---------------------

// EnrolledFace - лицо, проиндексированное внешним сервисом
type EnrolledFace struct {
	FaceID     string
	ExternalID string
	Confidence float32
}

// FaceMatch - кандидат из коллекции, найденный по изображению
type FaceMatch struct {
	FaceID     string
	ExternalID string
	Similarity float32
}

//---------------------

// FaceEvent - запись о завершенной операции, уходит в очередь и далее в журнал
type FaceEvent struct {
	UID         uuid.UUID `json:"event_uid"`
	Type        EventType `json:"type"`
	Status      Status    `json:"status"`
	ExternalID  string    `json:"external_id,omitempty"`
	Similarity  float32   `json:"similarity,omitempty"`
	SnapshotKey string    `json:"snapshot_key,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ------------------

const (
	MsgRegistered = "Welcome, %s! Your face is now registered."
	MsgKnown      = "Welcome back, %s!"
	MsgUnknown    = "Hi stranger! Want to introduce yourself?"
)

var (
	ErrRegister500     error = errors.New("An internal server error occurred during registration.") // 500
	ErrRecognize500    error = errors.New("An internal server error occurred.")                     // 500
	ErrInvalidName     error = errors.New("Invalid name provided.")                                 // 400
	ErrImageRequired   error = errors.New("Image is required.")                                     // 400
	ErrEmptyImage      error = errors.New("Image payload is empty or is not valid base64.")         // 400
	ErrNoFaceRegister  error = errors.New("Could not register face. No face detected.")             // 400
	ErrNoFaceRecognize error = errors.New("We couldn't detect a face. Please try again.")           // 400
)
