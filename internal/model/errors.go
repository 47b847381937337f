package model

import (
	"errors"
	"fmt"
)

// ErrorKind - категория сбоя при обращении к сервису распознавания
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUpstream
	KindNoFaceDetected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoFaceDetected:
		return "no_face_detected"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// FaceError - ошибка с явной категорией. Code хранит код провайдера только для логов
type FaceError struct {
	Kind ErrorKind
	Op   string
	Code string
	Err  error
}

func (e *FaceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *FaceError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err, KindInternal if err is not a *FaceError.
func KindOf(err error) ErrorKind {
	var fe *FaceError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}
