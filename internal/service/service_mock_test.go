package service

import (
	"context"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
)

// MOCK MATCHER

type mockMatcher struct {
	enrollFn func(ctx context.Context, image []byte, externalID string) ([]model.EnrolledFace, error)
	searchFn func(ctx context.Context, image []byte, threshold float32, maxFaces int32) ([]model.FaceMatch, error)

	enrollCalls int
	searchCalls int
}

func (m *mockMatcher) Enroll(ctx context.Context, image []byte, externalID string) ([]model.EnrolledFace, error) {
	m.enrollCalls++
	return m.enrollFn(ctx, image, externalID)
}

func (m *mockMatcher) Search(ctx context.Context, image []byte, threshold float32, maxFaces int32) ([]model.FaceMatch, error) {
	m.searchCalls++
	return m.searchFn(ctx, image, threshold, maxFaces)
}

// MOCK EMITTER

type mockEmitter struct {
	events    []model.FaceEvent
	snapshots [][]byte
	full      bool
}

func (m *mockEmitter) Emit(ctx context.Context, ev model.FaceEvent, snapshot []byte) bool {
	if m.full {
		return false
	}
	m.events = append(m.events, ev)
	m.snapshots = append(m.snapshots, snapshot)
	return true
}
