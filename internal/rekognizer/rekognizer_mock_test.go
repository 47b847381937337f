package rekognizer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
)

type mockRekognition struct {
	indexFacesFn         func(ctx context.Context, in *rekognition.IndexFacesInput) (*rekognition.IndexFacesOutput, error)
	searchFacesByImageFn func(ctx context.Context, in *rekognition.SearchFacesByImageInput) (*rekognition.SearchFacesByImageOutput, error)
	describeCollectionFn func(ctx context.Context, in *rekognition.DescribeCollectionInput) (*rekognition.DescribeCollectionOutput, error)
	createCollectionFn   func(ctx context.Context, in *rekognition.CreateCollectionInput) (*rekognition.CreateCollectionOutput, error)
}

func (m *mockRekognition) IndexFaces(ctx context.Context, in *rekognition.IndexFacesInput, _ ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error) {
	return m.indexFacesFn(ctx, in)
}

func (m *mockRekognition) SearchFacesByImage(ctx context.Context, in *rekognition.SearchFacesByImageInput, _ ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error) {
	return m.searchFacesByImageFn(ctx, in)
}

func (m *mockRekognition) DescribeCollection(ctx context.Context, in *rekognition.DescribeCollectionInput, _ ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error) {
	return m.describeCollectionFn(ctx, in)
}

func (m *mockRekognition) CreateCollection(ctx context.Context, in *rekognition.CreateCollectionInput, _ ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error) {
	return m.createCollectionFn(ctx, in)
}
