// Package rekognizer provides structure to work with AWS Rekognition face collections
package rekognizer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
	"github.com/wb-go/wbf/config"
)

// RekognitionAPI - используемое подмножество клиента Rekognition
type RekognitionAPI interface {
	IndexFaces(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
	DescribeCollection(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
	CreateCollection(ctx context.Context, params *rekognition.CreateCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error)
}

type Rekognizer struct {
	collection string
	client     RekognitionAPI
}

func New(client RekognitionAPI, collection string) *Rekognizer {
	return &Rekognizer{collection: collection, client: client}
}

// NewRekognitionClient builds the process-wide client from REKOGNITION_* variables.
func NewRekognitionClient(ctx context.Context, cfg *config.Config) (*Rekognizer, error) {
	region := cfg.GetString("REKOGNITION_AWS_REGION")
	keyID := cfg.GetString("REKOGNITION_AWS_ACCESS_KEY_ID")
	secret := cfg.GetString("REKOGNITION_AWS_SECRET_ACCESS_KEY")
	collection := cfg.GetString("REKOGNITION_COLLECTION_ID")

	required := []struct{ key, value string }{
		{"REKOGNITION_AWS_REGION", region},
		{"REKOGNITION_AWS_ACCESS_KEY_ID", keyID},
		{"REKOGNITION_AWS_SECRET_ACCESS_KEY", secret},
		{"REKOGNITION_COLLECTION_ID", collection},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(keyID, secret, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var opts []func(*rekognition.Options)
	if endpoint := cfg.GetString("REKOGNITION_ENDPOINT"); endpoint != "" {
		log.Printf("Using custom Rekognition endpoint %q", endpoint)
		opts = append(opts, func(o *rekognition.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return New(rekognition.NewFromConfig(awsCfg, opts...), collection), nil
}

// Enroll indexes the face(s) found in image under externalID. An empty result means no face was detected.
func (r *Rekognizer) Enroll(ctx context.Context, image []byte, externalID string) ([]model.EnrolledFace, error) {
	out, err := r.client.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:        aws.String(r.collection),
		Image:               &types.Image{Bytes: image},
		ExternalImageId:     aws.String(externalID),
		DetectionAttributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		return nil, classify("index faces", err)
	}

	faces := make([]model.EnrolledFace, 0, len(out.FaceRecords))
	for _, rec := range out.FaceRecords {
		face := model.EnrolledFace{ExternalID: externalID}
		if rec.Face != nil {
			face.FaceID = aws.ToString(rec.Face.FaceId)
			face.Confidence = aws.ToFloat32(rec.Face.Confidence)
		}
		faces = append(faces, face)
	}

	return faces, nil
}

// Search looks up the collection for faces similar to the largest face in image.
func (r *Rekognizer) Search(ctx context.Context, image []byte, threshold float32, maxFaces int32) ([]model.FaceMatch, error) {
	out, err := r.client.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(r.collection),
		Image:              &types.Image{Bytes: image},
		FaceMatchThreshold: aws.Float32(threshold),
		MaxFaces:           aws.Int32(maxFaces),
	})
	if err != nil {
		return nil, classify("search faces", err)
	}

	matches := make([]model.FaceMatch, 0, len(out.FaceMatches))
	for _, m := range out.FaceMatches {
		match := model.FaceMatch{Similarity: aws.ToFloat32(m.Similarity)}
		if m.Face != nil {
			match.FaceID = aws.ToString(m.Face.FaceId)
			match.ExternalID = aws.ToString(m.Face.ExternalImageId)
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// EnsureCollection creates the collection when Rekognition reports it missing.
func (r *Rekognizer) EnsureCollection(ctx context.Context) error {
	_, err := r.client.DescribeCollection(ctx, &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(r.collection),
	})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return classify("describe collection", err)
	}

	log.Printf("Collection %q not found. Creating...", r.collection)
	_, err = r.client.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(r.collection),
	})

	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return classify("create collection", err)
	}

	return nil
}

// classify tags SDK failures: InvalidParameterException is what Rekognition returns when there is no face in the image
func classify(op string, err error) error {
	var invalid *types.InvalidParameterException
	if errors.As(err, &invalid) {
		return &model.FaceError{Kind: model.KindNoFaceDetected, Op: op, Code: invalid.ErrorCode(), Err: err}
	}

	code := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}

	return &model.FaceError{Kind: model.KindUpstream, Op: op, Code: code, Err: err}
}
