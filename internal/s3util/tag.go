package s3util

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// projectTagKey/Value form the cost-allocation tag applied to every
// wardrobe photo.
const (
	projectTagKey   = "Project"
	projectTagValue = "stylegenie"
)

// TagObject applies the Project cost-allocation tag to an existing S3
// object. Presigned-URL uploads cannot be tagged at creation time, so
// the upload-complete handler tags them afterwards.
func TagObject(ctx context.Context, client *s3.Client, bucket, key string) error {
	_, err := client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket: &bucket,
		Key:    &key,
		Tagging: &s3types.Tagging{
			TagSet: []s3types.Tag{
				{Key: aws.String(projectTagKey), Value: aws.String(projectTagValue)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("PutObjectTagging: %w", err)
	}
	return nil
}
