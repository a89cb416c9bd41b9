package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Lister lists "s3://bucket/prefix/" locations. Common prefixes and object
// keys directly under the prefix are returned as names.
type S3Lister struct {
	Client s3.ListObjectsV2APIClient
}

// S3Options configures the client built by NewS3Lister.
type S3Options struct {
	Region   string
	Endpoint string // custom endpoint for S3-compatible stores; enables path-style addressing
}

// NewS3Lister creates an S3Lister. Static credentials are read from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN; without
// them requests are anonymous.
func NewS3Lister(opts S3Options) *S3Lister {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
	if id := os.Getenv("AWS_ACCESS_KEY_ID"); id != "" {
		creds = credentials.NewStaticCredentialsProvider(id, os.Getenv("AWS_SECRET_ACCESS_KEY"), os.Getenv("AWS_SESSION_TOKEN"))
	}

	client := s3.New(s3.Options{
		Region:      region,
		Credentials: creds,
	}, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Lister{Client: client}
}

func (l *S3Lister) List(ctx context.Context, location string) ([]string, error) {
	bucket, prefix, err := parseS3Location(location)
	if err != nil {
		return nil, &ListError{Location: location, Op: "list", Err: err}
	}

	p := s3.NewListObjectsV2Paginator(l.Client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var names []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			var nsb *types.NoSuchBucket
			if errors.As(err, &nsb) {
				return nil, nil
			}
			return nil, &ListError{Location: location, Op: "list", Err: err, Hint: "check bucket permissions and credentials"}
		}
		for _, cp := range page.CommonPrefixes {
			if name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/"); name != "" {
				names = append(names, name)
			}
		}
		for _, obj := range page.Contents {
			if name := strings.TrimPrefix(aws.ToString(obj.Key), prefix); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func parseS3Location(location string) (bucket, prefix string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parsing S3 location: %w", err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("S3 location %q has no bucket", location)
	}
	prefix = strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return u.Host, prefix, nil
}
