package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the S3 API used by S3Provider.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Provider reads page envelopes from an S3 bucket.
type S3Provider struct {
	client S3Client
	bucket string
	prefix string
}

type S3Option func(*s3Options)

type s3Options struct {
	client     S3Client
	httpClient *http.Client
}

// WithS3Client uses a pre-configured client instead of loading AWS config.
func WithS3Client(c S3Client) S3Option {
	return func(o *s3Options) { o.client = c }
}

func WithS3HTTPClient(c *http.Client) S3Option {
	return func(o *s3Options) { o.httpClient = c }
}

// NewS3Provider creates a provider for cfg.Bucket. Static credentials are
// used when both keys are set, the default AWS chain otherwise.
func NewS3Provider(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Provider, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}

	o := &s3Options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			loadOpts = append(loadOpts, config.WithHTTPClient(o.httpClient))
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg, func(so *s3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &S3Provider{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (p *S3Provider) Fetch(ctx context.Context, pageID string) (Tree, error) {
	if err := ValidatePageID(pageID); err != nil {
		return nil, err
	}

	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(pageID)),
	})
	if err != nil {
		return nil, classifyS3Error(err, pageID)
	}
	defer out.Body.Close()

	return DecodeEnvelope(io.LimitReader(out.Body, maxPayloadSize))
}

// Save writes data as the page's envelope.
func (p *S3Provider) Save(ctx context.Context, pageID string, data Tree) error {
	if err := ValidatePageID(pageID); err != nil {
		return err
	}
	body, err := EncodeEnvelope(data)
	if err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.key(pageID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return classifyS3Error(err, pageID)
	}
	return nil
}

func (p *S3Provider) key(pageID string) string {
	return p.prefix + pageID + ".json"
}

func classifyS3Error(err error, pageID string) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
		}
		return fmt.Errorf("s3 %s (code: %s): %w", pageID, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("s3 %s: %w", pageID, err)
}
