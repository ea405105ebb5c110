package s3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/causewaykb/causeway/internal/util"
	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/graph"
	"github.com/causewaykb/causeway/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ClientParams holds the connection settings for the object store.
type ClientParams struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewClient builds an S3 client for the configured endpoint.
// Path-style addressing keeps it compatible with MinIO deployments.
func NewClient(ctx context.Context, params ClientParams) (*awss3.Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	return awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		o.UsePathStyle = true
	}), nil
}

// Source reads a corpus snapshot from a bucket. Page objects live
// under Prefix, graph documents under Prefix/graphs/, and the
// optional backlink-index accelerant at Prefix/.backlinks.json.
type Source struct {
	client *awss3.Client
	bucket string
	prefix string
}

// NewSource creates an object-store-backed data source.
func NewSource(client *awss3.Client, bucket, prefix string) *Source {
	return &Source{client: client, bucket: bucket, prefix: strings.TrimSuffix(prefix, "/")}
}

// LoadPages lists and parses every markdown object under the prefix.
// Objects that fail to parse are logged and skipped, matching the
// filesystem loader's behavior.
func (s *Source) LoadPages(ctx context.Context) ([]corpus.Page, error) {
	keys, err := s.listKeys(ctx, s.prefix)
	if err != nil {
		return nil, err
	}

	var pages []corpus.Page
	for _, key := range keys {
		switch path.Ext(key) {
		case ".md", ".mdx":
		default:
			continue
		}

		raw, err := s.getObject(ctx, key)
		if err != nil {
			return nil, err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
		page, err := corpus.ParsePage(corpus.Slug(rel), raw)
		if err != nil {
			logger.Warn("[Store] Skipping malformed page object", "key", key, "err", err)
			continue
		}
		pages = append(pages, page)
	}

	logger.Info("[Store] Loaded pages from bucket", "bucket", s.bucket, "count", len(pages))
	return pages, nil
}

// LoadGraph downloads and parses a causal graph document.
func (s *Source) LoadGraph(ctx context.Context, slug string) (*graph.Graph, error) {
	raw, err := s.getObject(ctx, s.prefix+"/graphs/"+slug+".json")
	if err != nil {
		return nil, fmt.Errorf("failed to get graph %s: %w", slug, err)
	}
	var g graph.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("failed to parse graph %s: %w", slug, err)
	}
	if g.Slug == "" {
		g.Slug = slug
	}
	return &g, nil
}

// BacklinkIndex downloads the accelerant object when present. A
// missing object degrades to (nil, false, nil).
func (s *Source) BacklinkIndex(ctx context.Context) (map[string][]string, bool, error) {
	raw, err := s.getObject(ctx, s.prefix+"/.backlinks.json")
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var index map[string][]string
	if err := json.Unmarshal(raw, &index); err != nil {
		logger.Warn("[Store] Backlink index object corrupt, computing from corpus", "err", err)
		return nil, false, nil
	}
	return index, true, nil
}

func (s *Source) getObject(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		result, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer result.Body.Close()

		data, err = io.ReadAll(result.Body)
		return err
	})
	return data, err
}

func (s *Source) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}

	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}

		for _, obj := range out.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}

		if out.IsTruncated != nil && *out.IsTruncated {
			input.ContinuationToken = out.NextContinuationToken
		} else {
			break
		}
	}

	return keys, nil
}
