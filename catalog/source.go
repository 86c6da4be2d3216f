package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/warna720/TDP003/errs"
)

const s3Scheme = "s3://"

// ObjectGetter is the part of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// IsRemote reports whether source names an object store rather than a
// local file.
func IsRemote(source string) bool {
	return strings.Contains(source, "://")
}

// formatOf picks the decoder from the source's extension.
func formatOf(source string) format {
	switch strings.ToLower(path.Ext(source)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.NewLoadError(errs.ErrUnreadableSource, source, err)
	}

	switch {
	case strings.HasPrefix(source, s3Scheme):
		return l.readObject(ctx, source)
	case IsRemote(source):
		return nil, errs.NewLoadError(errs.ErrUnsupportedSource, source, nil)
	default:
		return readFile(source)
	}
}

func readFile(source string) ([]byte, error) {
	data, err := os.ReadFile(source)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, errs.NewLoadError(errs.ErrSourceNotFound, source, err)
	default:
		return nil, errs.NewLoadError(errs.ErrUnreadableSource, source, err)
	}
}

func splitObjectURI(source string) (bucket, key string, ok bool) {
	rest := strings.TrimPrefix(source, s3Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func (l *Loader) readObject(ctx context.Context, source string) ([]byte, error) {
	if l.objects == nil {
		return nil, errs.NewLoadError(errs.ErrUnsupportedSource, source, errors.New("no object store configured"))
	}

	bucket, key, ok := splitObjectURI(source)
	if !ok {
		return nil, errs.NewLoadError(errs.ErrUnsupportedSource, source, fmt.Errorf("expected s3://bucket/key"))
	}

	out, err := l.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, errs.NewLoadError(errs.ErrSourceNotFound, source, err)
		}
		return nil, errs.NewLoadError(errs.ErrUnreadableSource, source, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errs.NewLoadError(errs.ErrUnreadableSource, source, err)
	}
	return data, nil
}
