package rubygems

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
	"github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/httpclient"
)

const cacheSize = 256

// gemInfo is the subset of /api/v1/gems/<name>.json we read.
type gemInfo struct {
	SourceCodeURI string `json:"source_code_uri"`
	HomepageURI   string `json:"homepage_uri"`
}

// MetadataRepository looks up gem metadata on rubygems compatible
// registries. Answers are cached for the lifetime of the process, failed
// lookups included.
type MetadataRepository struct {
	httpClient *retryablehttp.Client
	cache      *lru.Cache[string, string]
}

// NewMetadataRepository creates a MetadataRepository.
func NewMetadataRepository() *MetadataRepository {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &MetadataRepository{
		httpClient: httpclient.New(),
		cache:      cache,
	}
}

var _ repositories.MetadataRepository = (*MetadataRepository)(nil)

// SourceURI returns source_code_uri, falling back to homepage_uri. Any
// failure is logged and yields "".
func (r *MetadataRepository) SourceURI(ctx context.Context, registryURL, name string) string {
	baseURL := strings.TrimSuffix(registryURL, "/")
	key := baseURL + "|" + name
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	info, err := r.fetch(ctx, baseURL, name)
	if err != nil {
		var parseErr *entities.MetadataParseFailure
		if errors.As(err, &parseErr) {
			logger.Warn(parseErr.Error())
		} else {
			logger.Warnf("Failed to look up %q on %s: %v", name, baseURL, err)
		}
		if ctx.Err() == nil {
			r.cache.Add(key, "")
		}
		return ""
	}

	uri := info.SourceCodeURI
	if uri == "" {
		uri = info.HomepageURI
	}
	r.cache.Add(key, uri)
	return uri
}

func (r *MetadataRepository) fetch(ctx context.Context, baseURL, name string) (*gemInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/gems/%s.json", baseURL, url.PathEscape(name))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry answered %d", resp.StatusCode)
	}

	var info gemInfo
	if err = json.Unmarshal(body, &info); err != nil {
		return nil, &entities.MetadataParseFailure{Dependency: name, Err: err}
	}
	return &info, nil
}
