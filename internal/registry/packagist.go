package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// DefaultPackagistBaseURL is used when the configuration does not
// override it.
const DefaultPackagistBaseURL = "https://packagist.org"

type packagistResponse struct {
	Package struct {
		Versions map[string]json.RawMessage `json:"versions"`
	} `json:"package"`
}

// PackagistClient queries packagist.org for whether a package has any
// published version compatible with a target host platform major.
type PackagistClient struct {
	BaseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewPackagistClient constructs a client with an injected *http.Client
// timeout, following this codebase's HTTP-integration convention.
func NewPackagistClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *PackagistClient {
	if baseURL == "" {
		baseURL = DefaultPackagistBaseURL
	}
	return &PackagistClient{
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// HasVersionFor reports whether identifier ("vendor/package") has a
// published version whose major component matches targetVersion.Major.
func (c *PackagistClient) HasVersionFor(ctx context.Context, identifier string, targetVersion types.Version) (bool, error) {
	url := fmt.Sprintf("%s/packages/%s.json", c.BaseURL, identifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build packagist request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("query packagist for %s: %w", identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("packagist returned status %d for %s", resp.StatusCode, identifier)
	}

	var parsed packagistResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("decode packagist response for %s: %w", identifier, err)
	}

	for versionStr := range parsed.Package.Versions {
		if versionSatisfiesMajor(versionStr, targetVersion.Major) {
			return true, nil
		}
	}
	return false, nil
}

// versionSatisfiesMajor extracts the leading numeric component of a
// loosely-formatted package version string and compares it to major.
func versionSatisfiesMajor(versionStr string, major int) bool {
	trimmed := strings.TrimPrefix(versionStr, "v")
	parts := strings.SplitN(trimmed, ".", 2)
	if len(parts) == 0 {
		return false
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	return n == major
}
