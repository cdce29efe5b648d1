package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// DefaultExtensionRepositoryBaseURL is used when the configuration does
// not override it.
const DefaultExtensionRepositoryBaseURL = "https://extensions.typo3.org/api/v1"

type extensionRepositoryResponse struct {
	Releases []struct {
		Version        string `json:"version"`
		TypoVersionMin string `json:"typo3_version_min"`
		TypoVersionMax string `json:"typo3_version_max"`
	} `json:"releases"`
}

// ExtensionRepositoryClient queries a TER-equivalent endpoint for whether
// an extension has a release compatible with the target host platform
// version.
type ExtensionRepositoryClient struct {
	BaseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewExtensionRepositoryClient constructs a client with an injected
// *http.Client timeout, following this codebase's HTTP-integration
// convention.
func NewExtensionRepositoryClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *ExtensionRepositoryClient {
	if baseURL == "" {
		baseURL = DefaultExtensionRepositoryBaseURL
	}
	return &ExtensionRepositoryClient{
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// HasVersionFor reports whether identifier (the extension key) has a
// release whose declared host platform range [min, max] contains
// targetVersion.
func (c *ExtensionRepositoryClient) HasVersionFor(ctx context.Context, identifier string, targetVersion types.Version) (bool, error) {
	url := fmt.Sprintf("%s/extension/%s/versions", c.BaseURL, identifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build extension repository request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("query extension repository for %s: %w", identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("extension repository returned status %d for %s", resp.StatusCode, identifier)
	}

	var parsed extensionRepositoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("decode extension repository response for %s: %w", identifier, err)
	}

	for _, release := range parsed.Releases {
		minV, errMin := types.ParseVersion(release.TypoVersionMin)
		maxV, errMax := types.ParseVersion(release.TypoVersionMax)
		if errMin != nil || errMax != nil {
			continue
		}
		if !targetVersion.IsLessThan(minV) && !targetVersion.IsGreaterThan(maxV) {
			return true, nil
		}
	}
	return false, nil
}
