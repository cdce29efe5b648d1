package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/cache"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// DefaultTTLSeconds is used when AnalysisContext.ResultCache.TTLSeconds
// is zero.
const DefaultTTLSeconds = 3600

// cachePayload is the serialized shape stored under a cache key.
type cachePayload struct {
	AnalyzerName    string                 `json:"analyzer_name"`
	ExtensionKey    string                 `json:"extension_key"`
	Metrics         map[string]interface{} `json:"metrics"`
	RiskScore       float64                `json:"risk_score"`
	Recommendations []string               `json:"recommendations"`
	Successful      bool                   `json:"successful"`
	Error           string                 `json:"error"`
	CachedAt        time.Time              `json:"cached_at"`
	CacheTTL        int                    `json:"cache_ttl"`
}

// CacheKeyComponents is the analyzer-specific portion of the cache key
// payload; concrete analyzers that want extra cache-key sensitivity
// (e.g. a config file hash) implement this alongside Analyzer.
type CacheKeyComponents interface {
	CacheKeyComponents() map[string]interface{}
}

// CachedAnalyzer wraps any Analyzer with the Cached Analyzer Contract
// (C7): cache lookup, delegate to the wrapped analyzer on miss, and
// store only successful results. This is composition over a do_analyze
// function, never inheritance.
type CachedAnalyzer struct {
	inner  Analyzer
	cache  cache.Cache
	logger *logrus.Logger
}

// NewCachedAnalyzer wraps inner with the caching shell.
func NewCachedAnalyzer(inner Analyzer, c cache.Cache, logger *logrus.Logger) *CachedAnalyzer {
	return &CachedAnalyzer{inner: inner, cache: c, logger: logger}
}

func (c *CachedAnalyzer) Name() string                      { return c.inner.Name() }
func (c *CachedAnalyzer) Description() string               { return c.inner.Description() }
func (c *CachedAnalyzer) Supports(ext types.Extension) bool { return c.inner.Supports(ext) }
func (c *CachedAnalyzer) RequiredTools() []string           { return c.inner.RequiredTools() }
func (c *CachedAnalyzer) HasRequiredTools() bool            { return c.inner.HasRequiredTools() }

// Analyze implements the four-step cache shell: lookup, delegate on miss,
// store on success, return as-is on failure.
func (c *CachedAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
	ttlSeconds := analysisCtx.ResultCache.TTLSeconds
	if ttlSeconds == 0 {
		ttlSeconds = DefaultTTLSeconds
	}

	key := c.cacheKey(ext, analysisCtx)

	if analysisCtx.ResultCache.Enabled && c.cache != nil {
		if result, ok := c.lookup(ctx, key); ok {
			return result
		}
	}

	result := c.inner.Analyze(ctx, ext, analysisCtx)

	if analysisCtx.ResultCache.Enabled && c.cache != nil && result.Successful {
		c.store(ctx, key, result, ttlSeconds)
	}

	return result
}

func (c *CachedAnalyzer) lookup(ctx context.Context, key string) (types.AnalysisResult, bool) {
	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		if c.logger != nil {
			c.logger.Warnf("cache lookup failed for %s: %v", key, err)
		}
		return types.AnalysisResult{}, false
	}
	if !found {
		return types.AnalysisResult{}, false
	}

	var payload cachePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		if c.logger != nil {
			c.logger.Warnf("cache payload corrupt for %s: %v", key, err)
		}
		return types.AnalysisResult{}, false
	}

	ttl := time.Duration(payload.CacheTTL) * time.Second
	if ttl > 0 && time.Since(payload.CachedAt) >= ttl {
		return types.AnalysisResult{}, false
	}

	return types.AnalysisResult{
		AnalyzerName:    payload.AnalyzerName,
		Extension:       extensionFromKey(payload.ExtensionKey),
		Metrics:         payload.Metrics,
		RiskScore:       payload.RiskScore,
		Recommendations: payload.Recommendations,
		Successful:      payload.Successful,
		Error:           payload.Error,
	}, true
}

func (c *CachedAnalyzer) store(ctx context.Context, key string, result types.AnalysisResult, ttlSeconds int) {
	payload := cachePayload{
		AnalyzerName:    result.AnalyzerName,
		ExtensionKey:    result.Extension.Key,
		Metrics:         result.Metrics,
		RiskScore:       result.RiskScore,
		Recommendations: result.Recommendations,
		Successful:      result.Successful,
		Error:           result.Error,
		CachedAt:        time.Now(),
		CacheTTL:        ttlSeconds,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		if c.logger != nil {
			c.logger.Warnf("failed to serialize cache payload for %s: %v", key, err)
		}
		return
	}

	if err := c.cache.Set(ctx, key, data, time.Duration(ttlSeconds)*time.Second); err != nil && c.logger != nil {
		c.logger.Warnf("failed to store cache payload for %s: %v", key, err)
	}
}

// cacheKey computes "analysis_<analyzer>_<sha256(payload)>" from the
// fixed fields plus any analyzer-specific components.
func (c *CachedAnalyzer) cacheKey(ext types.Extension, analysisCtx types.AnalysisContext) string {
	payload := map[string]interface{}{
		"analyzer":        c.inner.Name(),
		"extension_key":   ext.Key,
		"extension_ver":   ext.Version.String(),
		"extension_kind":  ext.Kind,
		"package_name":    ext.PackageName,
		"current_version": analysisCtx.CurrentVersion.String(),
		"target_version":  analysisCtx.TargetVersion.String(),
	}

	if components, ok := c.inner.(CacheKeyComponents); ok {
		for k, v := range components.CacheKeyComponents() {
			payload[k] = v
		}
	}

	// encoding/json sorts map[string]interface{} keys alphabetically,
	// which is what makes this serialization stable across calls.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("analysis_%s_%s", c.inner.Name(), hex.EncodeToString(sum[:]))
}

// extensionFromKey rehydrates a borrowed Extension by identity; cached
// results only need the key to satisfy AnalysisResult.Extension.
func extensionFromKey(key string) types.Extension {
	return types.Extension{Key: key}
}
