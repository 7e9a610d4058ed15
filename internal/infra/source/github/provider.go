package github

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	"github.com/bryanwahyu/speccheck/internal/domain/registry"
)

const maxBodyBytes = 4 << 20 // 4 MiB per fetched document

// Provider fetches spec documents and source files over HTTPS from raw
// GitHub content. Responses are cached on disk keyed by URL, so repeated
// runs against the same branch stay cheap.
type Provider struct {
	HTTP     *http.Client
	Token    string
	CacheDir string
	BaseURL  string // override for tests; defaults to raw.githubusercontent.com
}

func New(token, cacheDir string) *Provider {
	return &Provider{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Token:    token,
		CacheDir: cacheDir,
	}
}

// FetchSpec downloads the spec markdown from its registered source URL.
func (p *Provider) FetchSpec(ctx context.Context, spec registry.SpecDescriptor) (string, error) {
	if spec.SourceURL == "" {
		return "", &domain.FetchError{URL: string(spec.ID), Err: fmt.Errorf("spec has no source url")}
	}
	return p.fetch(ctx, spec.SourceURL)
}

// FetchFile downloads one source file from the implementation's repository
// at its configured branch.
func (p *Provider) FetchFile(ctx context.Context, impl registry.Implementation, path string) (string, error) {
	raw, err := p.rawURL(impl, path)
	if err != nil {
		return "", &domain.FetchError{URL: impl.RepoURL + "/" + path, Err: err}
	}
	return p.fetch(ctx, raw)
}

// rawURL maps github.com/{owner}/{repo} plus a branch and path onto the raw
// content host.
func (p *Provider) rawURL(impl registry.Implementation, path string) (string, error) {
	u, err := url.Parse(impl.RepoURL)
	if err != nil {
		return "", fmt.Errorf("parse repo url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("repo url %q is not owner/repo shaped", impl.RepoURL)
	}
	branch := impl.Branch
	if branch == "" {
		branch = "master"
	}
	base := p.BaseURL
	if base == "" {
		base = "https://raw.githubusercontent.com"
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		base, parts[0], strings.TrimSuffix(parts[1], ".git"), branch, strings.TrimPrefix(path, "/")), nil
}

func (p *Provider) fetch(ctx context.Context, rawURL string) (string, error) {
	if body, ok := p.cacheRead(rawURL); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	resp, err := p.client().Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}

	p.cacheWrite(rawURL, body)
	return string(body), nil
}

func (p *Provider) client() *http.Client {
	if p.HTTP != nil {
		return p.HTTP
	}
	return http.DefaultClient
}

func (p *Provider) cachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(p.CacheDir, hex.EncodeToString(sum[:])+".cache")
}

func (p *Provider) cacheRead(rawURL string) (string, bool) {
	if p.CacheDir == "" {
		return "", false
	}
	body, err := os.ReadFile(p.cachePath(rawURL))
	if err != nil {
		return "", false
	}
	return string(body), true
}

func (p *Provider) cacheWrite(rawURL string, body []byte) {
	if p.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(p.CacheDir, 0o755); err != nil {
		return
	}
	// Cache writes are best effort; a miss just re-fetches.
	_ = os.WriteFile(p.cachePath(rawURL), body, 0o644)
}
