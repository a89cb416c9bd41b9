package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anaskhan96/soup"
)

const defaultMaxIndexSize = 8 << 20

// HTTPLister lists HTTP(S) locations by parsing the HTML directory index
// served for them, as produced by Apache, nginx autoindex or Artifactory.
type HTTPLister struct {
	Client  HTTPClient
	Timeout time.Duration // 0 = no extra timeout beyond context
	MaxSize int64         // max index size in bytes (0 = default)
}

// DefaultHTTPClient returns an HTTPClient using http.DefaultClient.
type DefaultHTTPClient struct{}

func (DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

func (l *HTTPLister) List(ctx context.Context, location string) ([]string, error) {
	base, err := url.Parse(location)
	if err != nil {
		return nil, &ListError{Location: location, Op: "list", Err: fmt.Errorf("parsing URL: %w", err)}
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	body, found, err := l.fetch(ctx, base.String())
	if err != nil {
		return nil, &ListError{Location: location, Op: "list", Err: err, Hint: "check network connectivity and repository URL"}
	}
	if !found {
		return nil, nil
	}

	doc := soup.HTMLParse(body)
	if doc.Error != nil {
		return nil, &ListError{Location: location, Op: "parse", Err: doc.Error}
	}

	var names []string
	seen := make(map[string]bool)
	for _, link := range doc.FindAll("a") {
		name, ok := childName(base, link.Attrs()["href"])
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func (l *HTTPLister) fetch(ctx context.Context, location string) (string, bool, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	client := l.Client
	if client == nil {
		client = DefaultHTTPClient{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("fetching index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	maxSize := l.MaxSize
	if maxSize <= 0 {
		maxSize = defaultMaxIndexSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return "", false, fmt.Errorf("reading index: %w", err)
	}
	if int64(len(data)) > maxSize {
		return "", false, fmt.Errorf("index exceeds max size %d bytes", maxSize)
	}
	return string(data), true, nil
}

// childName returns the name of the resource an index link points to when
// it is a direct child of base.
func childName(base *url.URL, href string) (string, bool) {
	if href == "" || strings.HasPrefix(href, "?") || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	target := base.ResolveReference(ref)
	if target.Host != base.Host || target.RawQuery != "" {
		return "", false
	}

	rel, ok := strings.CutPrefix(target.Path, base.Path)
	if !ok {
		return "", false
	}
	rel = strings.TrimSuffix(rel, "/")
	if rel == "" || rel == "." || rel == ".." || strings.Contains(rel, "/") {
		return "", false
	}
	return rel, true
}
