package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/strata3d/strata/pkg/resources"
)

// DownloadLine fetches a line resource's metadata and binary payloads and
// rebuilds it. The rebuilt resource satisfies the same invariants as a
// directly-constructed one.
func (s *Session) DownloadLine(ctx context.Context, uid string) (*resources.Line, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL("resource/line/"+uid), nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req, "")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var wire resources.WireLine
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode line metadata: %w", err)
	}

	s.log.Debug("downloading line arrays",
		zap.String("uid", uid), zap.Int("data", len(wire.Data)))

	line, err := resources.BuildLine(wire, s.fetchArray(ctx))
	if err != nil {
		return nil, err
	}
	line.MarkSynced()
	return line, nil
}

// fetchArray returns an ArrayFetcher that resolves references against the
// session endpoint and carries the session's auth headers
func (s *Session) fetchArray(ctx context.Context) resources.ArrayFetcher {
	return func(ref string) ([]byte, error) {
		resolved, err := s.resolveRef(ref)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
		if err != nil {
			return nil, err
		}
		s.setHeaders(req, "")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, newAPIError(resp)
		}
		return io.ReadAll(resp.Body)
	}
}

// resolveRef resolves a possibly relative array reference against the
// session endpoint
func (s *Session) resolveRef(ref string) (string, error) {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	target, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid array reference %q: %w", ref, err)
	}
	return base.ResolveReference(target).String(), nil
}
