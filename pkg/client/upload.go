package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/strata3d/strata/pkg/resources"
)

// UploadLine syncs a line resource to the remote store. Validation runs
// before any network I/O; only dirty arrays are sent unless force is true.
// On a confirmed success the resource's dirty flags clear and its uid is
// recorded; on any failure the dirty-file set is left intact and the upload
// is safely retryable.
func (s *Session) UploadLine(ctx context.Context, line *resources.Line, force bool) (string, error) {
	if !s.LoggedIn() {
		return "", ErrNotLoggedIn
	}

	files, err := line.DirtyFiles(force)
	if err != nil {
		return "", err
	}

	meta := line.Metadata()
	body, contentType, err := buildUploadBody(meta, files)
	if err != nil {
		return "", err
	}

	method := http.MethodPost
	path := "resource/line"
	if uid := line.UID(); uid != "" {
		method = http.MethodPut
		path = "resource/line/" + uid
	}

	req, err := http.NewRequestWithContext(ctx, method, s.apiURL(path), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	s.setHeaders(req, "")

	s.log.Debug("uploading line",
		zap.String("uid", line.UID()),
		zap.Int("files", len(files)),
		zap.Int("nbytes", line.NBytes()),
		zap.Bool("force", force))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newAPIError(resp)
	}

	var result struct {
		UID string `json:"uid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}

	line.SetUID(result.UID)
	line.MarkSynced()
	s.log.Info("uploaded line", zap.String("uid", result.UID))
	return result.UID, nil
}

// buildUploadBody assembles the multipart body: a JSON metadata part plus
// one part per dirty array, keyed by its stable identifier. File parts are
// written in sorted order so identical inputs produce identical bodies.
func buildUploadBody(meta resources.WireLine, files map[string][]byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("metadata", string(metaJSON)); err != nil {
		return nil, "", err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		part, err := w.CreateFormFile(name, name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(files[name]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
