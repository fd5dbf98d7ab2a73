package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/mmcdole/storyreel/internal/domain"
)

// Health fetches the backend's root status document
func (c *Client) Health(ctx context.Context) (*domain.ServiceInfo, error) {
	var info domain.ServiceInfo
	if err := c.getJSON(ctx, "/", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GenerateScript asks the backend to write a script about a topic
func (c *Client) GenerateScript(ctx context.Context, req domain.ScriptRequest) (string, error) {
	var resp struct {
		Success bool   `json:"success"`
		Script  string `json:"script"`
	}
	if err := c.postJSON(ctx, "/api/generate_script", req, &resp); err != nil {
		return "", err
	}
	return resp.Script, nil
}

// Voices lists the narration voices the backend can synthesize
func (c *Client) Voices(ctx context.Context) ([]domain.Voice, error) {
	var resp struct {
		Voices []domain.Voice `json:"voices"`
		Error  string         `json:"error"`
	}
	if err := c.getJSON(ctx, "/api/voices", nil, &resp); err != nil {
		return nil, err
	}
	// The endpoint reports provider failures with a 200 and an error field
	if resp.Error != "" && len(resp.Voices) == 0 {
		return nil, &domain.RemoteError{Status: http.StatusOK, Message: resp.Error}
	}
	return resp.Voices, nil
}

// Split asks the backend to break text into scenes
func (c *Client) Split(ctx context.Context, text string) ([]domain.Scene, error) {
	var resp struct {
		Scenes []domain.RenderScene `json:"scenes"`
	}
	if err := c.postJSON(ctx, "/api/split", map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}

	scenes := make([]domain.Scene, len(resp.Scenes))
	for i, s := range resp.Scenes {
		scenes[i] = domain.Scene{
			ID:          s.ID,
			Text:        s.Text,
			Duration:    s.Duration,
			VoiceID:     s.VoiceID,
			ImagePrompt: s.ImagePrompt,
		}
		if scenes[i].Duration <= 0 {
			scenes[i].Duration = domain.DefaultSceneDuration
		}
		if s.BackgroundPath != "" {
			scenes[i].Background = domain.Background{Kind: domain.BackgroundUpload, Path: s.BackgroundPath}
		}
	}
	return scenes, nil
}

// GenerateImages generates an AI background for each scene.
// Per-scene failures are reported in the result, not as an error.
func (c *Client) GenerateImages(ctx context.Context, scenes []domain.Scene) ([]domain.GeneratedImage, error) {
	type sceneBody struct {
		ID          string `json:"id"`
		Text        string `json:"text"`
		ImagePrompt string `json:"image_prompt"`
	}
	body := struct {
		Scenes []sceneBody `json:"scenes"`
	}{Scenes: make([]sceneBody, len(scenes))}
	for i, s := range scenes {
		body.Scenes[i] = sceneBody{ID: s.ID, Text: s.Text, ImagePrompt: s.ImagePrompt}
	}

	var resp struct {
		Images []domain.GeneratedImage `json:"images"`
	}
	if err := c.postJSON(ctx, "/api/generate_images", body, &resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}

// UploadBackground uploads a local image or clip as a scene background and
// returns its backend path
func (c *Client) UploadBackground(ctx context.Context, sceneID, filename string, r io.Reader) (string, error) {
	var resp struct {
		SceneID        string `json:"scene_id"`
		BackgroundPath string `json:"background_path"`
	}
	fields := map[string]string{"scene_id": sceneID}
	if err := c.postMultipart(ctx, "/api/upload_background", fields, filename, r, &resp); err != nil {
		return "", err
	}
	return resp.BackgroundPath, nil
}

// UploadMusic uploads a background track and returns its backend path
func (c *Client) UploadMusic(ctx context.Context, filename string, r io.Reader) (string, error) {
	var resp struct {
		Success  bool   `json:"success"`
		Path     string `json:"path"`
		Filename string `json:"filename"`
	}
	if err := c.postMultipart(ctx, "/api/music/upload", nil, filename, r, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

// StockSearch searches stock photos for a query
func (c *Client) StockSearch(ctx context.Context, query string) ([]domain.StockResult, error) {
	var resp struct {
		Results []domain.StockResult `json:"results"`
		Message string               `json:"message"`
	}
	q := url.Values{}
	q.Set("query", query)
	if err := c.getJSON(ctx, "/api/stock_search", q, &resp); err != nil {
		return nil, err
	}
	if resp.Message != "" {
		c.logger.Info("stock search", "message", resp.Message)
	}
	return resp.Results, nil
}

// DownloadStock has the backend fetch a stock hit for a scene and returns
// the stored backend path
func (c *Client) DownloadStock(ctx context.Context, sceneID string, hit domain.StockResult) (string, error) {
	kind := hit.Type
	if kind == "" {
		kind = "image"
	}
	body := map[string]string{
		"url":      hit.URL,
		"scene_id": sceneID,
		"type":     kind,
	}
	var resp struct {
		Path    string `json:"path"`
		Success bool   `json:"success"`
	}
	if err := c.postJSON(ctx, "/api/download_stock", body, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

// Render submits the project for rendering and blocks until the backend
// responds. Never retried: a failed render is reported, not resubmitted.
func (c *Client) Render(ctx context.Context, req domain.RenderRequest) (*domain.RenderResult, error) {
	var result domain.RenderResult
	if err := c.postJSON(ctx, "/api/render", req, &result); err != nil {
		return nil, err
	}
	if result.VideoPath == "" {
		return nil, &domain.RemoteError{Status: http.StatusOK, Message: "render response has no video path"}
	}
	return &result, nil
}

// DownloadVideo streams a rendered video into w
func (c *Client) DownloadVideo(ctx context.Context, videoPath string, w io.Writer) (int64, error) {
	q := url.Values{}
	q.Set("path", videoPath)
	reqURL := c.baseURL + "/api/download?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, "")
	req.Header.Set("Accept", "video/mp4")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return 0, decodeError(resp.StatusCode, data)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to stream video: %w", err)
	}
	c.logger.Info("video downloaded", "path", videoPath, "bytes", n)
	return n, nil
}

// postMultipart uploads one file with optional form fields
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, filename string, r io.Reader, dest interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return err
	}
	return decodeInto(path, data, dest)
}
