package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"krishimitra/internal/model"
)

// QueryService wraps the unified-query endpoint: one multipart POST carrying
// text and/or an image, answered by the AI advisor.
type QueryService struct {
	b        *Backend
	language string
}

func NewQueryService(b *Backend, language string) *QueryService {
	return &QueryService{b: b, language: language}
}

// Unified submits one query. A decodable response is always returned, even
// on a non-2xx status: the server reports application errors as
// {success:false, error:...} bodies. Only transport failures and malformed
// bodies surface as Go errors.
func (s *QueryService) Unified(ctx context.Context, sub model.Submission) (*model.QueryResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if text := strings.TrimSpace(sub.Text); text != "" {
		w.WriteField("text", text)
	}
	language := sub.Language
	if language == "" {
		language = s.language
	}
	w.WriteField("language", language)
	if sub.Location != "" {
		w.WriteField("location", sub.Location)
	}
	if sub.SensorData != nil {
		data, err := json.Marshal(sub.SensorData)
		if err != nil {
			return nil, fmt.Errorf("encode sensor data: %w", err)
		}
		w.WriteField("sensor_data", string(data))
	}
	if len(sub.Image) > 0 {
		name := sub.ImageName
		if name == "" {
			name = "upload.jpg"
		}
		fw, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, fmt.Errorf("attach image: %w", err)
		}
		fw.Write(sub.Image)
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.b.BaseURL()+"/api/unified-query", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if tok := s.b.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := s.b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unified query: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result model.QueryResult
	if err := json.Unmarshal(data, &result); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("unified query: status %d: %s", resp.StatusCode, data)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
