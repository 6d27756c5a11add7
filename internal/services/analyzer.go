package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// Analyzer runs the scalp-image inference. The model itself is an external
// service; this package only knows its HTTP contract.
type Analyzer interface {
	// PredictStage classifies a stored scan image into a baldness stage.
	PredictStage(ctx context.Context, imagePath string) (int, error)
	// AnalyzeDensity returns follicle count and average density for an
	// ephemeral walk-in image. Nothing is persisted by the caller.
	AnalyzeDensity(ctx context.Context, imagePath string) (count int, density float64, err error)
}

type stageResponse struct {
	Stage int `json:"stage"`
}

type densityResponse struct {
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// ModelClient talks to the model-serving API over HTTP.
type ModelClient struct {
	baseURL string
	client  *http.Client
}

func NewModelClient(baseURL string) *ModelClient {
	return &ModelClient{baseURL: baseURL, client: &http.Client{}}
}

func (m *ModelClient) PredictStage(ctx context.Context, imagePath string) (int, error) {
	var result stageResponse
	if err := m.postImage(ctx, "/predict-stage", imagePath, &result); err != nil {
		return 0, err
	}
	if result.Stage < 1 {
		return 0, errors.New("model returned an empty or invalid response")
	}
	return result.Stage, nil
}

func (m *ModelClient) AnalyzeDensity(ctx context.Context, imagePath string) (int, float64, error) {
	var result densityResponse
	if err := m.postImage(ctx, "/analyze", imagePath, &result); err != nil {
		return 0, 0, err
	}
	return result.Count, result.Density, nil
}

func (m *ModelClient) postImage(ctx context.Context, endpoint, imagePath string, out any) error {
	if m.baseURL == "" {
		return errors.New("MODEL_API_URL is not configured")
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("open scan image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+endpoint, &body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := m.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("model service unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return err
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service returned status %d", httpResp.StatusCode)
	}

	return json.Unmarshal(respBody, out)
}
