package detector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// HTTPDetector runs detection through an external inference service.
//
// The image is posted as a multipart PNG in the "file" field together with the
// threshold in the "conf" field. The service answers with
//
//	{"detections": [{"x1":..,"y1":..,"x2":..,"y2":..,"class":..,"confidence":..}]}
type HTTPDetector struct {
	url    string
	client *http.Client
}

type httpDetection struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Class      int     `json:"class"`
	Confidence float64 `json:"confidence"`
}

// NewHTTPDetector creates a detector posting to url.
func NewHTTPDetector(url string, timeout time.Duration) *HTTPDetector {
	return &HTTPDetector{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Detect sends img to the service.
func (d *HTTPDetector) Detect(img image.Image, threshold float64) ([]plate.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	if err := writer.WriteField("conf", strconv.FormatFloat(threshold, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write conf field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w: %w", err, plate.ErrDetectionUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status %d: %w", resp.StatusCode, plate.ErrDetectionUnavailable)
	}

	var result struct {
		Detections []httpDetection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w: %w", err, plate.ErrDetectionUnavailable)
	}

	dets := make([]plate.Detection, 0, len(result.Detections))
	for _, r := range result.Detections {
		det := plate.Detection{
			Box:        plate.Box{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2},
			Class:      r.Class,
			Confidence: r.Confidence,
		}
		if err := validate(det); err != nil {
			return nil, err
		}
		dets = append(dets, det)
	}
	return filterByConfidence(dets, threshold), nil
}

// CheckHealth reports whether the service answers on its /health endpoint.
func (d *HTTPDetector) CheckHealth() error {
	resp, err := d.client.Get(strings.TrimSuffix(d.url, "/") + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
