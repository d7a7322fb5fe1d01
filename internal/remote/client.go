// Package remote wraps the external parser, PDF renderer and analysis
// services. Each wrapper issues exactly one outbound call: no retries, no
// batching, no backoff. Failures propagate to the caller, which owns the
// user-facing messaging.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// Client talks to the external resume services.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// PDF rendering is the slowest call this client makes.
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

// NewWithHTTPClient creates a client with a caller-supplied HTTP client,
// used by tests.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// StatusError is a non-2xx response from a remote service.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

// EnvelopeError is a 2xx response whose body does not match the documented
// schema. The shape mismatch fails loudly instead of being probed around.
type EnvelopeError struct {
	Endpoint string
	Reason   string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("%s returned an unexpected response shape: %s", e.Endpoint, e.Reason)
}

// parseEnvelope is the documented response of POST /upload.
type parseEnvelope struct {
	Parsed json.RawMessage `json:"parsed"`
}

// ParseResume uploads a PDF to the parser service and returns the
// structured draft it extracted. The parser's JSON is validated against
// the embedded schema before it becomes a draft.
func (c *Client) ParseResume(ctx context.Context, fileName string, file io.Reader) (*types.ResumeDraft, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "/upload"); err != nil {
		return nil, err
	}

	var envelope parseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &EnvelopeError{Endpoint: "/upload", Reason: err.Error()}
	}
	if len(envelope.Parsed) == 0 {
		return nil, &EnvelopeError{Endpoint: "/upload", Reason: "missing parsed object"}
	}

	if err := schemas.ValidateParsedResume(envelope.Parsed); err != nil {
		return nil, err
	}

	var draft types.ResumeDraft
	if err := json.Unmarshal(envelope.Parsed, &draft); err != nil {
		return nil, &EnvelopeError{Endpoint: "/upload", Reason: err.Error()}
	}
	return &draft, nil
}

// generateEnvelope is the JSON response mode of POST /generate/pdf.
type generateEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		ID        string    `json:"id"`
		FileURL   string    `json:"fileUrl"`
		FileName  string    `json:"fileName"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"data"`
}

// GeneratePDF submits the draft to the renderer. The service answers
// either with a JSON artifact reference or with the raw PDF bytes; both
// come back through the same result type.
func (c *Client) GeneratePDF(ctx context.Context, d *types.ResumeDraft) (*types.GeneratedResume, error) {
	resp, err := c.postJSON(ctx, "/generate/pdf", d)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "/generate/pdf"); err != nil {
		return nil, err
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/pdf" {
		pdf, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read generated PDF: %w", err)
		}
		return &types.GeneratedResume{
			FileName: pdfFileName(resp.Header.Get("Content-Disposition"), d.PDFName),
			PDF:      pdf,
		}, nil
	}

	var envelope generateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &EnvelopeError{Endpoint: "/generate/pdf", Reason: err.Error()}
	}
	if envelope.Status != "success" {
		return nil, &EnvelopeError{Endpoint: "/generate/pdf", Reason: "status " + envelope.Status}
	}
	if envelope.Data.FileURL == "" || envelope.Data.FileName == "" {
		return nil, &EnvelopeError{Endpoint: "/generate/pdf", Reason: "missing fileUrl or fileName"}
	}

	// The renderer's own artifact ID is advisory; the caller replaces it
	// with the stored row's ID after persisting. A non-UUID value is kept
	// as the zero ID rather than failing the generation.
	id, _ := uuid.Parse(envelope.Data.ID)

	return &types.GeneratedResume{
		ID:        id,
		FileURL:   envelope.Data.FileURL,
		FileName:  envelope.Data.FileName,
		CreatedAt: envelope.Data.CreatedAt,
	}, nil
}

// analyzeEnvelope is the documented response of POST /recommendation/analyze.
type analyzeEnvelope struct {
	Data *types.Analysis `json:"data"`
}

// Analyze submits the draft for ATS analysis. The score is produced
// remotely and only range-checked here.
func (c *Client) Analyze(ctx context.Context, d *types.ResumeDraft) (*types.Analysis, error) {
	resp, err := c.postJSON(ctx, "/recommendation/analyze", d)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "/recommendation/analyze"); err != nil {
		return nil, err
	}

	var envelope analyzeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &EnvelopeError{Endpoint: "/recommendation/analyze", Reason: err.Error()}
	}
	if envelope.Data == nil {
		return nil, &EnvelopeError{Endpoint: "/recommendation/analyze", Reason: "missing data object"}
	}
	if envelope.Data.ATSScore < 0 || envelope.Data.ATSScore > 100 {
		return nil, &EnvelopeError{
			Endpoint: "/recommendation/analyze",
			Reason:   fmt.Sprintf("atsScore %d out of range", envelope.Data.ATSScore),
		}
	}
	return envelope.Data, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(snippet)}
}

func pdfFileName(contentDisposition, pdfName string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	if pdfName != "" {
		return pdfName + ".pdf"
	}
	return "resume.pdf"
}
