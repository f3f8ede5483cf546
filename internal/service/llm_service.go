package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"masarif/internal/errs"
	"masarif/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator produces a raw completion for a prompt. The extraction services
// depend on this interface so they can run against a fake in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionExtractor reads text out of an image via the provider's Vision API.
type VisionExtractor interface {
	ExtractTextFromImage(ctx context.Context, filePath string) (string, error)
}

type LLMService struct {
	client     *gigago.Client
	model      *gigago.GenerativeModel
	config     *config.GigaChatConfig
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	oauthURL   string

	// Cached access token for file uploads. Concurrent vision requests read
	// it while a 401 refresh rewrites it, so access goes through the mutex.
	tokenMu     sync.Mutex
	accessToken string
}

func (s *LLMService) token() string {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()
	return s.accessToken
}

func (s *LLMService) setToken(token string) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()
	s.accessToken = token
}

// buildSystemInstruction pins the model to strict multilingual expense
// extraction.
func buildSystemInstruction() string {
	return `You are a precise financial data extraction engine. You read free-form expense descriptions and receipts written in English, French, German, Standard Arabic, or Moroccan Darija (in Arabic or Latin script, e.g. "khlsst 50dh f taxi") and return structured JSON.

RULES:
1. Return ONLY valid JSON matching the schema given in the request. No markdown fences, no commentary before or after.
2. Never invent data. If a value is not present in the input, omit it or use null.
3. Amounts are plain positive numbers without currency symbols or thousands separators.
4. Currency: return it exactly as written in the input (symbol, word, or code), e.g. "dh", "درهم", "$", "EUR". Do not convert.
5. Dates: use YYYY-MM-DD when an absolute date is given. When the input uses a relative phrase (yesterday, hier, gestern, lbareh, أمس) return that phrase verbatim.
6. Categories and payment methods must come from the enumerations in the schema.
7. language_detected: name the dominant input language in lowercase English (e.g. "english", "french", "darija", "arabic", "german"). If you cannot tell, use "unknown".
8. Darija vocabulary hints: khlsst/khellast = paid, chrit = bought, dh/dhs/درهم = dirham, taman = price, lyouma = today, lbareh = yesterday.
9. If the input describes several distinct purchases and the schema asks for an array, emit one object per purchase.
10. Set "success" to true only when at least one expense was actually found.`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = buildSystemInstruction()
	// Low temperature: extraction must be reproducible, not creative.
	model.Temperature = 0.1

	// Separate HTTP client for the Files and Vision endpoints, which the
	// SDK does not cover.
	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	// OAuth endpoint per https://developers.sber.ru/docs/ru/gigachat/api/main
	oauthURL := "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"

	accessToken, err := getAccessToken(ctx, oauthURL, cfg, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	return &LLMService{
		client:      client,
		model:       model,
		config:      cfg,
		logger:      logger,
		httpClient:  httpClient,
		oauthURL:    oauthURL,
		accessToken: accessToken,
		// Base URL for GigaChat REST API
		baseURL: "https://gigachat.devices.sberbank.ru/api/v1",
	}, nil
}

// getAccessToken obtains an access token from the GigaChat OAuth endpoint.
// Needed for file uploads and Vision calls that bypass the SDK. The API key
// is already Base64-encoded per the GigaChat docs.
func getAccessToken(ctx context.Context, oauthURL string, cfg *config.GigaChatConfig, httpClient *http.Client, logger *zap.Logger) (string, error) {
	rqUID := uuid.New().String()

	formData := url.Values{}
	formData.Set("scope", cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, "POST", oauthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", rqUID)
	req.Header.Set("Authorization", "Basic "+cfg.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
			zap.String("rq_uid", rqUID),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	logger.Info("Access token obtained", zap.Int("expires_in", oauthResp.ExpiresIn))
	return oauthResp.AccessToken, nil
}

// Generate sends one user prompt and returns the raw completion text.
// Transport and provider failures come back as retryable provider errors;
// what the model said is the caller's problem.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", errs.NewProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errs.NewProviderError(fmt.Errorf("no choices in response"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// UploadFile uploads a file to GigaChat and returns the file ID.
// Endpoint: POST /files
func (s *LLMService) UploadFile(ctx context.Context, fileReader io.Reader, fileName string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// "general" purpose allows the file to be referenced from generation
	// requests (Vision).
	if err := writer.WriteField("purpose", "general"); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		switch ext {
		case ".pdf":
			mimeType = "application/pdf"
		case ".jpg", ".jpeg":
			mimeType = "image/jpeg"
		case ".png":
			mimeType = "image/png"
		default:
			mimeType = "application/octet-stream"
		}
	}

	part, err := writer.CreatePart(map[string][]string{
		"Content-Type":        {mimeType},
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, fileReader); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errs.NewProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", errs.NewUnsupportedFile(fmt.Sprintf("file exceeds provider size limit: %s", string(bodyBytes)))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		bodyBytes, _ := io.ReadAll(resp.Body)

		// Token expired; refresh it so the caller's retry succeeds. The
		// multipart body was consumed, so this attempt still fails.
		accessToken, err := getAccessToken(ctx, s.oauthURL, s.config, s.httpClient, s.logger)
		if err != nil {
			return "", errs.NewProviderError(fmt.Errorf("upload failed with 401, token refresh also failed: %w (original error: %s)", err, string(bodyBytes)))
		}
		s.setToken(accessToken)
		return "", errs.NewProviderError(fmt.Errorf("token expired, retrying: %s", string(bodyBytes)))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", errs.NewProviderError(fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	s.logger.Info("File uploaded to GigaChat", zap.String("file_id", uploadResp.ID))
	return uploadResp.ID, nil
}

// ExtractTextFromImage uploads an image or PDF and asks the Vision model to
// read it.
func (s *LLMService) ExtractTextFromImage(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileID, err := s.UploadFile(ctx, file, filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	prompt := `Extract all text from this financial document (receipt, invoice, or bank statement).

REQUIREMENTS:
1. Return ONLY the text that appears in the document, in its original language.
2. No commentary, no explanations, no error messages.
3. Keep amounts, dates, item lines, and totals exactly as printed.
4. Represent tables as plain text rows.
5. If the document is empty or unreadable, return an empty string.`

	return s.extractTextViaVisionAPI(ctx, fileID, prompt)
}

// extractTextViaVisionAPI calls POST /chat/completions with a file
// attachment. Attachment format per the GigaChat docs: [["file_id"]].
func (s *LLMService) extractTextViaVisionAPI(ctx context.Context, fileID, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": s.config.Model,
		"messages": []map[string]interface{}{
			{
				"role":        "user",
				"content":     prompt,
				"attachments": [][]string{{fileID}},
			},
		},
		"temperature": 0.1,
		"stream":      false,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errs.NewProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", errs.NewProviderError(fmt.Errorf("vision API failed with status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var visionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&visionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(visionResp.Choices) == 0 {
		return "", errs.NewProviderError(fmt.Errorf("no response from Vision API"))
	}

	text := strings.TrimSpace(visionResp.Choices[0].Message.Content)

	// The model sometimes answers with a refusal instead of document text.
	textLower := strings.ToLower(text)
	refusalPhrases := []string{
		"cannot help",
		"cannot process",
		"can't process",
		"unable to extract",
		"please provide",
		"je ne peux pas",
		"не могу помочь",
		"не могу обработать",
	}
	for _, phrase := range refusalPhrases {
		if strings.Contains(textLower, phrase) {
			s.logger.Warn("Vision model returned a refusal instead of extracted text",
				zap.String("file_id", fileID),
				zap.String("message", text),
			)
			return "", errs.NewExtractionFailure("vision model refused to read the document", text, nil)
		}
	}

	s.logger.Info("Text extracted via GigaChat Vision",
		zap.String("file_id", fileID),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
