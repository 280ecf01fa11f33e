package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/receipt-microservice/pkg/config"
	"github.com/receipt-microservice/pkg/invoice"
	"github.com/receipt-microservice/pkg/logger"
	"github.com/receipt-microservice/pkg/webhook"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendAccessEmail(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

type HandlerSuite struct {
	suite.Suite
	cfg      *config.Configuration
	notifier *MockNotifier
	router   *mux.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.cfg = config.GetDefaultConfig()
	s.cfg.App.BaseURL = "https://shop.example.com"
	s.notifier = new(MockNotifier)
	s.build()
}

func (s *HandlerSuite) build() {
	s.buildWithLogger(logger.NewNop())
}

func (s *HandlerSuite) buildWithLogger(log *logger.Logger) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	renderer := invoice.NewRenderer(s.cfg.App.Brand,
		invoice.WithClock(func() time.Time { return fixed }),
		invoice.WithCompression(false))
	webhooks := webhook.NewService(s.cfg, s.notifier, log)
	s.router = NewRouter(NewHandler(s.cfg, renderer, webhooks, log), log)
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *HandlerSuite) postWebhook(body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/hotmart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v[0])
	}
	return s.do(req)
}

func (s *HandlerSuite) TestHealthz() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(map[string]any{"ok": true}, s.decode(rec))
	s.NotEmpty(rec.Header().Get(requestIDHeader))
}

func (s *HandlerSuite) TestRequestIDIsEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")

	rec := s.do(req)

	s.Equal("req-123", rec.Header().Get(requestIDHeader))
}

func (s *HandlerSuite) TestIndexShowsForm() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Type"), "text/html")
	s.Contains(rec.Body.String(), "Receipt Lite")
	s.Contains(rec.Body.String(), `action="/generate-pdf"`)
}

func (s *HandlerSuite) TestGeneratePDFFromJSON() {
	body := `{"company_name": "ACME", "client_name": "Bob", "value": 1234.5, "issue_date": "2024-03-01"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/pdf", rec.Header().Get("Content-Type"))
	s.Equal("attachment; filename=receipt.pdf", rec.Header().Get("Content-Disposition"))
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	s.NotEmpty(rec.Header().Get("Content-Length"))
}

func (s *HandlerSuite) TestGeneratePDFFromMultipartForm() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("company_name", "ACME"))
	s.Require().NoError(mw.WriteField("value", "1.234,50"))
	part, err := mw.CreateFormFile("logo", "logo.txt")
	s.Require().NoError(err)
	_, err = part.Write([]byte("not an image"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func (s *HandlerSuite) TestGeneratePDFWithUnreadableJSON() {
	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", strings.NewReader(`{"company_name":`))
	req.Header.Set("Content-Type", "application/json")

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func (s *HandlerSuite) TestGeneratePDFKeepsFieldsBesideAMistypedOne() {
	body := `{"company_name": "Acme", "client_name": "Maria", "doc_number": 42, "value": "10,00"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	pdf := rec.Body.String()
	s.Contains(pdf, "(Acme)")
	s.Contains(pdf, "(Maria)")
	s.Contains(pdf, "(42)")
	s.Contains(pdf, "R$ 10,00")
}

func (s *HandlerSuite) TestGeneratePDFWithHostileAmount() {
	body := `{"company_name": "Acme", "value": "1e999999999"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "TOTAL: R$ 0,00")
}

func (s *HandlerSuite) TestGeneratePDFWithOversizedUpload() {
	core, logs := observer.New(zapcore.WarnLevel)
	s.buildWithLogger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("company_name", "Acme"))
	part, err := mw.CreateFormFile("logo", "logo.png")
	s.Require().NoError(err)
	_, err = part.Write(bytes.Repeat([]byte{0}, maxUploadSize+1))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	s.Equal(1, logs.FilterMessageSnippet("failed to parse receipt form").Len())
}

func (s *HandlerSuite) TestWebhookSent() {
	s.notifier.On("SendAccessEmail", mock.Anything, "a@b.com", "https://shop.example.com").Return(nil).Once()

	rec := s.postWebhook(`{"status": "approved", "buyer": {"email": "a@b.com"}}`, nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(map[string]any{"ok": true, "link": "https://shop.example.com"}, s.decode(rec))
	s.notifier.AssertExpectations(s.T())
}

func (s *HandlerSuite) TestWebhookIgnored() {
	rec := s.postWebhook(`{"status": "refunded", "buyer": {"email": "a@b.com"}}`, nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(map[string]any{"ok": true, "ignored": true, "status": "refunded"}, s.decode(rec))
	s.notifier.AssertNotCalled(s.T(), "SendAccessEmail", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerSuite) TestWebhookIgnoredWithoutStatus() {
	rec := s.postWebhook(`{"buyer": {"email": "a@b.com"}}`, nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(map[string]any{"ok": true, "ignored": true, "status": nil}, s.decode(rec))
}

func (s *HandlerSuite) TestWebhookMissingEmail() {
	rec := s.postWebhook(`{"status": "approved"}`, nil)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(map[string]any{"ok": false, "error": "email not found"}, s.decode(rec))
}

func (s *HandlerSuite) TestWebhookSendFailure() {
	s.notifier.On("SendAccessEmail", mock.Anything, "a@b.com", mock.Anything).
		Return(errors.New("dial tcp: connection refused")).Once()

	rec := s.postWebhook(`{"status": "approved", "buyer": {"email": "a@b.com"}}`, nil)

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(map[string]any{"ok": false, "error": "failed to send email"}, s.decode(rec))
}

func (s *HandlerSuite) TestWebhookSignature() {
	s.cfg.Webhook.Secret = "s3cr3t"
	s.build()
	body := `{"status": "approved", "buyer": {"email": "a@b.com"}}`

	rec := s.postWebhook(body, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(map[string]any{"ok": false, "error": "invalid signature"}, s.decode(rec))

	rec = s.postWebhook(body, http.Header{webhook.SignatureHeader: {"bogus"}})
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.notifier.On("SendAccessEmail", mock.Anything, "a@b.com", mock.Anything).Return(nil).Once()
	sig := webhook.NewVerifier("s3cr3t").Sign([]byte(body))
	rec = s.postWebhook(body, http.Header{webhook.SignatureHeader: {sig}})
	s.Equal(http.StatusOK, rec.Code)
	s.notifier.AssertExpectations(s.T())
}

func (s *HandlerSuite) TestWrongMethod() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/webhook/hotmart", nil))

	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (s *HandlerSuite) TestSwaggerDoc() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "/webhook/hotmart")
}

func (s *HandlerSuite) TestMetricsEndpoint() {
	s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "http_requests_total")
}
