// pkg/api/handlers.go

package api

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/receipt-microservice/pkg/config"
	ierr "github.com/receipt-microservice/pkg/errors"
	"github.com/receipt-microservice/pkg/invoice"
	"github.com/receipt-microservice/pkg/logger"
	"github.com/receipt-microservice/pkg/webhook"
)

const (
	maxFormMemory   = 5 << 20  // multipart parts kept in memory
	maxUploadSize   = 10 << 20 // whole /generate-pdf body
	maxWebhookSize  = 1 << 20
	receiptFilename = "receipt.pdf"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReceiptRenderer turns a request into a PDF.
type ReceiptRenderer interface {
	Render(req invoice.Request, logo []byte) (*bytes.Reader, error)
}

// WebhookService handles one provider delivery.
type WebhookService interface {
	Handle(ctx context.Context, body []byte, signature string) (*webhook.Outcome, error)
}

type Handler struct {
	appName  string
	renderer ReceiptRenderer
	webhooks WebhookService
	logger   *logger.Logger
	index    *template.Template
}

func NewHandler(cfg *config.Configuration, renderer ReceiptRenderer, webhooks WebhookService, logger *logger.Logger) *Handler {
	return &Handler{
		appName:  cfg.App.Name,
		renderer: renderer,
		webhooks: webhooks,
		logger:   logger,
		index:    template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

// ErrorResponse is returned for every rejected request.
type ErrorResponse struct {
	OK    bool   `json:"ok" example:"false"`
	Error string `json:"error" example:"email not found"`
}

// IgnoredResponse acknowledges an event whose status is not an approval.
type IgnoredResponse struct {
	OK      bool `json:"ok" example:"true"`
	Ignored bool `json:"ignored" example:"true"`
	Status  any  `json:"status"`
}

// SentResponse acknowledges an event that triggered the access email.
type SentResponse struct {
	OK   bool   `json:"ok" example:"true"`
	Link string `json:"link" example:"https://yourapp.onrender.com"`
}

type HealthResponse struct {
	OK bool `json:"ok" example:"true"`
}

// Index renders the receipt form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.index.Execute(w, struct{ AppName string }{h.appName}); err != nil {
		h.logger.Errorw("failed to render index page", "error", err)
	}
}

// GeneratePDF godoc
// @Summary      Render a receipt
// @Description  Accepts a JSON body or a form (optionally with a "logo" file) and returns the receipt PDF.
// @Tags         receipts
// @Accept       json,mpfd,x-www-form-urlencoded
// @Produce      application/pdf
// @Param        request  body      invoice.Request  false  "Receipt fields"
// @Param        logo     formData  file             false  "Logo image"
// @Success      200      {file}    file
// @Failure      500      {object}  ErrorResponse
// @Router       /generate-pdf [post]
func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	req, logo := h.parseReceiptRequest(r)

	pdf, err := h.renderer.Render(req, logo)
	if err != nil {
		h.logger.Errorw("failed to render receipt", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+receiptFilename)
	w.Header().Set("Content-Length", strconv.FormatInt(pdf.Size(), 10))
	if _, err := io.Copy(w, pdf); err != nil {
		h.logger.Warnw("failed to write receipt", "error", err)
	}
}

// parseReceiptRequest reads a JSON body when one is sent and falls back to
// form fields otherwise. A logo is only taken from a named file part.
func (h *Handler) parseReceiptRequest(r *http.Request) (invoice.Request, []byte) {
	if isJSON(r) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Warnw("failed to read JSON receipt body", "error", err)
			return invoice.Request{}, nil
		}
		return invoice.ParseJSON(body), nil
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil && err != http.ErrNotMultipart {
		h.logger.Warnw("failed to parse receipt form, rendering with the fields read so far",
			"error", err,
			"content_length", r.ContentLength)
	}

	req := invoice.Request{
		CompanyName:    r.FormValue("company_name"),
		CompanyDoc:     r.FormValue("company_doc"),
		CompanyAddress: r.FormValue("company_address"),
		ClientName:     r.FormValue("client_name"),
		ClientDoc:      r.FormValue("client_doc"),
		DocNumber:      r.FormValue("doc_number"),
		IssueDate:      r.FormValue("issue_date"),
		Description:    r.FormValue("description"),
		Value:          r.FormValue("value"),
	}

	return req, readLogo(r)
}

func readLogo(r *http.Request) []byte {
	file, header, err := r.FormFile("logo")
	if err != nil {
		return nil
	}
	defer file.Close()

	if header.Filename == "" {
		return nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil
	}
	return data
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// Webhook godoc
// @Summary      Payment provider webhook
// @Description  Verifies the optional signature and emails the access link when the purchase is approved.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Hotmart-Hmac-SHA256  header    string  false  "base64 HMAC-SHA256 of the body"
// @Success      200  {object}  SentResponse
// @Success      200  {object}  IgnoredResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /webhook/hotmart [post]
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookSize))
	if err != nil {
		writeError(w, ierr.WithError(err).
			WithHint("unreadable body").
			Mark(ierr.ErrValidation))
		return
	}

	out, err := h.webhooks.Handle(r.Context(), body, r.Header.Get(webhook.SignatureHeader))
	if err != nil {
		writeError(w, err)
		return
	}

	if out.Ignored {
		writeJSON(w, http.StatusOK, IgnoredResponse{OK: true, Ignored: true, Status: out.Status})
		return
	}
	writeJSON(w, http.StatusOK, SentResponse{OK: true, Link: out.Link})
}

// Healthz godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  HealthResponse
// @Router   /healthz [get]
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto its status code. Only the hint reaches the caller.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, ierr.HTTPStatusFromErr(err), ErrorResponse{
		OK:    false,
		Error: ierr.DisplayMessage(err),
	})
}
