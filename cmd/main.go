// cmd/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/receipt-microservice/docs"
	"github.com/receipt-microservice/pkg/api"
	"github.com/receipt-microservice/pkg/config"
	"github.com/receipt-microservice/pkg/invoice"
	"github.com/receipt-microservice/pkg/logger"
	"github.com/receipt-microservice/pkg/notify"
	"github.com/receipt-microservice/pkg/webhook"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// @title        Receipt Lite API
// @version      1.0
// @description  Renders simple receipt PDFs and turns approved purchase webhooks into access emails.
// @BasePath     /
func main() {
	app := &cli.App{
		Name:   "receipt",
		Usage:  "receipt PDFs and purchase webhooks",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:  "render",
				Usage: "render a receipt PDF to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "receipt.pdf", Usage: "output file"},
					&cli.StringFlag{Name: "logo", Usage: "PNG, JPEG or GIF logo"},
					&cli.StringFlag{Name: "company-name"},
					&cli.StringFlag{Name: "company-doc"},
					&cli.StringFlag{Name: "company-address"},
					&cli.StringFlag{Name: "client-name"},
					&cli.StringFlag{Name: "client-doc"},
					&cli.StringFlag{Name: "doc-number"},
					&cli.StringFlag{Name: "issue-date", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "value", Usage: `amount, e.g. "1.234,50"`},
				},
				Action: render,
			},
			{
				Name:  "sign",
				Usage: "print the signature header value for a webhook body",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "secret", Required: true, EnvVars: []string{"WEBHOOK_SECRET"}},
					&cli.StringFlag{Name: "body", Required: true, Usage: "file holding the raw JSON body"},
				},
				Action: sign,
			},
			{
				Name:  "preview-email",
				Usage: "print the access email without sending it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Required: true},
				},
				Action: previewEmail,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	docs.SwaggerInfo.Title = cfg.App.Name + " API"

	if !cfg.SMTP.Complete() {
		log.Warnw("smtp credentials incomplete, approved purchases will fail to send")
	}
	if cfg.Webhook.Secret == "" {
		log.Warnw("webhook secret not set, signatures are not checked")
	}

	renderer := invoice.NewRenderer(cfg.App.Brand)
	mailer := notify.NewMailer(cfg.SMTP, cfg.App.Name, log)
	webhooks := webhook.NewService(cfg, mailer, log)
	handler := api.NewHandler(cfg, renderer, webhooks, log)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      api.NewRouter(handler, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "addr", srv.Addr, "app", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func render(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logo []byte
	if path := c.String("logo"); path != "" {
		if logo, err = os.ReadFile(path); err != nil {
			return fmt.Errorf("reading logo: %w", err)
		}
	}

	req := invoice.Request{
		CompanyName:    c.String("company-name"),
		CompanyDoc:     c.String("company-doc"),
		CompanyAddress: c.String("company-address"),
		ClientName:     c.String("client-name"),
		ClientDoc:      c.String("client-doc"),
		DocNumber:      c.String("doc-number"),
		IssueDate:      c.String("issue-date"),
		Description:    c.String("description"),
		Value:          c.String("value"),
	}

	pdf, err := invoice.NewRenderer(cfg.App.Brand).Render(req, logo)
	if err != nil {
		return err
	}

	out, err := os.Create(c.String("out"))
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := pdf.WriteTo(out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", out.Name(), pdf.Size())
	return nil
}

func sign(c *cli.Context) error {
	body, err := os.ReadFile(c.String("body"))
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	fmt.Fprintln(c.App.Writer, webhook.NewVerifier(c.String("secret")).Sign(body))
	return nil
}

func previewEmail(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	link := cfg.App.BaseURL
	if link == "" {
		link = webhook.FallbackLink
	}

	msg, err := notify.NewMailer(cfg.SMTP, cfg.App.Name, logger.NewNop()).BuildMessage(c.String("to"), link)
	if err != nil {
		return err
	}
	_, err = msg.WriteTo(c.App.Writer)
	return err
}
