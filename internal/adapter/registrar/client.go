package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Client records report links with the backend API.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout, logger: logger}
}

type linkBody struct {
	ReportLink string `json:"reportLink"`
}

// LinkURL is the backend endpoint that stores a student's report link.
func (c *Client) LinkURL(studentID string) string {
	return fmt.Sprintf("%s/api/reports/%s/link", c.baseURL, url.PathEscape(studentID))
}

// SaveReportLink sends PUT {base}/api/reports/{studentID}/link with {reportLink}.
func (c *Client) SaveReportLink(ctx context.Context, studentID, link string) error {
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a := fiber.Put(c.LinkURL(studentID))
	a.JSON(linkBody{ReportLink: link})
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		return fmt.Errorf("registrar request: %w", err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("registrar request: %w", errs[0])
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("registrar responded %d: %s", code, truncate(string(body), 200))
	}
	c.logger.Info("report link saved", "student_id", studentID)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
