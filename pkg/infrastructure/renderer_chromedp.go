package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4: 210mm x 297mm -> inches: 8.27 x 11.69
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// RenderError is a per-page rendering failure.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// PageRenderer prints HTML documents to PDF in tabs of a shared browser.
type PageRenderer struct {
	browserCtx context.Context
	timeout    time.Duration
}

// RenderHTMLToPDF opens a fresh tab, loads html, prints it as an A4 PDF and
// closes the tab. Image, stylesheet and font requests to anything other than
// data: URLs are aborted so every page depends only on inlined content.
func (r *PageRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	tabCtx, closeTab := chromedp.NewContext(r.browserCtx)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	runCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(runCtx)
			ectx := cdp.WithExecutor(runCtx, c.Target)
			if blockedRequest(e.ResourceType, e.Request.URL) {
				_ = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
				return
			}
			_ = fetch.ContinueRequest(e.RequestID).Do(ectx)
		}()
	})

	var pdfBuf []byte
	err := chromedp.Run(runCtx,
		fetch.Enable(),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &RenderError{Stage: "canceled", Err: ctx.Err()}
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &RenderError{Stage: "timeout", Err: err}
		}
		return nil, &RenderError{Stage: "print", Err: err}
	}
	if !bytes.HasPrefix(pdfBuf, []byte("%PDF")) {
		return nil, &RenderError{Stage: "print", Err: fmt.Errorf("output is not a PDF (%d bytes)", len(pdfBuf))}
	}
	return pdfBuf, nil
}

func blockedRequest(rt network.ResourceType, url string) bool {
	if strings.HasPrefix(url, "data:") {
		return false
	}
	switch rt {
	case network.ResourceTypeImage, network.ResourceTypeStylesheet, network.ResourceTypeFont:
		return true
	}
	return false
}
