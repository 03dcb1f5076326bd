// Package assets preloads the report templates and reference datasets once
// at startup and serves them read-only afterwards.
package assets

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"career-report/internal/domain"

	"golang.org/x/sync/errgroup"
)

// TemplateNames is the fixed page order of every report.
var TemplateNames = []string{"page1.html", "page2.html", "page3.html", "page4.html", "page5.html", "page6.html"}

const (
	RecommendationsFile = "ao_recommendations.json"
	CareersFile         = "naviksha.careers.json"
	TraitsFile          = "raisec_description.json"

	logoFile = "footer_logo.png"
)

// localImageRef matches image references to files under the template assets dir.
var localImageRef = regexp.MustCompile(`src="\./assets/([^"]+)"`)

// LoadError is a fatal startup failure: the service must not serve without
// the file at Path.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("preload %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Cache is immutable once Preload returns.
type Cache struct {
	templates       map[string]string
	recommendations map[string]string
	careers         map[string]domain.CatalogCareer
	traits          map[string]string
	logoSrc         string
}

// Preload reads the datasets from dataDir and the page templates from
// templatesDir, inlining local images as data URIs.
func Preload(templatesDir, dataDir string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{templates: make(map[string]string, len(TemplateNames))}

	var careers []domain.CatalogCareer
	var g errgroup.Group
	g.Go(func() error { return readJSON(filepath.Join(dataDir, RecommendationsFile), &c.recommendations) })
	g.Go(func() error { return readJSON(filepath.Join(dataDir, CareersFile), &careers) })
	g.Go(func() error { return readJSON(filepath.Join(dataDir, TraitsFile), &c.traits) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Later duplicates replace earlier entries.
	c.careers = make(map[string]domain.CatalogCareer, len(careers))
	for _, cc := range careers {
		c.careers[cc.CareerName] = cc
	}

	assetsDir := filepath.Join(templatesDir, "assets")
	for _, name := range TemplateNames {
		path := filepath.Join(templatesDir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Cause: err}
		}
		c.templates[name] = embedImages(string(raw), assetsDir, logger)
	}

	if uri, err := dataURI(filepath.Join(assetsDir, logoFile)); err == nil {
		c.logoSrc = uri
	} else {
		logger.Warn("could not preload logo", "file", logoFile, "error", err)
		c.logoSrc = "./assets/" + logoFile
	}

	logger.Info("assets preloaded",
		"templates", len(c.templates),
		"careers", len(c.careers),
		"recommendations", len(c.recommendations),
		"traits", len(c.traits),
	)
	return c, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Cause: err}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return &LoadError{Path: path, Cause: err}
	}
	return nil
}

// embedImages rewrites every local image reference it can read. Unreadable
// images keep their original reference.
func embedImages(html, assetsDir string, logger *slog.Logger) string {
	resolved := map[string]string{}
	return localImageRef.ReplaceAllStringFunc(html, func(match string) string {
		name := localImageRef.FindStringSubmatch(match)[1]
		if uri, ok := resolved[name]; ok {
			return `src="` + uri + `"`
		}
		uri, err := dataURI(filepath.Join(assetsDir, filepath.FromSlash(name)))
		if err != nil {
			logger.Warn("could not preload image", "file", name, "error", err)
			return match
		}
		resolved[name] = uri
		return `src="` + uri + `"`
	})
}

func dataURI(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	mime := "image/" + ext
	switch ext {
	case "svg":
		mime = "image/svg+xml"
	case "jpg":
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// Template returns the cached template text.
func (c *Cache) Template(name string) (string, bool) {
	t, ok := c.templates[name]
	return t, ok
}

func (c *Cache) Career(name string) (domain.CatalogCareer, bool) {
	cc, ok := c.careers[name]
	return cc, ok
}

func (c *Cache) Recommendation(bucketName string) (string, bool) {
	r, ok := c.recommendations[bucketName]
	return r, ok
}

func (c *Cache) TraitDescription(code string) (string, bool) {
	d, ok := c.traits[code]
	return d, ok
}

// LogoSrc is the logo as a data URI, or its relative path when it could not
// be read at startup.
func (c *Cache) LogoSrc() string { return c.logoSrc }
