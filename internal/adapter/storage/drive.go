package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// ErrStudentIDRequired is returned when an upload has no student folder to go to.
var ErrStudentIDRequired = errors.New("studentID is required to upload to drive")

// DriveConfig locates the OAuth client and token files.
type DriveConfig struct {
	CredentialsPath string
	TokenPath       string
	RootFolder      string
}

// DriveUploader stores reports in Google Drive under
// <root folder>/<student id>/ and shares them publicly.
type DriveUploader struct {
	rootFolder string
	newService func(ctx context.Context) (*drive.Service, error)
	logger     *slog.Logger

	mu     sync.Mutex
	svc    *drive.Service
	rootID string
}

func NewDriveUploader(cfg DriveConfig, logger *slog.Logger) *DriveUploader {
	return newDriveUploader(cfg.RootFolder, func(ctx context.Context) (*drive.Service, error) {
		return serviceFromFiles(ctx, cfg.CredentialsPath, cfg.TokenPath)
	}, logger)
}

// NewDriveUploaderWithOptions builds the Drive client from explicit client
// options instead of the credential files.
func NewDriveUploaderWithOptions(rootFolder string, logger *slog.Logger, opts ...option.ClientOption) *DriveUploader {
	return newDriveUploader(rootFolder, func(ctx context.Context) (*drive.Service, error) {
		return drive.NewService(ctx, opts...)
	}, logger)
}

func newDriveUploader(rootFolder string, newService func(context.Context) (*drive.Service, error), logger *slog.Logger) *DriveUploader {
	if rootFolder == "" {
		rootFolder = "careerReports"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DriveUploader{rootFolder: rootFolder, newService: newService, logger: logger}
}

// Upload stores pdf as filename in the student's folder and returns its public download URL.
// Any failure drops the cached client and root folder id.
func (u *DriveUploader) Upload(ctx context.Context, pdf []byte, filename, studentID string) (string, error) {
	if studentID == "" {
		return "", ErrStudentIDRequired
	}
	link, err := u.upload(ctx, pdf, filename, studentID)
	if err != nil {
		u.mu.Lock()
		u.svc = nil
		u.rootID = ""
		u.mu.Unlock()
		u.logger.Error("drive upload failed", "student_id", studentID, "file", filename, "error", err)
		return "", fmt.Errorf("upload to drive: %w", err)
	}
	u.logger.Info("drive upload complete", "student_id", studentID, "file", filename, "url", link)
	return link, nil
}

func (u *DriveUploader) upload(ctx context.Context, pdf []byte, filename, studentID string) (string, error) {
	svc, rootID, err := u.root(ctx)
	if err != nil {
		return "", err
	}
	folderID, err := getOrCreateFolder(ctx, svc, studentID, rootID)
	if err != nil {
		return "", fmt.Errorf("student folder %q: %w", studentID, err)
	}

	f, err := svc.Files.Create(&drive.File{Name: filename, Parents: []string{folderID}}).
		Media(bytes.NewReader(pdf), googleapi.ContentType("application/pdf")).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := svc.Permissions.Create(f.Id, &drive.Permission{Role: "reader", Type: "anyone"}).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("share file: %w", err)
	}
	return PublicURL(f.Id), nil
}

func (u *DriveUploader) root(ctx context.Context) (*drive.Service, string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.svc == nil {
		svc, err := u.newService(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("drive client: %w", err)
		}
		u.svc = svc
	}
	if u.rootID == "" {
		id, err := getOrCreateFolder(ctx, u.svc, u.rootFolder, "")
		if err != nil {
			return nil, "", fmt.Errorf("root folder %q: %w", u.rootFolder, err)
		}
		u.rootID = id
		u.logger.Info("drive root folder ready", "folder", u.rootFolder, "id", id)
	}
	return u.svc, u.rootID, nil
}

// PublicURL is the direct download link for a shared Drive file.
func PublicURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/uc?id=%s&export=download", fileID)
}

func folderQuery(name, parentID string) string {
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), folderMimeType)
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}
	return q
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func getOrCreateFolder(ctx context.Context, svc *drive.Service, name, parentID string) (string, error) {
	list, err := svc.Files.List().Q(folderQuery(name, parentID)).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}
	created, err := svc.Files.Create(folder).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func serviceFromFiles(ctx context.Context, credentialsPath, tokenPath string) (*drive.Service, error) {
	creds, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(creds, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	tok, err := ReadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	return drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(context.Background(), tok)))
}

// tokenFile also accepts the millisecond expiry_date field some OAuth
// clients write instead of expiry.
type tokenFile struct {
	oauth2.Token
	ExpiryDate int64 `json:"expiry_date,omitempty"`
}

// ReadToken loads a stored OAuth token.
func ReadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	tok := tf.Token
	if tok.Expiry.IsZero() && tf.ExpiryDate > 0 {
		tok.Expiry = time.UnixMilli(tf.ExpiryDate)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, fmt.Errorf("token %s has no access or refresh token", path)
	}
	return &tok, nil
}

// WriteToken stores an OAuth token as JSON, replacing any existing file.
func WriteToken(path string, tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
