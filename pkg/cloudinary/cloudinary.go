package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// Config holds the account credentials and the root folder evidence is filed under.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Storage files appraisal evidence in Cloudinary, one folder per tenant and appraisal.
type Storage struct {
	client *cloudinary.Cloudinary
	root   string
	logger zerolog.Logger
	now    func() time.Time
}

// New validates the credentials and builds a storage client.
func New(cfg Config, logger zerolog.Logger) (*Storage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and api secret are required")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: init client: %w", err)
	}

	return &Storage{
		client: client,
		root:   strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "evidence_storage").Logger(),
		now:    time.Now,
	}, nil
}

// Store uploads the evidence and returns its secure URL. Assets are tagged with the tenant and
// appraisal so they can be purged together.
func (s *Storage) Store(ctx context.Context, object models.EvidenceObject) (string, error) {
	if object.Body == nil {
		return "", errors.New("cloudinary: evidence body is empty")
	}

	folder := strings.Trim(path.Join(s.root, object.Key()), "/")
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       PublicID(object.FileName, s.now()),
		ResourceType:   "auto",
		Overwrite:      api.Bool(false),
		UniqueFilename: api.Bool(false),
		Tags: api.CldAPIArray{
			"company-" + strconv.FormatUint(uint64(object.CompanyID), 10),
			"appraisal-" + strconv.FormatUint(uint64(object.AppraisalID), 10),
		},
		Context: api.CldAPIMap{
			"objective": object.ObjectiveID,
			"sha256":    object.Checksum,
		},
	}

	result, err := s.client.Upload.Upload(ctx, object.Body, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload %s: %w", object.FileName, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: upload %s: %s", object.FileName, result.Error.Message)
	}

	s.logger.Info().
		Uint("company_id", object.CompanyID).
		Uint("appraisal_id", object.AppraisalID).
		Str("objective_id", object.ObjectiveID).
		Str("public_id", result.PublicID).
		Int("bytes", result.Bytes).
		Msg("evidence stored")

	return result.SecureURL, nil
}

// PublicID turns a file name into a lower-case, dash separated asset id suffixed with the upload time.
func PublicID(name string, at time.Time) string {
	stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))

	var b strings.Builder
	dash := false
	for _, r := range stem {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	base := strings.TrimSuffix(b.String(), "-")
	if base == "" {
		base = "evidence"
	}
	return base + "-" + strconv.FormatInt(at.Unix(), 10)
}
