package service

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/observability"
	"github.com/noah-isme/hris-go-api/internal/repository"
)

var (
	// ErrEvidenceTooLarge indicates the payload exceeded the configured limit.
	ErrEvidenceTooLarge = fmt.Errorf("%w: file exceeds maximum allowed size", appraisal.ErrValidation)
	// ErrEvidenceTypeNotAllowed indicates the detected MIME type is not permitted.
	ErrEvidenceTypeNotAllowed = fmt.Errorf("%w: file type not allowed", appraisal.ErrValidation)
	// ErrEvidenceScanFailed indicates the archive structure could not be validated.
	ErrEvidenceScanFailed = fmt.Errorf("%w: file scanning failed", appraisal.ErrValidation)
	// ErrStorageUnavailable indicates no evidence storage is configured.
	ErrStorageUnavailable = fmt.Errorf("%w: evidence storage unavailable", appraisal.ErrDependency)
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var allowedEvidenceTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	docxMime:          {},
}

// EvidenceStorage persists evidence files and returns a URL the frontend can fetch them from.
type EvidenceStorage interface {
	Store(ctx context.Context, object models.EvidenceObject) (string, error)
}

// EvidenceService validates evidence files and attaches them to appraisal objectives.
type EvidenceService interface {
	Attach(ctx context.Context, actor Actor, appraisalID uint, objectiveID string, file *multipart.FileHeader) (dto.EvidenceResponse, error)
}

type evidenceService struct {
	repo     repository.AppraisalRepository
	storage  EvidenceStorage
	activity ActivityRecorder
	logger   zerolog.Logger
	maxSize  int64
	tracer   trace.Tracer
}

// NewEvidenceService constructs an evidence service. storage may be nil, in which case uploads fail.
func NewEvidenceService(repo repository.AppraisalRepository, storage EvidenceStorage, activity ActivityRecorder, maxSizeBytes int64, logger zerolog.Logger) EvidenceService {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 10 * 1024 * 1024
	}
	return &evidenceService{
		repo:     repo,
		storage:  storage,
		activity: activity,
		logger:   logger.With().Str("component", "evidence_service").Logger(),
		maxSize:  maxSizeBytes,
		tracer:   otel.Tracer("github.com/noah-isme/hris-go-api/internal/service/evidence"),
	}
}

func (s *evidenceService) Attach(ctx context.Context, actor Actor, appraisalID uint, objectiveID string, file *multipart.FileHeader) (dto.EvidenceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "appraisal.evidence", trace.WithAttributes(
		attribute.Int64("appraisal.id", int64(appraisalID)),
		attribute.String("appraisal.objective_id", objectiveID),
		attribute.Int64("upload.max_bytes", s.maxSize),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.EvidenceUploadLatency().Observe(time.Since(start).Seconds())
	}()

	reject := func(result string, err error) (dto.EvidenceResponse, error) {
		observability.EvidenceUploads().WithLabelValues(result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		s.record(ctx, actor, appraisalID, models.ActivityStatusFailure, map[string]interface{}{"reason": result})
		return dto.EvidenceResponse{}, err
	}

	if file == nil {
		return reject("validation", fmt.Errorf("%w: file is required", appraisal.ErrValidation))
	}
	objectiveID = strings.TrimSpace(objectiveID)
	if objectiveID == "" {
		return reject("validation", fmt.Errorf("%w: objective_id is required", appraisal.ErrValidation))
	}

	record, err := s.repo.FindByID(ctx, actor.CompanyID, appraisalID)
	if err != nil {
		return reject("lookup", err)
	}
	if actor.Role != models.RoleEmployee || record.EmployeeID != actor.ID {
		return reject("forbidden", fmt.Errorf("%w: only the appraised employee may attach evidence", appraisal.ErrForbidden))
	}
	if record.Status.IsClosed() {
		return reject("closed", appraisal.ErrAppraisalClosed)
	}
	idx := record.ObjectiveByID(objectiveID)
	if idx < 0 {
		return reject("objective", fmt.Errorf("%w: objective %q", appraisal.ErrNotFound, objectiveID))
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)
	if file.Size > s.maxSize {
		return reject("size", ErrEvidenceTooLarge)
	}

	handle, err := file.Open()
	if err != nil {
		return reject("read", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return reject("read", err)
	}
	if int64(buf.Len()) > s.maxSize {
		return reject("size", ErrEvidenceTooLarge)
	}

	fileType := mimetype.Detect(buf.Bytes()).String()
	if semi := strings.Index(fileType, ";"); semi >= 0 {
		fileType = fileType[:semi]
	}
	span.SetAttributes(attribute.String("upload.detected_mime", fileType))
	if _, ok := allowedEvidenceTypes[fileType]; !ok {
		return reject("type", ErrEvidenceTypeNotAllowed)
	}
	if err := s.scan(buf.Bytes(), fileType); err != nil {
		return reject("scan", err)
	}

	if s.storage == nil {
		return reject("storage", ErrStorageUnavailable)
	}

	checksum := sha256.Sum256(buf.Bytes())
	name := sanitizeFileName(file.Filename)
	url, err := s.storage.Store(ctx, models.EvidenceObject{
		CompanyID:   record.CompanyID,
		AppraisalID: record.ID,
		ObjectiveID: objectiveID,
		FileName:    name,
		MimeType:    fileType,
		Checksum:    hex.EncodeToString(checksum[:]),
		Body:        bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return reject("storage", fmt.Errorf("%w: %w", appraisal.ErrDependency, err))
	}

	next := record
	next.Objectives = append([]models.Objective(nil), record.Objectives...)
	next.Objectives[idx].Evidence = url
	if err := s.repo.Update(ctx, &next, record.Version); err != nil {
		return reject("persistence", err)
	}

	observability.EvidenceUploads().WithLabelValues("stored").Inc()
	span.SetStatus(codes.Ok, "stored")
	s.record(ctx, actor, appraisalID, models.ActivityStatusSuccess, map[string]interface{}{
		"objective_id": objectiveID,
		"mime_type":    fileType,
		"size_bytes":   buf.Len(),
	})

	return dto.EvidenceResponse{
		ObjectiveID: objectiveID,
		URL:         url,
		FileName:    name,
		MimeType:    fileType,
		SizeBytes:   int64(buf.Len()),
		Checksum:    hex.EncodeToString(checksum[:]),
		Appraisal:   dto.NewAppraisalResponse(next),
	}, nil
}

// scan bounds the uncompressed size of zip-based documents.
func (s *evidenceService) scan(payload []byte, mime string) error {
	if mime != docxMime {
		return nil
	}
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return ErrEvidenceScanFailed
	}
	var totalUncompressed uint64
	for _, f := range reader.File {
		totalUncompressed += f.UncompressedSize64
		if totalUncompressed > uint64(s.maxSize*20) {
			return fmt.Errorf("archive uncompressed size too large: %w", ErrEvidenceScanFailed)
		}
	}
	return nil
}

func (s *evidenceService) record(ctx context.Context, actor Actor, appraisalID uint, status string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if actor.CorrelationID != "" {
		metadata["correlation_id"] = actor.CorrelationID
	}
	id := appraisalID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		CompanyID:  actor.CompanyID,
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     "appraisal.evidence",
		Status:     status,
		EntityType: "appraisal",
		EntityID:   &id,
		Metadata:   metadata,
	})
}

func sanitizeFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("evidence-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}
