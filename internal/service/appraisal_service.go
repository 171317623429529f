package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/observability"
	"github.com/noah-isme/hris-go-api/internal/repository"
)

// Actor is the authenticated caller of an appraisal operation.
type Actor struct {
	ID            uint
	Role          models.Role
	CompanyID     uint
	CorrelationID string
}

func (a Actor) viewer() appraisal.Viewer {
	return appraisal.Viewer{ID: a.ID, Role: a.Role, CompanyID: a.CompanyID}
}

// AppraisalServiceConfig tunes bulk fan-out and caching.
type AppraisalServiceConfig struct {
	BulkConcurrency int
	SummaryCacheTTL time.Duration
}

// AppraisalService orchestrates the appraisal review workflow.
type AppraisalService interface {
	CreateBatch(ctx context.Context, actor Actor, req dto.AppraisalCreateRequest) (dto.AppraisalBulkCreateResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.AppraisalResponse, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.AppraisalUpdateRequest) (dto.AppraisalResponse, error)
	Approve(ctx context.Context, actor Actor, id uint) (dto.AppraisalResponse, error)
	Reject(ctx context.Context, actor Actor, id uint) (dto.AppraisalResponse, error)
	ListActivity(ctx context.Context, actor Actor, req dto.AppraisalListRequest) (dto.AppraisalListResponse, error)
	ListQueue(ctx context.Context, actor Actor, req dto.AppraisalListRequest) (dto.AppraisalListResponse, error)
	Summary(ctx context.Context, actor Actor, status string) (dto.AppraisalSummaryResponse, error)
}

type appraisalService struct {
	repo            repository.AppraisalRepository
	directory       DirectoryService
	notifier        Notifier
	activity        ActivityRecorder
	cache           *redis.Client
	summaryTTL      time.Duration
	bulkConcurrency int
	validator       *validator.Validate
	sanitizer       *bluemonday.Policy
	logger          zerolog.Logger
	tracer          trace.Tracer
	now             func() time.Time
}

// NewAppraisalService constructs the appraisal workflow service.
func NewAppraisalService(repo repository.AppraisalRepository, directory DirectoryService, notifier Notifier, activity ActivityRecorder, cache *redis.Client, cfg AppraisalServiceConfig, validate *validator.Validate, logger zerolog.Logger) AppraisalService {
	concurrency := cfg.BulkConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	ttl := cfg.SummaryCacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &appraisalService{
		repo:            repo,
		directory:       directory,
		notifier:        notifier,
		activity:        activity,
		cache:           cache,
		summaryTTL:      ttl,
		bulkConcurrency: concurrency,
		validator:       validate,
		sanitizer:       bluemonday.StrictPolicy(),
		logger:          logger.With().Str("component", "appraisal_service").Logger(),
		tracer:          otel.Tracer("github.com/noah-isme/hris-go-api/internal/service/appraisal"),
		now:             time.Now,
	}
}

func (s *appraisalService) CreateBatch(ctx context.Context, actor Actor, req dto.AppraisalCreateRequest) (dto.AppraisalBulkCreateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "appraisal.create_batch", trace.WithAttributes(
		attribute.String("actor.role", string(actor.Role)),
		attribute.Int64("appraisal.department_id", int64(req.DepartmentID)),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.AppraisalBulkCreateResponse{}, s.fail(span, fmt.Errorf("%w: %w", appraisal.ErrValidation, err))
	}

	objectives := dto.ToObjectives(req.Objectives)
	if err := appraisal.ValidateObjectiveSet(objectives); err != nil {
		return dto.AppraisalBulkCreateResponse{}, s.fail(span, err)
	}

	departmentID, leadID, err := s.resolveIssuer(ctx, actor, req)
	if err != nil {
		return dto.AppraisalBulkCreateResponse{}, s.fail(span, err)
	}

	roster, err := s.directory.DepartmentRoster(ctx, actor.CompanyID, departmentID)
	if err != nil {
		return dto.AppraisalBulkCreateResponse{}, s.fail(span, err)
	}
	if len(roster) == 0 {
		return dto.AppraisalBulkCreateResponse{}, s.fail(span, fmt.Errorf("%w: department has no employees", appraisal.ErrValidation))
	}

	title := s.clean(req.Title)
	period := s.clean(req.Period)

	type itemResult struct {
		record  *models.Appraisal
		failure *dto.BulkCreateFailure
	}
	results := make([]itemResult, len(roster))

	var group errgroup.Group
	group.SetLimit(s.bulkConcurrency)
	for i, employee := range roster {
		i, employee := i, employee
		group.Go(func() error {
			record := models.Appraisal{
				CompanyID:    actor.CompanyID,
				Title:        title,
				EmployeeID:   employee.ID,
				TeamLeadID:   leadID,
				DepartmentID: departmentID,
				Period:       period,
				DueDate:      req.DueDate.UTC(),
				Objectives:   append([]models.Objective(nil), objectives...),
				Status:       models.AppraisalStatusPending,
				ReviewLevel:  models.ReviewLevelTeamLead,
				Version:      1,
			}

			if err := s.repo.Create(ctx, &record); err != nil {
				results[i] = itemResult{failure: s.bulkFailure(employee.ID, err)}
				return nil
			}

			delivered, err := s.notifier.Notify(ctx, Dispatch{
				CompanyID:   actor.CompanyID,
				RecipientID: employee.ID,
				Type:        "appraisal_assigned",
				Title:       "New appraisal: " + title,
				Message:     fmt.Sprintf("A new appraisal for %s has been issued to you.", period),
				TemplateRef: TemplateAppraisalAssigned,
				TemplateData: map[string]interface{}{
					"Period":  period,
					"DueDate": record.DueDate.Format("2006-01-02"),
				},
			})
			if err != nil || !delivered {
				if err == nil {
					err = errors.New("notification not delivered")
				}
				results[i] = itemResult{failure: s.bulkFailure(employee.ID, fmt.Errorf("%w: %w", appraisal.ErrNotificationFailed, err))}
				return nil
			}

			results[i] = itemResult{record: &record}
			return nil
		})
	}
	_ = group.Wait()

	response := dto.AppraisalBulkCreateResponse{
		Created: make([]dto.AppraisalResponse, 0, len(roster)),
		Failed:  make([]dto.BulkCreateFailure, 0),
	}
	for _, result := range results {
		if result.record != nil {
			response.Created = append(response.Created, dto.NewAppraisalResponse(*result.record))
			observability.AppraisalBulkItems().WithLabelValues("created").Inc()
			continue
		}
		if result.failure != nil {
			response.Failed = append(response.Failed, *result.failure)
			observability.AppraisalBulkItems().WithLabelValues("failed").Inc()
		}
	}

	span.SetAttributes(
		attribute.Int("appraisal.created", len(response.Created)),
		attribute.Int("appraisal.failed", len(response.Failed)),
	)

	status := models.ActivityStatusSuccess
	if len(response.Failed) > 0 {
		status = models.ActivityStatusFailure
	}
	s.audit(ctx, actor, "appraisal.create_batch", status, nil, map[string]interface{}{
		"department_id": departmentID,
		"period":        period,
		"created":       len(response.Created),
		"failed":        len(response.Failed),
	})

	return response, nil
}

func (s *appraisalService) resolveIssuer(ctx context.Context, actor Actor, req dto.AppraisalCreateRequest) (uint, uint, error) {
	switch actor.Role {
	case models.RoleTeamLead:
		lead, err := s.directory.GetUser(ctx, actor.CompanyID, actor.ID)
		if err != nil {
			return 0, 0, directoryError(err)
		}
		if lead.DepartmentID == nil {
			return 0, 0, fmt.Errorf("%w: team lead has no department", appraisal.ErrValidation)
		}
		if req.DepartmentID != 0 && req.DepartmentID != *lead.DepartmentID {
			return 0, 0, fmt.Errorf("%w: team leads may only issue appraisals for their own department", appraisal.ErrForbidden)
		}
		return *lead.DepartmentID, actor.ID, nil
	case models.RoleHR, models.RoleAdmin:
		if req.DepartmentID == 0 {
			return 0, 0, fmt.Errorf("%w: department_id is required", appraisal.ErrValidation)
		}
		if req.TeamLeadID != 0 {
			lead, err := s.directory.GetUser(ctx, actor.CompanyID, req.TeamLeadID)
			if err != nil {
				return 0, 0, directoryError(err)
			}
			if lead.Role != models.RoleTeamLead {
				return 0, 0, fmt.Errorf("%w: team_lead_id does not reference a team lead", appraisal.ErrValidation)
			}
			if lead.DepartmentID == nil || *lead.DepartmentID != req.DepartmentID {
				return 0, 0, fmt.Errorf("%w: team lead does not belong to department %d", appraisal.ErrValidation, req.DepartmentID)
			}
			return req.DepartmentID, lead.ID, nil
		}
		lead, err := s.directory.DepartmentTeamLead(ctx, actor.CompanyID, req.DepartmentID)
		if err != nil {
			return 0, 0, directoryError(err)
		}
		return req.DepartmentID, lead.ID, nil
	default:
		return 0, 0, fmt.Errorf("%w: role %q cannot issue appraisals", appraisal.ErrForbidden, actor.Role)
	}
}

func (s *appraisalService) bulkFailure(employeeID uint, err error) *dto.BulkCreateFailure {
	reason := "failed to create appraisal"
	switch {
	case errors.Is(err, appraisal.ErrDuplicateAppraisal):
		reason = "appraisal already exists for period"
	case errors.Is(err, appraisal.ErrNotificationFailed):
		reason = "notification dispatch failed"
	}

	s.logger.Error().Err(err).Uint("employee_id", employeeID).Msg("bulk appraisal item failed")
	return &dto.BulkCreateFailure{EmployeeID: employeeID, Reason: reason}
}

func (s *appraisalService) Get(ctx context.Context, actor Actor, id uint) (dto.AppraisalResponse, error) {
	record, err := s.load(ctx, actor, id)
	if err != nil {
		return dto.AppraisalResponse{}, err
	}
	return dto.NewAppraisalResponse(record), nil
}

func (s *appraisalService) Update(ctx context.Context, actor Actor, id uint, req dto.AppraisalUpdateRequest) (dto.AppraisalResponse, error) {
	ctx, span := s.tracer.Start(ctx, "appraisal.update", trace.WithAttributes(
		attribute.Int64("appraisal.id", int64(id)),
		attribute.String("actor.role", string(actor.Role)),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return s.updateFailed(ctx, span, actor, id, fmt.Errorf("%w: %w", appraisal.ErrValidation, err))
	}

	record, err := s.load(ctx, actor, id)
	if err != nil {
		return s.updateFailed(ctx, span, actor, id, err)
	}

	patch := s.sanitizePatch(req.ToPatch())
	next, err := appraisal.Apply(record, actor.Role, patch)
	if err != nil {
		return s.updateFailed(ctx, span, actor, id, err)
	}

	if err := s.repo.Update(ctx, &next, record.Version); err != nil {
		return s.updateFailed(ctx, span, actor, id, err)
	}

	observability.AppraisalUpdates().WithLabelValues(string(actor.Role), "success").Inc()
	span.SetAttributes(attribute.String("appraisal.status", string(next.Status)))

	metadata := map[string]interface{}{"version": next.Version}
	if next.Status != record.Status {
		metadata["status_from"] = string(record.Status)
		metadata["status_to"] = string(next.Status)
		s.notifyStatusChange(ctx, actor, next)
	}
	s.audit(ctx, actor, "appraisal.update", models.ActivityStatusSuccess, &next.ID, metadata)

	return dto.NewAppraisalResponse(next), nil
}

func (s *appraisalService) updateFailed(ctx context.Context, span trace.Span, actor Actor, id uint, err error) (dto.AppraisalResponse, error) {
	observability.AppraisalUpdates().WithLabelValues(string(actor.Role), "rejected").Inc()
	s.audit(ctx, actor, "appraisal.update", models.ActivityStatusFailure, &id, map[string]interface{}{"error": errorKind(err)})
	return dto.AppraisalResponse{}, s.fail(span, err)
}

// notifyStatusChange tells the party who has to act next. Delivery is advisory.
func (s *appraisalService) notifyStatusChange(ctx context.Context, actor Actor, record models.Appraisal) {
	var recipient uint
	switch record.Status {
	case models.AppraisalStatusSubmitted:
		recipient = record.TeamLeadID
	case models.AppraisalStatusNeedsRevision, models.AppraisalStatusSentToEmployee:
		recipient = record.EmployeeID
	default:
		return
	}
	if recipient == actor.ID {
		return
	}

	data := map[string]interface{}{"Status": string(record.Status), "AppraisalTitle": record.Title}
	if record.RevisionReason != "" {
		data["RevisionReason"] = record.RevisionReason
	}
	s.advisory(ctx, Dispatch{
		CompanyID:    record.CompanyID,
		RecipientID:  recipient,
		Type:         "appraisal_status_changed",
		Title:        "Appraisal updated: " + record.Title,
		Message:      fmt.Sprintf("The appraisal %q is now %s.", record.Title, strings.ReplaceAll(string(record.Status), "_", " ")),
		TemplateRef:  TemplateAppraisalStatusChanged,
		TemplateData: data,
	})
}

func (s *appraisalService) Approve(ctx context.Context, actor Actor, id uint) (dto.AppraisalResponse, error) {
	return s.decide(ctx, actor, id, models.ReviewActionApproved)
}

func (s *appraisalService) Reject(ctx context.Context, actor Actor, id uint) (dto.AppraisalResponse, error) {
	return s.decide(ctx, actor, id, models.ReviewActionRejected)
}

func (s *appraisalService) decide(ctx context.Context, actor Actor, id uint, action models.ReviewAction) (dto.AppraisalResponse, error) {
	spanName := "appraisal.approve"
	auditAction := "appraisal.approve"
	if action == models.ReviewActionRejected {
		spanName = "appraisal.reject"
		auditAction = "appraisal.reject"
	}

	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.Int64("appraisal.id", int64(id)),
		attribute.String("actor.role", string(actor.Role)),
	))
	defer span.End()

	failed := func(err error) (dto.AppraisalResponse, error) {
		s.audit(ctx, actor, auditAction, models.ActivityStatusFailure, &id, map[string]interface{}{"error": errorKind(err)})
		return dto.AppraisalResponse{}, s.fail(span, err)
	}

	record, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return failed(err)
	}

	reviewer := appraisal.Reviewer{ID: actor.ID, Role: actor.Role}
	var transition appraisal.Transition
	if action == models.ReviewActionApproved {
		transition, err = appraisal.Approve(record, reviewer, s.now())
	} else {
		transition, err = appraisal.Reject(record, reviewer, s.now())
	}
	if err != nil {
		return failed(err)
	}

	if transition.Outcome != appraisal.OutcomeEscalated {
		if err := s.notifyDecision(ctx, transition); err != nil {
			return failed(err)
		}
	}

	next := transition.Record
	entry := transition.Entry
	if err := s.repo.ApplyReview(ctx, &next, &entry, record.Version); err != nil {
		return failed(err)
	}

	if transition.Outcome == appraisal.OutcomeEscalated {
		s.notifyEscalation(ctx, next)
	}

	observability.AppraisalTransitions().WithLabelValues(string(action), string(transition.Level)).Inc()
	span.SetAttributes(attribute.String("appraisal.outcome", string(transition.Outcome)))
	s.audit(ctx, actor, auditAction, models.ActivityStatusSuccess, &next.ID, map[string]interface{}{
		"level":   string(transition.Level),
		"outcome": string(transition.Outcome),
		"version": next.Version,
	})

	return dto.NewAppraisalResponse(next), nil
}

// notifyDecision informs the employee of a terminal decision. It must succeed before the decision is stored.
func (s *appraisalService) notifyDecision(ctx context.Context, transition appraisal.Transition) error {
	record := transition.Record
	dispatch := Dispatch{
		CompanyID:   record.CompanyID,
		RecipientID: record.EmployeeID,
		Type:        "appraisal_approved",
		Title:       "Appraisal approved: " + record.Title,
		Message:     fmt.Sprintf("Your appraisal %q has been fully approved.", record.Title),
		TemplateRef: TemplateAppraisalApproved,
		TemplateData: map[string]interface{}{
			"FinalScore": record.TotalScore.Final,
		},
	}
	if transition.Outcome == appraisal.OutcomeRejected {
		dispatch.Type = "appraisal_rejected"
		dispatch.Title = "Appraisal rejected: " + record.Title
		dispatch.Message = fmt.Sprintf("Your appraisal %q has been rejected.", record.Title)
		dispatch.TemplateRef = TemplateAppraisalRejected
		dispatch.TemplateData = map[string]interface{}{"RevisionReason": record.RevisionReason}
	}

	delivered, err := s.notifier.Notify(ctx, dispatch)
	if err != nil {
		return fmt.Errorf("%w: %w", appraisal.ErrNotificationFailed, err)
	}
	if !delivered {
		return appraisal.ErrNotificationFailed
	}
	return nil
}

// notifyEscalation tells HR that a record awaits their review. Delivery is advisory.
func (s *appraisalService) notifyEscalation(ctx context.Context, record models.Appraisal) {
	reviewers, err := s.directory.UsersByRole(ctx, record.CompanyID, models.RoleHR)
	if err != nil {
		s.logger.Warn().Err(err).Uint("appraisal_id", record.ID).Msg("failed to resolve hr reviewers")
		return
	}

	for _, reviewer := range reviewers {
		s.advisory(ctx, Dispatch{
			CompanyID:    record.CompanyID,
			RecipientID:  reviewer.ID,
			Type:         "appraisal_escalated",
			Title:        "Appraisal awaiting HR review",
			Message:      fmt.Sprintf("The appraisal %q was approved by the team lead.", record.Title),
			TemplateRef:  TemplateAppraisalEscalated,
			TemplateData: map[string]interface{}{"AppraisalTitle": record.Title},
		})
	}
}

func (s *appraisalService) advisory(ctx context.Context, dispatch Dispatch) {
	if _, err := s.notifier.Notify(ctx, dispatch); err != nil {
		s.logger.Warn().Err(err).Str("type", dispatch.Type).Uint("recipient_id", dispatch.RecipientID).Msg("advisory notification failed")
	}
}

func (s *appraisalService) ListActivity(ctx context.Context, actor Actor, req dto.AppraisalListRequest) (dto.AppraisalListResponse, error) {
	return s.list(ctx, "appraisal.list_activity", appraisal.ActivityFilter(actor.viewer(), req.Status), req)
}

func (s *appraisalService) ListQueue(ctx context.Context, actor Actor, req dto.AppraisalListRequest) (dto.AppraisalListResponse, error) {
	return s.list(ctx, "appraisal.list_queue", appraisal.QueueFilter(actor.viewer(), req.Status), req)
}

func (s *appraisalService) list(ctx context.Context, spanName string, filter appraisal.Filter, req dto.AppraisalListRequest) (dto.AppraisalListResponse, error) {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	page, pageSize := dto.NormalizePage(req.Page, req.PageSize)
	records, total, err := s.repo.List(ctx, repository.AppraisalListFilter{Filter: filter, Page: page, PageSize: pageSize})
	if err != nil {
		return dto.AppraisalListResponse{}, s.fail(span, err)
	}

	span.SetAttributes(attribute.Int64("appraisal.total", total))
	return dto.AppraisalListResponse{
		Items:      dto.NewAppraisalResponseSlice(records),
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *appraisalService) Summary(ctx context.Context, actor Actor, status string) (dto.AppraisalSummaryResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	cacheKey := fmt.Sprintf("appraisal:summary:%d:%s:%d:%s", actor.CompanyID, actor.Role, actor.ID, status)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.AppraisalSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read appraisal summary cache")
		}
	}

	counts, err := s.repo.CountByStatus(ctx, appraisal.ActivityFilter(actor.viewer(), status))
	if err != nil {
		return dto.AppraisalSummaryResponse{}, err
	}

	response := dto.AppraisalSummaryResponse{ByStatus: map[string]int64{}}
	for _, count := range counts {
		response.ByStatus[string(count.Status)] = count.Total
		response.Total += count.Total
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.summaryTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store appraisal summary cache")
			}
		}
	}

	return response, nil
}

// load fetches a record the actor may see. Records of other tenants are not found.
func (s *appraisalService) load(ctx context.Context, actor Actor, id uint) (models.Appraisal, error) {
	record, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return models.Appraisal{}, err
	}
	if !appraisal.CanAccess(actor.viewer(), record) {
		return models.Appraisal{}, appraisal.ErrForbidden
	}
	return record, nil
}

func (s *appraisalService) sanitizePatch(patch appraisal.Patch) appraisal.Patch {
	patch.Title = s.cleanPtr(patch.Title)
	patch.Period = s.cleanPtr(patch.Period)
	patch.RevisionReason = s.cleanPtr(patch.RevisionReason)

	if len(patch.Objectives) > 0 {
		objectives := make([]appraisal.ObjectivePatch, len(patch.Objectives))
		for i, objective := range patch.Objectives {
			objective.EmployeeComments = s.cleanPtr(objective.EmployeeComments)
			objective.TeamLeadComments = s.cleanPtr(objective.TeamLeadComments)
			objectives[i] = objective
		}
		patch.Objectives = objectives
	}

	for i := range patch.ObjectiveSet {
		patch.ObjectiveSet[i].Description = s.clean(patch.ObjectiveSet[i].Description)
	}

	return patch
}

func (s *appraisalService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func (s *appraisalService) cleanPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := s.clean(*value)
	return &cleaned
}

func (s *appraisalService) audit(ctx context.Context, actor Actor, action, status string, entityID *uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	if actor.CorrelationID != "" {
		metadata["correlation_id"] = actor.CorrelationID
	}

	_, _ = s.activity.Record(ctx, ActivityEntry{
		CompanyID:  actor.CompanyID,
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     action,
		Status:     status,
		EntityType: "appraisal",
		EntityID:   entityID,
		Metadata:   metadata,
	})
}

func (s *appraisalService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, errorKind(err))
	return err
}

func directoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDirectoryEntryNotFound):
		return fmt.Errorf("%w: %w", appraisal.ErrNotFound, err)
	case errors.Is(err, ErrDepartmentHasNoLead):
		return fmt.Errorf("%w: %w", appraisal.ErrValidation, err)
	default:
		return err
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, appraisal.ErrValidation):
		return "validation"
	case errors.Is(err, appraisal.ErrNotFound):
		return "not_found"
	case errors.Is(err, appraisal.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, appraisal.ErrConflict):
		return "conflict"
	case errors.Is(err, appraisal.ErrDependency):
		return "dependency"
	default:
		return "internal"
	}
}
