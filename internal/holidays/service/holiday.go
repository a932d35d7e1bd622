package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	holidayserrors "holidayplanner/internal/holidays/errors"
	"holidayplanner/internal/holidays/repository"
	"holidayplanner/internal/holidays/validator"
	"holidayplanner/pkg/auth"
	"holidayplanner/pkg/config"
	apperrors "holidayplanner/pkg/errors"
	"holidayplanner/pkg/model"
	"holidayplanner/pkg/sanitizer"
)

const (
	MsgDeleted           = "Holiday deleted"
	MsgSubscribed        = "Subscribed to holiday successfully"
	MsgAlreadySubscribed = "Already subscribed to this holiday"
)

// Notifier fans a holiday change out to its subscribers. Implementations
// must not block the caller.
type Notifier interface {
	NotifySubscribers(ctx context.Context, h *model.Holiday) []string
}

type HolidayService interface {
	List(ctx context.Context, actor auth.Actor, sortKey string) ([]model.HolidayView, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*model.HolidayView, error)
	Create(ctx context.Context, actor auth.Actor, in *model.HolidayInput) (*model.Holiday, error)
	Update(ctx context.Context, actor auth.Actor, id string, updates *model.HolidayUpdate) (*model.Holiday, error)
	Delete(ctx context.Context, actor auth.Actor, id string) error
	Subscribe(ctx context.Context, actor auth.Actor, id string) (int, error)
	Clone(ctx context.Context, actor auth.Actor, id string) (*model.Holiday, error)
}

type holidayService struct {
	repo      repository.HolidayRepository
	validator *validator.HolidayValidator
	notifier  Notifier
	cfg       *config.Config
}

func NewHolidayService(
	repo repository.HolidayRepository,
	validator *validator.HolidayValidator,
	notifier Notifier,
	cfg *config.Config,
) HolidayService {
	return &holidayService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *holidayService) List(ctx context.Context, actor auth.Actor, sortKey string) ([]model.HolidayView, error) {
	strategy := repository.ResolveSort(sortKey)

	holidays, err := s.repo.FindByOwner(ctx, actor.ID, strategy)
	if err != nil {
		s.cfg.Log.Error("Failed to list holidays",
			"owner_id", actor.ID,
			"sort", strategy.Name,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve holidays", err)
	}

	// The store already orders by strategy.Fields; sorting again keeps the
	// result independent of the backing implementation.
	sort.SliceStable(holidays, func(i, j int) bool {
		return strategy.Less(holidays[i], holidays[j])
	})

	views := make([]model.HolidayView, 0, len(holidays))
	for _, h := range holidays {
		views = append(views, model.Decorate(h))
	}
	return views, nil
}

func (s *holidayService) Get(ctx context.Context, actor auth.Actor, id string) (*model.HolidayView, error) {
	h, err := s.find(ctx, id, "Failed to retrieve holiday")
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, h, ActionRead); err != nil {
		return nil, err
	}

	view := model.Decorate(h)
	if !canSeeSubscribers(actor, h) {
		view = view.Redacted()
	}
	return &view, nil
}

func (s *holidayService) Create(ctx context.Context, actor auth.Actor, in *model.HolidayInput) (*model.Holiday, error) {
	s.sanitize(in)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Holiday validation failed",
			"name", in.Name,
			"owner_id", actor.ID,
			"error", err,
		)
		return nil, validationError(err)
	}

	h, err := model.NewHoliday(in, actor.ID)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if errs := h.CheckInvariants(); len(errs) > 0 {
		return nil, validationError(errs)
	}

	if err := s.repo.Create(ctx, h); err != nil {
		s.cfg.Log.Error("Failed to create holiday",
			"name", h.Name,
			"owner_id", actor.ID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create holiday", err)
	}

	s.cfg.Log.Info("Holiday created successfully",
		"id", h.ID,
		"name", h.Name,
		"owner_id", h.OwnerID,
	)
	return h, nil
}

// Update reports NotFound before Forbidden, so callers can tell that an id
// exists even when they may not touch it.
func (s *holidayService) Update(ctx context.Context, actor auth.Actor, id string, updates *model.HolidayUpdate) (*model.Holiday, error) {
	existing, err := s.find(ctx, id, "Failed to check holiday existence")
	if err != nil {
		return nil, err
	}

	if err := Authorize(actor, existing, ActionUpdate); err != nil {
		s.cfg.Log.Warn("Holiday update denied",
			"id", id,
			"actor_id", actor.ID,
		)
		return nil, err
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Holiday validation failed",
			"id", id,
			"error", err,
		)
		return nil, validationError(err)
	}

	merged, err := existing.Merge(updates)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if errs := merged.CheckInvariants(); len(errs) > 0 {
		s.cfg.Log.Warn("Holiday update breaks invariants",
			"id", id,
			"error", errs,
		)
		return nil, validationError(errs)
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, holidayserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Holiday", id)
		}
		s.cfg.Log.Error("Failed to update holiday",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update holiday", err)
	}

	notified := s.notifier.NotifySubscribers(ctx, updated)
	s.cfg.Log.Info("Holiday updated successfully",
		"id", id,
		"subscribers_notified", len(notified),
	)
	return updated, nil
}

func (s *holidayService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	existing, err := s.find(ctx, id, "Failed to check holiday existence")
	if err != nil {
		return err
	}

	if err := Authorize(actor, existing, ActionDelete); err != nil {
		s.cfg.Log.Warn("Holiday delete denied",
			"id", id,
			"actor_id", actor.ID,
		)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, holidayserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Holiday", id)
		}
		s.cfg.Log.Error("Failed to delete holiday",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete holiday", err)
	}

	s.cfg.Log.Info("Holiday deleted successfully",
		"id", id,
		"actor_id", actor.ID,
		"admin", actor.IsAdmin() && actor.ID != existing.OwnerID,
	)
	return nil
}

// Subscribe returns the new subscriber count, never the list itself.
func (s *holidayService) Subscribe(ctx context.Context, actor auth.Actor, id string) (int, error) {
	existing, err := s.find(ctx, id, "Failed to check holiday existence")
	if err != nil {
		return 0, err
	}
	if err := Authorize(actor, existing, ActionSubscribe); err != nil {
		return 0, err
	}

	h, err := s.repo.AddSubscriber(ctx, id, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, holidayserrors.ErrAlreadySubscribed):
			return 0, apperrors.AlreadySubscribed(MsgAlreadySubscribed)
		case errors.Is(err, holidayserrors.ErrNotFound):
			return 0, apperrors.NotFoundWithID("Holiday", id)
		case errors.Is(err, holidayserrors.ErrInvalidID):
			return 0, apperrors.InvalidInput("Invalid holiday ID format")
		}
		s.cfg.Log.Error("Failed to subscribe to holiday",
			"id", id,
			"actor_id", actor.ID,
			"error", err,
		)
		return 0, apperrors.Internal("Failed to subscribe to holiday", err)
	}

	s.cfg.Log.Info("Subscribed to holiday",
		"id", id,
		"actor_id", actor.ID,
		"subscriber_count", len(h.Subscribers),
	)
	return len(h.Subscribers), nil
}

func (s *holidayService) Clone(ctx context.Context, actor auth.Actor, id string) (*model.Holiday, error) {
	source, err := s.find(ctx, id, "Failed to check holiday existence")
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, source, ActionClone); err != nil {
		return nil, err
	}

	clone, err := s.repo.CloneFrom(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, holidayserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Holiday", id)
		case errors.Is(err, holidayserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid holiday ID format")
		}
		s.cfg.Log.Error("Failed to clone holiday",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to clone holiday", err)
	}

	s.cfg.Log.Info("Holiday cloned successfully",
		"id", clone.ID,
		"cloned_from", id,
		"actor_id", actor.ID,
	)
	return clone, nil
}

func (s *holidayService) find(ctx context.Context, id, failure string) (*model.Holiday, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("Holiday ID cannot be empty")
	}

	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, holidayserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Holiday", id)
		}
		if errors.Is(err, holidayserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid holiday ID format")
		}
		s.cfg.Log.Error(failure,
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal(failure, err)
	}
	return h, nil
}

func (s *holidayService) sanitize(in *model.HolidayInput) {
	in.Name = sanitizer.TrimAndNormalize(in.Name)
	in.Destination = sanitizer.TrimAndNormalize(in.Destination)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Description = strings.TrimSpace(in.Description)
	in.ExpectedWeather = sanitizer.TrimAndNormalize(in.ExpectedWeather)
	if in.BudgetLimit != nil {
		rounded := sanitizer.RoundAmount(*in.BudgetLimit)
		in.BudgetLimit = &rounded
	}
}

func (s *holidayService) sanitizeUpdate(u *model.HolidayUpdate) {
	sanitizer.NormalizeOptional(u.Name)
	sanitizer.NormalizeOptional(u.Destination)
	sanitizer.NormalizeOptional(u.ExpectedWeather)
	trimOptional(u.StartDate)
	trimOptional(u.EndDate)
	trimOptional(u.Description)
	if u.BudgetLimit != nil {
		rounded := sanitizer.RoundAmount(*u.BudgetLimit)
		u.BudgetLimit = &rounded
	}
}

func trimOptional(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// validationError turns field errors into a single 422 listing every field.
func validationError(err error) error {
	var errs model.FieldErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return apperrors.Validation("Holiday validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	message := errs[0].Message
	if missing := validator.MissingFields(errs); len(missing) > 0 {
		message = fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	return apperrors.Validation(message, map[string]any{
		"fields": errs.Fields(),
		"errors": []model.FieldError(errs),
	})
}
