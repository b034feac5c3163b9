package registration

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/sharktamer/gtsnotifier/pkg/app/errors"
	"github.com/sharktamer/gtsnotifier/pkg/config"
	"github.com/sharktamer/gtsnotifier/pkg/gts"
	"github.com/sharktamer/gtsnotifier/pkg/notify"
	"github.com/sharktamer/gtsnotifier/pkg/watch"
	"github.com/sharktamer/gtsnotifier/pkg/watchstore"
)

// Notification texts sent on lifecycle events. Delivery is best effort and
// never rolls back the store operation.
const (
	welcomeMessage = "Your profile has been added successfully"
	removalMessage = "Your profile has been removed successfully"
)

var (
	ErrEmptyInput         = errors.New("profile id and destination are required")
	ErrDuplicateProfile   = errors.New("profile already registered")
	ErrInvalidProfile     = errors.New("profile does not exist or is not public")
	ErrInvalidDestination = errors.New("destination rejected by notification channel")
	ErrScrapeFailed       = errors.New("profile page missing expected identifiers")
	ErrNotFound           = errors.New("profile not registered")
)

// Store is the narrow data-access interface for the registration service.
// Defined here to keep the service decoupled from watchstore implementation details.
type Store interface {
	EntryExists(ctx context.Context, profileID string) (bool, error)
	CreateEntry(ctx context.Context, entry *watch.Entry) error
	GetEntry(ctx context.Context, profileID string) (*watch.Entry, error)
	DeleteEntry(ctx context.Context, profileID string) error
}

// ProfileFetcher fetches public profile pages from the game service.
type ProfileFetcher interface {
	FetchProfilePage(ctx context.Context, profileID string) (*gts.ProfilePage, error)
}

// Service defines the interface for the registration business logic
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Remove(ctx context.Context, profileID string) error
}

type registrationService struct {
	store    Store
	profiles ProfileFetcher
	registry *notify.Registry
	cfg      *config.RegistrationConfig
	logger   *zap.Logger
}

// NewService creates a new registration service
func NewService(
	store Store,
	profiles ProfileFetcher,
	registry *notify.Registry,
	cfg *config.RegistrationConfig,
	logger *zap.Logger,
) Service {
	return &registrationService{
		store:    store,
		profiles: profiles,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register admits a new watch entry after validating it end to end.
//
// The admission pipeline, in order:
//  1. Rejects empty profile id or destination
//  2. Rejects a profile that is already watched
//  3. Fetches the public profile page; a redirect to the service root
//     means the profile does not exist or is private
//  4. Validates the destination with the chosen channel's dispatcher
//  5. Scrapes the account and savedata identifiers from the page
//  6. Stores the entry with an unset watermark
//
// After the entry is stored a welcome notification is sent best effort;
// a delivery failure is logged but does not undo the registration.
func (s *registrationService) Register(
	ctx context.Context,
	req *RegisterRequest,
) (*RegisterResponse, error) {
	if req.ProfileID == "" || req.Destination == "" {
		return nil, apperrors.BadRequestError(ErrEmptyInput, "profile_id and destination are required")
	}

	channel := watch.Channel(req.Channel)
	if !channel.Valid() {
		return nil, apperrors.BadRequestError(nil, fmt.Sprintf("unknown channel %q", req.Channel))
	}

	dispatcher, err := s.registry.Get(channel)
	if err != nil {
		return nil, apperrors.BadRequestError(err, fmt.Sprintf("channel %q is not configured", req.Channel))
	}

	exists, err := s.store.EntryExists(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check entry existence: %w", err)
	}
	if exists {
		return nil, apperrors.ConflictError(ErrDuplicateProfile, "profile already registered")
	}

	page, err := s.profiles.FetchProfilePage(ctx, req.ProfileID)
	if err != nil {
		return nil, apperrors.DependencyFailureError(err, "failed to fetch profile page")
	}
	if page.RedirectedToRoot() {
		return nil, apperrors.BadRequestError(ErrInvalidProfile, "profile does not exist or is not public")
	}

	if err := dispatcher.Validate(ctx, req.Destination); err != nil {
		return nil, apperrors.BadRequestError(
			fmt.Errorf("%w: %w", ErrInvalidDestination, err),
			"destination rejected by notification channel")
	}

	accountID, saveDataID, err := page.Scrape()
	if err != nil {
		return nil, apperrors.DependencyFailureError(
			fmt.Errorf("%w: %w", ErrScrapeFailed, err),
			"profile page missing expected identifiers")
	}

	entry := watch.New(req.ProfileID, accountID, saveDataID, req.Destination, channel)
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	// Best effort: registration stands even if the welcome message fails.
	if err := dispatcher.Send(ctx, req.Destination, welcomeMessage); err != nil {
		s.logger.Warn("Welcome notification failed",
			zap.String("profile_id", req.ProfileID),
			zap.String("channel", string(channel)),
			zap.Error(err))
	}

	return &RegisterResponse{
		ProfileID:  entry.ProfileID,
		AccountID:  entry.AccountID,
		SaveDataID: entry.SaveDataID,
		Channel:    string(entry.Channel),
	}, nil
}

// Remove deletes a watch entry. When enabled in configuration a removal
// notification is sent to the entry's destination, again best effort.
func (s *registrationService) Remove(ctx context.Context, profileID string) error {
	if profileID == "" {
		return apperrors.BadRequestError(ErrEmptyInput, "profile_id is required")
	}

	entry, err := s.store.GetEntry(ctx, profileID)
	if err != nil {
		if errors.Is(err, watchstore.ErrEntryNotFound) {
			return apperrors.ResourceNotFoundError(ErrNotFound, "profile not registered")
		}
		return fmt.Errorf("failed to load entry: %w", err)
	}

	if err := s.store.DeleteEntry(ctx, profileID); err != nil {
		if errors.Is(err, watchstore.ErrEntryNotFound) {
			return apperrors.ResourceNotFoundError(ErrNotFound, "profile not registered")
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if s.cfg.NotifyOnRemoval {
		dispatcher, err := s.registry.Get(entry.Channel)
		if err != nil {
			s.logger.Warn("Removal notification skipped",
				zap.String("profile_id", profileID),
				zap.Error(err))
			return nil
		}
		if err := dispatcher.Send(ctx, entry.Destination, removalMessage); err != nil {
			s.logger.Warn("Removal notification failed",
				zap.String("profile_id", profileID),
				zap.String("channel", string(entry.Channel)),
				zap.Error(err))
		}
	}

	return nil
}
