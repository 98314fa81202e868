package profile

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/adapters/event"
	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/internal/domain/profile"
	"github.com/allandacasin/devconnector-api/internal/domain/user"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

const (
	msgNoProfileForUser = "There is no profile for this user."
	msgProfileNotFound  = "Profile not found."
)

// ProfileUseCase owns the Profile aggregate's lifecycle: the upsert,
// the embedded experience/education collections, and the cascading
// account delete that spans posts, profile, and user.
type ProfileUseCase struct {
	profileRepo profile.Repository
	postRepo    post.Repository
	userRepo    user.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewProfileUseCase(
	profileRepo profile.Repository,
	postRepo post.Repository,
	userRepo user.Repository,
	kafkaClient *event.KafkaProducerClient,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		kafkaClient: kafkaClient,
		logger:      log,
	}
}

// UpsertProfileInput carries the caller-supplied profile fields. An empty
// string means the field was not supplied and must be left untouched on an
// existing document. Skills is the raw comma-separated form value.
type UpsertProfileInput struct {
	UserID         primitive.ObjectID
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

// ExecuteUpsertProfile validates, builds the partial-update record, and
// performs the keyed upsert. Re-submitting identical input yields the
// same stored state.
func (uc *ProfileUseCase) ExecuteUpsertProfile(ctx context.Context, input UpsertProfileInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile")
	defer span.End()

	var fieldErrs []apperror.FieldError
	if strings.TrimSpace(input.Status) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Status is required.", Param: "status"})
	}
	if strings.TrimSpace(input.Skills) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Skills is required", Param: "skills"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidation(fieldErrs...)
	}

	fields := profile.Fields{
		Company:        input.Company,
		Website:        input.Website,
		Location:       input.Location,
		Bio:            input.Bio,
		Status:         input.Status,
		GithubUsername: input.GithubUsername,
		Skills:         profile.ParseSkills(input.Skills),
		Social: map[string]string{
			"youtube":   input.Youtube,
			"twitter":   input.Twitter,
			"facebook":  input.Facebook,
			"linkedin":  input.Linkedin,
			"instagram": input.Instagram,
		},
	}

	p, err := uc.profileRepo.Upsert(ctx, input.UserID, fields)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", input.UserID.Hex()))
	uc.publishProfileEvent(input.UserID, p.ID)

	return p, nil
}

// ExecuteGetProfile returns the caller's own profile.
func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, userID primitive.ObjectID) (*profile.Profile, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound(msgNoProfileForUser)
		}
		return nil, err
	}
	return p, nil
}

// ExecuteGetProfileByUser is the public variant keyed on a raw id from
// the URL. A syntactically invalid id reads as "no such profile", never
// as a store error.
func (uc *ProfileUseCase) ExecuteGetProfileByUser(ctx context.Context, rawUserID string) (*profile.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawUserID))
	if err != nil {
		return nil, apperror.NewNotFound(msgProfileNotFound)
	}

	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound(msgProfileNotFound)
		}
		return nil, err
	}
	return p, nil
}

// ExecuteListProfiles returns every profile; no profiles is an empty
// list, not an error.
func (uc *ProfileUseCase) ExecuteListProfiles(ctx context.Context) ([]profile.Profile, error) {
	return uc.profileRepo.List(ctx)
}

type AddExperienceInput struct {
	UserID      primitive.ObjectID
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

func (uc *ProfileUseCase) ExecuteAddExperience(ctx context.Context, input AddExperienceInput) (*profile.Profile, error) {
	var fieldErrs []apperror.FieldError
	if strings.TrimSpace(input.Title) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Job title is required.", Param: "title"})
	}
	if strings.TrimSpace(input.Company) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Company is required", Param: "company"})
	}
	if strings.TrimSpace(input.From) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Start date is required", Param: "from"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidation(fieldErrs...)
	}

	entry := profile.Experience{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        input.From,
		To:          input.To,
		Current:     input.Current,
		Description: input.Description,
	}

	p, err := uc.profileRepo.AddExperience(ctx, input.UserID, entry)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound(msgNoProfileForUser)
		}
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) ExecuteRemoveExperience(ctx context.Context, userID primitive.ObjectID, rawEntryID string) (*profile.Profile, error) {
	entryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawEntryID))
	if err != nil {
		// An unparseable entry id cannot match anything; treat it like
		// pulling an absent entry and return the profile unchanged.
		return uc.ExecuteGetProfile(ctx, userID)
	}

	p, err := uc.profileRepo.RemoveExperience(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound(msgNoProfileForUser)
		}
		return nil, err
	}
	return p, nil
}

type AddEducationInput struct {
	UserID       primitive.ObjectID
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

func (uc *ProfileUseCase) ExecuteAddEducation(ctx context.Context, input AddEducationInput) (*profile.Profile, error) {
	var fieldErrs []apperror.FieldError
	if strings.TrimSpace(input.School) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "School is required.", Param: "school"})
	}
	if strings.TrimSpace(input.Degree) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Degree is required", Param: "degree"})
	}
	if strings.TrimSpace(input.FieldOfStudy) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Field of Study is required", Param: "fieldofstudy"})
	}
	if strings.TrimSpace(input.From) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Msg: "Start date is required", Param: "from"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidation(fieldErrs...)
	}

	entry := profile.Education{
		ID:           primitive.NewObjectID(),
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         input.From,
		To:           input.To,
		Current:      input.Current,
		Description:  input.Description,
	}

	p, err := uc.profileRepo.AddEducation(ctx, input.UserID, entry)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound(msgNoProfileForUser)
		}
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) ExecuteRemoveEducation(ctx context.Context, userID primitive.ObjectID, rawEntryID string) (*profile.Profile, error) {
	entryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawEntryID))
	if err != nil {
		return uc.ExecuteGetProfile(ctx, userID)
	}

	p, err := uc.profileRepo.RemoveEducation(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound(msgNoProfileForUser)
		}
		return nil, err
	}
	return p, nil
}

// ExecuteDeleteAccount removes the caller's posts, then profile, then the
// user record itself. The three deletes are independent operations with
// no rollback; a failure partway leaves a partially-deleted account that
// a repeated call can finish.
func (uc *ProfileUseCase) ExecuteDeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()

	deleted, err := uc.postRepo.DeleteByAuthor(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := uc.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		span.RecordError(err)
		return err
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		span.RecordError(err)
		return err
	}

	uc.logger.Info("account deleted",
		zap.String("user_id", userID.Hex()),
		zap.Int64("posts_removed", deleted))

	uc.publishAccountDeleted(userID)

	return nil
}

func (uc *ProfileUseCase) publishProfileEvent(userID, profileID primitive.ObjectID) {
	if uc.kafkaClient == nil {
		return
	}
	go func() {
		err := uc.kafkaClient.PublishProfileEvent(context.Background(), event.DomainEvent{
			EventType: event.ProfileEventTypeUpserted,
			UserID:    userID.Hex(),
			EntityID:  profileID.Hex(),
		})
		if err != nil {
			uc.logger.Error("Failed to publish profile event", err, zap.String("user_id", userID.Hex()))
		}
	}()
}

func (uc *ProfileUseCase) publishAccountDeleted(userID primitive.ObjectID) {
	if uc.kafkaClient == nil {
		return
	}
	go func() {
		err := uc.kafkaClient.PublishAccountEvent(context.Background(), event.DomainEvent{
			EventType: event.AccountEventTypeDeleted,
			UserID:    userID.Hex(),
		})
		if err != nil {
			uc.logger.Error("Failed to publish account event", err, zap.String("user_id", userID.Hex()))
		}
	}()
}
