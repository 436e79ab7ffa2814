package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// numeric chat ids (negative for groups) or a public @channel name
var telegramChatPattern = regexp.MustCompile(`^(-?\d{1,20}|@[A-Za-z][A-Za-z0-9_]{4,31})$`)

// DoctorService manages the clinician's own profile.
type DoctorService struct {
	store       repositories.Store
	clock       utils.Clock
	phoneRegion string
}

func NewDoctorService(store repositories.Store, clock utils.Clock) *DoctorService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &DoctorService{store: store, clock: clock, phoneRegion: utils.DefaultPhoneRegion}
}

type ProfileInput struct {
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
	TelegramChatID string `json:"telegram_chat_id"`
}

func (in ProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FullName, validation.Length(0, 120)),
		validation.Field(&in.TelegramChatID, validation.Match(telegramChatPattern)),
	)
}

// Profile returns the doctor's profile; a doctor who never saved one gets an
// empty profile rather than an error.
func (s *DoctorService) Profile(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, err := s.store.GetDoctor(ctx, doctorID)
	if apperrors.IsNotFound(err) {
		return &models.Doctor{ID: doctorID}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}
	return doctor, nil
}

func (s *DoctorService) UpdateProfile(ctx context.Context, doctorID string, in ProfileInput) (*models.Doctor, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.TelegramChatID = strings.TrimSpace(in.TelegramChatID)
	if err := in.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err)
	}

	doctor := &models.Doctor{
		ID:             doctorID,
		FullName:       in.FullName,
		TelegramChatID: in.TelegramChatID,
		UpdatedAt:      s.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if in.Phone != "" {
		phone, err := utils.NormalizePhone(in.Phone, s.phoneRegion)
		if err != nil {
			return nil, apperrors.Invalid("phone", err.Error())
		}
		doctor.Phone = phone
	}

	if err := s.store.SaveDoctor(ctx, doctor); err != nil {
		return nil, errors.Wrap(err, "failed to save profile")
	}
	log.Info().Str("doctor_id", doctorID).Bool("telegram", doctor.TelegramChatID != "").Msg("profile updated")
	return doctor, nil
}
