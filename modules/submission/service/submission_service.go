package service

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"community-calendar/core/errors"
	"community-calendar/core/logger"
	"community-calendar/core/queue"
	"community-calendar/modules/submission/dto"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SubmissionServiceInterface interface {
	SubmitEvent(ctx context.Context, req *dto.SubmitEventRequest) (*dto.SubmitEventResponse, *errors.AppError)
}

type SubmissionService struct {
	queue *queue.Client
}

func NewSubmissionService(queueClient *queue.Client) *SubmissionService {
	return &SubmissionService{queue: queueClient}
}

// SubmitEvent validates a guest submission and queues it for the mail worker.
// The HTTP request never waits on SMTP.
func (s *SubmissionService) SubmitEvent(ctx context.Context, req *dto.SubmitEventRequest) (*dto.SubmitEventResponse, *errors.AppError) {
	name := strings.TrimSpace(req.EventName)
	submitter := strings.TrimSpace(req.SubmitterName)
	description := strings.TrimSpace(req.EventDescription)

	if name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event name is required", nil)
	}
	if submitter == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Your name is required", nil)
	}
	if description == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "A short event description is required", nil)
	}

	email := strings.TrimSpace(req.SubmitterEmail)
	if email != "" && !emailPattern.MatchString(email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Submitter email is not a valid address", nil)
	}

	link := strings.TrimSpace(req.EventLink)
	if link != "" {
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Event link must be a valid http or https URL", err)
		}
	}

	payload := queue.SubmissionEmailPayload{
		EventName:        name,
		SubmitterName:    submitter,
		SubmitterEmail:   email,
		EventLink:        link,
		EventDescription: description,
	}
	// A dead queue should not bounce the guest's form; the submission is
	// logged either way and can be recovered from the logs.
	if err := s.queue.EnqueueSubmissionEmail(ctx, payload); err != nil {
		logger.Error("SubmissionService:SubmitEvent:Enqueue",
			"event", name, "submitter", submitter, "error", err)
	}

	return &dto.SubmitEventResponse{
		Message: "Thanks! Your event was submitted and will be reviewed.",
	}, nil
}
