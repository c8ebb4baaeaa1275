package jobqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/mail"
)

// CourseSource resolves a course for notification rendering.
type CourseSource interface {
	GetByID(id uint) (*models.Course, error)
}

// SubscriberSource resolves the notification recipients of a course.
type SubscriberSource interface {
	SubscriberEmails(courseID uint) ([]string, error)
}

// CourseNotificationProcessor mails course subscribers about an update.
// Dependencies are injected so the processor is testable without a database
// or a mail server.
type CourseNotificationProcessor struct {
	courses CourseSource
	subs    SubscriberSource
	mailer  mail.Mailer
}

func NewCourseNotificationProcessor(courses CourseSource, subs SubscriberSource, mailer mail.Mailer) *CourseNotificationProcessor {
	return &CourseNotificationProcessor{courses: courses, subs: subs, mailer: mailer}
}

// Process sends a best-effort update notice to every subscriber with a
// non-empty email address. Mail-transport failures are swallowed; the
// return value is the recipient count.
func (p *CourseNotificationProcessor) Process(payload *CourseNotificationJobPayload) (int, error) {
	course, err := p.courses.GetByID(payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Course deleted between enqueue and processing; nothing to send.
			return 0, nil
		}
		return 0, err
	}

	emails, err := p.subs.SubscriberEmails(course.ID)
	if err != nil {
		return 0, err
	}
	if len(emails) == 0 {
		return 0, nil
	}

	subject := fmt.Sprintf("Course update: %s", course.Title)
	body := fmt.Sprintf("The course %q has been updated. Log in to your account to see the new materials.", course.Title)

	for _, to := range emails {
		if err := p.mailer.Send(to, subject, body); err != nil {
			// fire-and-forget: delivery failures must not fail the job
			log.Warnf("[JobQueue] Notification mail to %s failed: %v", to, err)
		}
	}

	return len(emails), nil
}

func (q *Queue) processCourseNotificationJob(_ context.Context, job *Job) error {
	payload, err := CourseNotificationJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid course notification payload: %w", err)
	}

	repos := repository.GetGlobalRepositories()
	processor := NewCourseNotificationProcessor(repos.Course, repos.Subscription, mail.SMTPMailer{})

	count, err := processor.Process(payload)
	if err != nil {
		return err
	}

	log.Infof("[JobQueue] Course %d update notification reached %d subscribers", payload.CourseID, count)
	return nil
}

// EnqueueCourseNotification submits a notification job for a course mutation.
func EnqueueCourseNotification(q *Queue, courseID uint) {
	payload := CourseNotificationJobPayload{CourseID: courseID}
	if _, err := q.EnqueueJob(JobTypeCourseNotification, payload.ToMap()); err != nil {
		// The mutation already committed; a lost notification is acceptable.
		log.Errorf("[JobQueue] Failed to enqueue notification for course %d: %v", courseID, err)
	}
}
