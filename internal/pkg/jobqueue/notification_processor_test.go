package jobqueue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coursebox/app/models"
)

type fakeCourseSource struct {
	course *models.Course
	err    error
}

func (f *fakeCourseSource) GetByID(uint) (*models.Course, error) {
	return f.course, f.err
}

type fakeSubscriberSource struct {
	emails []string
	err    error
}

func (f *fakeSubscriberSource) SubscriberEmails(uint) ([]string, error) {
	return f.emails, f.err
}

type recordingMailer struct {
	sent    []string
	failAll bool
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, to)
	if m.failAll {
		return errors.New("smtp unreachable")
	}
	return nil
}

func TestCourseNotificationProcess(t *testing.T) {
	course := &models.Course{ID: 1, Title: "Go Basics"}
	subs := &fakeSubscriberSource{emails: []string{"a@example.com", "b@example.com"}}
	mailer := &recordingMailer{}

	p := NewCourseNotificationProcessor(&fakeCourseSource{course: course}, subs, mailer)
	count, err := p.Process(&CourseNotificationJobPayload{CourseID: 1})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.sent)
}

func TestCourseNotificationSwallowsMailFailures(t *testing.T) {
	course := &models.Course{ID: 1, Title: "Go Basics"}
	subs := &fakeSubscriberSource{emails: []string{"a@example.com", "b@example.com"}}
	mailer := &recordingMailer{failAll: true}

	p := NewCourseNotificationProcessor(&fakeCourseSource{course: course}, subs, mailer)
	count, err := p.Process(&CourseNotificationJobPayload{CourseID: 1})

	// Transport failures never fail the job; the count still reflects recipients.
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, mailer.sent, 2)
}

func TestCourseNotificationNoSubscribers(t *testing.T) {
	course := &models.Course{ID: 1, Title: "Go Basics"}
	mailer := &recordingMailer{}

	p := NewCourseNotificationProcessor(&fakeCourseSource{course: course}, &fakeSubscriberSource{}, mailer)
	count, err := p.Process(&CourseNotificationJobPayload{CourseID: 1})

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, mailer.sent)
}

func TestCourseNotificationDeletedCourse(t *testing.T) {
	p := NewCourseNotificationProcessor(
		&fakeCourseSource{err: gorm.ErrRecordNotFound},
		&fakeSubscriberSource{emails: []string{"a@example.com"}},
		&recordingMailer{},
	)
	count, err := p.Process(&CourseNotificationJobPayload{CourseID: 99})

	require.NoError(t, err)
	assert.Zero(t, count)
}

type fakeDeactivator struct {
	gotThreshold time.Time
	count        int64
	err          error
}

func (f *fakeDeactivator) DeactivateInactiveSince(threshold time.Time) (int64, error) {
	f.gotThreshold = threshold
	return f.count, f.err
}

func TestDeactivationSweepProcess(t *testing.T) {
	users := &fakeDeactivator{count: 3}

	p := NewDeactivationSweepProcessor(users)
	count, err := p.Process()

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Threshold is the inactivity window measured back from now.
	expected := time.Now().Add(-models.InactivityWindow)
	assert.WithinDuration(t, expected, users.gotThreshold, time.Minute)
}
