// internal/app/status_service.go
package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/Pr1ority/homework-bot/internal/domain/homework"
	domainTelegram "github.com/Pr1ority/homework-bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StatusService defines one unit of polling work: fetch the latest homework
// statuses, notify the chat about the newest change, keep the bookkeeping.
type StatusService interface {
	// Poll runs a single fetch-interpret-notify iteration. It never
	// returns an error: every failure is contained within the iteration
	// and reported through the notification channel itself.
	Poll(ctx context.Context)
}

// StatusServiceImpl implements StatusService against the homework API and a
// Telegram chat. It is not safe for concurrent Poll calls; the scheduler
// guarantees iterations do not overlap.
type StatusServiceImpl struct {
	api            homework.Client
	telegramClient domainTelegram.Client
	chatID         int64
	logger         *logrus.Entry

	// cursor is the lower bound of the next fetch window (Unix seconds).
	// It only ever moves forward, and only after a notification for the
	// window was actually delivered.
	cursor int64

	// lastNotifiedError is the text of the last failure notification that
	// reached the chat. Repeats of the same text are suppressed so a
	// persistent outage alerts once, not every interval.
	lastNotifiedError string
}

func NewStatusServiceImpl(
	api homework.Client,
	tc domainTelegram.Client,
	chatID int64,
	logger *logrus.Entry,
	startCursor int64,
) *StatusServiceImpl {
	return &StatusServiceImpl{
		api:            api,
		telegramClient: tc,
		chatID:         chatID,
		logger:         logger,
		cursor:         startCursor,
	}
}

// Poll runs one iteration: fetch, interpret, notify, advance the cursor.
func (s *StatusServiceImpl) Poll(ctx context.Context) {
	iterLogger := s.logger.WithField("cursor", s.cursor)

	defer func() {
		if r := recover(); r != nil {
			errorID := uuid.NewString()
			iterLogger.WithFields(logrus.Fields{
				"error_id": errorID,
				"panic":    r,
				"stack":    string(debug.Stack()),
			}).Error("Recovered from panic in poll iteration")
			s.reportFailure(fmt.Errorf("unexpected panic: %v", r), iterLogger.WithField("error_id", errorID))
		}
	}()

	page, err := s.api.HomeworkStatuses(ctx, s.cursor)
	if err != nil {
		s.reportFailure(err, iterLogger)
		return
	}

	if len(page.Homeworks) == 0 {
		iterLogger.Debug("No status changes: homework list is empty")
		return
	}

	// The API lists records newest first and only the first one is
	// reported. Earlier revisions notified about every record in the
	// list; the single-record behavior is intentional, do not restore
	// the old loop.
	message, err := homework.ParseStatus(page.Homeworks[0])
	if err != nil {
		s.reportFailure(err, iterLogger)
		return
	}

	if !s.notify(message, iterLogger) {
		return
	}

	if page.CurrentDate >= s.cursor {
		iterLogger.WithField("new_cursor", page.CurrentDate).Debug("Poll cursor advanced")
		s.cursor = page.CurrentDate
	} else {
		iterLogger.WithField("response_cursor", page.CurrentDate).Warn("API returned a cursor older than the current one, keeping the current cursor")
	}
}

// reportFailure turns an iteration error into the user-facing diagnostic,
// logs it, and forwards it to the chat unless the identical text already
// reached the chat before.
func (s *StatusServiceImpl) reportFailure(cause error, iterLogger *logrus.Entry) {
	message := fmt.Sprintf("Сбой в работе программы: %v", cause)
	iterLogger.WithError(cause).Error("Poll iteration failed")

	if message == s.lastNotifiedError {
		iterLogger.Debug("Duplicate failure notification suppressed")
		return
	}
	if s.notify(message, iterLogger) {
		s.lastNotifiedError = message
	}
}

// notify delivers one message to the configured chat and reports whether
// delivery succeeded. Delivery failures are logged, never propagated.
func (s *StatusServiceImpl) notify(message string, iterLogger *logrus.Entry) bool {
	if err := s.telegramClient.SendMessage(s.chatID, message); err != nil {
		iterLogger.WithError(err).Error("Failed to send telegram message")
		return false
	}
	iterLogger.WithField("message", message).Debug("Message sent to telegram chat")
	return true
}
