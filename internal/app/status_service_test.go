package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Pr1ority/homework-bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResult struct {
	page *homework.StatusPage
	err  error
}

type fakeAPI struct {
	results   []apiResult
	fromDates []int64
}

func (f *fakeAPI) HomeworkStatuses(_ context.Context, fromDate int64) (*homework.StatusPage, error) {
	f.fromDates = append(f.fromDates, fromDate)
	if len(f.results) == 0 {
		return nil, errors.New("fakeAPI: no result queued")
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.page, r.err
}

type panickyAPI struct{}

func (panickyAPI) HomeworkStatuses(context.Context, int64) (*homework.StatusPage, error) {
	panic("kaboom")
}

// fakeTelegram records every delivery attempt; the first failSends calls
// return an error before any message goes through.
type fakeTelegram struct {
	attempts  []string
	delivered []string
	chatIDs   []int64
	failSends int
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) error {
	f.chatIDs = append(f.chatIDs, chatID)
	f.attempts = append(f.attempts, text)
	if f.failSends > 0 {
		f.failSends--
		return errors.New("telegram: chat unreachable")
	}
	f.delivered = append(f.delivered, text)
	return nil
}

func record(name, status string) homework.Record {
	return homework.Record{HomeworkName: &name, Status: &status}
}

func page(currentDate int64, records ...homework.Record) *homework.StatusPage {
	return &homework.StatusPage{Homeworks: records, CurrentDate: currentDate}
}

func newTestService(api homework.Client, tg *fakeTelegram, startCursor int64) *StatusServiceImpl {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewStatusServiceImpl(api, tg, 4242, log.WithField("component", "status_service"), startCursor)
}

func TestPoll_NotifiesAboutNewestRecordOnly(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{page: page(200, record("hw02", "approved"), record("hw01", "rejected"))},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	svc.Poll(context.Background())

	require.Len(t, tg.delivered, 1)
	assert.Equal(t, `Изменился статус проверки работы "hw02". Работа проверена: ревьюеру всё понравилось. Ура!`, tg.delivered[0])
	assert.Equal(t, []int64{4242}, tg.chatIDs)
}

func TestPoll_VerdictTextsPerStatus(t *testing.T) {
	cases := []struct {
		status string
		text   string
	}{
		{"approved", `Изменился статус проверки работы "hw". Работа проверена: ревьюеру всё понравилось. Ура!`},
		{"reviewing", `Изменился статус проверки работы "hw". Работа взята на проверку ревьюером.`},
		{"rejected", `Изменился статус проверки работы "hw". Работа проверена: у ревьюера есть замечания.`},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			api := &fakeAPI{results: []apiResult{{page: page(1, record("hw", tc.status))}}}
			tg := &fakeTelegram{}
			newTestService(api, tg, 0).Poll(context.Background())

			require.Len(t, tg.delivered, 1)
			assert.Equal(t, tc.text, tg.delivered[0])
		})
	}
}

func TestPoll_EmptyListKeepsCursorAndStaysQuiet(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{page: page(999)},
		{page: page(999)},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	svc.Poll(context.Background())
	svc.Poll(context.Background())

	assert.Empty(t, tg.attempts)
	assert.Equal(t, []int64{100, 100}, api.fromDates)
}

func TestPoll_CursorAdvancesOnlyAfterDelivery(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{page: page(200, record("hw", "reviewing"))},
		{page: page(200, record("hw", "reviewing"))},
		{page: page(300)},
	}}
	tg := &fakeTelegram{failSends: 1}
	svc := newTestService(api, tg, 100)

	svc.Poll(context.Background()) // delivery fails, window must not move
	svc.Poll(context.Background()) // same window, delivery succeeds
	svc.Poll(context.Background())

	assert.Equal(t, []int64{100, 100, 200}, api.fromDates)
	assert.Len(t, tg.attempts, 2)
	require.Len(t, tg.delivered, 1)
	assert.Equal(t, `Изменился статус проверки работы "hw". Работа взята на проверку ревьюером.`, tg.delivered[0])
}

func TestPoll_CursorNeverMovesBackward(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{page: page(50, record("hw", "approved"))},
		{page: page(999)},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	svc.Poll(context.Background()) // response cursor is older than ours
	svc.Poll(context.Background())

	assert.Equal(t, []int64{100, 100}, api.fromDates)
	assert.Len(t, tg.delivered, 1)
}

func TestPoll_RepeatedFailureNotifiesOnce(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	for i := 0; i < 3; i++ {
		svc.Poll(context.Background())
	}

	require.Len(t, tg.delivered, 1)
	assert.Equal(t, "Сбой в работе программы: boom", tg.delivered[0])
	assert.Len(t, tg.attempts, 1)
}

func TestPoll_DistinctFailuresEachNotified(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{err: errors.New("boom")},
		{err: errors.New("bang")},
		{err: errors.New("boom")},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	for i := 0; i < 3; i++ {
		svc.Poll(context.Background())
	}

	assert.Equal(t, []string{
		"Сбой в работе программы: boom",
		"Сбой в работе программы: bang",
		"Сбой в работе программы: boom",
	}, tg.delivered)
}

func TestPoll_UndeliveredFailureIsRetriedNextIteration(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	tg := &fakeTelegram{failSends: 1}
	svc := newTestService(api, tg, 100)

	svc.Poll(context.Background())
	svc.Poll(context.Background())

	assert.Len(t, tg.attempts, 2)
	require.Len(t, tg.delivered, 1)
	assert.Equal(t, "Сбой в работе программы: boom", tg.delivered[0])
}

func TestPoll_SuccessDoesNotResetFailureDedup(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{err: errors.New("boom")},
		{page: page(200, record("hw", "approved"))},
		{err: errors.New("boom")},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	for i := 0; i < 3; i++ {
		svc.Poll(context.Background())
	}

	failures := 0
	for _, text := range tg.delivered {
		if text == "Сбой в работе программы: boom" {
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, tg.delivered, 2)
}

func TestPoll_UnknownStatusReportedAsFailure(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{page: page(200, record("hw", "burned"))},
		{page: page(999)},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	svc.Poll(context.Background())
	svc.Poll(context.Background())

	require.Len(t, tg.delivered, 1)
	assert.Equal(t, `Сбой в работе программы: unknown homework status: "burned"`, tg.delivered[0])
	assert.Equal(t, []int64{100, 100}, api.fromDates, "failure must not advance the poll window")
}

func TestPoll_IncompleteRecordReportedAsFailure(t *testing.T) {
	api := &fakeAPI{results: []apiResult{
		{page: page(200, homework.Record{})},
	}}
	tg := &fakeTelegram{}
	svc := newTestService(api, tg, 100)

	svc.Poll(context.Background())

	require.Len(t, tg.delivered, 1)
	assert.Contains(t, tg.delivered[0], "Сбой в работе программы: ")
	assert.Contains(t, tg.delivered[0], "missing expected keys in API response")
}

func TestPoll_RecoversFromPanic(t *testing.T) {
	tg := &fakeTelegram{}
	svc := newTestService(panickyAPI{}, tg, 100)

	require.NotPanics(t, func() {
		svc.Poll(context.Background())
	})
	require.Len(t, tg.delivered, 1)
	assert.Equal(t, "Сбой в работе программы: unexpected panic: kaboom", tg.delivered[0])
}

func TestPoll_PanicNotificationIsDeduplicated(t *testing.T) {
	tg := &fakeTelegram{}
	svc := newTestService(panickyAPI{}, tg, 100)

	svc.Poll(context.Background())
	svc.Poll(context.Background())

	assert.Len(t, tg.delivered, 1)
}
