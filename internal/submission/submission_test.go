package submission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/applybot/internal/questionnaire"
)

type memSaver struct {
	mu   sync.Mutex
	rows []Record
	fail error
}

func (s *memSaver) Save(_ context.Context, r *Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return 0, s.fail
	}
	s.rows = append(s.rows, *r)
	return int64(len(s.rows)), nil
}

type memNotifier struct {
	texts []string
	fail  error
}

func (n *memNotifier) Notify(_ context.Context, text string) error {
	if n.fail != nil {
		return n.fail
	}
	n.texts = append(n.texts, text)
	return nil
}

type results struct {
	submissions   []string
	notifications []string
}

func (r *results) SubmissionDone(result string, _ time.Duration) {
	r.submissions = append(r.submissions, result)
}

func (r *results) NotificationDone(result string) {
	r.notifications = append(r.notifications, result)
}

func sampleAnswers() questionnaire.Answers {
	return questionnaire.Answers{
		Region:              "ЯНАО",
		LastName:            "Иванов",
		FirstName:           "Иван",
		Callsign:            "Сокол",
		TelegramContact:     "@ivan",
		CommanderContact:    "@commander",
		NeedMedicine:        true,
		NeedHumanitarianAid: false,
		NeedEquipment:       true,
	}
}

func TestSummaryLayout(t *testing.T) {
	got := Summary(RecordFromAnswers(sampleAnswers()))
	want := strings.Join([]string{
		"*Новая заявка:*",
		"Регион: ЯНАО",
		"Фамилия: Иванов",
		"Имя: Иван",
		"Позывной: Сокол",
		"Контакты: @ivan",
		"Контакты командира: @commander",
		"Нужны медикаменты: Да",
		"Гуманитарная помощь: Нет",
		"Оборудование: Да",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestSummaryEscapesUserText(t *testing.T) {
	a := sampleAnswers()
	a.Callsign = "a_b*c"
	a.TelegramContact = "t.me/ivan (main)"
	got := Summary(RecordFromAnswers(a))
	assert.Contains(t, got, `Позывной: a\_b\*c`)
	assert.Contains(t, got, `Контакты: t\.me/ivan \(main\)`)
}

func TestSubmitStoresThenNotifies(t *testing.T) {
	saver := &memSaver{}
	notifier := &memNotifier{}
	rec := &results{}
	asm, err := NewAssembler(saver, notifier, rec)
	require.NoError(t, err)

	require.NoError(t, asm.Submit(context.Background(), sampleAnswers()))

	require.Len(t, saver.rows, 1)
	assert.Equal(t, *RecordFromAnswers(sampleAnswers()), saver.rows[0])
	require.Len(t, notifier.texts, 1)
	assert.Equal(t, Summary(RecordFromAnswers(sampleAnswers())), notifier.texts[0])
	assert.Equal(t, []string{ResultOK}, rec.submissions)
	assert.Equal(t, []string{ResultOK}, rec.notifications)
}

func TestSubmitPersistFailureSkipsBroadcast(t *testing.T) {
	boom := errors.New("connection refused")
	saver := &memSaver{fail: boom}
	notifier := &memNotifier{}
	rec := &results{}
	asm, err := NewAssembler(saver, notifier, rec)
	require.NoError(t, err)

	err = asm.Submit(context.Background(), sampleAnswers())
	require.ErrorIs(t, err, ErrPersist)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, notifier.texts)
	assert.Equal(t, []string{ResultFail}, rec.submissions)
	assert.Empty(t, rec.notifications)
}

func TestSubmitNotifyFailureStillAccepts(t *testing.T) {
	saver := &memSaver{}
	notifier := &memNotifier{fail: errors.New("chat not found")}
	rec := &results{}
	asm, err := NewAssembler(saver, notifier, rec)
	require.NoError(t, err)

	require.NoError(t, asm.Submit(context.Background(), sampleAnswers()))
	assert.Len(t, saver.rows, 1)
	assert.Equal(t, []string{ResultFail}, rec.notifications)
}

func TestNewAssemblerRequiresCollaborators(t *testing.T) {
	_, err := NewAssembler(nil, &memNotifier{}, nil)
	require.Error(t, err)
	_, err = NewAssembler(&memSaver{}, nil, nil)
	require.Error(t, err)
	_, err = NewAssembler(&memSaver{}, &memNotifier{}, nil)
	require.NoError(t, err)
}
