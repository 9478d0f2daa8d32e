package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

type stubSessions struct {
	role users.Role
	err  error
}

func (s stubSessions) Validate(ctx context.Context, required users.Role) (*session.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if required != "" && required != s.role {
		return nil, apperr.ErrWrongRole
	}
	return &session.Session{UserType: s.role, UserEmail: "ann.lee@orono.k12.mn.us"}, nil
}

func header() []string {
	return []string{"Unit", "Topic", "Topic Description", "Question Type", "Difficulty Level",
		"Question", "Answer", "Incorrect 1", "Incorrect 2", "Incorrect 3", "Incorrect 4", "Hint"}
}

func newTestService(t *testing.T, role users.Role) (*Service, *sheets.MemoryStore) {
	t.Helper()
	store := sheets.NewMemoryStore()
	store.SetTable(sheets.TableGrammarQuestions,
		header(),
		[]string{"3", "Commas", "Comma rules", "mc", "easy", "Q1", "A1", "x", "y", "z", "w", "Look left"},
		[]string{"3.0", "Semicolons", "", "mc", "hard", "Q2", "A2"},
		[]string{"10", "Commas", "", "mc", "easy", "Q3", "A3"},
		[]string{"3", "Commas", "", "mc", "easy", "Q4", "A4"},
		[]string{"", "Orphan", "", "mc", "easy", "Q5", "A5"},
		[]string{"2", "", "", "mc", "easy", "Q6", "A6"},
		[]string{"Review", "Mixed", "", "mc", "easy", "Q7", "A7"},
	)
	return NewService(NewRepository(store), stubSessions{role: role}), store
}

func questionTexts(qs []GrammarQuestion) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Question)
	}
	return out
}

func TestListQuestions(t *testing.T) {
	svc, _ := newTestService(t, users.RoleStudent)
	ctx := context.Background()

	tests := []struct {
		name  string
		unit  string
		topic string
		want  []string
	}{
		{name: "no filters", want: []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7"}},
		{name: "numeric unit matches its float form", unit: "3", want: []string{"Q1", "Q2", "Q4"}},
		{name: "unit and topic", unit: "3", topic: "Commas", want: []string{"Q1", "Q4"}},
		{name: "topic only", topic: "Commas", want: []string{"Q1", "Q3", "Q4"}},
		{name: "topic is case sensitive", topic: "commas", want: []string{}},
		{name: "text unit", unit: "Review", want: []string{"Q7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListQuestions(ctx, tt.unit, tt.topic)
			require.NoError(t, err)
			assert.Equal(t, tt.want, questionTexts(got))
		})
	}
}

func TestListQuestionsPadsShortRows(t *testing.T) {
	svc, _ := newTestService(t, users.RoleStudent)

	got, err := svc.ListQuestions(context.Background(), "3", "Semicolons")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].Unit)
	assert.Equal(t, "A2", got[0].Answer)
	assert.Empty(t, got[0].Hint)
}

func TestListQuestionsRequiresStudent(t *testing.T) {
	svc, _ := newTestService(t, users.RoleTeacher)

	_, err := svc.ListQuestions(context.Background(), "", "")
	assert.ErrorIs(t, err, apperr.ErrWrongRole)
}

func TestListUnits(t *testing.T) {
	for _, role := range []users.Role{users.RoleStudent, users.RoleTeacher} {
		svc, _ := newTestService(t, role)

		units, err := svc.ListUnits(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"10", "2", "3", "Review"}, units)

		seen := make(map[string]bool)
		for _, u := range units {
			assert.NotEmpty(t, u)
			assert.False(t, seen[u], "duplicate unit %q", u)
			seen[u] = true
		}
	}
}

func TestListTopics(t *testing.T) {
	svc, _ := newTestService(t, users.RoleTeacher)
	ctx := context.Background()

	topics, err := svc.ListTopics(ctx, "3.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"Commas", "Semicolons"}, topics)

	topics, err = svc.ListTopics(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, topics)
	assert.NotNil(t, topics)

	for _, blank := range []string{"", "  "} {
		topics, err = svc.ListTopics(ctx, blank)
		require.NoError(t, err)
		assert.Empty(t, topics, "rows without a unit are never listed")
		assert.NotNil(t, topics)
	}
}

func TestNoSession(t *testing.T) {
	store := sheets.NewMemoryStore()
	svc := NewService(NewRepository(store), stubSessions{err: apperr.ErrNoSession})

	_, err := svc.ListUnits(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestStoreFailure(t *testing.T) {
	svc, store := newTestService(t, users.RoleStudent)
	store.FailWith(errors.New("backend unavailable"))

	_, err := svc.ListTopics(context.Background(), "3")
	require.Error(t, err)
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
}

func TestNotConfigured(t *testing.T) {
	svc := NewService(NewRepository(sheets.Unconfigured{}), stubSessions{role: users.RoleStudent})

	_, err := svc.ListQuestions(context.Background(), "", "")
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)
}
