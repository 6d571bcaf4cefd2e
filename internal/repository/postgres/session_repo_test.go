package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

var sessionRows = []string{
	"id", "conference_id", "name", "speaker", "type", "duration",
	"highlights", "date", "start_time", "created_at", "updated_at",
}

func sessionRow(id, name, speaker string) []driverValue {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []driverValue{id, "conf-1", name, speaker, "lecture", 60, "{API,Design}", nil, nil, now, now}
}

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(0, 1, 1, 10, 30, 0, 0, time.UTC)
	sess := domain.NewSession("conf-1", "Intro", "Jane Doe", "lecture", 45, []string{"Go"}, &date, &start, now, now)

	mock.ExpectQuery(`INSERT INTO sessions \(conference_id, name, speaker, type, duration, highlights, date, start_time, created_at, updated_at\)`).
		WithArgs("conf-1", "Intro", "Jane Doe", "lecture", 45, sqlmock.AnyArg(), "2025-06-10", "10:30:00", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sess-1"))

	repo := NewSessionRepository(db)
	require.NoError(t, repo.Create(ctx, sess))
	require.Equal(t, "sess-1", sess.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByConferenceAndSpeaker(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(sessionRows).
		AddRow(sessionRow("sess-1", "Talk A", "Jane Doe")...).
		AddRow(sessionRow("sess-2", "Talk B", "Jane Doe")...)
	mock.ExpectQuery(`WHERE conference_id = \$1 AND speaker = \$2`).
		WithArgs("conf-1", "Jane Doe").
		WillReturnRows(rows)

	repo := NewSessionRepository(db)
	sessions, err := repo.ListByConferenceAndSpeaker(ctx, "conf-1", "Jane Doe")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "Talk A", sessions[0].Name)
	require.Equal(t, []string{"API", "Design"}, sessions[0].Highlights)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByConferenceBeforeStart(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name               string
		includeUnscheduled bool
		wantSQL            string
	}{
		{
			name:               "scheduled only",
			includeUnscheduled: false,
			wantSQL:            `WHERE conference_id = \$1 AND start_time <= \$2`,
		},
		{
			name:               "including unscheduled",
			includeUnscheduled: true,
			wantSQL:            `WHERE conference_id = \$1 AND \(start_time IS NULL OR start_time <= \$2\)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.wantSQL).
				WithArgs("conf-1", "19:00:00").
				WillReturnRows(sqlmock.NewRows(sessionRows).AddRow(sessionRow("sess-1", "Talk A", "Jane Doe")...))

			repo := NewSessionRepository(db)
			cutoff := time.Date(0, 1, 1, 19, 0, 0, 0, time.UTC)
			sessions, err := repo.ListByConferenceBeforeStart(ctx, "conf-1", cutoff, tt.includeUnscheduled)
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM sessions`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sessionRows))

	repo := NewSessionRepository(db)
	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
