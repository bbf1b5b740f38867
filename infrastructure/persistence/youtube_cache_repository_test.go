package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestYouTubeCacheRepository_GetVideo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewYouTubeCacheRepository(db)
	repo.now = func() time.Time { return fixedNow }
	expiresAt := fixedNow.Add(5 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data, expires_at FROM youtube_video_cache WHERE video_id=$1`)).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "expires_at"}).
			AddRow([]byte(`{"id":"v1","title":"Launch","view_count":42}`), expiresAt))

	video, exp, err := repo.GetVideo(context.Background(), "v1")

	require.NoError(t, err)
	require.Equal(t, &model.VideoDetails{ID: "v1", Title: "Launch", ViewCount: 42}, video)
	require.Equal(t, expiresAt, *exp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestYouTubeCacheRepository_GetVideoExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewYouTubeCacheRepository(db)
	repo.now = func() time.Time { return fixedNow }

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data, expires_at FROM youtube_video_cache`)).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "expires_at"}).
			AddRow([]byte(`{"id":"v1"}`), fixedNow.Add(-time.Second)))

	video, exp, err := repo.GetVideo(context.Background(), "v1")

	require.NoError(t, err)
	require.Nil(t, video)
	require.NotNil(t, exp)
}

func TestYouTubeCacheRepository_GetVideoMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data, expires_at FROM youtube_video_cache`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"data", "expires_at"}))

	video, exp, err := NewYouTubeCacheRepository(db).GetVideo(context.Background(), "nope")

	require.NoError(t, err)
	require.Nil(t, video)
	require.Nil(t, exp)
}

func TestYouTubeCacheRepository_UpsertVideo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewYouTubeCacheRepository(db)
	repo.now = func() time.Time { return fixedNow }
	etag := "etag-1"

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO youtube_video_cache(video_id, etag, data, expires_at, updated_at)`)).
		WithArgs("v1", "etag-1", sqlmock.AnyArg(), fixedNow.Add(10*time.Minute), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpsertVideo(context.Background(), "v1", &model.VideoDetails{ID: "v1"}, &etag, 10*time.Minute)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestYouTubeCacheRepository_PurgeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewYouTubeCacheRepository(db)
	repo.now = func() time.Time { return fixedNow }

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM youtube_video_cache WHERE expires_at <= $1`)).
		WithArgs(fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeExpired(context.Background())

	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestYouTubeCacheRepository_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT data`).WillReturnError(errors.New("connection reset"))

	_, _, err = NewYouTubeCacheRepository(db).GetVideo(context.Background(), "v1")

	require.ErrorContains(t, err, "connection reset")
}

func TestYouTubeCacheRepository_NilDB(t *testing.T) {
	repo := NewYouTubeCacheRepository(nil)
	video, _, err := repo.GetVideo(context.Background(), "v1")
	require.NoError(t, err)
	require.Nil(t, video)
	require.NoError(t, repo.UpsertVideo(context.Background(), "v1", &model.VideoDetails{}, nil, time.Minute))
}

func TestEnsureYouTubeCacheSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS youtube_video_cache`)).WillReturnResult(driver.ResultNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS idx_youtube_video_cache_expires_at`)).WillReturnError(errors.New("permission denied"))

	require.NoError(t, EnsureYouTubeCacheSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestYouTubeCacheRepositoryMSSQL_RoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewYouTubeCacheRepositoryMSSQL(db)
	repo.now = func() time.Time { return fixedNow }

	mock.ExpectExec(regexp.QuoteMeta(`MERGE dbo.youtube_video_cache AS target`)).
		WithArgs("v1", nil, `{"id":"v1","title":"T","description":"","published_at":"","view_count":7}`, fixedNow.Add(time.Hour), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data, expires_at FROM dbo.youtube_video_cache WHERE video_id=@p1`)).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "expires_at"}).
			AddRow(`{"id":"v1","title":"T","view_count":7}`, fixedNow.Add(time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM dbo.youtube_video_cache WHERE expires_at <= @p1`)).
		WithArgs(fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpsertVideo(context.Background(), "v1", &model.VideoDetails{ID: "v1", Title: "T", ViewCount: 7}, nil, time.Hour))
	video, _, err := repo.GetVideo(context.Background(), "v1")
	require.NoError(t, err)
	require.Equal(t, uint64(7), video.ViewCount)
	n, err := repo.PurgeExpired(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureYouTubeCacheSchemaMSSQL_NilDB(t *testing.T) {
	require.Error(t, EnsureYouTubeCacheSchemaMSSQL(context.Background(), nil))
}
