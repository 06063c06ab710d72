package repository_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/UnknownOlympus/jharkhand/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fetchPlacesQuery = `
	SELECT
		kind, id, name, location, category, rating, images, description,
		COALESCE(history, ''), COALESCE(significance, ''), COALESCE(timings, ''),
		COALESCE(best_time, ''), COALESCE(nearby, '{}'), COALESCE(facilities, '{}'),
		latitude, longitude, COALESCE(contact_number, '')
	FROM places
	ORDER BY kind ASC, rating DESC, id ASC;
`

var placeColumns = []string{
	"kind", "id", "name", "location", "category", "rating", "images", "description",
	"history", "significance", "timings", "best_time", "nearby", "facilities",
	"latitude", "longitude", "contact_number",
}

func ptr[T any](v T) *T {
	return &v
}

func TestFetchPlaces(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - query places", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchPlacesQuery)).WillReturnError(assert.AnError)

		places, err := repo.FetchPlaces(ctx)

		require.Nil(t, places)
		require.ErrorContains(t, err, "failed to query places")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchPlacesQuery)).
			WillReturnRows(pgxmock.NewRows(placeColumns).AddRow(
				"waterfall", "hundru-falls", "Hundru Falls", "Ranchi", "major", "not a rating",
				[]string{}, "", "", "", "", "", []string{}, []string{}, nil, nil, "",
			))

		places, err := repo.FetchPlaces(ctx)

		require.Nil(t, places)
		require.ErrorContains(t, err, "failed to scan place")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchPlacesQuery)).
			WillReturnRows(pgxmock.NewRows(placeColumns).AddRow(
				"lake", "ranchi-lake", "Ranchi Lake", "Ranchi", "urban", 3.9,
				[]string{}, "", "", "", "", "", []string{}, []string{}, nil, nil, "",
			).CloseError(assert.AnError))

		places, err := repo.FetchPlaces(ctx)

		require.Nil(t, places)
		require.ErrorContains(t, err, "failed to read row")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch places", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchPlacesQuery)).
			WillReturnRows(pgxmock.NewRows(placeColumns).
				AddRow(
					"waterfall", "lodh-falls", "Lodh Falls", "Mahuadanr, Latehar district", "major", 4.6,
					[]string{"lodh-1.jpg"}, "Highest waterfall of the state.", "", "", "", "October to February",
					[]string{"Netarhat"}, []string{"Parking"}, ptr(23.4667), ptr(84.0333), "",
				).
				AddRow(
					"historic-site", "maluti-temples", "Maluti Temples", "Shikaripara, Dumka district", "temple", 4.2,
					[]string{}, "Terracotta temples.", "", "", "", "", []string{}, []string{}, nil, nil, "",
				))

		places, err := repo.FetchPlaces(ctx)

		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, models.KindWaterfall, places[0].Kind)
		assert.Equal(t, "Lodh Falls", places[0].Name)
		assert.InDelta(t, 4.6, places[0].Rating, 0)
		require.NotNil(t, places[0].Coordinates)
		assert.InDelta(t, 23.4667, places[0].Coordinates.Latitude, 0)
		assert.Equal(t, []string{"Netarhat"}, places[0].Nearby)
		assert.Nil(t, places[1].Coordinates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCountPlaces(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	query := `SELECT count(*) FROM places;`

	t.Run("error - count places", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(assert.AnError)

		_, err = repo.CountPlaces(ctx)

		require.ErrorContains(t, err, "failed to count places")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - count places", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(26))

		count, err := repo.CountPlaces(ctx)

		require.NoError(t, err)
		assert.Equal(t, 26, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewRepository(mock, slog.Default())

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS places")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repo.Migrate(t.Context()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPlace(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	place := models.Place{
		ID:       "hundru-falls",
		Kind:     models.KindWaterfall,
		Name:     "Hundru Falls",
		Location: "Ranchi",
		Category: "major",
		Rating:   4.5,
		Coordinates: &models.Coordinates{
			Latitude:  23.4507,
			Longitude: 85.6661,
		},
	}
	upsert := regexp.QuoteMeta("INSERT INTO places (")

	t.Run("error - upsert place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(upsert).WithArgs(
			"waterfall", "hundru-falls", "Hundru Falls", "Ranchi", "major", 4.5,
			[]string{}, "", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), ptr(23.4507), ptr(85.6661), pgxmock.AnyArg(),
		).WillReturnError(assert.AnError)

		err = repo.UpsertPlace(ctx, place)

		require.ErrorContains(t, err, "failed to upsert place waterfall/hundru-falls")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - upsert place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(upsert).WithArgs(
			"waterfall", "hundru-falls", "Hundru Falls", "Ranchi", "major", 4.5,
			[]string{}, "", (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
			[]string(nil), []string(nil), ptr(23.4507), ptr(85.6661), (*string)(nil),
		).WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.UpsertPlace(ctx, place))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpsertPlaces(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	places := []models.Place{
		{ID: "dimna-lake", Kind: models.KindLake, Name: "Dimna Lake", Location: "Jamshedpur", Category: "reservoir"},
		{ID: "tilaiya-dam", Kind: models.KindDam, Name: "Tilaiya Dam", Location: "Koderma", Category: "reservoir"},
	}
	upsert := regexp.QuoteMeta("INSERT INTO places (")
	anyArgs := make([]any, 17)
	for i := range anyArgs {
		anyArgs[i] = pgxmock.AnyArg()
	}

	t.Run("success - commit all", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectBegin()
		mock.ExpectExec(upsert).WithArgs(anyArgs...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(upsert).WithArgs(anyArgs...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		require.NoError(t, repo.UpsertPlaces(ctx, places))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rolls back", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectBegin()
		mock.ExpectExec(upsert).WithArgs(anyArgs...).WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err = repo.UpsertPlaces(ctx, places)

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - begin", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectBegin().WillReturnError(assert.AnError)

		err = repo.UpsertPlaces(ctx, places)

		require.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

const fetchForGeocodingQuery = `
	SELECT kind, id, name, location
	FROM places
	WHERE
		latitude IS NULL
		AND geocoding_attempts < 5
		AND location <> ''
	ORDER BY kind ASC, id ASC
	LIMIT $1;
`

func TestFetchPlacesForGeocoding(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	limit := 10

	t.Run("error - query places", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchForGeocodingQuery)).WithArgs(limit).WillReturnError(assert.AnError)

		places, err := repo.FetchPlacesForGeocoding(ctx, limit)

		require.Nil(t, places)
		require.ErrorContains(t, err, "failed to query places without coordinates")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchForGeocodingQuery)).WithArgs(limit).
			WillReturnRows(pgxmock.NewRows([]string{"kind", "id", "name", "location"}).
				AddRow("waterfall", 4.2, "Sita Falls", "Jonha, Ranchi district"))

		places, err := repo.FetchPlacesForGeocoding(ctx, limit)

		require.Nil(t, places)
		require.ErrorContains(t, err, "failed to scan place without coordinates")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch places", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchForGeocodingQuery)).WithArgs(limit).
			WillReturnRows(pgxmock.NewRows([]string{"kind", "id", "name", "location"}).
				AddRow("waterfall", "sita-falls", "Sita Falls", "Jonha, Ranchi district"))

		places, err := repo.FetchPlacesForGeocoding(ctx, limit)

		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, models.KindWaterfall, places[0].Kind)
		assert.Equal(t, "Jonha, Ranchi district", places[0].Location)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdatePlaceCoordinates(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	coords := models.Coordinates{Latitude: 23.41, Longitude: 85.59}
	query := `
		UPDATE places
		SET
			latitude = $1,
			longitude = $2,
			geocoding_error = NULL,
			updated_at = now()
		WHERE
			kind = $3 AND id = $4;
	`

	t.Run("error - update place coords", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).WithArgs(coords.Latitude, coords.Longitude, "waterfall", "sita-falls").
			WillReturnError(assert.AnError)

		err = repo.UpdatePlaceCoordinates(ctx, models.KindWaterfall, "sita-falls", coords)

		require.ErrorContains(t, err, "failed to update place coordinates")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - update place coords", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).WithArgs(coords.Latitude, coords.Longitude, "waterfall", "sita-falls").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdatePlaceCoordinates(ctx, models.KindWaterfall, "sita-falls", coords))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIncrementFailureCount(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	query := `
		UPDATE places
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE kind = $2 AND id = $3;
	`

	t.Run("error - increment failure count", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).WithArgs("error", "hill-station", "mccluskieganj").
			WillReturnError(assert.AnError)

		err = repo.IncrementFailureCount(ctx, models.KindHillStation, "mccluskieganj", "error")

		require.ErrorContains(t, err, "failed to update geocoding error and number of attempts")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - increment failure count", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).WithArgs("error", "hill-station", "mccluskieganj").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.IncrementFailureCount(ctx, models.KindHillStation, "mccluskieganj", "error"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
