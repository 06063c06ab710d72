package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS places (
		kind               text NOT NULL,
		id                 text NOT NULL,
		name               text NOT NULL,
		location           text NOT NULL,
		category           text NOT NULL,
		rating             double precision NOT NULL,
		images             text[] NOT NULL DEFAULT '{}',
		description        text NOT NULL DEFAULT '',
		history            text,
		significance       text,
		timings            text,
		best_time          text,
		nearby             text[],
		facilities         text[],
		latitude           double precision,
		longitude          double precision,
		contact_number     text,
		geocoding_attempts integer NOT NULL DEFAULT 0,
		geocoding_error    text,
		updated_at         timestamptz NOT NULL DEFAULT now(),
		PRIMARY KEY (kind, id)
	);
`

// Migrate creates the places table when it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create places table: %w", err)
	}

	return nil
}

// CountPlaces returns the number of stored places.
func (r *Repository) CountPlaces(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM places;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count places: %w", err)
	}

	return count, nil
}

// FetchPlaces retrieves every stored place ordered by kind and rating, best first.
// Places without both coordinates are returned without coordinates.
func (r *Repository) FetchPlaces(ctx context.Context) ([]models.Place, error) {
	query := `
		SELECT
			kind, id, name, location, category, rating, images, description,
			COALESCE(history, ''), COALESCE(significance, ''), COALESCE(timings, ''),
			COALESCE(best_time, ''), COALESCE(nearby, '{}'), COALESCE(facilities, '{}'),
			latitude, longitude, COALESCE(contact_number, '')
		FROM places
		ORDER BY kind ASC, rating DESC, id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var (
			place    models.Place
			kind     string
			lat, lng *float64
		)
		if errScan := rows.Scan(
			&kind, &place.ID, &place.Name, &place.Location, &place.Category, &place.Rating,
			&place.Images, &place.Description, &place.History, &place.Significance, &place.Timings,
			&place.BestTime, &place.Nearby, &place.Facilities, &lat, &lng, &place.ContactNumber,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan place: %w", errScan)
		}

		place.Kind = models.Kind(kind)
		if lat != nil && lng != nil {
			place.Coordinates = &models.Coordinates{Latitude: *lat, Longitude: *lng}
		}
		places = append(places, place)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Places fetched from database", "count", len(places))

	return places, nil
}

const upsertPlaceQuery = `
	INSERT INTO places (
		kind, id, name, location, category, rating, images, description,
		history, significance, timings, best_time, nearby, facilities,
		latitude, longitude, contact_number
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (kind, id) DO UPDATE SET
		name = EXCLUDED.name,
		location = EXCLUDED.location,
		category = EXCLUDED.category,
		rating = EXCLUDED.rating,
		images = EXCLUDED.images,
		description = EXCLUDED.description,
		history = EXCLUDED.history,
		significance = EXCLUDED.significance,
		timings = EXCLUDED.timings,
		best_time = EXCLUDED.best_time,
		nearby = EXCLUDED.nearby,
		facilities = EXCLUDED.facilities,
		latitude = COALESCE(EXCLUDED.latitude, places.latitude),
		longitude = COALESCE(EXCLUDED.longitude, places.longitude),
		contact_number = EXCLUDED.contact_number,
		updated_at = now();
`

// UpsertPlace inserts a place or replaces the stored one with the same kind and id.
// Stored coordinates survive an upsert of a place without coordinates.
func (r *Repository) UpsertPlace(ctx context.Context, place models.Place) error {
	if _, err := r.db.Exec(ctx, upsertPlaceQuery, placeArgs(place)...); err != nil {
		return fmt.Errorf("failed to upsert place %s/%s: %w", place.Kind, place.ID, err)
	}

	return nil
}

// UpsertPlaces stores all places in one transaction.
func (r *Repository) UpsertPlaces(ctx context.Context, places []models.Place) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, place := range places {
		if _, err = tx.Exec(ctx, upsertPlaceQuery, placeArgs(place)...); err != nil {
			return fmt.Errorf("failed to upsert place %s/%s: %w", place.Kind, place.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit places: %w", err)
	}

	return nil
}

// FetchPlacesForGeocoding retrieves places that have no coordinates yet.
// It returns places with a NULL latitude and fewer than 5 geocoding attempts,
// limited to the specified count.
func (r *Repository) FetchPlacesForGeocoding(ctx context.Context, limit int) ([]models.Place, error) {
	query := `
		SELECT kind, id, name, location
		FROM places
		WHERE
			latitude IS NULL
			AND geocoding_attempts < 5
			AND location <> ''
		ORDER BY kind ASC, id ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query places without coordinates: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var (
			place models.Place
			kind  string
		)
		if errScan := rows.Scan(&kind, &place.ID, &place.Name, &place.Location); errScan != nil {
			return nil, fmt.Errorf("failed to scan place without coordinates: %w", errScan)
		}
		place.Kind = models.Kind(kind)
		r.log.DebugContext(ctx, "A place without coordinates has been received.",
			"kind", place.Kind, "id", place.ID, "location", place.Location)
		places = append(places, place)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return places, nil
}

// UpdatePlaceCoordinates stores geocoded coordinates and clears the last geocoding error.
func (r *Repository) UpdatePlaceCoordinates(
	ctx context.Context,
	kind models.Kind,
	id string,
	coords models.Coordinates,
) error {
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

	_, err := r.db.Exec(ctx, query, coords.Latitude, coords.Longitude, string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to update place coordinates: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the geocoding attempt count of a place
// and records the error message.
func (r *Repository) IncrementFailureCount(ctx context.Context, kind models.Kind, id, errMsg string) error {
	query := `
		UPDATE places
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE kind = $2 AND id = $3;
	`

	_, err := r.db.Exec(ctx, query, errMsg, string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}

func placeArgs(place models.Place) []any {
	var lat, lng *float64
	if place.Coordinates != nil {
		lat, lng = &place.Coordinates.Latitude, &place.Coordinates.Longitude
	}

	images := place.Images
	if images == nil {
		images = []string{}
	}

	return []any{
		string(place.Kind), place.ID, place.Name, place.Location, place.Category, place.Rating,
		images, place.Description, nullable(place.History), nullable(place.Significance),
		nullable(place.Timings), nullable(place.BestTime), place.Nearby, place.Facilities,
		lat, lng, nullable(place.ContactNumber),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
