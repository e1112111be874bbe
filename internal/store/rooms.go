package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"roomhunt-engine/internal/domain"
)

const dateLayout = "2006-01-02"

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS rooms (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL,
  date_added TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  area TEXT NOT NULL DEFAULT '',
  postcode TEXT NOT NULL DEFAULT '',
  nearest_station TEXT NOT NULL DEFAULT '',
  poster_type TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  available TEXT NOT NULL DEFAULT '',
  minimum_term TEXT NOT NULL DEFAULT '',
  maximum_term TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  location_1 TEXT NOT NULL DEFAULT '',
  location_2 TEXT NOT NULL DEFAULT '',
  direct_line INTEGER,
  average_price INTEGER,
  average_deposit REAL,
  number_of_flatmates INTEGER,
  total_number_of_rooms INTEGER,
  collective_word_count INTEGER NOT NULL DEFAULT 0,
  bills_included INTEGER NOT NULL DEFAULT 0,
  broadband_included INTEGER NOT NULL DEFAULT 0,
  furnishings INTEGER NOT NULL DEFAULT 0,
  garden_or_patio INTEGER NOT NULL DEFAULT 0,
  living_room INTEGER NOT NULL DEFAULT 0,
  balcony_or_roof_terrace INTEGER NOT NULL DEFAULT 0,
  room_sizes TEXT NOT NULL DEFAULT '[]',
  available_all_week INTEGER NOT NULL DEFAULT 1,
  score REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_rooms_score ON rooms(score DESC);
`)
	return err
}

// LoadRooms reads the whole collection. An empty or freshly migrated
// store yields an empty slice, not an error.
func (d *DB) LoadRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, status, url, date_added, title, type, area, postcode, nearest_station,
       poster_type, image_url, available, minimum_term, maximum_term,
       location, location_1, location_2, direct_line,
       average_price, average_deposit, number_of_flatmates, total_number_of_rooms,
       collective_word_count, bills_included, broadband_included, furnishings,
       garden_or_patio, living_room, balcony_or_roof_terrace,
       room_sizes, available_all_week, score
FROM rooms
ORDER BY date_added, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var (
			r          domain.Room
			dateStr    string
			directLine sql.NullInt64
			avgPrice   sql.NullInt64
			avgDeposit sql.NullFloat64
			flatmates  sql.NullInt64
			totalRooms sql.NullInt64
			sizesJSON  string
			tri        [6]int
			allWeek    int
		)
		if err := rows.Scan(
			&r.ID, &r.Status, &r.URL, &dateStr, &r.Title, &r.Type, &r.Area, &r.Postcode, &r.NearestStation,
			&r.PosterType, &r.ImageURL, &r.Available, &r.MinimumTerm, &r.MaximumTerm,
			&r.Location, &r.Location1, &r.Location2, &directLine,
			&avgPrice, &avgDeposit, &flatmates, &totalRooms,
			&r.CollectiveWordCount, &tri[0], &tri[1], &tri[2], &tri[3], &tri[4], &tri[5],
			&sizesJSON, &allWeek, &r.Score,
		); err != nil {
			return nil, err
		}

		r.DateAdded, _ = time.Parse(dateLayout, dateStr)
		if directLine.Valid {
			v := directLine.Int64 != 0
			r.DirectLine = &v
		}
		if avgPrice.Valid {
			v := int(avgPrice.Int64)
			r.AveragePrice = &v
		}
		if avgDeposit.Valid {
			v := avgDeposit.Float64
			r.AverageDeposit = &v
		}
		if flatmates.Valid {
			v := int(flatmates.Int64)
			r.NumberOfFlatmates = &v
		}
		if totalRooms.Valid {
			v := int(totalRooms.Int64)
			r.TotalNumberOfRooms = &v
		}
		_ = json.Unmarshal([]byte(sizesJSON), &r.RoomSizes)
		r.BillsIncluded = domain.TriState(tri[0])
		r.BroadbandIncluded = domain.TriState(tri[1])
		r.Furnishings = domain.TriState(tri[2])
		r.GardenOrPatio = domain.TriState(tri[3])
		r.LivingRoom = domain.TriState(tri[4])
		r.BalconyOrRoofTerrace = domain.TriState(tri[5])
		r.AvailableAllWeek = allWeek != 0

		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceRooms writes the full collection in one transaction. This is
// the only place the record store is ever written.
func (d *DB) ReplaceRooms(ctx context.Context, rooms []domain.Room) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace rooms: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms;`); err != nil {
		return fmt.Errorf("replace rooms: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO rooms (
  id, status, url, date_added, title, type, area, postcode, nearest_station,
  poster_type, image_url, available, minimum_term, maximum_term,
  location, location_1, location_2, direct_line,
  average_price, average_deposit, number_of_flatmates, total_number_of_rooms,
  collective_word_count, bills_included, broadband_included, furnishings,
  garden_or_patio, living_room, balcony_or_roof_terrace,
  room_sizes, available_all_week, score
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`)
	if err != nil {
		return fmt.Errorf("replace rooms: %w", err)
	}
	defer stmt.Close()

	for _, r := range rooms {
		sizesJSON, _ := json.Marshal(r.RoomSizes)
		if r.RoomSizes == nil {
			sizesJSON = []byte("[]")
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Status, r.URL, r.DateAdded.Format(dateLayout), r.Title, r.Type, r.Area, r.Postcode, r.NearestStation,
			r.PosterType, r.ImageURL, r.Available, r.MinimumTerm, r.MaximumTerm,
			r.Location, r.Location1, r.Location2, nullBool(r.DirectLine),
			nullInt(r.AveragePrice), nullFloat(r.AverageDeposit), nullInt(r.NumberOfFlatmates), nullInt(r.TotalNumberOfRooms),
			r.CollectiveWordCount, int(r.BillsIncluded), int(r.BroadbandIncluded), int(r.Furnishings),
			int(r.GardenOrPatio), int(r.LivingRoom), int(r.BalconyOrRoofTerrace),
			string(sizesJSON), boolInt(r.AvailableAllWeek), r.Score,
		); err != nil {
			return fmt.Errorf("replace rooms: insert %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func nullBool(p *bool) any {
	if p == nil {
		return nil
	}
	return boolInt(*p)
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
