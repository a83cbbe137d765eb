package gesturestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arjunv/mudra/internal/gesture"
	"github.com/arjunv/mudra/internal/hand"
)

// Record is a gesture library row, distinct from the core's gesture.Gesture
// value type so that package gesture stays ignorant of SQL.
type Record struct {
	ID         string
	Name       string
	Frames     []hand.Hand
	FrameCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ToGesture converts a Record to the core gesture.Gesture value.
func (r *Record) ToGesture() gesture.Gesture {
	return gesture.Gesture{Name: r.Name, Frames: r.Frames}
}

// GestureRepository provides CRUD operations over the gesture library.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

// Create inserts a new Record with the given name and frames, generating its ID.
func (r *GestureRepository) Create(name string, frames []hand.Hand) (*Record, error) {
	payload, err := json.Marshal(frames)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &Record{
		ID:         uuid.NewString(),
		Name:       name,
		Frames:     frames,
		FrameCount: len(frames),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = r.db.Exec(
		`INSERT INTO gestures (id, name, frames, frame_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(payload), rec.FrameCount, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByID retrieves a Record by its ID.
func (r *GestureRepository) GetByID(id string) (*Record, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, frames, frame_count, created_at, updated_at FROM gestures WHERE id = ?`, id))
}

// GetByName retrieves the first Record matching name.
func (r *GestureRepository) GetByName(name string) (*Record, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, frames, frame_count, created_at, updated_at FROM gestures WHERE name = ?`, name))
}

// List retrieves every stored Record, most recently created first.
func (r *GestureRepository) List() ([]*Record, error) {
	rows, err := r.db.Query(
		`SELECT id, name, frames, frame_count, created_at, updated_at FROM gestures ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Rename updates a Record's name in place, leaving its frames untouched.
func (r *GestureRepository) Rename(id, name string) error {
	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a Record by its ID.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *GestureRepository) scanOne(row *sql.Row) (*Record, error) {
	rec, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func scanRow(s rowScanner) (*Record, error) {
	var rec Record
	var payload string

	if err := s.Scan(&rec.ID, &rec.Name, &payload, &rec.FrameCount, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &rec.Frames); err != nil {
		return nil, err
	}
	return &rec, nil
}
