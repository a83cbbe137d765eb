package gesturestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Action binds a recognized gesture to a plugin action invocation.
type Action struct {
	ID         string
	GestureID  string
	PluginName string
	ActionName string
	Config     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// ActionRepository provides CRUD operations over gesture-to-plugin bindings.
type ActionRepository struct {
	db *sql.DB
}

// Actions returns the action repository for this store.
func (s *Store) Actions() *ActionRepository {
	return &ActionRepository{db: s.db}
}

// Create inserts a new action binding.
func (r *ActionRepository) Create(a *Action) error {
	a.CreatedAt = time.Now()

	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO actions (id, gesture_id, plugin_name, action_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.GestureID, a.PluginName, a.ActionName, string(config), a.Enabled, a.CreatedAt,
	)
	return err
}

// GetByID retrieves an action by its ID.
func (r *ActionRepository) GetByID(id string) (*Action, error) {
	return scanAction(r.db.QueryRow(
		`SELECT id, gesture_id, plugin_name, action_name, config, enabled, created_at
		 FROM actions WHERE id = ?`, id))
}

// GetByGestureID retrieves the action bound to gestureID, or nil, nil if
// none is bound (mirrors the teacher's silent-skip convention: an unbound
// gesture is common, not exceptional).
func (r *ActionRepository) GetByGestureID(gestureID string) (*Action, error) {
	a, err := scanAction(r.db.QueryRow(
		`SELECT id, gesture_id, plugin_name, action_name, config, enabled, created_at
		 FROM actions WHERE gesture_id = ?`, gestureID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return a, err
}

// List retrieves every action binding, most recently created first.
func (r *ActionRepository) List() ([]*Action, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, plugin_name, action_name, config, enabled, created_at
		 FROM actions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a, err := scanActionRow(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return actions, nil
}

// Update overwrites an existing action binding by ID.
func (r *ActionRepository) Update(a *Action) error {
	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	result, err := r.db.Exec(
		`UPDATE actions SET gesture_id = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		a.GestureID, a.PluginName, a.ActionName, string(config), a.Enabled, a.ID,
	)
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

// Delete removes an action binding by its ID.
func (r *ActionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM actions WHERE id = ?`, id)
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

func scanAction(row *sql.Row) (*Action, error) {
	a, err := scanActionRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanActionRow(s rowScanner) (*Action, error) {
	a := &Action{}
	var config string
	var enabled int

	if err := s.Scan(&a.ID, &a.GestureID, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}
