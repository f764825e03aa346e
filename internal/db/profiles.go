package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// ErrProfileNotFound is returned when a profile ID does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ListProfiles returns every stored profile ordered by ID.
func (db *DB) ListProfiles(ctx context.Context) ([]types.Profile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, skills, experience, summary FROM candidate_profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []types.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile returns one profile by ID.
func (db *DB) GetProfile(ctx context.Context, id string) (*types.Profile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, name, skills, experience, summary FROM candidate_profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// UpsertProfiles inserts or replaces profiles in one transaction.
func (db *DB) UpsertProfiles(ctx context.Context, profiles []types.Profile) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range profiles {
		exp, err := encodeExperience(p.Experience)
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.ID, err)
		}
		batch.Queue(
			`INSERT INTO candidate_profiles (id, name, skills, experience, summary)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET name = $2, skills = $3, experience = $4, summary = $5, updated_at = NOW()`,
			p.ID, p.Name, nonNil(p.Skills), exp, p.Summary,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert profiles: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profiles: %w", err)
	}
	return nil
}

// DeleteProfile removes a profile by ID.
func (db *DB) DeleteProfile(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM candidate_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*types.Profile, error) {
	var (
		p   types.Profile
		exp []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Skills, &exp, &p.Summary); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	experience, err := decodeExperience(exp)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	p.Experience = experience
	p.Skills = nonNil(p.Skills)
	return &p, nil
}

func encodeExperience(exp map[string]float64) ([]byte, error) {
	if exp == nil {
		exp = map[string]float64{}
	}
	data, err := json.Marshal(exp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal experience: %w", err)
	}
	return data, nil
}

func decodeExperience(data []byte) (map[string]float64, error) {
	exp := map[string]float64{}
	if len(data) == 0 {
		return exp, nil
	}
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experience: %w", err)
	}
	return exp, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
