package db

import (
	"database/sql"
	"log"
	"strings"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// UpsertProfile creates or replaces a user profile. Interests are stored
// as a comma-joined list to match the legacy schema.
func (d *DB) UpsertProfile(p *models.UserProfile) error {
	return d.WithLock(func() error {
		log.Printf("[DB] UpsertProfile started user_id=%s segment=%s", p.UserID, p.Segment)

		_, err := d.db.Exec(
			`INSERT INTO user_profiles
			(user_id, username, join_date, activity_level, interests, segment, last_interaction, total_interactions, conversions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				username = excluded.username,
				activity_level = excluded.activity_level,
				interests = excluded.interests,
				segment = excluded.segment,
				last_interaction = excluded.last_interaction,
				total_interactions = excluded.total_interactions,
				conversions = excluded.conversions`,
			p.UserID, p.Username, p.JoinDate, p.ActivityLevel,
			strings.Join(p.Interests, ","), string(p.Segment),
			p.LastInteraction, p.TotalInteractions, p.Conversions,
		)
		if err != nil {
			log.Printf("[DB] UpsertProfile failed: exec error err=%v", err)
			return err
		}

		log.Printf("[DB] UpsertProfile completed user_id=%s", p.UserID)
		return nil
	})
}

// GetProfile retrieves a user profile by ID
func (d *DB) GetProfile(userID string) (*models.UserProfile, error) {
	return WithLockResult(d, func() (*models.UserProfile, error) {
		row := d.db.QueryRow(
			`SELECT user_id, username, join_date, activity_level, interests, segment, last_interaction, total_interactions, conversions
			FROM user_profiles WHERE user_id = ?`,
			userID,
		)

		var p models.UserProfile
		var username, interests, segment sql.NullString
		var lastInteraction sql.NullTime
		err := row.Scan(&p.UserID, &username, &p.JoinDate, &p.ActivityLevel, &interests, &segment, &lastInteraction, &p.TotalInteractions, &p.Conversions)
		if err != nil {
			return nil, err
		}

		if username.Valid {
			p.Username = username.String
		}
		if interests.Valid && interests.String != "" {
			p.Interests = strings.Split(interests.String, ",")
		}
		if segment.Valid {
			p.Segment = models.AudienceSegment(segment.String)
		}
		if lastInteraction.Valid {
			p.LastInteraction = lastInteraction.Time
		}

		return &p, nil
	})
}
