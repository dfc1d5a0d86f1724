package db

import (
	"database/sql"
	"log"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// AppendInteraction records one interaction event. Rows are append-only;
// nothing in the engine ever updates or deletes them.
func (d *DB) AppendInteraction(rec *models.InteractionLog) (int64, error) {
	return WithLockResult(d, func() (int64, error) {
		log.Printf("[DB] AppendInteraction started user_id=%s campaign_id=%s response_type=%s", rec.UserID, rec.CampaignID, rec.ResponseType)

		result, err := d.db.Exec(
			`INSERT INTO interaction_logs
			(user_id, campaign_id, message, response_type, engagement_time, conversion_action, timestamp, sentiment_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.UserID, rec.CampaignID, rec.Message, rec.ResponseType,
			rec.EngagementTime, rec.ConversionAction, rec.Timestamp, rec.SentimentScore,
		)
		if err != nil {
			log.Printf("[DB] AppendInteraction failed: exec error err=%v", err)
			return 0, err
		}

		id, err := result.LastInsertId()
		if err != nil {
			log.Printf("[DB] AppendInteraction failed: get last insert id err=%v", err)
			return 0, err
		}

		log.Printf("[DB] AppendInteraction completed id=%d user_id=%s", id, rec.UserID)
		return id, nil
	})
}

// GetUserInteractions retrieves the full interaction history for one user
// in insertion order
func (d *DB) GetUserInteractions(userID string) ([]models.InteractionLog, error) {
	return WithLockResult(d, func() ([]models.InteractionLog, error) {
		rows, err := d.db.Query(
			`SELECT id, user_id, campaign_id, message, response_type, engagement_time, conversion_action, timestamp, sentiment_score
			FROM interaction_logs WHERE user_id = ? ORDER BY id ASC`,
			userID,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		return scanInteractions(rows)
	})
}

// CampaignReportRow is the SQL aggregate over a campaign's interaction log
type CampaignReportRow struct {
	TotalInteractions int
	Engagements       int
	AvgEngagementTime float64
	AvgSentiment      float64
	Conversions       int
}

// AggregateCampaignInteractions replays the persisted log for one campaign.
// This is the ground-truth computation behind campaign reports, independent
// of the in-memory counter cache.
func (d *DB) AggregateCampaignInteractions(campaignID string) (*CampaignReportRow, error) {
	return WithLockResult(d, func() (*CampaignReportRow, error) {
		row := d.db.QueryRow(`
			SELECT
				COUNT(*),
				SUM(CASE WHEN response_type = ? THEN 1 ELSE 0 END),
				COALESCE(AVG(engagement_time), 0),
				COALESCE(AVG(sentiment_score), 0.5),
				SUM(CASE WHEN conversion_action IS NOT NULL AND conversion_action != '' THEN 1 ELSE 0 END)
			FROM interaction_logs
			WHERE campaign_id = ?`,
			models.ResponseTypeEngagement, campaignID,
		)

		var report CampaignReportRow
		var engagements, conversions sql.NullInt64
		if err := row.Scan(&report.TotalInteractions, &engagements, &report.AvgEngagementTime, &report.AvgSentiment, &conversions); err != nil {
			return nil, err
		}
		if engagements.Valid {
			report.Engagements = int(engagements.Int64)
		}
		if conversions.Valid {
			report.Conversions = int(conversions.Int64)
		}

		return &report, nil
	})
}

func scanInteractions(rows *sql.Rows) ([]models.InteractionLog, error) {
	var logs []models.InteractionLog
	for rows.Next() {
		var rec models.InteractionLog
		var campaignID, message, responseType, conversionAction sql.NullString
		var engagementTime, sentiment sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.UserID, &campaignID, &message, &responseType, &engagementTime, &conversionAction, &rec.Timestamp, &sentiment); err != nil {
			return nil, err
		}
		if campaignID.Valid {
			rec.CampaignID = campaignID.String
		}
		if message.Valid {
			rec.Message = message.String
		}
		if responseType.Valid {
			rec.ResponseType = responseType.String
		}
		if engagementTime.Valid {
			rec.EngagementTime = engagementTime.Float64
		}
		if conversionAction.Valid {
			rec.ConversionAction = conversionAction.String
		}
		if sentiment.Valid {
			rec.SentimentScore = sentiment.Float64
		}
		logs = append(logs, rec)
	}

	return logs, rows.Err()
}
