package db

import (
	"database/sql"
	"encoding/json"
	"log"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// CreateCampaign persists a new campaign
func (d *DB) CreateCampaign(c *models.Campaign) error {
	return d.WithLock(func() error {
		log.Printf("[DB] CreateCampaign started campaign_id=%s type=%s segment=%s", c.CampaignID, c.Type, c.TargetSegment)

		_, err := d.db.Exec(
			`INSERT INTO campaigns
			(campaign_id, campaign_type, start_date, end_date, target_segment, message_template, call_to_action, status, budget, metrics_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.CampaignID, string(c.Type), c.StartDate, c.EndDate,
			string(c.TargetSegment), c.MessageTemplate, c.CallToAction,
			string(c.Status), c.Budget, "{}",
		)
		if err != nil {
			log.Printf("[DB] CreateCampaign failed: exec error err=%v", err)
			return err
		}

		log.Printf("[DB] CreateCampaign completed campaign_id=%s", c.CampaignID)
		return nil
	})
}

// GetCampaign retrieves a campaign by ID
func (d *DB) GetCampaign(campaignID string) (*models.Campaign, error) {
	return WithLockResult(d, func() (*models.Campaign, error) {
		row := d.db.QueryRow(
			`SELECT campaign_id, campaign_type, start_date, end_date, target_segment, message_template, call_to_action, status, budget
			FROM campaigns WHERE campaign_id = ?`,
			campaignID,
		)

		var c models.Campaign
		var ctype, segment, status string
		var cta sql.NullString
		err := row.Scan(&c.CampaignID, &ctype, &c.StartDate, &c.EndDate, &segment, &c.MessageTemplate, &cta, &status, &c.Budget)
		if err != nil {
			return nil, err
		}

		c.Type = models.CampaignType(ctype)
		c.TargetSegment = models.AudienceSegment(segment)
		c.Status = models.CampaignStatus(status)
		if cta.Valid {
			c.CallToAction = cta.String
		}

		return &c, nil
	})
}

// GetActiveCampaigns retrieves all campaigns with status 'active'
func (d *DB) GetActiveCampaigns() ([]models.Campaign, error) {
	return WithLockResult(d, func() ([]models.Campaign, error) {
		rows, err := d.db.Query(
			`SELECT campaign_id, campaign_type, start_date, end_date, target_segment, message_template, call_to_action, status, budget
			FROM campaigns WHERE status = 'active' ORDER BY start_date DESC`,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var campaigns []models.Campaign
		for rows.Next() {
			var c models.Campaign
			var ctype, segment, status string
			var cta sql.NullString
			if err := rows.Scan(&c.CampaignID, &ctype, &c.StartDate, &c.EndDate, &segment, &c.MessageTemplate, &cta, &status, &c.Budget); err != nil {
				return nil, err
			}
			c.Type = models.CampaignType(ctype)
			c.TargetSegment = models.AudienceSegment(segment)
			c.Status = models.CampaignStatus(status)
			if cta.Valid {
				c.CallToAction = cta.String
			}
			campaigns = append(campaigns, c)
		}

		return campaigns, rows.Err()
	})
}

// UpdateCampaignStatus changes a campaign's lifecycle status.
// Status is the only mutable campaign field.
func (d *DB) UpdateCampaignStatus(campaignID string, status models.CampaignStatus) error {
	return d.WithLock(func() error {
		result, err := d.db.Exec(
			`UPDATE campaigns SET status = ? WHERE campaign_id = ?`,
			string(status), campaignID,
		)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return sql.ErrNoRows
		}

		return nil
	})
}

// SaveCampaignMetrics stores a metrics snapshot as JSON alongside the campaign.
// The snapshot is a cache; the interaction log remains the source of truth.
func (d *DB) SaveCampaignMetrics(campaignID string, metrics *models.CampaignMetrics) error {
	return d.WithLock(func() error {
		data, err := json.Marshal(metrics)
		if err != nil {
			return err
		}

		_, err = d.db.Exec(
			`UPDATE campaigns SET metrics_json = ? WHERE campaign_id = ?`,
			string(data), campaignID,
		)
		return err
	})
}
