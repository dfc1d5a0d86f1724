package db

// Migrate runs all database migrations
func (d *DB) Migrate() error {
	return d.WithLock(func() error {
		// Create campaigns table
		_, err := d.db.Exec(`
			CREATE TABLE IF NOT EXISTS campaigns (
				campaign_id TEXT PRIMARY KEY,
				campaign_type TEXT NOT NULL,
				start_date TIMESTAMP,
				end_date TIMESTAMP,
				target_segment TEXT NOT NULL,
				message_template TEXT NOT NULL,
				call_to_action TEXT,
				status TEXT NOT NULL DEFAULT 'active',
				budget REAL,
				metrics_json TEXT
			)
		`)
		if err != nil {
			return err
		}

		// Create interaction_logs table (append-only, never updated)
		_, err = d.db.Exec(`
			CREATE TABLE IF NOT EXISTS interaction_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				campaign_id TEXT,
				message TEXT,
				response_type TEXT,
				engagement_time REAL,
				conversion_action TEXT,
				timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				sentiment_score REAL
			)
		`)
		if err != nil {
			return err
		}

		// Create user_profiles table
		_, err = d.db.Exec(`
			CREATE TABLE IF NOT EXISTS user_profiles (
				user_id TEXT PRIMARY KEY,
				username TEXT,
				join_date TIMESTAMP,
				activity_level REAL,
				interests TEXT,
				segment TEXT,
				last_interaction TIMESTAMP,
				total_interactions INTEGER DEFAULT 0,
				conversions INTEGER DEFAULT 0
			)
		`)
		if err != nil {
			return err
		}

		// Create indexes for better query performance
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_interaction_logs_user ON interaction_logs(user_id)",
			"CREATE INDEX IF NOT EXISTS idx_interaction_logs_campaign ON interaction_logs(campaign_id)",
			"CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status)",
		}

		for _, idx := range indexes {
			if _, err := d.db.Exec(idx); err != nil {
				return err
			}
		}

		return nil
	})
}
