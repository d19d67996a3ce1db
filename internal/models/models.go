package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// MatchResult is a finished match as stored in match_results
type MatchResult struct {
	ID         int            `db:"id" json:"id"`
	MatchID    string         `db:"match_id" json:"match_id"`
	MatchToken string         `db:"match_token" json:"match_token"`
	Mode       string         `db:"mode" json:"mode"`
	ScoreA     int            `db:"score_a" json:"score_a"`
	ScoreB     int            `db:"score_b" json:"score_b"`
	Winner     string         `db:"winner" json:"winner"`
	Epoch      int64          `db:"epoch" json:"epoch"`
	Goals      types.JSONText `db:"goals" json:"goals"`
	StartedAt  sql.NullTime   `db:"started_at" json:"started_at,omitempty"`
	FinishedAt time.Time      `db:"finished_at" json:"finished_at"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// AdminAccount represents an operator allowed to manage running matches
type AdminAccount struct {
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	TokenHash   string    `db:"token_hash" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one entry of the admin audit log
type AdminAudit struct {
	ID            int            `db:"id" json:"id"`
	AdminUsername string         `db:"admin_username" json:"admin_username"`
	IP            string         `db:"ip" json:"ip"`
	Route         string         `db:"route" json:"route"`
	Action        string         `db:"action" json:"action"`
	Details       types.JSONText `db:"details" json:"details"`
	Success       bool           `db:"success" json:"success"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// RuntimeConfig is a tuning override editable by admins
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
