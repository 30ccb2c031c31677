// Package models holds the persisted records of the bot.
package models

import "time"

// User is a Telegram user observed by the bot. Users are never deleted.
type User struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	JoinedAt  time.Time `db:"joined_at"`
}

// DisplayName returns the @username, or the full name when no username is set.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}

// LeaderboardEntry records the latest activation of one user.
type LeaderboardEntry struct {
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`
	Phone       string    `db:"phone"`
	ActivatedAt time.Time `db:"activated_at"`
}

// Admin is a persisted administrator.
type Admin struct {
	UserID  int64     `db:"user_id"`
	AddedAt time.Time `db:"added_at"`
}
