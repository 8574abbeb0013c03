package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/auth/password"
	"gorm.io/gorm"
)

const (
	defaultAdminUserName = "admin"
	defaultAdminRealName = "Administrator"
	defaultAdminEmail    = "admin@tracera.local"
	defaultAdminPassword = "admin"
)

// EnsureAdministrator seeds the bootstrap administrator account so a fresh
// install is usable out of the box. The seed commits the store's first
// revision with no author, since no user exists yet to attribute it to.
func EnsureAdministrator(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.WithContext(ctx).
			Raw("SELECT COUNT(*) FROM user_history WHERE user_name = ?", defaultAdminUserName).
			Scan(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		var nextRevision int64
		err = tx.WithContext(ctx).
			Raw("SELECT COALESCE(MAX(id), 0) + 1 FROM revisions").
			Scan(&nextRevision).Error
		if err != nil {
			return err
		}

		err = tx.WithContext(ctx).
			Exec("INSERT INTO revisions (id, committed_at, author_id) VALUES (?, ?, NULL)",
				nextRevision, time.Now().UTC()).Error
		if err != nil {
			return err
		}

		var userID int64
		err = tx.WithContext(ctx).
			Raw("SELECT COALESCE(MAX(id), 0) + 1 FROM users").
			Scan(&userID).Error
		if err != nil {
			return err
		}

		err = tx.WithContext(ctx).
			Exec("INSERT INTO users (id) VALUES (?)", userID).Error
		if err != nil {
			return err
		}

		hashed, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}

		return tx.WithContext(ctx).
			Exec(`INSERT INTO user_history
				(row_id, user_id, user_name, real_name, email, password_hash, active, revision_id)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				node.Generate(), userID, defaultAdminUserName, defaultAdminRealName,
				defaultAdminEmail, hashed, true, nextRevision).Error
	})
}
