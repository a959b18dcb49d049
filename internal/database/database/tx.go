package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	projectModel "github.com/teamlance/engagements/internal/project/model"
	"github.com/teamlance/engagements/pkg/retry"
)

// RunInProjectTx runs fn inside the per-project critical section: a
// transaction holding a row lock on the project, so all mutating operations
// on one project are mutually exclusive while operations on different
// projects proceed concurrently. fn receives the locked, current project row;
// auto-completion and consensus evaluation must happen inside fn.
func RunInProjectTx(
	ctx context.Context,
	db *gorm.DB,
	projectID string,
	fn func(tx *gorm.DB, p *projectModel.Project) error,
) error {
	run := func() error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := lockProject(tx, projectID)
			if err != nil {
				return err
			}
			return fn(tx, p)
		})
	}

	err := retry.Do(ctx, retry.TxConfig(), run)
	if err != nil && isTransient(err) {
		return projectModel.ErrUnavailable
	}
	return err
}

// lockProject loads the project row under an exclusive row lock.
func lockProject(tx *gorm.DB, projectID string) (*projectModel.Project, error) {
	q := tx
	// SQLite has no FOR UPDATE; it serializes writers at the database level.
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p projectModel.Project
	err := q.Where("project_id = ?", projectID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectModel.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// isTransient reports whether the error matches a transient failure pattern.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	return retry.IsRetryableError(err, retry.TxConfig())
}
