// Package migration stores all database migrations
package migration

import (
	"github.com/sirupsen/logrus"

	"github.com/wsmxd/mxdblog/pkg/logging"
)

func logApplying(migrationID string) {
	logMigration(migrationID, "apply")
}

func logRollingBack(migrationID string) {
	logMigration(migrationID, "rollback")
}

func logMigration(migrationID, action string) {
	logging.GetSystemLogger().WithFields(logrus.Fields{
		"migration": migrationID,
		"action":    action,
	}).Info("running database migration")
}
