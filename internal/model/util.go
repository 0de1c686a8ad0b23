// Package model contains the gorm models persisted to the database.
package model

// MigrateAble is the list of model instances used for database migration.
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&JobListing{},
		&Application{},
		&NotificationIntent{},
	)
}
