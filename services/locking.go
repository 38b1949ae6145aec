package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate row-locks a read inside a mutating transaction so concurrent
// requests against the same row serialize instead of both seeing the
// pre-commit state. sqlite has no FOR UPDATE syntax; its single writer
// already serializes these.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
