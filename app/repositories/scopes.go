// Package repositories holds the gorm queries behind the services. Every
// query that reads or writes user-owned rows is scoped here, so a service
// cannot forget the ownership filter.
package repositories

import "gorm.io/gorm"

// ownedBy restricts a query to rows whose user_id is userID.
func ownedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// ownedThroughMissingColumn is the ownership filter for detail_orders,
// payments and expedition_orders. Those tables carry no user_id, so an
// owner-scoped lookup matches nothing: lists are empty, single-row lookups
// miss and bulk deletes affect no rows.
func ownedThroughMissingColumn(uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 0")
	}
}
