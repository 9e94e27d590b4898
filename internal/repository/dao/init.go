package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Unit{},
		&Patrol{},
		&Challenge{},
		&Completion{},
		&User{},
		&Terrain{},
		&Reservation{},
	)
}

// DropTables removes every table owned by the application, children first.
func DropTables(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&Reservation{},
		&Terrain{},
		&User{},
		&Completion{},
		&Challenge{},
		&Patrol{},
		&Unit{},
	)
}
