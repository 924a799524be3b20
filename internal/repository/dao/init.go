package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&StaffUser{},
		&Event{},
		&Invitation{},
		&Ticket{},
		&AttendanceRecord{},
		&EventAttendance{},
	)
}
