package versions

import (
	"gorm.io/gorm"
)

func Migration1(db *gorm.DB) error {
	type Publication struct {
		Citations int
	}

	if err := db.Migrator().AddColumn(&Publication{}, "Citations"); err != nil {
		return err
	}

	return nil
}

func Rollback1(db *gorm.DB) error {
	type Publication struct {
		Citations int
	}

	if err := db.Migrator().DropColumn(&Publication{}, "Citations"); err != nil {
		return err
	}

	return nil
}
