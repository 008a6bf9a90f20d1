package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ats-backend/internal/model"
)

// UpdateVersioned writes values to the row id of table when its version still equals expected,
// and bumps the version. It returns gorm.ErrRecordNotFound when the row is gone and a
// *model.VersionConflictError when another write got there first.
func UpdateVersioned(tx *gorm.DB, table interface{}, id uint, expected uint, values map[string]interface{}) (uint, error) {
	values["version"] = gorm.Expr("version + 1")

	res := tx.Model(table).Where("id = ? AND version = ?", id, expected).Updates(values)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 1 {
		return expected + 1, nil
	}

	var current struct{ Version uint }
	err := tx.Model(table).Select("version").Where("id = ?", id).Take(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, gorm.ErrRecordNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read current version: %w", err)
	}
	return 0, &model.VersionConflictError{CurrentVersion: current.Version}
}

// Exists reports whether a row with id is present in table.
func Exists(tx *gorm.DB, table interface{}, id uint) (bool, error) {
	var count int64
	if err := tx.Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
