// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package library

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a code name has no library entry
var ErrNotFound = errors.New("code not found in library")

// Repository provides database operations for stored IR codes
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByName finds a code by its name
func (r *Repository) GetByName(name string) (*Code, error) {
	var code Code
	err := r.db.Where("name = ?", name).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// Upsert creates or updates a code by name
func (r *Repository) Upsert(code *Code) error {
	if code == nil {
		return fmt.Errorf("code cannot be nil")
	}
	code.SanitizeName()
	if !code.IsValid() {
		return fmt.Errorf("code is not valid: name=%q frame=%q", code.Name, code.Frame)
	}
	code.UpdatedAt = time.Now()

	existing, err := r.GetByName(code.Name)
	if err == nil {
		code.ID = existing.ID
		code.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.db.Save(code).Error
}

// List returns all codes ordered by name
func (r *Repository) List() ([]Code, error) {
	var codes []Code
	err := r.db.Order("name ASC").Find(&codes).Error
	return codes, err
}

// Delete removes a code by name
func (r *Repository) Delete(name string) error {
	result := r.db.Where("name = ?", name).Delete(&Code{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Count returns the total number of stored codes
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Code{}).Count(&count).Error
	return count, err
}
