// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package library

import (
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/zephyr/pkg/soleus"
)

// Code is one stored IR code: a named Soleus frame plus its Pronto hex
// export, captured or entered by hand.
type Code struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Frame     string    `gorm:"size:32;not null" json:"frame"`
	Command   string    `gorm:"size:80" json:"command"`
	Pronto    string    `json:"pronto"`
	Matches   int       `json:"matches"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Code) TableName() string {
	return "codes"
}

// DecodeFrame parses the stored frame hex back into a Soleus frame
func (c Code) DecodeFrame() (soleus.Frame, error) {
	return soleus.ParseFrame(c.Frame)
}

// IsValid checks that the record has the required fields and that the
// frame hex actually parses
func (c Code) IsValid() bool {
	if c.Name == "" {
		return false
	}
	_, err := soleus.ParseFrame(c.Frame)
	return err == nil
}

// SanitizeName trims and lowercases the code name
func (c *Code) SanitizeName() {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
}

// String returns a one-line listing representation
func (c Code) String() string {
	result := fmt.Sprintf("%-20s %s", c.Name, c.Frame)
	if c.Command != "" {
		result += fmt.Sprintf("  (%s)", c.Command)
	}
	return result
}

// NewCode builds a library record from a frame, deriving the command
// description and Pronto export from the frame itself.
func NewCode(name string, frame soleus.Frame, matches int) (*Code, error) {
	cmd, err := soleus.DecodeFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("refusing to store undecodable frame: %w", err)
	}
	return &Code{
		Name:    name,
		Frame:   frame.String(),
		Command: soleus.FormatCommand(cmd),
		Pronto:  soleus.ProntoFromPulses(soleus.EncodePulses(frame)),
		Matches: matches,
	}, nil
}
