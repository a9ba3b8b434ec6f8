// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/zephyr/pkg/soleus"
)

// Entry is one confirmed capture in the JSON capture log
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	ButtonName string    `json:"button_name"`
	Frame      string    `json:"frame"`
	Command    string    `json:"command"`
	ProntoData string    `json:"pronto_data"`
	Matches    int       `json:"matches_found"`
}

// Log is a JSON-file-backed list of captured codes
type Log struct {
	path    string
	entries []Entry
}

// OpenLog loads an existing capture log or starts an empty one if the
// file doesn't exist yet
func OpenLog(path string) (*Log, error) {
	l := &Log{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read capture log: %w", err)
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, fmt.Errorf("failed to parse capture log %s: %w", path, err)
	}
	return l, nil
}

// Entries returns the loaded entries
func (l *Log) Entries() []Entry {
	return l.entries
}

// Contains reports whether a frame is already present in the log
func (l *Log) Contains(frame soleus.Frame) bool {
	key := frame.String()
	for _, e := range l.entries {
		if e.Frame == key {
			return true
		}
	}
	return false
}

// Append records a confirmed observation and writes the log to disk.
// An empty name gets an auto-generated button_N name, matching the
// historic capture tool output.
func (l *Log) Append(obs Observation, name string) (Entry, error) {
	if name == "" {
		name = fmt.Sprintf("button_%d", len(l.entries)+1)
	}

	entry := Entry{
		Timestamp:  time.Now(),
		ButtonName: name,
		Frame:      obs.Frame.String(),
		Command:    soleus.FormatCommand(obs.Command),
		ProntoData: soleus.ProntoFromPulses(soleus.EncodePulses(obs.Frame)),
		Matches:    obs.Count,
	}
	l.entries = append(l.entries, entry)

	if err := l.save(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (l *Log) save() error {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal capture log: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write capture log: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename capture log: %w", err)
	}
	return nil
}
