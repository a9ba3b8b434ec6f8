// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/pkg/soleus"
)

// Shared --mode/--fan/--temp/--preset flag handling for encode and send

type commandFlags struct {
	mode   string
	fan    string
	temp   int
	preset string
}

func (cf *commandFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cf.mode, "mode", "m", "", "Operating mode: off, cool, auto, fan, dry")
	cmd.Flags().StringVarP(&cf.fan, "fan", "f", "med", "Fan speed: low, med, high")
	cmd.Flags().IntVarP(&cf.temp, "temp", "t", 0, "Target temperature in Fahrenheit (62-86)")
	cmd.Flags().StringVar(&cf.preset, "preset", "", "Preset: eco, sleep (cool mode only)")
}

// parse builds a soleus.Command from the flag values
func (cf *commandFlags) parse() (soleus.Command, error) {
	var c soleus.Command

	switch strings.ToLower(cf.mode) {
	case "off":
		c.Mode = soleus.ModeOff
	case "cool":
		c.Mode = soleus.ModeCool
	case "auto":
		c.Mode = soleus.ModeAuto
	case "fan", "fan_only", "fan-only":
		c.Mode = soleus.ModeFanOnly
	case "dry":
		c.Mode = soleus.ModeDry
	case "heat":
		c.Mode = soleus.ModeHeat
	case "":
		return c, fmt.Errorf("--mode is required (off, cool, auto, fan, dry)")
	default:
		return c, fmt.Errorf("unknown mode: %s (use off, cool, auto, fan, dry)", cf.mode)
	}

	switch strings.ToLower(cf.fan) {
	case "low":
		c.Fan = soleus.FanLow
	case "med", "medium":
		c.Fan = soleus.FanMed
	case "high":
		c.Fan = soleus.FanHigh
	case "":
		c.Fan = soleus.FanUnknown
	default:
		return c, fmt.Errorf("unknown fan speed: %s (use low, med, high)", cf.fan)
	}

	switch strings.ToLower(cf.preset) {
	case "":
		c.Preset = soleus.PresetNone
	case "eco":
		c.Preset = soleus.PresetEco
	case "sleep":
		c.Preset = soleus.PresetSleep
	default:
		return c, fmt.Errorf("unknown preset: %s (use eco or sleep)", cf.preset)
	}

	if c.Preset != soleus.PresetNone && c.Mode != soleus.ModeCool {
		return c, fmt.Errorf("presets apply to cool mode only")
	}

	c.TemperatureF = cf.temp
	if c.HasTemperature() && cf.temp == 0 {
		return c, fmt.Errorf("--temp is required for %s mode", strings.ToLower(c.Mode.String()))
	}

	return c, nil
}
