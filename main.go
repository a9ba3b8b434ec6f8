// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Zephyr - Soleus IR remote codec and bridge tool
//
// A CLI tool for encoding, decoding, capturing, and transmitting Soleus
// WS3-08E-201 air conditioner IR remote codes.

package main

import (
	"os"

	"github.com/Thermoquad/zephyr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
