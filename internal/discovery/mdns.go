// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package discovery finds IR bridge devices on the local network via mDNS.
//
// Bridges running the WebSocket link advertise a "_zephyr-ir._tcp" service
// with their link endpoint path and firmware version in TXT records.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/Thermoquad/zephyr/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by IR bridges
	ServiceType = "_zephyr-ir._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default WebSocket port for bridges
	DefaultPort = 80
)

// Bridge is one discovered IR bridge
type Bridge struct {
	Name         string // mDNS instance name
	Hostname     string
	IP           string
	Port         int
	Path         string // WebSocket endpoint path from TXT records
	Version      string // firmware version from TXT records
	DiscoveredAt time.Time
}

// URL returns the ws:// URL for the bridge's link endpoint
func (b *Bridge) URL() string {
	path := b.Path
	if path == "" {
		path = "/link"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("ws://%s:%d%s", b.IP, b.Port, path)
}

// Scanner handles mDNS bridge discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all IR bridges on the local network
func (s *Scanner) Scan() ([]*Bridge, error) {
	return s.ScanWithContext(context.Background())
}

// ScanWithContext discovers bridges with a custom context
func (s *Scanner) ScanWithContext(ctx context.Context) ([]*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	bridges := make([]*Bridge, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if bridge := parseServiceEntry(entry); bridge != nil {
				logging.Debug("discovered bridge",
					zap.String("name", bridge.Name),
					zap.String("ip", bridge.IP),
					zap.Int("port", bridge.Port))
				bridges = append(bridges, bridge)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	return bridges, nil
}

// parseServiceEntry converts a zeroconf service entry to a Bridge.
// Returns nil for entries without a usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Bridge {
	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	bridge := &Bridge{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		DiscoveredAt: time.Now(),
	}

	// TXT records are in "key=value" format
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "path":
			bridge.Path = parts[1]
		case "version":
			bridge.Version = parts[1]
		}
	}

	return bridge
}

// Scan is a convenience function to scan for bridges with a custom timeout
func Scan(timeout time.Duration) ([]*Bridge, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan()
}
