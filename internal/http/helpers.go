package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"tracker/internal/core"
)

// formatRupees formats an amount as a Rupee currency string (e.g. "₹12.5").
func formatRupees(m core.Money) string {
	if m.Cents < 0 {
		return "-₹" + core.Money{Cents: -m.Cents}.String()
	}
	return "₹" + m.String()
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
