// Package render turns session snapshots into the HTML fragments pushed to
// clients and into join-link QR codes.
package render

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of generated QR images.
const DefaultQRSize = 256

// JoinURL builds the link a player scans or clicks to join a session.
func JoinURL(publicURL, sessionID, code string) string {
	base := strings.TrimRight(publicURL, "/")
	u := base + "/game/" + url.PathEscape(sessionID)
	if code != "" {
		u += "?gameCode=" + url.QueryEscape(code)
	}
	return u
}

// JoinQR renders link as a PNG QR code.
func JoinQR(link string, size int) ([]byte, error) {
	if link == "" {
		return nil, fmt.Errorf("join link is required")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
