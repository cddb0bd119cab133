package order

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultBaseURL is the WhatsApp click-to-chat endpoint
const DefaultBaseURL = "https://wa.me/"

// LinkBuilder creates messaging deep links for a fixed base URL
type LinkBuilder struct {
	BaseURL string
}

// NewLinkBuilder creates a builder, falling back to DefaultBaseURL
func NewLinkBuilder(baseURL string) LinkBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return LinkBuilder{BaseURL: baseURL}
}

// Build returns BaseURL + destination + "?text=" + the encoded message
func (l LinkBuilder) Build(message, destination string) string {
	return l.BaseURL + destination + "?text=" + EncodeComponent(message)
}

// BuildDeepLink builds a link against DefaultBaseURL
func BuildDeepLink(message, destination string) string {
	return NewLinkBuilder(DefaultBaseURL).Build(message, destination)
}

// EncodeComponent percent-encodes s for a query value, spaces as %20
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// QRCode renders the link as a PNG QR code of the given pixel size
func QRCode(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
