package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRService renders verification QR codes for certificates and member cards.
type QRService struct {
	baseURL string
}

func NewQRService(baseURL string) *QRService {
	return &QRService{baseURL: baseURL}
}

// CertificateQR returns a PNG QR code pointing at the public verification
// page for the given certificate number.
func (s *QRService) CertificateQR(number string, size int) ([]byte, error) {
	fullURL := fmt.Sprintf("%s/verify?number=%s", s.baseURL, number)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}
	return png, nil
}
