// Package qrlabel builds the printable QR label content for a stocked part
// and renders it as a PNG image. The label payload is a pipe-delimited text
// encoding meant to be scanned back by the shop UI; rendering is best-effort
// and callers are expected to fall back to the plain payload when the image
// cannot be produced.
package qrlabel

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DefaultSize is the rendered label edge length in pixels.
const DefaultSize = 256

// Payload encodes the label fields as productCode|partName|carModel|modelYear|sellPrice.
// The sell price is formatted with two decimals.
func Payload(productCode, partName, carModel, modelYear string, sellPrice float64) string {
	return strings.Join([]string{
		productCode,
		partName,
		carModel,
		modelYear,
		fmt.Sprintf("%.2f", sellPrice),
	}, "|")
}

// Render encodes the payload as a QR code and returns it as a PNG. size is
// the edge length in pixels; values below 64 are raised to DefaultSize.
func Render(payload string, size int) ([]byte, error) {
	if size < 64 {
		size = DefaultSize
	}

	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode label payload: %w", err)
	}

	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale label image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("failed to render label image: %w", err)
	}
	return buf.Bytes(), nil
}
