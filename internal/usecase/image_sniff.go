package usecase

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
)

// acceptedImageTypes maps the accepted proof content types to object key extensions.
var acceptedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
}

var heicBrands = [][]byte{
	[]byte("heic"), []byte("heix"), []byte("hevc"), []byte("hevx"),
	[]byte("mif1"), []byte("msf1"),
}

// normalizeContentType strips parameters and lowercases the media type.
// ok is false when the declared type is not an accepted image type.
func normalizeContentType(declared string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", false
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "image/jpg" {
		mediaType = "image/jpeg"
	}
	_, ok := acceptedImageTypes[mediaType]
	return mediaType, ok
}

// sniffImage reports the image type detected from the leading bytes, or "" when
// data does not look like any accepted image.
func sniffImage(data []byte) string {
	if isHEIC(data) {
		return "image/heic"
	}
	detected := http.DetectContentType(data)
	if _, ok := acceptedImageTypes[detected]; ok {
		return detected
	}
	return ""
}

// isHEIC checks the ISO BMFF ftyp box for a HEIF major brand.
func isHEIC(data []byte) bool {
	if len(data) < 12 || !bytes.Equal(data[4:8], []byte("ftyp")) {
		return false
	}
	brand := data[8:12]
	for _, b := range heicBrands {
		if bytes.Equal(brand, b) {
			return true
		}
	}
	return false
}
