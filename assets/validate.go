package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"catalog-backend/apperr"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 << 20

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Upload is an image to store.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Validate rejects empty, oversized, wrongly named or undecodable images.
func Validate(u Upload) error {
	if len(u.Data) == 0 {
		return apperr.Validation("image", "file is empty")
	}
	if len(u.Data) > MaxImageSize {
		return apperr.Validation("image", fmt.Sprintf("file exceeds %d bytes", MaxImageSize))
	}
	ext := strings.ToLower(path.Ext(u.Filename))
	if _, ok := extensionTypes[ext]; !ok {
		return apperr.Validation("image", "only .jpg, .jpeg and .png files are allowed")
	}
	if _, _, err := image.Decode(bytes.NewReader(u.Data)); err != nil {
		return apperr.Validation("image", "file is not a valid image")
	}
	return nil
}

func contentType(u Upload) string {
	if u.ContentType != "" {
		return u.ContentType
	}
	if strings.EqualFold(path.Ext(u.Filename), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

// keyName reduces a client filename to its base name without spaces or separators.
func keyName(filename string) string {
	name := strings.ReplaceAll(filename, `\`, "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "")
	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}
