package mimetype

import (
	"bytes"
	"strings"

	"bitbucket.org/taruti/mimemagic"
)

// sniffLen is how much of a file is inspected to decide whether it is text.
const sniffLen = 512

//go:generate counterfeiter . Decoder

type Decoder interface {
	TypeByBuffer([]byte) (string, error)
}

type decoder struct{}

func NewDecoder() Decoder {
	return decoder{}
}

// TypeByBuffer returns the mime type detected from the leading bytes of a
// file, or an empty string when no magic pattern matches.
func (decoder) TypeByBuffer(buf []byte) (string, error) {
	if len(buf) > sniffLen {
		buf = buf[:sniffLen]
	}

	return mimemagic.Match("", buf), nil
}

var textTypes = []string{
	"application/json",
	"application/xml",
	"application/javascript",
	"application/x-shellscript",
	"application/x-php",
	"application/x-ruby",
	"application/x-perl",
	"application/x-yaml",
	"image/svg+xml",
}

// IsText reports whether content looks like source text. Content containing
// NUL bytes is never text; content without a recognized magic number is.
func IsText(d Decoder, content []byte) bool {
	head := content
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}

	mime, err := d.TypeByBuffer(head)
	if err != nil || mime == "" {
		return true
	}

	if strings.HasPrefix(mime, "text/") {
		return true
	}

	for _, t := range textTypes {
		if mime == t {
			return true
		}
	}

	return false
}

func IsArchive(filename string) (string, bool) {
	if strings.HasSuffix(filename, ".tar") ||
		strings.HasSuffix(filename, ".tar.gz") ||
		strings.HasSuffix(filename, ".tgz") {
		return "application/x-tar", true
	} else if strings.HasSuffix(filename, ".zip") ||
		strings.HasSuffix(filename, ".jar") {
		return "application/zip", true
	} else if strings.HasSuffix(filename, ".gz") {
		return "application/gzip", true
	} else {
		return "", false
	}
}
