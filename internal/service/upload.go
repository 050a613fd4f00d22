// Upload parsing is deliberately a line-oriented state machine over the raw
// body stream, not mime/multipart: the device protocol demarcates the file
// payload purely by the boundary line, and the parser must never buffer more
// than one line of the upload. A payload that itself contains a bare
// boundary-looking line will terminate the split early; callers that need to
// move binary data with embedded boundaries must encode it first.
package service

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"device_control/internal/logger"
	"device_control/internal/repository"
)

var (
	ErrNoBoundary = errors.New("no boundary in Content-Type")
	ErrNoFilename = errors.New("no filename in multipart body")
	ErrCannotOpen = errors.New("cannot open destination file")
)

type UploadService struct {
	files repository.FilesRepo
	log   *logger.Logger
}

func NewUploadService(files repository.FilesRepo, log *logger.Logger) *UploadService {
	return &UploadService{files: files, log: log}
}

// boundaryFromContentType extracts the multipart boundary marker, prefixed
// with the "--" it carries on the wire.
func boundaryFromContentType(contentType string) (string, error) {
	idx := strings.Index(contentType, "boundary=")
	if idx < 0 {
		return "", ErrNoBoundary
	}
	b := contentType[idx+len("boundary="):]
	if semi := strings.IndexByte(b, ';'); semi >= 0 {
		b = b[:semi]
	}
	b = strings.Trim(strings.TrimSpace(b), `"`)
	if b == "" {
		return "", ErrNoBoundary
	}
	return "--" + b, nil
}

// readLine returns the next line including its terminator. At end of stream
// it returns whatever bytes remain (possibly none) together with the error.
func readLine(r *bufio.Reader) ([]byte, error) {
	return r.ReadBytes('\n')
}

// seekFilename consumes lines until one carries filename="...". It stops on
// the first line mentioning a filename, whether or not it parses cleanly.
func seekFilename(r *bufio.Reader) (string, error) {
	for {
		line, err := readLine(r)
		if len(line) > 0 {
			s := string(line)
			if strings.Contains(s, "filename=") {
				const marker = `filename="`
				start := strings.Index(s, marker)
				if start < 0 {
					return "", ErrNoFilename
				}
				rest := s[start+len(marker):]
				end := strings.IndexByte(rest, '"')
				if end < 0 || rest[:end] == "" {
					return "", ErrNoFilename
				}
				return rest[:end], nil
			}
		}
		if err != nil {
			return "", ErrNoFilename
		}
	}
}

// skipHeaders discards part headers up to and including the blank line that
// starts the payload.
func skipHeaders(r *bufio.Reader) {
	for {
		line, err := readLine(r)
		s := string(line)
		if s == "\r\n" || s == "\n" || (len(line) == 0 && err != nil) {
			return
		}
		if err != nil {
			return
		}
	}
}

// streamBody copies payload lines to dst with a one-line lookback: the most
// recently read line is held back until the next read proves it is not the
// line preceding the boundary. The final payload line owns no trailing CRLF;
// that terminator belongs to the boundary and is stripped before the write.
func streamBody(r *bufio.Reader, dst io.Writer, boundary []byte) error {
	var held []byte
	for {
		line, err := readLine(r)
		if bytes.Contains(line, boundary) {
			trimmed := bytes.TrimSuffix(held, []byte("\n"))
			trimmed = bytes.TrimSuffix(trimmed, []byte("\r"))
			if len(trimmed) > 0 {
				if _, werr := dst.Write(trimmed); werr != nil {
					return werr
				}
			}
			return nil
		}
		if len(held) > 0 {
			if _, werr := dst.Write(held); werr != nil {
				return werr
			}
		}
		held = line
		if err != nil {
			// Stream ended before the boundary: keep what we read and stop.
			// Accepted as a partial upload, not an error.
			if len(held) > 0 {
				if _, werr := dst.Write(held); werr != nil {
					return werr
				}
			}
			return nil
		}
	}
}

// Store consumes a multipart body and writes the file payload into the
// public directory. The destination handle is closed on every exit path.
func (s *UploadService) Store(contentType string, body io.Reader) (string, error) {
	boundary, err := boundaryFromContentType(contentType)
	if err != nil {
		return "", err
	}

	r := bufio.NewReader(body)
	filename, err := seekFilename(r)
	if err != nil {
		return "", err
	}
	skipHeaders(r)

	dst, err := s.files.Create(filename)
	if err != nil {
		if errors.Is(err, repository.ErrBadName) {
			return "", ErrNoFilename
		}
		if s.log != nil {
			s.log.Errorw("upload_open_failed", "filename", filename, "err", err)
		}
		return "", ErrCannotOpen
	}
	defer dst.Close()

	if err := streamBody(r, dst, []byte(boundary)); err != nil {
		if s.log != nil {
			s.log.Errorw("upload_write_failed", "filename", filename, "err", err)
		}
		return "", ErrCannotOpen
	}
	return filename, nil
}
