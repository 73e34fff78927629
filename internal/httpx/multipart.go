package httpx

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
)

// PartKind selects how a FilePart's payload is interpreted.
type PartKind int

const (
	// PartContents means the payload is the literal bytes to upload.
	PartContents PartKind = iota
	// PartPath means the payload is a filesystem path to stream from.
	PartPath
)

// FilePart describes one file in a multipart upload body.
type FilePart struct {
	Name    string
	Kind    PartKind
	Payload string
}

// ContentsPart builds a FilePart carrying literal bytes.
func ContentsPart(name, contents string) FilePart {
	return FilePart{Name: name, Kind: PartContents, Payload: contents}
}

// PathPart builds a FilePart streaming from a file on disk.
func PathPart(name, path string) FilePart {
	return FilePart{Name: name, Kind: PartPath, Payload: path}
}

// multipartBody streams a multipart/form-data encoding of the parts through
// a pipe so file payloads never need to be buffered whole.
type multipartBody struct {
	r           *io.PipeReader
	contentType string
}

func newMultipartBody(parts []FilePart) *multipartBody {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeParts(mw, parts)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()
	return &multipartBody{r: pr, contentType: mw.FormDataContentType()}
}

func (b *multipartBody) Read(p []byte) (int, error) { return b.r.Read(p) }

func (b *multipartBody) Close() error { return b.r.Close() }

// ContentType reports the multipart content type including the boundary.
func (b *multipartBody) ContentType() string { return b.contentType }

func writeParts(mw *multipart.Writer, parts []FilePart) error {
	for _, p := range parts {
		// The daemon expects every part under the "file" form field, with
		// the part's name carried as the filename.
		w, err := mw.CreateFormFile("file", p.Name)
		if err != nil {
			return fmt.Errorf("httpx: create part %q: %w", p.Name, err)
		}
		switch p.Kind {
		case PartContents:
			if _, err := io.WriteString(w, p.Payload); err != nil {
				return fmt.Errorf("httpx: write part %q: %w", p.Name, err)
			}
		case PartPath:
			if err := copyFile(w, p.Payload); err != nil {
				return fmt.Errorf("httpx: stream part %q: %w", p.Name, err)
			}
		default:
			return fmt.Errorf("httpx: part %q has unknown kind %d", p.Name, p.Kind)
		}
	}
	return nil
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
