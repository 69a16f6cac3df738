package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/aaronch12Ch/portafolio-sp/models"
)

// Part names expected by the backend.
const (
	partProject = "proyecto"
	partVideo   = "video"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// formBody is a multipart body split around the video bytes. The file is
// streamed from the caller's slice on every attempt and never copied.
type formBody struct {
	head        []byte
	video       []byte
	tail        []byte
	contentType string
}

func (f *formBody) reader() (io.Reader, error) {
	return io.MultiReader(bytes.NewReader(f.head), bytes.NewReader(f.video), bytes.NewReader(f.tail)), nil
}

func (f *formBody) size() int64 {
	return int64(len(f.head) + len(f.video) + len(f.tail))
}

// switchWriter lets the multipart writer move to the tail buffer once the
// video part header is written.
type switchWriter struct {
	w io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

type formBuilder struct {
	head, tail bytes.Buffer
	out        *switchWriter
	w          *multipart.Writer
	video      []byte
}

func newFormBuilder() *formBuilder {
	b := &formBuilder{}
	b.out = &switchWriter{w: &b.head}
	b.w = multipart.NewWriter(b.out)
	return b
}

func (b *formBuilder) writeFields(fields models.ProjectFields) error {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode project fields: %w", err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, partProject))
	h.Set("Content-Type", "application/json")
	part, err := b.w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(encoded)
	return err
}

// writeVideo adds the part header; the bytes themselves go between head and tail.
func (b *formBuilder) writeVideo(video *models.VideoFile) error {
	filename := video.Filename
	if filename == "" {
		filename = "video"
	}
	contentType := video.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, partVideo, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	if _, err := b.w.CreatePart(h); err != nil {
		return err
	}
	b.video = video.Data
	b.out.w = &b.tail
	return nil
}

func (b *formBuilder) close() (*formBody, error) {
	if err := b.w.Close(); err != nil {
		return nil, err
	}
	return &formBody{
		head:        b.head.Bytes(),
		video:       b.video,
		tail:        b.tail.Bytes(),
		contentType: b.w.FormDataContentType(),
	}, nil
}

// projectPayload encodes the fields as a JSON part and, when video is non-empty,
// the raw file as a second part. An absent video part leaves the stored video alone.
func projectPayload(fields models.ProjectFields, video *models.VideoFile) (*formBody, error) {
	b := newFormBuilder()
	if err := b.writeFields(fields); err != nil {
		return nil, err
	}
	if !video.Empty() {
		if err := b.writeVideo(video); err != nil {
			return nil, err
		}
	}
	return b.close()
}

// videoPayload encodes a body holding only the video part.
func videoPayload(video *models.VideoFile) (*formBody, error) {
	b := newFormBuilder()
	if err := b.writeVideo(video); err != nil {
		return nil, err
	}
	return b.close()
}
