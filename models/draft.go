package models

import (
	"net/url"
	"strings"

	"github.com/aaronch12Ch/portafolio-sp/errs"
)

// Form field names, shared by validation errors, the admin API and the CLI flags.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldLink        = "link"
	FieldVideo       = "video"
)

const embeddedDataPrefix = "data:"

// VideoFile is a pending upload attached to a draft.
type VideoFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (v *VideoFile) Empty() bool {
	return v == nil || len(v.Data) == 0
}

// Draft is the client-local editable representation of a project.
type Draft struct {
	Title       string
	Description string
	ImageURL    string
	Link        string
	Available   bool
	Video       *VideoFile
}

// NewDraft returns the empty defaults used when creating a project.
func NewDraft() Draft {
	return Draft{Available: true}
}

// DraftFrom pre-populates a draft from a stored project. The video key is not
// copied: a draft can only stage a new file.
func DraftFrom(p Project) Draft {
	return Draft{
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Link:        p.Link,
		Available:   p.Available,
	}
}

// Fields returns the JSON part of the draft.
func (d Draft) Fields() ProjectFields {
	return ProjectFields{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		ImageURL:    strings.TrimSpace(d.ImageURL),
		Link:        strings.TrimSpace(d.Link),
		Available:   d.Available,
	}
}

// Validate checks every field and returns all problems at once as
// errs.ValidationErrors, or nil.
func (d Draft) Validate() error {
	var problems errs.ValidationErrors

	required := []struct {
		field string
		value string
	}{
		{FieldTitle, d.Title},
		{FieldDescription, d.Description},
		{FieldImage, d.ImageURL},
		{FieldLink, d.Link},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, errs.NewMissingRequiredFieldError(r.field))
		}
	}

	image := strings.TrimSpace(d.ImageURL)
	switch {
	case image == "":
	case strings.HasPrefix(strings.ToLower(image), embeddedDataPrefix):
		problems = append(problems, errs.NewInvalidFieldError(FieldImage, "embedded base64 data is not allowed, use an http(s) URL"))
	case !isHTTPURL(image):
		problems = append(problems, errs.NewInvalidFieldError(FieldImage, "must be an absolute http(s) URL"))
	}

	if link := strings.TrimSpace(d.Link); link != "" && !isHTTPURL(link) {
		problems = append(problems, errs.NewInvalidFieldError(FieldLink, "must be an absolute http(s) URL"))
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
