package models

import (
	"encoding/json"
	"strings"
)

// Project is one portfolio item as the backend stores it.
type Project struct {
	ID          *int64  `json:"idProyecto,omitempty"`
	Title       string  `json:"nombreProyecto"`
	Description string  `json:"descripcionProyecto"`
	ImageURL    string  `json:"urlImagen"`
	Link        string  `json:"url"`
	Available   bool    `json:"disponibleProyecto"`
	VideoKey    *string `json:"s3VideoKey"`
}

// ProjectFields is the JSON part sent as "proyecto" on create and update.
// It never carries the video key: that value only changes through the video endpoints.
type ProjectFields struct {
	Title       string `json:"nombreProyecto"`
	Description string `json:"descripcionProyecto"`
	ImageURL    string `json:"urlImagen"`
	Link        string `json:"url"`
	Available   bool   `json:"disponibleProyecto"`
}

// UnmarshalJSON defaults the availability flag to true when the backend omits it.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	decoded := plain{Available: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Project(decoded)
	return nil
}

// Persisted reports whether the backend has assigned an id.
func (p Project) Persisted() bool {
	return p.ID != nil
}

// IDValue returns the id or zero when unpersisted.
func (p Project) IDValue() int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

// HasVideo reports whether the stored video key is non-empty after trimming.
func (p Project) HasVideo() bool {
	return p.VideoKeyValue() != ""
}

func (p Project) VideoKeyValue() string {
	if p.VideoKey == nil {
		return ""
	}
	return strings.TrimSpace(*p.VideoKey)
}

// Fields returns the editable, non-file fields of p.
func (p Project) Fields() ProjectFields {
	return ProjectFields{
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Link:        p.Link,
		Available:   p.Available,
	}
}

func Int64Ptr(v int64) *int64 {
	return &v
}

func StringPtr(v string) *string {
	return &v
}
