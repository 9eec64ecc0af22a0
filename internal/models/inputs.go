package models

import (
	"net/url"
	"strings"
	"time"
)

const imageDataPrefix = "data:image/"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate accepts a plain date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewValidationError("Invalid date: " + s)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseRequiredDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, NewValidationError("from is required")
	}
	return ParseDate(s)
}

// ValidateImageSource accepts a base64 image data URI or an https URL.
// Anything else, a local path in particular, is rejected.
func ValidateImageSource(image string) error {
	if strings.HasPrefix(image, imageDataPrefix) {
		meta, _, ok := strings.Cut(image[len(imageDataPrefix):], ",")
		if ok && strings.HasSuffix(meta, ";base64") && len(meta) > len(";base64") {
			return nil
		}
		return NewValidationError("Image must be a base64 data URI or an https URL")
	}
	u, err := url.Parse(image)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return NewValidationError("Image must be a base64 data URI or an https URL")
	}
	return nil
}

// ExperienceInput is an experience entry as sent by the client. The
// validate tags apply to adds and updates alike.
type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (in ExperienceInput) Experience() (Experience, error) {
	from, err := parseRequiredDate(in.From)
	if err != nil {
		return Experience{}, err
	}
	to, err := parseOptionalDate(in.To)
	if err != nil {
		return Experience{}, err
	}
	return Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (in EducationInput) Education() (Education, error) {
	from, err := parseRequiredDate(in.From)
	if err != nil {
		return Education{}, err
	}
	to, err := parseOptionalDate(in.To)
	if err != nil {
		return Education{}, err
	}
	return Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}, nil
}
