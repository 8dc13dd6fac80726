package model

import (
	"errors"
	"strings"
)

const DefaultDisplayName = "Anonymous"

type Profile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Bio         string  `json:"bio"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Age         *int    `json:"age,omitempty"`
}

// Normalize applies the read-side defaults: blank display name becomes
// DefaultDisplayName, blank photo and non-positive age are dropped.
func (p Profile) Normalize() Profile {
	out := p
	out.ID = strings.TrimSpace(p.ID)
	out.DisplayName = strings.TrimSpace(p.DisplayName)
	if out.DisplayName == "" {
		out.DisplayName = DefaultDisplayName
	}
	if p.PhotoURL != nil {
		photo := strings.TrimSpace(*p.PhotoURL)
		if photo == "" {
			out.PhotoURL = nil
		} else {
			out.PhotoURL = &photo
		}
	}
	if p.Age != nil {
		if *p.Age <= 0 {
			out.Age = nil
		} else {
			age := *p.Age
			out.Age = &age
		}
	}
	return out
}

var ErrProfileNotFound = errors.New("profile not found")
