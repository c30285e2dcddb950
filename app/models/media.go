package models

import "time"

// Media describes an uploaded image attachment.
type Media struct {
	Name         string    `json:"name"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
