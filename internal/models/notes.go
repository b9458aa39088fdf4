package models

import (
	"encoding/json"
	"time"
)

// Note is a single set of generated notes for a video
type Note struct {
	ID           int       `json:"id,omitempty"`
	UserID       int       `json:"-"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Transcript   string    `json:"-"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// Notes is a page of notes together with the total count
type Notes struct {
	TotalNum int    `json:"total_num"`
	Items    []Note `json:"items"`
}

// VideoDetails holds public metadata about a video
type VideoDetails struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	PublishedAt  time.Time `json:"published_at,omitzero"`
	Duration     string    `json:"duration,omitempty"`
}

// GeneratedNotes is the structured model output
type GeneratedNotes struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Notes   string `json:"notes"`
}

// MarshalBinary serializes the video details, needed for caching
func (vd VideoDetails) MarshalBinary() ([]byte, error) {
	return json.Marshal(vd)
}

// UnmarshalBinary deserializes the video details, needed for caching
func (vd *VideoDetails) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, vd)
}

// MarshalBinary serializes the notes page, needed for caching
func (n Notes) MarshalBinary() ([]byte, error) {
	return json.Marshal(n)
}

// UnmarshalBinary deserializes the notes page, needed for caching
func (n *Notes) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, n)
}
