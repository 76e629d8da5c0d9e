package models

// MissionPage is one slice of the mission collection plus pagination
// metadata. Field names are part of the wire contract.
type MissionPage struct {
	Content       []Mission `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
	First         bool      `json:"first"`
	Last          bool      `json:"last"`
	Empty         bool      `json:"empty"`
}

// NewMissionPage builds the page envelope for a slice already cut to the
// requested window. A page past the end yields empty content with last=true
// rather than an error.
func NewMissionPage(content []Mission, totalElements int64, page, size int) MissionPage {
	if content == nil {
		content = []Mission{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}
	return MissionPage{
		Content:       content,
		TotalPages:    totalPages,
		TotalElements: totalElements,
		Size:          size,
		Number:        page,
		First:         page == 0,
		Last:          page >= totalPages-1,
		Empty:         len(content) == 0,
	}
}
