package models

// RoomInfo is the REST view of a live room.
type RoomInfo struct {
	Key     string `json:"key"`
	Members int    `json:"members"`
	Objects int    `json:"objects"`
}
