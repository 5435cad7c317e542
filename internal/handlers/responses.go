package handlers

import (
	"github.com/moatalk/moatalk/internal/chat"
	"github.com/moatalk/moatalk/internal/domain"
)

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.Seq, Name: u.Name, LoginID: u.LoginID}
}

// SearchEntry is one row of a user search, annotated with the viewer's
// relationship to the found user.
type SearchEntry struct {
	UserResponse
	IsFriend bool `json:"is_friend"`
}

// RecentChat is the one-line preview of a room's latest message.
type RecentChat struct {
	Preview string `json:"preview"`
	Time    string `json:"time"`
}

// RoomSummary is one row of the room list, named from the viewer's
// perspective and carrying the latest message preview when one exists.
type RoomSummary struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	RecentChat *RecentChat `json:"recent_chat,omitempty"`
}

// RoomDetail is the full view of one room.
type RoomDetail struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	Members []domain.Profile `json:"members"`
}

func toRoomDetail(r *domain.Room, viewerID int64) RoomDetail {
	members := make([]domain.Profile, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, domain.Profile{ID: m.UserSeq, Name: m.UserName})
	}
	return RoomDetail{
		ID:      r.Seq,
		Name:    r.DisplayName(viewerID),
		Members: members,
	}
}

// ImageResponse is returned after a successful upload; its ID is what image
// messages reference.
type ImageResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ImageName string `json:"image_name"`
	ImageType string `json:"image_type"`
}

func toImageResponse(img *domain.Image) ImageResponse {
	return ImageResponse{
		ID:        img.Seq,
		Name:      img.Name,
		ImageName: img.ImageName,
		ImageType: img.ImageType,
	}
}

// HistoryResponse wraps a room's replayed messages. Entries share the wire
// shape of live broadcasts.
type HistoryResponse struct {
	ChatroomID int64                `json:"chatroom_id"`
	Chats      []chat.OutboundEvent `json:"chats"`
}
