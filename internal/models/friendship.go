package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is one row per unordered pair of users. UserID is the requester and
// FriendID the recipient; once accepted the row is read without regard to direction.
type Friendship struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    string           `gorm:"size:36;not null;index:idx_friendships_user" json:"user_id"`
	FriendID  string           `gorm:"size:36;not null;index:idx_friendships_friend" json:"friend_id"`
	PairKey   string           `gorm:"size:73;not null;uniqueIndex:idx_friendships_pair" json:"-"`
	Status    FriendshipStatus `gorm:"type:varchar(20);default:'pending';index:idx_friendships_status" json:"status"`
	CreatedAt time.Time        `json:"created_at"`

	// Relationships
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Friend *User `gorm:"foreignKey:FriendID;constraint:OnDelete:CASCADE" json:"friend,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// PairKey returns the direction-independent key of the pair {a, b}.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// BeforeCreate stamps the unordered pair key; direction stays in UserID/FriendID.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.PairKey = PairKey(f.UserID, f.FriendID)
	return nil
}

// OtherPartyID returns the id of the side that is not userID.
func (f *Friendship) OtherPartyID(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// OtherParty returns the preloaded profile of the side that is not userID.
func (f *Friendship) OtherParty(userID string) *User {
	if f.UserID == userID {
		return f.Friend
	}
	return f.User
}

// FriendRequest is a pending row plus the profile of the side the viewer cares about:
// the requester for incoming requests, the recipient for sent ones.
type FriendRequest struct {
	ID        uint             `json:"id"`
	UserID    string           `json:"user_id"`
	FriendID  string           `json:"friend_id"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	Requester *Profile         `json:"requester,omitempty"`
	Recipient *Profile         `json:"recipient,omitempty"`
}

// IncomingRequest shapes a pending row for its recipient.
func IncomingRequest(f Friendship) FriendRequest {
	req := requestFrom(f)
	if f.User != nil {
		p := f.User.Profile()
		req.Requester = &p
	}
	return req
}

// OutgoingRequest shapes a pending row for its requester.
func OutgoingRequest(f Friendship) FriendRequest {
	req := requestFrom(f)
	if f.Friend != nil {
		p := f.Friend.Profile()
		req.Recipient = &p
	}
	return req
}

func requestFrom(f Friendship) FriendRequest {
	return FriendRequest{
		ID:        f.ID,
		UserID:    f.UserID,
		FriendID:  f.FriendID,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
	}
}

// RelationStatus is the relation between the caller and another user.
type RelationStatus struct {
	State     RelationState `json:"status"`
	RequestID uint          `json:"request_id,omitempty"`
}

// RelationState is the state of the pair as seen by one of its members.
type RelationState string

const (
	RelationNone            RelationState = "none"
	RelationFriends         RelationState = "friends"
	RelationPendingSent     RelationState = "pending_sent"
	RelationPendingReceived RelationState = "pending_received"
)

// StateFor classifies the row from viewerID's side. A nil row means no relation.
func (f *Friendship) StateFor(viewerID string) RelationState {
	if f == nil {
		return RelationNone
	}
	switch f.Status {
	case FriendshipStatusAccepted:
		return RelationFriends
	case FriendshipStatusPending:
		if f.UserID == viewerID {
			return RelationPendingSent
		}
		return RelationPendingReceived
	default:
		return RelationNone
	}
}
