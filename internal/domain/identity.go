// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxRoomIDLen   = 64
	MaxUsernameLen = 36
	MaxNicknameLen = 36

	// The client ships five avatar icons; anything outside this range is
	// rejected rather than clamped.
	MaxAvatarIndex = 4
)

var (
	ErrUsernameEmpty    = errors.New("username empty")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrNicknameTooLong  = errors.New("nickname too long")
	ErrAvatarOutOfRange = errors.New("avatar index out of range")
)

// Identity is the profile a connection asserts when it joins a room.
// It lives exactly as long as the connection and is replaced wholesale by a
// later join, never merged field by field.
type Identity struct {
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
	AvatarIndex int    `json:"avatar_index"`
}

// NewIdentity validates the asserted profile and fills in the nickname
// default. Keeps ad-hoc struct literals out of the adapters.
func NewIdentity(username, nickname string, avatarIndex int) (Identity, error) {
	if len(username) == 0 {
		return Identity{}, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return Identity{}, ErrUsernameTooLong
	}
	if len(nickname) > MaxNicknameLen {
		return Identity{}, ErrNicknameTooLong
	}
	if avatarIndex < 0 || avatarIndex > MaxAvatarIndex {
		return Identity{}, ErrAvatarOutOfRange
	}
	if nickname == "" {
		nickname = username
	}
	return Identity{Username: username, Nickname: nickname, AvatarIndex: avatarIndex}, nil
}
