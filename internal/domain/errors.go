package domain

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrRoomNotFound        = errors.New("room not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrGiftNotFound        = errors.New("gift not found")
	ErrSeatOccupied        = errors.New("seat already occupied")
	ErrSeatOutOfRange      = errors.New("seat index out of range")
	ErrNotHost             = errors.New("caller is not the room host")
	ErrInvalidMicCount     = errors.New("invalid mic count")
	ErrNoRecipients        = errors.New("recipient set is empty")
	ErrInvalidQuantity     = errors.New("invalid gift quantity")
	ErrUnknownToolAction   = errors.New("unknown tool action")
)
