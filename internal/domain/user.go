package domain

import "time"

type UserId = int64

// Channel is a verification channel. Each channel carries its own pending
// code, its own expiry and its own verified flag.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// ParseChannel validates a wire-level channel value.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(s) {
	case ChannelEmail, ChannelPhone:
		return Channel(s), true
	}
	return "", false
}

type User struct {
	Id       UserId
	Name     string
	Email    string
	Phone    string
	PassHash string

	EmailVerified bool
	PhoneVerified bool

	Address Address

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address holds the post-registration location fields. Zone is "north" or
// "south"; coordinates are optional and default to zero.
type Address struct {
	FullAddress string  `json:"fullAddress"`
	Barangay    string  `json:"barangay"`
	City        string  `json:"city"`
	Zone        string  `json:"zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// PendingCode is one issued verification code for a channel. Issuing a new
// code for the same channel overwrites it.
type PendingCode struct {
	UserId  UserId
	Channel Channel
	Code    string
	Expires time.Time
}
