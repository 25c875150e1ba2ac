package api

// RawMeeting is a meeting record as returned by the iMeet backend. Timestamps
// stay as strings here; internal/calendar owns parsing and normalization.
type RawMeeting struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Status      string   `json:"status"`
	AllDay      bool     `json:"allDay"`
	Location    string   `json:"location"`
	Organizer   string   `json:"organizer"`
	Host        string   `json:"host"`
	Attendees   []string `json:"attendees"`
	Description string   `json:"description"`
	MeetingRoom string   `json:"meetingRoom"`
	Building    string   `json:"building"`
	Floor       string   `json:"floor"`
}

// Room is a bookable meeting room.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
}

// Device is a piece of equipment installed in a room.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateMeetingRequest is the payload for creating a meeting.
type CreateMeetingRequest struct {
	Title       string   `json:"title"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	AllDay      bool     `json:"allDay,omitempty"`
	RoomID      string   `json:"roomId,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Description string   `json:"description,omitempty"`
}

// User is the signed-in account as reported by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
