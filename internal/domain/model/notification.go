package model

import "time"

// NotificationField is one titled block of a digest, such as "Up next".
type NotificationField struct {
	Name   string
	Value  string
	Inline bool
}

// Notification is a channel-agnostic progress message. A zero Timestamp means
// the notifier stamps it at send time.
type Notification struct {
	Title       string
	Description string
	Fields      []NotificationField
	Timestamp   time.Time
}

// AddField appends a block, skipping empty values.
func (n *Notification) AddField(name, value string) {
	if value == "" {
		return
	}
	n.Fields = append(n.Fields, NotificationField{Name: name, Value: value})
}
