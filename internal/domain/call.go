// Package domain contains entity without logic, just meta-data
package domain

import (
	"fmt"
	"time"
)

// CallState is the authoritative lifecycle state of a call.
// Transitions arrive from the external call model; this engine
// never originates them.
type CallState int

const (
	CallStateIdle CallState = iota
	CallStateDialing
	CallStateLocalRinging
	CallStateRemoteRinging
	CallStateAnswering
	CallStateConnected
	CallStateRemoteBusy
	CallStateLocalFailure
	CallStateRemoteHangup
	CallStateLocalHangup
)

func (s CallState) String() string {
	switch s {
	case CallStateIdle:
		return "idle"
	case CallStateDialing:
		return "dialing"
	case CallStateLocalRinging:
		return "localRinging"
	case CallStateRemoteRinging:
		return "remoteRinging"
	case CallStateAnswering:
		return "answering"
	case CallStateConnected:
		return "connected"
	case CallStateRemoteBusy:
		return "remoteBusy"
	case CallStateLocalFailure:
		return "localFailure"
	case CallStateRemoteHangup:
		return "remoteHangup"
	case CallStateLocalHangup:
		return "localHangup"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsTerminal reports whether the state ends the call screen.
// These four are the only states that initiate dismissal.
func (s CallState) IsTerminal() bool {
	switch s {
	case CallStateRemoteBusy, CallStateLocalFailure, CallStateRemoteHangup, CallStateLocalHangup:
		return true
	}
	return false
}

// Direction tells who placed the call.
type Direction int

const (
	DirectionIncoming Direction = iota
	DirectionOutgoing
)

func (d Direction) String() string {
	if d == DirectionIncoming {
		return "incoming"
	}
	return "outgoing"
}

// ErrorKind classifies a call error carried on a snapshot.
// Errors are data here, never panics.
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindTimeout
	ErrorKindFailure
)

// CallError is a classified call failure with optional detail.
type CallError struct {
	Kind    ErrorKind
	Message string
}

// CallSnapshot is an immutable observation of the external call
// model. It is replaced wholesale on every notification.
type CallSnapshot struct {
	State         CallState
	IsMuted       bool
	HasLocalVideo bool
	Direction     Direction
	// ConnectedAt is zero until the call connects.
	ConnectedAt time.Time
	LastError   CallError
}
