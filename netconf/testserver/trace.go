package testserver

import (
	"log"
	"net"
)

// Trace defines a structure for handling test server events.
type Trace struct {
	Listened           func(address string, err error)
	Accepted           func(conn net.Conn, err error)
	SubsystemRequested func(name string, accepted bool)
	StartSession       func(s *SessionHandler)
	EndSession         func(s *SessionHandler, err error)
	Encoded            func(s *SessionHandler, err error)
	Decoded            func(s *SessionHandler, err error)
}

// DefaultLoggingHooks logs error conditions.
var DefaultLoggingHooks = &Trace{
	Listened: func(address string, err error) {
		if err != nil {
			log.Printf("Listen address:%s error:%v\n", address, err)
		}
	},
	EndSession: func(s *SessionHandler, err error) {
		if err != nil {
			log.Printf("EndSession id:%d error:%v\n", s.sid, err)
		}
	},
	Encoded: func(s *SessionHandler, err error) {
		if err != nil {
			log.Printf("Encoded id:%d error:%v\n", s.sid, err)
		}
	},
	Decoded: func(s *SessionHandler, err error) {
		if err != nil {
			log.Printf("Decoded id:%d error:%v\n", s.sid, err)
		}
	},
}

// DiagnosticLoggingHooks logs all server events.
var DiagnosticLoggingHooks = &Trace{
	Listened: func(address string, err error) {
		log.Printf("Listen address:%s error:%v\n", address, err)
	},
	Accepted: func(conn net.Conn, err error) {
		if conn != nil {
			log.Printf("Accept remote:%s error:%v\n", conn.RemoteAddr(), err)
		}
	},
	SubsystemRequested: func(name string, accepted bool) {
		log.Printf("Subsystem name:%s accepted:%v\n", name, accepted)
	},
	StartSession: func(s *SessionHandler) {
		log.Printf("StartSession id:%d\n", s.sid)
	},
	EndSession: DefaultLoggingHooks.EndSession,
	Encoded:    DefaultLoggingHooks.Encoded,
	Decoded:    DefaultLoggingHooks.Decoded,
}

// NoOpLoggingHooks provides set of hooks that do nothing.
var NoOpLoggingHooks = &Trace{
	Listened:           func(address string, err error) {},
	Accepted:           func(conn net.Conn, err error) {},
	SubsystemRequested: func(name string, accepted bool) {},
	StartSession:       func(s *SessionHandler) {},
	EndSession:         func(s *SessionHandler, err error) {},
	Encoded:            func(s *SessionHandler, err error) {},
	Decoded:            func(s *SessionHandler, err error) {},
}
