package utils

import "time"

// SessionCookieName is the cookie carrying the wizard session ID.
const SessionCookieName = "iq_session"

// SessionIDKey is the key of the session ID inside the cookie store.
const SessionIDKey = "sid"

// HealthCheckInterval is how often the health monitor pings its dependencies.
const HealthCheckInterval = 60 * time.Second
