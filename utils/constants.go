// File: utils/constants.go
package utils

import "time"

// JobLockPrefix is the prefix used for Redis job lock keys.
const JobLockPrefix = "reminder:lock:"

// HealthCheckInterval is how often dependency health is refreshed.
const HealthCheckInterval = 60 * time.Second

// HealthCheckTimeout bounds a single dependency probe.
const HealthCheckTimeout = 5 * time.Second
