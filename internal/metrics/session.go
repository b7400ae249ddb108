// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttemptsTotal tracks authentication attempts, labeled by
	// outcome.
	AuthAttemptsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "auth_attempts_total",
			Help:      "Total number of client authentication attempts",
		},
		[]string{"result"}, // ok, expired, invalid_key, too_many_sessions, revoked, internal
	)

	// HeartbeatsTotal tracks heartbeats exchanged on authenticated
	// sessions, labeled by outcome.
	HeartbeatsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "heartbeats_total",
			Help:      "Total number of heartbeats exchanged on authenticated sessions",
		},
		[]string{"result"}, // ok, revoked, expired
	)

	// SessionDuration tracks how long an authenticated session stays
	// open, from handshake success to close.
	SessionDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "duration_seconds",
			Help:      "Duration an authenticated session stayed open, from handshake success to close",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16), // 1s to ~9h
		},
	)
)
