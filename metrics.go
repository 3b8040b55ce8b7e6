// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
)

const metricsPrefix = "cephfs."

var (
	registryMu sync.RWMutex
	registry   = metrics.NewRegistry()
)

// SetMetricsRegistry directs the per-call timers and error counters to r.
// Every native call is timed as "cephfs.<op>" and every failure counted
// as "cephfs.<op>.errors".
func SetMetricsRegistry(r metrics.Registry) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = r
}

// MetricsRegistry returns the registry currently in use.
func MetricsRegistry() metrics.Registry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}

func observe(op string, start time.Time, rc int) {
	r := MetricsRegistry()
	metrics.GetOrRegisterTimer(metricsPrefix+op, r).UpdateSince(start)
	if rc < 0 {
		metrics.GetOrRegisterCounter(metricsPrefix+op+".errors", r).Inc(1)
	}
}
