/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "binsched"

// Registry collects the scheduling metrics; callers expose it on their
// own handler.
var Registry = prometheus.NewRegistry()

var (
	ScheduleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "scheduler",
			Name:      "duration_seconds",
			Help:      "Duration of scheduling calls. Labeled by the pipeline that ran.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{
			"algorithm",
		},
	)
	WarningsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "scheduler",
			Name:      "warnings",
			Help:      "Number of warnings emitted in total. Labeled by warning kind.",
		},
		[]string{
			"kind",
		},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "cache_hits",
			Help:      "Number of scheduling calls answered from the result cache.",
		},
	)
)

func MustRegister() {
	Registry.MustRegister(ScheduleDuration, WarningsEmitted, CacheHits)
}
