package domain

// SuccessThreshold is the strict cutoff above which a session counts as
// successful. The comparison is >, not >=.
const SuccessThreshold = 0.7

// BucketStats holds aggregate statistics for one group of sessions.
// Derived data: recomputed wholesale from the session records on every
// aggregation run, never maintained incrementally.
type BucketStats struct {
	Key                string  `json:"key"`
	TotalSessions      int64   `json:"total_sessions"`
	SuccessfulSessions int64   `json:"successful_sessions"`
	AvgSatisfaction    float64 `json:"avg_satisfaction"`
}

// SuccessRatio returns successful/total, zero-safe.
func (b BucketStats) SuccessRatio() float64 {
	if b.TotalSessions == 0 {
		return 0
	}
	return float64(b.SuccessfulSessions) / float64(b.TotalSessions)
}

// GroupFunc maps a session to its bucket key. Returning ok=false excludes
// the session from the aggregation entirely.
type GroupFunc func(s *SessionRecord) (key string, ok bool)

// GroupByIssueType buckets sessions by their issue type tag.
func GroupByIssueType(s *SessionRecord) (string, bool) {
	if s.IssueType == "" {
		return "", false
	}
	return s.IssueType, true
}

// GroupByTemplate buckets sessions by the template used for their prompt.
func GroupByTemplate(s *SessionRecord) (string, bool) {
	if s.Prompt.TemplateUsed == "" {
		return "", false
	}
	return s.Prompt.TemplateUsed, true
}

// GroupByTechTag returns a boolean partition on the presence of a tech-stack
// tag: sessions carrying the tag bucket under the tag itself, all others
// under "without-<tag>".
func GroupByTechTag(tag string) GroupFunc {
	return func(s *SessionRecord) (string, bool) {
		if s.HasTechTag(tag) {
			return tag, true
		}
		return "without-" + tag, true
	}
}

// ComputeBuckets scans every session and computes per-bucket statistics.
// It is a pure function of the snapshot: two runs over the same records
// yield identical results. Buckets that would have zero sessions are
// omitted from the result.
//
// A session is successful iff its success rate is strictly above
// SuccessThreshold. Unset ratings count as 0 in the satisfaction mean, so a
// session that never received feedback drags the bucket average down rather
// than being excluded.
func ComputeBuckets(sessions []*SessionRecord, groupBy GroupFunc) map[string]BucketStats {
	buckets := make(map[string]BucketStats)
	sums := make(map[string]float64)

	for _, s := range sessions {
		key, ok := groupBy(s)
		if !ok {
			continue
		}

		b := buckets[key]
		b.Key = key
		b.TotalSessions++
		if s.ResponseQuality.SuccessRate != nil && *s.ResponseQuality.SuccessRate > SuccessThreshold {
			b.SuccessfulSessions++
		}
		if s.ResponseQuality.UserSatisfaction != nil {
			sums[key] += *s.ResponseQuality.UserSatisfaction
		}
		buckets[key] = b
	}

	for key, b := range buckets {
		b.AvgSatisfaction = sums[key] / float64(b.TotalSessions)
		buckets[key] = b
	}

	return buckets
}

// TemplatePerformance is the snapshot the template selector consumes,
// derived from the by-template buckets.
type TemplatePerformance struct {
	SuccessRate float64
	UsageCount  int64
}

// TemplatePerformanceFromBuckets converts by-template bucket stats into the
// selector's snapshot shape.
func TemplatePerformanceFromBuckets(buckets map[string]BucketStats) map[string]TemplatePerformance {
	perf := make(map[string]TemplatePerformance, len(buckets))
	for name, b := range buckets {
		perf[name] = TemplatePerformance{
			SuccessRate: b.SuccessRatio(),
			UsageCount:  b.TotalSessions,
		}
	}
	return perf
}
