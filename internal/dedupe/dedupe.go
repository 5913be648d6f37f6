package dedupe

// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent narration requests. Using a centralized singleflight.Group
// ensures that only one generation job runs for a given key while other
// callers wait for the result.

import "golang.org/x/sync/singleflight"

// NarrationGroup deduplicates narration generation requests keyed by the
// canonicalized scene, action and outcome tags.
var NarrationGroup singleflight.Group
