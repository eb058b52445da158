// Package state provides the local idempotency cache for the billing demo.
//
// # Overview
//
// The demo creates a handful of resources on the external billing platform (a billable metric,
// a product, a rate card, a customer and a contract). Their ids are written to a small JSON file
// so that repeated setup calls reuse them instead of creating duplicates. The same file caches the
// per-tier unit prices read from the rate card and the counters used to build deterministic
// transaction ids.
//
// # File Format
//
// The record is a flat, human-editable JSON object:
//
//	{
//	  "metric_id": "6b1f...",
//	  "product_id": "84b5...",
//	  "rate_card_id": "13b4...",
//	  "customer_id": "7df4...",
//	  "contract_id": "e344...",
//	  "prices_by_tier": {"standard": 2, "high-res": 5, "ultra": 10}
//	}
//
// Delete the file to reset the demo. There is no schema version.
//
// # Failure Semantics
//
// Loading never fails: a missing, unreadable or unparsable file yields an empty Record so the demo
// stays runnable after manual edits. Saving replaces the whole file atomically (temp file + rename).
//
// There is no locking. Two concurrent load-modify-save cycles race and the last writer wins. Each
// action only writes the fields it owns, so the race can lose at most one action's fields.
//
// # Usage Example
//
//	store := state.NewFileStore(".metronome_config.json", logger)
//	if id, ok := store.Get(state.KeyMetricID); ok {
//		return id, nil
//	}
//	// ... create upstream ...
//	if err := store.Set(state.KeyMetricID, created.ID); err != nil {
//		return "", err
//	}
//
// Watch the file for out-of-band resets:
//
//	go state.Watch(ctx, store.Path(), logger, nil)
//
// # Related Packages
//
//   - pkg/billing: the actions that read and write the record
package state
