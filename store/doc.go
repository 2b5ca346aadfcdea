// Package store persists fields, mode sets and index series under logical
// keys.
//
// A Dataset is the unit of storage: an optional gridded field plus any number
// of named series. It is serialized with Encode into a self-describing binary
// form (see package section for the layout) that preserves coordinates,
// attributes and NaN missing markers exactly, and read back with Decode.
//
// Key names a dataset by model, scenario, run, variable and processing stage.
// Store implementations map keys to datasets:
//
//   - FileStore keeps one file per key in a directory. File names are derived
//     from the key hash and writes are atomic (temp file + rename).
//   - MemoryStore keeps encoded datasets in memory, mainly for tests.
//
// Both store the encoded form, so a dataset read back from either has gone
// through the same codec.
package store
