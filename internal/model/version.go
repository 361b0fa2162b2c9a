package model

// EngineVersion identifies the cipher engine implementation.
// Recorded with every stored session so a replay audit can flag
// results produced by a different engine build.
const EngineVersion = "0.3.0"

// TraceVersion identifies the SignalTrace serialization schema.
// Stamped into the trace JSON stored with every message so old rows
// stay readable if the trace shape ever changes.
const TraceVersion = "1"
