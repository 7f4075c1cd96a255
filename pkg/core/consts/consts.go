package consts

type contextKey string

// TraceKey 请求链路追踪ID在context中的键
const TraceKey contextKey = "trace_id"
