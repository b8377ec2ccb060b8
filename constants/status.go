package constants

// WorkState is the canonical processing state of a lease analysis.
type WorkState string

// Stable values (logged and stored in the audit table as these exact strings).
const (
	StateReceived     WorkState = "RECEIVED"
	StateDownloaded   WorkState = "DOWNLOADED"
	StateExtracted    WorkState = "EXTRACTED"
	StateClausesReady WorkState = "CLAUSES_READY"
	StateRiskReady    WorkState = "RISK_READY"
	StateReportReady  WorkState = "REPORT_READY"
	StatePersisted    WorkState = "PERSISTED"
	StateDone         WorkState = "DONE"
	StateFailed       WorkState = "FAILED" // terminal failure, reachable from any state
)
