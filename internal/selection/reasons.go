// internal/selection/reasons.go
package selection

import "fmt"

// Exclusion reasons recorded on infeasible evaluations. These are stable
// strings: the exclusion summary keys on them and callers display them.
const (
	ReasonInvalidBEPFlow   = "Invalid BEP flow data"
	ReasonFlowOutOfRange   = "BEP flow outside acceptable range"
	ReasonHeadOutOfRange   = "BEP head outside acceptable range"
	ReasonPumpTypeMismatch = "Pump type mismatch"
	ReasonQBPOutsideRange  = "QBP outside range"
	ReasonCannotMeetDuty   = "cannot meet requirements"
	ReasonInvalidPerfData  = "Invalid performance data"
	ReasonPowerExceeded    = "Power exceeds limit"
	ReasonNPSHInsufficient = "Insufficient NPSH available"
)

// ReasonEvaluationError tags a per-pump failure caught at the pump boundary.
// One pump's bad data never aborts the batch.
func ReasonEvaluationError(detail string) string {
	return fmt.Sprintf("Evaluation error: %s", detail)
}
