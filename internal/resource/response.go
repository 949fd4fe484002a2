package resource

// Status is the outcome reported to the orchestration layer.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Response is the envelope returned for every event. All identifier fields
// are mandatory for the caller; a response is only ever produced through
// Success or Failed so none of them can be left unset.
type Response struct {
	Status             Status         `json:"Status"`
	Reason             string         `json:"Reason"`
	StackID            string         `json:"StackId"`
	RequestID          string         `json:"RequestId"`
	LogicalResourceID  string         `json:"LogicalResourceId"`
	PhysicalResourceID string         `json:"PhysicalResourceId"`
	Data               map[string]any `json:"Data,omitempty"`
}

// Success builds a SUCCESS response echoing the event identifiers.
func Success(e Event, physicalID, reason string, data map[string]any) Response {
	return Response{
		Status:             StatusSuccess,
		Reason:             reason,
		StackID:            e.StackID,
		RequestID:          e.RequestID,
		LogicalResourceID:  e.LogicalResourceID,
		PhysicalResourceID: physicalID,
		Data:               data,
	}
}

// Failed builds a FAILED response echoing the event identifiers.
func Failed(e Event, physicalID, reason string) Response {
	return Response{
		Status:             StatusFailed,
		Reason:             reason,
		StackID:            e.StackID,
		RequestID:          e.RequestID,
		LogicalResourceID:  e.LogicalResourceID,
		PhysicalResourceID: physicalID,
	}
}

// Result is what a backend reports for a successful operation.
// PhysicalResourceID overrides the invocation-derived identifier on Create.
type Result struct {
	PhysicalResourceID string
	Data               map[string]any
}
