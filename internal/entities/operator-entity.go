package entities

type Operator struct {
	ID            uint64 `json:"id"`
	WorkerName    string `json:"workerName"`
	OperatorNote  string `json:"operator_note,omitempty"`
	OperatorPhone string `json:"operator_phone,omitempty"`
}
