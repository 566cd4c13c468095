package model

// ExecutionStatus mirrors the execution service's status object verbatim.
type ExecutionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// ExecutionResult is the ephemeral outcome of running one (code, stdin)
// pair in the external sandbox. Field names follow the service's contract
// and are never persisted.
type ExecutionResult struct {
	Stdout        string          `json:"stdout"`
	Stderr        string          `json:"stderr"`
	CompileOutput string          `json:"compile_output"`
	Message       string          `json:"message"`
	Status        ExecutionStatus `json:"status"`
	Time          string          `json:"time"`
	Memory        int             `json:"memory"`
}
