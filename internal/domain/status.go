package domain

import "encoding/json"

// Remote request lifecycle statuses reported by the status API
const (
	StatusCompleted            = "COMPLETED"
	StatusInProgress           = "IN_PROGRESS"
	StatusFinalized            = "FINALIZED"
	StatusProofUploaded        = "PROOF_UPLOADED"
	StatusExecutionFailed      = "EXECUTION_FAILED"
	StatusPromiseResolved      = "PROMISE_RESOLVED"
	StatusPromiseResolveFailed = "PROMISE_RESOLVE_FAILED"

	// ResponseSuccess is the top-level status of a well-formed API response
	ResponseSuccess = "SUCCESS"
)

// TxDetailsResponse is the document returned by getDetailsByTxHash
type TxDetailsResponse struct {
	Status   string      `json:"status"`
	Response []TxDetails `json:"response"`
}

// TxDetails describes one request triggered by a transaction
type TxDetails struct {
	Status        string    `json:"status"`
	Payloads      []Payload `json:"payloads"`
	WritePayloads []Payload `json:"writePayloads"`
	ReadPayloads  []Payload `json:"readPayloads"`
}

// Payload is one cross-chain payload of a request
type Payload struct {
	ChainSlug          json.Number        `json:"chainSlug"`
	FinalizeDetails    FinalizeDetails    `json:"finalizeDetails"`
	ProofUploadDetails ProofUploadDetails `json:"proofUploadDetails"`
	ExecuteDetails     ExecuteDetails     `json:"executeDetails"`
	CallBackDetails    CallBackDetails    `json:"callBackDetails"`
	DeployerDetails    DeployerDetails    `json:"deployerDetails"`
}

type FinalizeDetails struct {
	FinalizeStatus string `json:"finalizeStatus"`
}

type ProofUploadDetails struct {
	ProofUploadStatus string `json:"proofUploadStatus"`
}

type ExecuteDetails struct {
	ExecuteStatus string `json:"executeStatus"`
	ExecuteTxHash string `json:"executeTxHash"`
}

type CallBackDetails struct {
	CallbackStatus string `json:"callbackStatus"`
}

type DeployerDetails struct {
	OnChainAddress   string `json:"onChainAddress"`
	ForwarderAddress string `json:"forwarderAddress"`
}

// First returns the first request of the response, if any
func (r *TxDetailsResponse) First() (*TxDetails, bool) {
	if r == nil || len(r.Response) == 0 {
		return nil, false
	}
	return &r.Response[0], true
}

// FirstWrite returns the first write payload of the first request
func (r *TxDetailsResponse) FirstWrite() (*Payload, bool) {
	d, ok := r.First()
	if !ok || len(d.WritePayloads) == 0 {
		return nil, false
	}
	return &d.WritePayloads[0], true
}

// FirstRead returns the first read payload of the first request
func (r *TxDetailsResponse) FirstRead() (*Payload, bool) {
	d, ok := r.First()
	if !ok || len(d.ReadPayloads) == 0 {
		return nil, false
	}
	return &d.ReadPayloads[0], true
}
