package bindings

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	view       = "view"
	nonpayable = "nonpayable"
	payable    = "payable"
)

// fragment describes a single ABI entry by its solidity types
type fragment struct {
	event      bool
	name       string
	mutability string
	inputs     []string
	outputs    []string
}

func fn(name, mutability string, inputs []string, outputs ...string) fragment {
	return fragment{name: name, mutability: mutability, inputs: inputs, outputs: outputs}
}

func event(name string, inputs ...string) fragment {
	return fragment{event: true, name: name, inputs: inputs}
}

func args(types ...string) []string { return types }

func arguments(types []string) (abi.Arguments, error) {
	out := make(abi.Arguments, 0, len(types))
	for i, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s type: %w", t, err)
		}
		out = append(out, abi.Argument{Name: fmt.Sprintf("arg%d", i), Type: typ})
	}
	return out, nil
}

// newABI assembles an ABI from fragments
func newABI(fragments ...fragment) (*abi.ABI, error) {
	parsed := &abi.ABI{
		Methods: make(map[string]abi.Method),
		Events:  make(map[string]abi.Event),
	}
	for _, f := range fragments {
		inputs, err := arguments(f.inputs)
		if err != nil {
			return nil, err
		}
		if f.event {
			parsed.Events[f.name] = abi.NewEvent(f.name, f.name, false, inputs)
			continue
		}
		outputs, err := arguments(f.outputs)
		if err != nil {
			return nil, err
		}
		parsed.Methods[f.name] = abi.NewMethod(
			f.name, f.name, abi.Function, f.mutability,
			f.mutability == view, f.mutability == payable,
			inputs, outputs,
		)
	}
	return parsed, nil
}

func mustABI(fragments ...fragment) *abi.ABI {
	parsed, err := newABI(fragments...)
	if err != nil {
		panic(err)
	}
	return parsed
}

// FeesManager is the credit ledger on EVMx
var FeesManager = mustABI(
	fn("getAvailableCredits", view, args("address"), "uint256"),
	fn("wrap", payable, args("address")),
)

// FeesPlug is the fee deposit contract on execution chains
var FeesPlug = mustABI(
	fn("depositCreditAndNative", nonpayable, args("address", "address", "uint256")),
)

// TestToken is the mintable ERC20 used to fund credits
var TestToken = mustABI(
	fn("mint", nonpayable, args("address", "uint256")),
	fn("approve", nonpayable, args("address", "uint256"), "bool"),
)

// AppGateway holds the functions every gateway inherits from the platform base contract
var AppGateway = mustABI(
	fn("deployContracts", nonpayable, args("uint32")),
	fn("forwarderAddresses", view, args("bytes32", "uint32"), "address"),
	fn("getOnChainAddress", view, args("bytes32", "uint32"), "address"),
	fn("withdrawCredits", nonpayable, args("uint32", "address", "uint256", "address")),
	fn("transferCredits", nonpayable, args("address", "uint256")),
	fn("increaseFees", nonpayable, args("uint40", "uint256")),
)

// WriteGateway drives multi-chain writes
var WriteGateway = mustABI(
	fn("numberOfRequests", view, nil, "uint256"),
	fn("triggerSequentialWrite", nonpayable, args("address")),
	fn("triggerParallelWrite", nonpayable, args("address")),
	fn("triggerAltWrite", nonpayable, args("address", "address")),
)

// ReadGateway drives multi-chain reads
var ReadGateway = mustABI(
	fn("numberOfRequests", view, nil, "uint256"),
	fn("triggerParallelRead", nonpayable, args("address")),
	fn("triggerAltRead", nonpayable, args("address", "address")),
)

// TriggerGateway and TriggerOnchain drive on-chain to EVMx propagation
var (
	TriggerGateway = mustABI(
		fn("valueOnGateway", view, nil, "uint256"),
		fn("updateOnchain", nonpayable, args("uint32")),
	)
	TriggerOnchain = mustABI(
		fn("increaseOnGateway", nonpayable, args("uint256")),
		fn("propagateToAnother", nonpayable, args("uint32")),
		fn("value", view, nil, "uint256"),
	)
)

// UploadGateway and Counter drive the upload scenario
var (
	UploadGateway = mustABI(
		fn("uploadToEVMx", nonpayable, args("address", "uint32")),
		fn("read", nonpayable, nil),
	)
	Counter = mustABI(
		fn("increment", nonpayable, nil),
	)
)

// ScheduleGateway drives timed callbacks
var ScheduleGateway = mustABI(
	fn("schedulesInSeconds", view, args("uint256"), "uint256"),
	fn("triggerSchedules", nonpayable, nil),
	event("ScheduleResolved", "uint256", "uint256", "uint256"),
)

// RevertGateway triggers on-chain and callback reverts
var RevertGateway = mustABI(
	fn("testOnChainRevert", nonpayable, args("uint32")),
	fn("testCallbackRevertWrongInputArgs", nonpayable, args("uint32")),
)

// DeploymentGateway validates the deployment matrix
var DeploymentGateway = mustABI(
	fn("contractValidation", nonpayable, args("uint32")),
)

// ContractIDGetter returns an ABI with the bytes32 id getter named after a
// gateway contract slot, plus the forwarder and on-chain address lookups.
func ContractIDGetter(contractName string) (*abi.ABI, error) {
	return newABI(
		fn(contractName, view, nil, "bytes32"),
		fn("forwarderAddresses", view, args("bytes32", "uint32"), "address"),
		fn("getOnChainAddress", view, args("bytes32", "uint32"), "address"),
	)
}
