package bindings

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		name   string
		parsed *abi.ABI
		method string
		sig    string
	}{
		{"credits", FeesManager, "getAvailableCredits", "getAvailableCredits(address)"},
		{"deposit", FeesPlug, "depositCreditAndNative", "depositCreditAndNative(address,address,uint256)"},
		{"withdraw", AppGateway, "withdrawCredits", "withdrawCredits(uint32,address,uint256,address)"},
		{"increase fees", AppGateway, "increaseFees", "increaseFees(uint40,uint256)"},
		{"alt write", WriteGateway, "triggerAltWrite", "triggerAltWrite(address,address)"},
		{"upload", UploadGateway, "uploadToEVMx", "uploadToEVMx(address,uint32)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := tt.parsed.Methods[tt.method]
			require.True(t, ok)
			assert.Equal(t, selector(tt.sig), m.ID)
		})
	}
}

func TestPackAndUnpack(t *testing.T) {
	data, err := AppGateway.Pack("forwarderAddresses", [32]byte{1}, uint32(421614))
	require.NoError(t, err)
	assert.Equal(t, selector("forwarderAddresses(bytes32,uint32)"), data[:4])
	assert.Len(t, data, 4+64)

	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	out, err := AppGateway.Unpack("forwarderAddresses", common.LeftPadBytes(addr.Bytes(), 32))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, addr, out[0])
}

func TestScheduleResolvedEvent(t *testing.T) {
	ev, ok := ScheduleGateway.Events["ScheduleResolved"]
	require.True(t, ok)
	assert.Equal(t, crypto.Keccak256Hash([]byte("ScheduleResolved(uint256,uint256,uint256)")), ev.ID)

	payload, err := ev.Inputs.Pack(big.NewInt(1), big.NewInt(100), big.NewInt(160))
	require.NoError(t, err)

	values, err := ev.Inputs.Unpack(payload)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, int64(160), values[2].(*big.Int).Int64())
}

func TestContractIDGetter(t *testing.T) {
	parsed, err := ContractIDGetter("multichain")
	require.NoError(t, err)

	m, ok := parsed.Methods["multichain"]
	require.True(t, ok)
	assert.True(t, m.IsConstant())
	assert.Equal(t, selector("multichain()"), m.ID)
	assert.Contains(t, parsed.Methods, "forwarderAddresses")
	assert.Contains(t, parsed.Methods, "getOnChainAddress")
}
