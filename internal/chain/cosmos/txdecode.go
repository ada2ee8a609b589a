package cosmos

import (
	"fmt"

	"github.com/gogo/protobuf/proto"

	"github.com/synnergy-network/walletd/internal/errs"
)

// decodeTxMessages decodes the sdk.tx.v1beta1.TxRaw envelope down to its
// body messages, recognizing only the Any type URLs the mapper understands.
// Unknown message types are kept as bare Msg{TypeURL:...} entries and
// dropped later by MapBlock; this function only ever returns errs.ErrProtocolDecode
// for bytes that aren't valid protobuf at all.
func decodeTxMessages(raw []byte) ([]Msg, error) {
	var txRaw txRawEnvelope
	if err := proto.Unmarshal(raw, &txRaw); err != nil {
		return nil, fmt.Errorf("cosmos: unmarshal TxRaw: %w", errs.ErrProtocolDecode)
	}

	var body txBody
	if err := proto.Unmarshal(txRaw.BodyBytes, &body); err != nil {
		return nil, fmt.Errorf("cosmos: unmarshal TxBody: %w", errs.ErrProtocolDecode)
	}

	msgs := make([]Msg, 0, len(body.Messages))
	for _, any := range body.Messages {
		msgs = append(msgs, decodeAny(any.TypeURL, any.Value))
	}
	return msgs, nil
}

// txRawEnvelope mirrors cosmos.tx.v1beta1.TxRaw's wire layout: field 1 is
// the raw (still-encoded) TxBody bytes.
type txRawEnvelope struct {
	BodyBytes []byte `protobuf:"bytes,1,opt,name=body_bytes"`
}

func (m *txRawEnvelope) Reset()         { *m = txRawEnvelope{} }
func (m *txRawEnvelope) String() string { return "" }
func (m *txRawEnvelope) ProtoMessage()  {}

// txBody mirrors cosmos.tx.v1beta1.TxBody's wire layout: field 1 is a
// repeated google.protobuf.Any.
type txBody struct {
	Messages []anyMsg `protobuf:"bytes,1,rep,name=messages"`
}

func (m *txBody) Reset()         { *m = txBody{} }
func (m *txBody) String() string { return "" }
func (m *txBody) ProtoMessage()  {}

// anyMsg mirrors google.protobuf.Any.
type anyMsg struct {
	TypeURL string `protobuf:"bytes,1,opt,name=type_url"`
	Value []byte `protobuf:"bytes,2,opt,name=value"`
}

func (m *anyMsg) Reset()         { *m = anyMsg{} }
func (m *anyMsg) String() string { return "" }
func (m *anyMsg) ProtoMessage()  {}

// decodeAny decodes the Any payload for the message types MapBlock
// recognizes; all other type URLs are returned with only TypeURL set so
// the mapper can drop them without failing the whole transaction.
func decodeAny(typeURL string, value []byte) Msg {
	switch typeURL {
	case msgSendTypeURL, msgThorchainSendTypeURL:
		var m msgSendWire
		if err := proto.Unmarshal(value, &m); err != nil {
			return Msg{TypeURL: typeURL}
		}
		coins := make([]Coin, 0, len(m.Amount))
		for _, c := range m.Amount {
			coins = append(coins, Coin{Denom: c.Denom, Amount: c.Amount})
		}
		return Msg{TypeURL: typeURL, FromAddress: m.FromAddress, ToAddress: m.ToAddress, Amount: coins}
	case msgWithdrawRewardTypeURL:
		var m msgWithdrawRewardWire
		if err := proto.Unmarshal(value, &m); err != nil {
			return Msg{TypeURL: typeURL}
		}
		return Msg{TypeURL: typeURL, DelegatorAddress: m.DelegatorAddress, ValidatorAddress: m.ValidatorAddress}
	default:
		return Msg{TypeURL: typeURL}
	}
}

// msgSendWire mirrors cosmos.bank.v1beta1.MsgSend (also Thorchain's
// types.MsgSend, which shares the field layout).
type msgSendWire struct {
	FromAddress string `protobuf:"bytes,1,opt,name=from_address"`
	ToAddress string `protobuf:"bytes,2,opt,name=to_address"`
	Amount []coinWire `protobuf:"bytes,3,rep,name=amount"`
}

func (m *msgSendWire) Reset()         { *m = msgSendWire{} }
func (m *msgSendWire) String() string { return "" }
func (m *msgSendWire) ProtoMessage()  {}

type coinWire struct {
	Denom string `protobuf:"bytes,1,opt,name=denom"`
	Amount string `protobuf:"bytes,2,opt,name=amount"`
}

func (m *coinWire) Reset()         { *m = coinWire{} }
func (m *coinWire) String() string { return "" }
func (m *coinWire) ProtoMessage()  {}

// msgWithdrawRewardWire mirrors cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward.
type msgWithdrawRewardWire struct {
	DelegatorAddress string `protobuf:"bytes,1,opt,name=delegator_address"`
	ValidatorAddress string `protobuf:"bytes,2,opt,name=validator_address"`
}

func (m *msgWithdrawRewardWire) Reset()         { *m = msgWithdrawRewardWire{} }
func (m *msgWithdrawRewardWire) String() string { return "" }
func (m *msgWithdrawRewardWire) ProtoMessage()  {}
