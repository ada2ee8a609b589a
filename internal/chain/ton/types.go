// Package ton implements the Ton chain mapper and
// Provider.
package ton

const transOrdType = "TransOrd"

// Message is one in/out message attached to a Ton transaction.
type Message struct {
	Type string // "int_msg" | "ext_in_msg" | "ext_out_msg"
	Source string
	Destination string
	Value string // decimal string, nanotons
	OpCode string // "0x00000000" (simple transfer) or empty
	Comment string
	DecodedText string // decoded_body.text, when present (decoded_body.comment is folded into Comment)
}

// Tx is one decoded Ton transaction.
type Tx struct {
	Hash string
	TransactionType string // must equal "TransOrd" to be considered
	InMessage *Message
	OutMessages []Message
	Fee string // decimal string, nanotons
}

// RawBlock is the raw chain payload for one Ton masterchain block.
type RawBlock struct {
	Transactions []Tx
}
