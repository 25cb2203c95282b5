// Package command recognises the direct transaction commands a chat user can type,
// such as "receive PO1001" or "approve bill 42".
package command

import (
	"regexp"
	"strings"
)

// Kind is a transaction type that can be approved from chat.
type Kind int

const (
	PurchaseOrder Kind = iota
	VendorBill
	JournalEntry
)

// KindConfig describes how a Kind is stored and shown.
type KindConfig struct {
	TypeCode    string
	DisplayName string
	HasEntity   bool
}

var kindConfigs = [...]KindConfig{
	PurchaseOrder: {TypeCode: "PurchOrd", DisplayName: "Purchase Order", HasEntity: true},
	VendorBill:    {TypeCode: "VendBill", DisplayName: "Vendor Bill", HasEntity: true},
	JournalEntry:  {TypeCode: "Journal", DisplayName: "Journal Entry", HasEntity: false},
}

func (k Kind) Config() KindConfig {
	return kindConfigs[k]
}

func (k Kind) String() string {
	switch k {
	case PurchaseOrder:
		return "purchase_order"
	case VendorBill:
		return "vendor_bill"
	case JournalEntry:
		return "journal_entry"
	default:
		return "unknown"
	}
}

// Action is what a command asks for.
type Action int

const (
	Receive Action = iota
	Approve
)

func (a Action) String() string {
	if a == Receive {
		return "receive"
	}
	return "approve"
}

// Command is a parsed transaction command. Number is the document number as typed.
type Command struct {
	Action Action
	Kind   Kind
	Number string
	Tag    string
}

// IsPurchaseOrderApproval reports whether the command takes the dedicated PO approval path.
func (c Command) IsPurchaseOrderApproval() bool {
	return c.Action == Approve && c.Kind == PurchaseOrder
}

type rule struct {
	action  Action
	pattern *regexp.Regexp
}

// Rules are evaluated in order and the first match wins. Longer tag alternatives come
// first so "journal entry 5" captures "5" rather than "entry".
var rules = []rule{
	{action: Receive, pattern: regexp.MustCompile(`(?i)receive\s+(purchase\s+order|po)\s*(\w+)`)},
	{action: Approve, pattern: regexp.MustCompile(`(?i)approve\s+(purchase\s+order|po|vendor\s+bill|bill|journal\s+entry|journal)\s*(\w+)`)},
}

var tagKinds = map[string]Kind{
	"po":             PurchaseOrder,
	"purchase order": PurchaseOrder,
	"bill":           VendorBill,
	"vendor bill":    VendorBill,
	"journal":        JournalEntry,
	"journal entry":  JournalEntry,
}

// NormalizeTag lower-cases tag and collapses whitespace runs to one space.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.Join(strings.Fields(tag), " "))
}

// Parse returns the first command found in input. Input that matches no rule is not
// a command and should be answered by the query pipeline.
func Parse(input string) (Command, bool) {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(input)
		if m == nil || m[2] == "" {
			continue
		}
		tag := NormalizeTag(m[1])
		kind, ok := tagKinds[tag]
		if !ok {
			continue
		}
		return Command{
			Action: r.action,
			Kind:   kind,
			Number: m[2],
			Tag:    tag,
		}, true
	}
	return Command{}, false
}
