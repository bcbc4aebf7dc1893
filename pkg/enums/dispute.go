package enums

import "fmt"

// DisputeReason enumerates why a party opened a dispute.
type DisputeReason string

const (
	DisputeReasonItemNotReceived    DisputeReason = "item_not_received"
	DisputeReasonItemNotAsDescribed DisputeReason = "item_not_as_described"
	DisputeReasonDamagedItem        DisputeReason = "damaged_item"
	DisputeReasonWrongItem          DisputeReason = "wrong_item"
	DisputeReasonSellerUnresponsive DisputeReason = "seller_unresponsive"
	DisputeReasonPaymentIssue       DisputeReason = "payment_issue"
	DisputeReasonOther              DisputeReason = "other"
)

var validDisputeReasons = []DisputeReason{
	DisputeReasonItemNotReceived,
	DisputeReasonItemNotAsDescribed,
	DisputeReasonDamagedItem,
	DisputeReasonWrongItem,
	DisputeReasonSellerUnresponsive,
	DisputeReasonPaymentIssue,
	DisputeReasonOther,
}

func (r DisputeReason) IsValid() bool {
	for _, candidate := range validDisputeReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseDisputeReason(value string) (DisputeReason, error) {
	for _, candidate := range validDisputeReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispute reason %q", value)
}

// RequestedAction is the remedy the disputing party asks for.
type RequestedAction string

const (
	RequestedActionRefund        RequestedAction = "refund"
	RequestedActionPartialRefund RequestedAction = "partial_refund"
	RequestedActionReplacement   RequestedAction = "replacement"
	RequestedActionReturn        RequestedAction = "return"
)

var validRequestedActions = []RequestedAction{
	RequestedActionRefund,
	RequestedActionPartialRefund,
	RequestedActionReplacement,
	RequestedActionReturn,
}

func (a RequestedAction) IsValid() bool {
	for _, candidate := range validRequestedActions {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseRequestedAction(value string) (RequestedAction, error) {
	for _, candidate := range validRequestedActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid requested action %q", value)
}
