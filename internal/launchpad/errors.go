package launchpad

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/Mohsinsiddi/launchpad/internal/backend"
	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
)

// FallbackMessage is shown when no failure detail can be extracted.
const FallbackMessage = "Something went wrong"

// Kind classifies why an action failed.
type Kind string

const (
	KindRevert   Kind = "revert"
	KindNetwork  Kind = "network"
	KindRejected Kind = "rejected"
	KindUnknown  Kind = "unknown"
)

// ActionError is the normalized failure of an orchestrated action.
type ActionError struct {
	Op      Op
	Kind    Kind
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return string(e.Op) + ": " + e.Message
}

func (e *ActionError) Unwrap() error { return e.Err }

var rejectionPhrases = []string{"user denied", "user rejected", "rejected by user"}

// Normalize maps any failure from the chain, the contract bindings or the
// backend to an *ActionError. Errors that already are ActionErrors pass through.
func Normalize(op Op, err error) *ActionError {
	if err == nil {
		return nil
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		if ae.Op == "" {
			cp := *ae
			cp.Op = op
			return &cp
		}
		return ae
	}

	out := &ActionError{Op: op, Kind: KindUnknown, Err: err}
	var (
		revErr  *contract.RevertError
		rcptErr *chain.ReceiptError
		apiErr  *backend.APIError
		rpcErr  *chain.RPCError
		netErr  net.Error
		urlErr  *url.Error
	)
	lower := strings.ToLower(err.Error())

	switch {
	case errors.As(err, &revErr):
		out.Kind = KindRevert
		out.Message = revErr.Reason
	case errors.As(err, &rcptErr):
		out.Kind = KindRevert
		out.Message = rcptErr.Error()
	case containsAny(lower, rejectionPhrases):
		out.Kind = KindRejected
		out.Message = err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		errors.As(err, &netErr), errors.As(err, &urlErr):
		out.Kind = KindNetwork
		out.Message = err.Error()
	case errors.As(err, &apiErr):
		out.Message = apiErr.Error()
	case errors.As(err, &rpcErr):
		if rpcErr.IsRevert() {
			out.Kind = KindRevert
		}
		out.Message = rpcErr.Message
	default:
		out.Message = err.Error()
	}
	if strings.TrimSpace(out.Message) == "" {
		out.Message = FallbackMessage
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
